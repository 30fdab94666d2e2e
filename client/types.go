package client

import (
	"io"
	"time"
)

// 以下类型对应 Intell.AI 后端的请求/响应契约，字段命名与接口文档一致。

// ImageSpec 单个可视化输出的生成配置，序列化进建任务表单的 images 字段。
type ImageSpec struct {
	AlgorithmKey     string         `json:"algorithm_key"`
	AlgorithmVersion string         `json:"algorithm_version"`
	Params           map[string]any `json:"params"`
	OutputFormat     string         `json:"output_format"`
}

// CreateJobReq 建任务请求（multipart 表单）。
// SourceData 为数据集文件内容；SourceName 仅作为表单文件名，不参与持久化。
type CreateJobReq struct {
	SourceType          string
	SourceName          string
	SourceData          io.Reader
	Images              []ImageSpec
	IdempotencyKey      string
	VisualizationConfig map[string]any
}

// CreateJobResp 建任务响应。
type CreateJobResp struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Job 作业完整表示（GET /jobs/{id}/）。
type Job struct {
	ID         string      `json:"id"`
	Status     string      `json:"status"`
	SourceType string      `json:"source_type"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Images     []ImageTask `json:"images"`
	Events     []JobEvent  `json:"events,omitempty"`
	Progress   int         `json:"progress"`
	Message    string      `json:"message,omitempty"`
}

// ImageTask 作业内单个算法/输出单元。
type ImageTask struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	Progress        int        `json:"progress"`
	Title           string     `json:"title,omitempty"`
	UserDescription string     `json:"user_description,omitempty"`
	Group           string     `json:"group,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	OutputURL       string     `json:"output_url,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	IsPublished     bool       `json:"is_published"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// JobEvent 作业表示中内嵌的历史事件（线上形态）。
type JobEvent struct {
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	EventType  string         `json:"event_type"`
	Level      string         `json:"level"`
	Progress   *int           `json:"progress,omitempty"`
	Message    string         `json:"message"`
	Payload    map[string]any `json:"payload,omitempty"`
	TraceID    string         `json:"trace_id"`
	CreatedAt  string         `json:"created_at"`
}

// ImageTaskUpdate 图像任务的局部更新（PATCH）；nil 字段不出现在请求体中。
type ImageTaskUpdate struct {
	Title           *string   `json:"title,omitempty"`
	UserDescription *string   `json:"user_description,omitempty"`
	Group           *string   `json:"group,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
}

// PublishResp 发布/撤回响应。
type PublishResp struct {
	ID          string     `json:"id"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Message     string     `json:"message"`
}

// DescribeReq AI 描述生成请求。
type DescribeReq struct {
	ImageTaskID        string `json:"image_task_id"`
	UserContext        string `json:"user_context"`
	ProviderPreference string `json:"provider_preference,omitempty"`
	ModelPreference    string `json:"model_preference,omitempty"`
}

// DescribeResp AI 描述生成受理响应。
type DescribeResp struct {
	DescriptionTaskID string `json:"description_task_id"`
	Status            string `json:"status"`
	Message           string `json:"message"`
	JobID             string `json:"job_id"`
}

// DescriptionTask 描述任务状态（GET /description-tasks/{id}/）。
type DescriptionTask struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	ResultText   string `json:"result_text"`
	ProviderUsed string `json:"provider_used"`
	ModelUsed    string `json:"model_used"`
	ErrorMessage string `json:"error_message"`
}
