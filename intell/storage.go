package intell

import (
	"context"
	"errors"
	"time"
)

// JobRecord 本地作业历史实体（最小字段集），供图库/历史视图列出最近作业。
type JobRecord struct {
	ID         uint
	JobID      string
	Status     string
	Progress   int
	SourceType string
	Message    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EventRecord 事件归档实体。CreatedAt 保留线上原始字符串，
// 与 TraceID 构成去重键；重复写入应为 no-op。
type EventRecord struct {
	ID          uint
	JobID       string
	EntityType  string
	EntityID    string
	EventType   string
	Level       string
	HasProgress bool
	Progress    int
	Message     string
	TraceID     string
	CreatedAt   string
	ReceivedAt  time.Time
}

// Storage 持久化接口（可由宿主实现或使用内置 gormstore/memstore）。
type Storage interface {
	// UpsertJob 插入或按 jobID 更新作业历史记录。
	UpsertJob(ctx context.Context, rec *JobRecord) error
	// GetJob 按 jobID 获取记录。
	GetJob(ctx context.Context, jobID string) (*JobRecord, error)
	// ListRecentJobs 按更新时间倒序列出最近作业。
	ListRecentJobs(ctx context.Context, limit int) ([]JobRecord, error)
	// AppendEvent 归档一条事件；(trace_id, created_at) 重复时为 no-op。
	AppendEvent(ctx context.Context, rec *EventRecord) error
	// ListEvents 按接收顺序列出某作业的归档事件。
	ListEvents(ctx context.Context, jobID string, limit int) ([]EventRecord, error)
	// SaveState 写入会话级 KV 条目（向导状态、视图偏好等）。
	SaveState(ctx context.Context, key, value string) error
	// LoadState 读取 KV 条目；缺失返回 ErrNotFound。
	LoadState(ctx context.Context, key string) (string, error)
}

// ErrNotFound 记录不存在。
var ErrNotFound = errors.New("not found")
