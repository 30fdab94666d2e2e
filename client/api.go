package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// API 定义与 Intell.AI 后端的交互接口，便于 gomock 打桩。
// 功能：封装作业创建/查询/取消、图像任务更新与发布、AI 描述生成等端点。
type API interface {
	CreateJob(ctx context.Context, req CreateJobReq) (CreateJobResp, error)
	GetJob(ctx context.Context, jobID string) (Job, error)
	CancelJob(ctx context.Context, jobID string) error
	UpdateImageTask(ctx context.Context, taskID string, upd ImageTaskUpdate) (ImageTask, error)
	PublishImageTask(ctx context.Context, taskID string, publish bool) (PublishResp, error)
	RequestDescription(ctx context.Context, req DescribeReq) (DescribeResp, error)
	GetDescriptionTask(ctx context.Context, taskID string) (DescriptionTask, error)
}

// httpAPI 实现 API。
type httpAPI struct {
	base string
	hc   *http.Client
}

// NewHTTPAPI 构造 HTTP 实现。
// 参数：base 为 API 基础路径（如 https://api.intell.example/v1）；
// timeout<=0 时使用默认 15s。
func NewHTTPAPI(base string, timeout time.Duration) API {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpAPI{base: strings.TrimRight(base, "/"), hc: &http.Client{Timeout: timeout}}
}

// CreateJob 以 multipart 表单创建作业。
func (h *httpAPI) CreateJob(ctx context.Context, req CreateJobReq) (CreateJobResp, error) {
	var out CreateJobResp
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("source_type", req.SourceType); err != nil {
		return out, err
	}
	name := req.SourceName
	if name == "" {
		name = "dataset"
	}
	fw, err := mw.CreateFormFile("source_data", name)
	if err != nil {
		return out, err
	}
	if req.SourceData != nil {
		if _, err := io.Copy(fw, req.SourceData); err != nil {
			return out, err
		}
	}
	images, err := json.Marshal(req.Images)
	if err != nil {
		return out, err
	}
	if err := mw.WriteField("images", string(images)); err != nil {
		return out, err
	}
	if err := mw.WriteField("idempotency_key", req.IdempotencyKey); err != nil {
		return out, err
	}
	if req.VisualizationConfig != nil {
		vc, err := json.Marshal(req.VisualizationConfig)
		if err != nil {
			return out, err
		}
		if err := mw.WriteField("visualization_config", string(vc)); err != nil {
			return out, err
		}
	}
	if err := mw.Close(); err != nil {
		return out, err
	}

	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, h.base+"/jobs/", body)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	err = h.do(httpReq, &out)
	return out, err
}

// GetJob 拉取作业完整表示。
func (h *httpAPI) GetJob(ctx context.Context, jobID string) (Job, error) {
	var out Job
	err := h.get(ctx, h.base+"/jobs/"+jobID+"/", &out)
	return out, err
}

// CancelJob 请求取消作业；后端无响应体。
func (h *httpAPI) CancelJob(ctx context.Context, jobID string) error {
	return h.post(ctx, h.base+"/jobs/"+jobID+"/cancel/", nil, nil)
}

// UpdateImageTask 局部更新图像任务（标题/描述/分组/标签）。
func (h *httpAPI) UpdateImageTask(ctx context.Context, taskID string, upd ImageTaskUpdate) (ImageTask, error) {
	var out ImageTask
	b, err := json.Marshal(upd)
	if err != nil {
		return out, err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPatch, h.base+"/image-tasks/"+taskID+"/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	err = h.do(req, &out)
	return out, err
}

// PublishImageTask 发布或撤回图像任务到作品库。
func (h *httpAPI) PublishImageTask(ctx context.Context, taskID string, publish bool) (PublishResp, error) {
	var out PublishResp
	err := h.post(ctx, h.base+"/image-tasks/"+taskID+"/publish/", map[string]bool{"publish": publish}, &out)
	return out, err
}

// RequestDescription 提交 AI 描述生成请求。
func (h *httpAPI) RequestDescription(ctx context.Context, req DescribeReq) (DescribeResp, error) {
	var out DescribeResp
	err := h.post(ctx, h.base+"/ai/describe/", req, &out)
	return out, err
}

// GetDescriptionTask 查询描述任务进度与结果。
func (h *httpAPI) GetDescriptionTask(ctx context.Context, taskID string) (DescriptionTask, error) {
	var out DescriptionTask
	err := h.get(ctx, h.base+"/description-tasks/"+taskID+"/", &out)
	return out, err
}

// get 执行 GET 请求并解码 JSON。
func (h *httpAPI) get(ctx context.Context, url string, out any) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	return h.do(req, out)
}

// post 执行 POST 请求并可选解码响应。
func (h *httpAPI) post(ctx context.Context, url string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.do(req, out)
}

// do 发送请求；非 2xx 时抽取可读错误消息并包装为 *APIError。
func (h *httpAPI) do(req *http.Request, out any) error {
	res, err := h.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		b, _ := io.ReadAll(res.Body)
		return &APIError{StatusCode: res.StatusCode, Message: ExtractMessage(b)}
	}
	if out == nil {
		return nil
	}
	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
