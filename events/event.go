package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntityType 事件所描述的实体类别。
type EntityType string

const (
	EntityJob             EntityType = "job"
	EntityImageTask       EntityType = "image_task"
	EntityDescriptionTask EntityType = "description_task"
)

// Type 推送事件类型，保持与后端契约一致。
type Type string

const (
	TypeStart            Type = "START"
	TypeProgress         Type = "PROGRESS"
	TypeDone             Type = "DONE"
	TypeError            Type = "ERROR"
	TypeJobStatusChanged Type = "job_status_changed"
	TypeAlgorithmError   Type = "ALGORITHM_ERROR"
	TypeInfo             Type = "INFO"
	TypeWarning          Type = "WARNING"
	TypeSuccess          Type = "SUCCESS"
)

// Event 规范化后的推送事件（不可变）。
// 说明：由 Normalize 在边界处一次性构造；CreatedAt 保留线上原始字符串，
// 与 TraceID 一起构成去重键；ReceivedAt 为本地接收时间，仅用于展示排序。
type Event struct {
	JobID      string         `json:"job_id"`
	EntityType EntityType     `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Type       Type           `json:"event_type"`
	Level      string         `json:"level"`
	Progress   *int           `json:"progress,omitempty"`
	Message    string         `json:"message"`
	Payload    map[string]any `json:"payload,omitempty"`
	TraceID    string         `json:"trace_id"`
	CreatedAt  string         `json:"created_at"`
	ReceivedAt time.Time      `json:"-"`
}

// DedupKey 返回事件的去重键 (trace_id, created_at)。
func (e Event) DedupKey() string { return e.TraceID + "|" + e.CreatedAt }

// ParseEntityType 解析实体类别字符串，未知类别返回 false。
func ParseEntityType(s string) (EntityType, bool) {
	if knownEntity(s) {
		return EntityType(s), true
	}
	return "", false
}

// knownEntity 判断实体类别是否在契约范围内。
func knownEntity(s string) bool {
	switch EntityType(s) {
	case EntityJob, EntityImageTask, EntityDescriptionTask:
		return true
	}
	return false
}

// Normalize 将未经信任的推送报文规范化为 Event。
// 功能：在系统边界执行 reject-or-normalize——缺少必备字段（event_type、job_id）
// 或实体类别未知的报文直接拒绝，绝不让畸形数据越过边界。
// 参数：raw 为连接上收到的原始 JSON 字节。
// 返回：规范化事件与是否接受；拒绝时第二返回值为 false。
func Normalize(raw []byte) (Event, bool) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return Event{}, false
	}
	et, _ := m["event_type"].(string)
	jobID, _ := m["job_id"].(string)
	entity, _ := m["entity_type"].(string)
	if et == "" || jobID == "" || !knownEntity(entity) {
		return Event{}, false
	}

	ev := Event{
		JobID:      jobID,
		EntityType: EntityType(entity),
		Type:       Type(et),
		ReceivedAt: time.Now(),
	}
	ev.EntityID, _ = m["entity_id"].(string)
	ev.Level, _ = m["level"].(string)
	ev.Message, _ = m["message"].(string)
	ev.TraceID, _ = m["trace_id"].(string)
	ev.CreatedAt, _ = m["created_at"].(string)
	if p, ok := m["payload"].(map[string]any); ok {
		ev.Payload = p
	}
	// progress：缺失 -> nil（沿用旧值）；存在但非数值 -> 0。
	if v, present := m["progress"]; present && v != nil {
		n := 0
		if f, ok := v.(float64); ok {
			n = int(f)
		}
		ev.Progress = &n
	}
	// 无 trace_id 的事件补一个本地 ID，保证去重键始终有效。
	if ev.TraceID == "" {
		ev.TraceID = "local-" + uuid.NewString()
	}
	return ev, true
}
