package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/intellai/intell-client-go/intell"
)

// jobModel 作业历史表。
type jobModel struct {
	ID         uint      `gorm:"primaryKey"`
	JobID      string    `gorm:"uniqueIndex;column:job_id"`
	Status     string    `gorm:"index"`
	Progress   int       `gorm:"default:0"`
	SourceType string    `gorm:"column:source_type"`
	Message    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (jobModel) TableName() string { return "intell_jobs" }

// eventModel 事件归档表。(trace_id, created_at) 上的唯一索引承载去重键。
type eventModel struct {
	ID          uint   `gorm:"primaryKey"`
	JobID       string `gorm:"index;column:job_id"`
	EntityType  string `gorm:"column:entity_type"`
	EntityID    string `gorm:"column:entity_id"`
	EventType   string `gorm:"column:event_type"`
	Level       string
	HasProgress bool
	Progress    int
	Message     string    `gorm:"type:text"`
	TraceID     string    `gorm:"uniqueIndex:idx_event_dedup;column:trace_id"`
	CreatedAt   string    `gorm:"uniqueIndex:idx_event_dedup;column:created_at"`
	ReceivedAt  time.Time `gorm:"index"`
}

func (eventModel) TableName() string { return "intell_events" }

// stateModel 会话级 KV 表。
type stateModel struct {
	Key       string    `gorm:"primaryKey;column:state_key"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (stateModel) TableName() string { return "intell_state" }

// Store 基于 GORM 的 Storage 实现。
type Store struct{ db *gorm.DB }

// New 创建 Store，调用方应自行在外部执行
// AutoMigrate(&jobModel{}, &eventModel{}, &stateModel{}) 对应的迁移
// （可通过 Migrate 辅助方法）。
func New(db *gorm.DB) *Store { return &Store{db: db} }

// Migrate 执行全部表迁移。
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&jobModel{}, &eventModel{}, &stateModel{})
}

// UpsertJob 实现 Storage.UpsertJob。
func (s *Store) UpsertJob(ctx context.Context, rec *intell.JobRecord) error {
	m := toJobModel(rec)
	return s.db.WithContext(ctx).Where("job_id = ?", rec.JobID).Assign(map[string]any{
		"status":   m.Status,
		"progress": m.Progress,
		"message":  m.Message,
	}).FirstOrCreate(&m).Error
}

// GetJob 实现 Storage.GetJob。
func (s *Store) GetJob(ctx context.Context, jobID string) (*intell.JobRecord, error) {
	var m jobModel
	if err := s.db.WithContext(ctx).Where("job_id = ?", jobID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, intell.ErrNotFound
		}
		return nil, err
	}
	return fromJobModel(m), nil
}

// ListRecentJobs 实现 Storage.ListRecentJobs。
func (s *Store) ListRecentJobs(ctx context.Context, limit int) ([]intell.JobRecord, error) {
	var list []jobModel
	q := s.db.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]intell.JobRecord, 0, len(list))
	for _, m := range list {
		out = append(out, *fromJobModel(m))
	}
	return out, nil
}

// AppendEvent 实现 Storage.AppendEvent；去重键冲突时静默跳过。
func (s *Store) AppendEvent(ctx context.Context, rec *intell.EventRecord) error {
	m := toEventModel(rec)
	if m.ReceivedAt.IsZero() {
		m.ReceivedAt = time.Now()
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error
}

// ListEvents 实现 Storage.ListEvents。
func (s *Store) ListEvents(ctx context.Context, jobID string, limit int) ([]intell.EventRecord, error) {
	var list []eventModel
	q := s.db.WithContext(ctx).Where("job_id = ?", jobID).Order("received_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]intell.EventRecord, 0, len(list))
	for _, m := range list {
		out = append(out, *fromEventModel(m))
	}
	return out, nil
}

// SaveState 实现 Storage.SaveState。
func (s *Store) SaveState(ctx context.Context, key, value string) error {
	m := stateModel{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
}

// LoadState 实现 Storage.LoadState。
func (s *Store) LoadState(ctx context.Context, key string) (string, error) {
	var m stateModel
	if err := s.db.WithContext(ctx).Where("state_key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", intell.ErrNotFound
		}
		return "", err
	}
	return m.Value, nil
}

func toJobModel(r *intell.JobRecord) jobModel {
	return jobModel{ID: r.ID, JobID: r.JobID, Status: r.Status, Progress: r.Progress, SourceType: r.SourceType, Message: r.Message, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

func fromJobModel(m jobModel) *intell.JobRecord {
	return &intell.JobRecord{ID: m.ID, JobID: m.JobID, Status: m.Status, Progress: m.Progress, SourceType: m.SourceType, Message: m.Message, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func toEventModel(r *intell.EventRecord) eventModel {
	return eventModel{ID: r.ID, JobID: r.JobID, EntityType: r.EntityType, EntityID: r.EntityID, EventType: r.EventType, Level: r.Level, HasProgress: r.HasProgress, Progress: r.Progress, Message: r.Message, TraceID: r.TraceID, CreatedAt: r.CreatedAt, ReceivedAt: r.ReceivedAt}
}

func fromEventModel(m eventModel) *intell.EventRecord {
	return &intell.EventRecord{ID: m.ID, JobID: m.JobID, EntityType: m.EntityType, EntityID: m.EntityID, EventType: m.EventType, Level: m.Level, HasProgress: m.HasProgress, Progress: m.Progress, Message: m.Message, TraceID: m.TraceID, CreatedAt: m.CreatedAt, ReceivedAt: m.ReceivedAt}
}
