package intell

import (
	"context"
	"sync"
	"time"
)

// inMemoryStore 是包内置的线程安全内存存储，仅用于默认与测试场景。
// 设计：为了避免 import cycle，不依赖外部子包，实现最小的 Storage 接口。
type inMemoryStore struct {
	mu     sync.RWMutex
	jobs   map[string]*JobRecord
	events []EventRecord
	seen   map[string]struct{}
	state  map[string]string
}

// newDefaultMemStore 创建内置内存存储实现。
func newDefaultMemStore() Storage {
	return &inMemoryStore{
		jobs:  map[string]*JobRecord{},
		seen:  map[string]struct{}{},
		state: map[string]string{},
	}
}

func (s *inMemoryStore) UpsertJob(ctx context.Context, rec *JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	if old, ok := s.jobs[rec.JobID]; ok {
		cp.ID = old.ID
		cp.CreatedAt = old.CreatedAt
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}
	s.jobs[rec.JobID] = &cp
	return nil
}

func (s *inMemoryStore) GetJob(ctx context.Context, jobID string) (*JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.jobs[jobID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *inMemoryStore) ListRecentJobs(ctx context.Context, limit int) ([]JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]JobRecord, 0, len(s.jobs))
	for _, v := range s.jobs {
		out = append(out, *v)
	}
	// 按更新时间倒序，简单插入排序即可（本地历史量级很小）。
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].UpdatedAt.After(out[j-1].UpdatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *inMemoryStore) AppendEvent(ctx context.Context, rec *EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rec.TraceID + "|" + rec.CreatedAt
	if _, dup := s.seen[key]; dup {
		return nil
	}
	s.seen[key] = struct{}{}
	cp := *rec
	if cp.ReceivedAt.IsZero() {
		cp.ReceivedAt = time.Now()
	}
	s.events = append(s.events, cp)
	return nil
}

func (s *inMemoryStore) ListEvents(ctx context.Context, jobID string, limit int) ([]EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EventRecord, 0)
	for _, e := range s.events {
		if e.JobID == jobID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *inMemoryStore) SaveState(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = value
	return nil
}

func (s *inMemoryStore) LoadState(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.state[key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}
