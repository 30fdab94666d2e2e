package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/intellai/intell-client-go/intell"
)

// Store 是一个线程安全的内存实现，仅用于开发/轻量场景。
type Store struct {
	mu     sync.RWMutex
	jobs   map[string]*intell.JobRecord
	events []intell.EventRecord
	seen   map[string]struct{}
	state  map[string]string
}

// New 创建内存存储。
func New() *Store {
	return &Store{
		jobs:  map[string]*intell.JobRecord{},
		seen:  map[string]struct{}{},
		state: map[string]string{},
	}
}

func (s *Store) UpsertJob(ctx context.Context, rec *intell.JobRecord) error {
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

func (s *Store) GetJob(ctx context.Context, jobID string) (*intell.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.jobs[jobID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, intell.ErrNotFound
}

func (s *Store) ListRecentJobs(ctx context.Context, limit int) ([]intell.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]intell.JobRecord, 0, len(s.jobs))
	for _, v := range s.jobs {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AppendEvent(ctx context.Context, rec *intell.EventRecord) error {
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

func (s *Store) ListEvents(ctx context.Context, jobID string, limit int) ([]intell.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]intell.EventRecord, 0)
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

func (s *Store) SaveState(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = value
	return nil
}

func (s *Store) LoadState(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.state[key]; ok {
		return v, nil
	}
	return "", intell.ErrNotFound
}
