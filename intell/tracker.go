package intell

import (
	"context"
	"sort"
	"sync"
)

// watchSession 单个作业的观察会话及其取消句柄。
type watchSession struct {
	watcher *Watcher
	cancel  context.CancelFunc
}

// Tracker 多作业观察会话注册表。
// 功能：为每个被关注的作业维护独立的 Watcher 与生命周期，
// 重复关注同一作业时复用既有会话。
type Tracker struct {
	mu      sync.RWMutex
	newW    func() *Watcher
	running map[string]*watchSession
}

// NewTracker 构造注册表；newWatcher 为会话工厂（每个作业一个 Watcher）。
func NewTracker(newWatcher func() *Watcher) *Tracker {
	return &Tracker{newW: newWatcher, running: make(map[string]*watchSession)}
}

// Track 开始关注作业；已在关注中则返回既有 Watcher。
func (t *Tracker) Track(ctx context.Context, jobID string) *Watcher {
	t.mu.Lock()
	if s, ok := t.running[jobID]; ok {
		t.mu.Unlock()
		return s.watcher
	}
	ctx, cancel := context.WithCancel(ctx)
	w := t.newW()
	t.running[jobID] = &watchSession{watcher: w, cancel: cancel}
	t.mu.Unlock()

	w.Watch(ctx, jobID)
	return w
}

// Untrack 结束对作业的关注（幂等）。
func (t *Tracker) Untrack(jobID string) bool {
	t.mu.Lock()
	s, ok := t.running[jobID]
	delete(t.running, jobID)
	t.mu.Unlock()
	if !ok {
		return false
	}
	s.cancel()
	s.watcher.Stop()
	return true
}

// Get 返回作业对应的 Watcher。
func (t *Tracker) Get(jobID string) (*Watcher, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.running[jobID]
	if !ok {
		return nil, false
	}
	return s.watcher, true
}

// JobIDs 返回当前关注中的作业 ID（字典序）。
func (t *Tracker) JobIDs() []string {
	t.mu.RLock()
	ids := make([]string, 0, len(t.running))
	for id := range t.running {
		ids = append(ids, id)
	}
	t.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Shutdown 结束全部会话。
func (t *Tracker) Shutdown() {
	t.mu.Lock()
	sessions := t.running
	t.running = make(map[string]*watchSession)
	t.mu.Unlock()
	for _, s := range sessions {
		s.cancel()
		s.watcher.Stop()
	}
}
