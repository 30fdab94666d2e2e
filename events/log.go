package events

import "sync"

// Log 追加式活动日志（Activity Log）。
// 功能：按到达顺序保存规范化事件供界面展示；以 (trace_id, created_at)
// 去重，重复事件为 no-op；超出容量时淘汰最旧条目。
type Log struct {
	mu    sync.RWMutex
	max   int
	seen  map[string]struct{}
	items []Event
}

// NewLog 创建活动日志。max<=0 时使用默认容量 500。
func NewLog(max int) *Log {
	if max <= 0 {
		max = 500
	}
	return &Log{max: max, seen: make(map[string]struct{}, max)}
}

// Append 追加一条事件。
// 返回：true 表示已写入；false 表示按去重键命中重复、被丢弃。
func (l *Log) Append(ev Event) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ev.DedupKey()
	if _, dup := l.seen[key]; dup {
		return false
	}
	l.seen[key] = struct{}{}
	l.items = append(l.items, ev)
	if len(l.items) > l.max {
		evicted := l.items[0]
		delete(l.seen, evicted.DedupKey())
		l.items = l.items[1:]
	}
	return true
}

// Items 返回事件切片副本（到达顺序）。
func (l *Log) Items() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.items))
	copy(out, l.items)
	return out
}

// Len 当前条目数。
func (l *Log) Len() int { l.mu.RLock(); defer l.mu.RUnlock(); return len(l.items) }
