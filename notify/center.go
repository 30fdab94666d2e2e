package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intellai/intell-client-go/logging"
)

// Level 通知级别。
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification 一条用户侧通知（请求失败、任务失败、作业完结等）。
type Notification struct {
	ID        string
	Level     Level
	Title     string
	Message   string
	JobID     string
	CreatedAt time.Time
	Read      bool
}

// Center 有界通知中心。
// 功能：Push 非阻塞；超出容量时丢弃最旧条目并告警；维护未读计数。
// 网络/调和路径上的错误经由这里转为用户可见通知，绝不上抛打断渲染。
type Center struct {
	mu    sync.RWMutex
	max   int
	items []Notification
}

// NewCenter 创建通知中心。max<=0 时使用默认容量 100。
func NewCenter(max int) *Center {
	if max <= 0 {
		max = 100
	}
	return &Center{max: max}
}

// Push 追加一条通知（最新在前）。ID/CreatedAt 缺省时自动补齐。
func (c *Center) Push(n Notification) Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Level == "" {
		n.Level = LevelInfo
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]Notification{n}, c.items...)
	if len(c.items) > c.max {
		dropped := c.items[len(c.items)-1]
		c.items = c.items[:c.max]
		logging.L().Debug(context.Background(), "notification center full, dropping oldest", "id", dropped.ID)
	}
	return n
}

// List 返回通知副本（最新在前）。
func (c *Center) List() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Unread 未读条数。
func (c *Center) Unread() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, it := range c.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// MarkRead 将指定通知标记为已读；不存在返回 false。
func (c *Center) MarkRead(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead 全部标记为已读。
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}
