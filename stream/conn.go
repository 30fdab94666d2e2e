package stream

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/intellai/intell-client-go/logging"
)

// Status 推送通道的粗粒度健康状态。
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusFailed       Status = "failed"
)

// Degraded 判断该状态下是否应启用轮询回退。
func (s Status) Degraded() bool { return s == StatusFailed || s == StatusDisconnected }

// Handler 接收一条已通过最小校验（含 event_type 字段）的原始报文。
type Handler func(raw []byte)

// StatusFunc 状态变更回调。
type StatusFunc func(Status)

// Conn 管理单个作业的推送连接生命周期。
// 功能：建连前等待固定去抖窗口（折叠快速重挂载）；onOpen -> connected、
// onError -> failed、onClose 仅在曾经 connected 时 -> disconnected；
// Close 幂等，取消未触发的去抖定时器并关闭连接，此后不再回调。
type Conn struct {
	base     string
	jobID    string
	debounce time.Duration
	dialer   *websocket.Dialer
	handler  Handler
	onStatus StatusFunc

	mu     sync.Mutex
	ws     *websocket.Conn
	timer  *time.Timer
	closed bool
	opened bool
	status Status
}

// New 创建连接管理器。
// 参数：base 为推送通道基础地址（ws:// 或 wss://，可不带末尾斜杠）；
// jobID 作业 ID；debounce 建连去抖窗口；h 报文回调；onStatus 状态回调（可为 nil）。
func New(base, jobID string, debounce time.Duration, h Handler, onStatus StatusFunc) *Conn {
	return &Conn{
		base:     strings.TrimRight(base, "/"),
		jobID:    jobID,
		debounce: debounce,
		dialer:   websocket.DefaultDialer,
		handler:  h,
		onStatus: onStatus,
		status:   StatusConnecting,
	}
}

// URL 返回该作业对应的推送通道地址 {base}/jobs/{id}/。
func (c *Conn) URL() string { return c.base + "/jobs/" + c.jobID + "/" }

// Start 调度建连：等待去抖窗口后拨号并进入读循环。
// 生命周期受 ctx 控制，ctx.Done 等价于 Close。
func (c *Conn) Start(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.timer != nil {
		c.mu.Unlock()
		return
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.dial(ctx) })
	c.mu.Unlock()
	go func() {
		<-ctx.Done()
		c.Close()
	}()
}

// Status 返回当前连接健康状态。
func (c *Conn) Status() Status { c.mu.Lock(); defer c.mu.Unlock(); return c.status }

// Close 幂等关闭：取消去抖定时器并断开连接；此后不再触发任何回调。
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	ws := c.ws
	c.mu.Unlock()
	if ws != nil {
		_ = ws.Close()
	}
}

// dial 去抖窗口结束后的实际拨号与读循环。
func (c *Conn) dial(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	ws, _, err := c.dialer.DialContext(ctx, c.URL(), nil)
	if err != nil {
		logging.L().Warn(ctx, "push channel dial failed", "job_id", c.jobID, "err", err)
		c.setStatus(StatusFailed)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = ws.Close()
		return
	}
	c.ws = ws
	c.opened = true
	c.mu.Unlock()
	c.setStatus(StatusConnected)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			wasOpen := c.opened
			c.mu.Unlock()
			if closed {
				return
			}
			// 从未 connected 的通道不得直接翻到 disconnected。
			if wasOpen {
				c.setStatus(StatusDisconnected)
			} else {
				c.setStatus(StatusFailed)
			}
			return
		}
		if !hasEventType(raw) {
			logging.L().Debug(ctx, "push message without event_type, dropped", "job_id", c.jobID)
			continue
		}
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}
		if c.handler != nil {
			c.handler(raw)
		}
	}
}

// setStatus 记录状态并回调（Close 之后静默）。
func (c *Conn) setStatus(st Status) {
	c.mu.Lock()
	if c.closed || c.status == st {
		c.mu.Unlock()
		return
	}
	c.status = st
	fn := c.onStatus
	c.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}

// hasEventType 入站报文的最小校验：必须至少包含 event_type 字段。
func hasEventType(raw []byte) bool {
	var probe struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.EventType != ""
}
