package intell

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/intellai/intell-client-go/client"
	"github.com/intellai/intell-client-go/events"
	"github.com/intellai/intell-client-go/logging"
	"github.com/intellai/intell-client-go/metrics"
	"github.com/intellai/intell-client-go/notify"
	"github.com/intellai/intell-client-go/poll"
	"github.com/intellai/intell-client-go/snapshot"
	"github.com/intellai/intell-client-go/stream"
)

// pushConn 推送连接的最小接口，便于测试替换真实 WebSocket。
type pushConn interface {
	Start(ctx context.Context)
	Close()
	Status() stream.Status
}

// connFactory 推送连接工厂。
type connFactory func(jobID string, h stream.Handler, onStatus stream.StatusFunc) pushConn

// Watcher 单作业观察器：订阅推送通道、经状态机推导本地快照，
// 并在连接降级时自动切换到轮询回退。
// 功能：整体拉取建立基线，推送事件做增量推导，关键转换点强制整体重拉纠偏。
// 并发：事件回调由连接的读循环串行投递；轮询与强制重拉并发提交整体快照，
// 以"后写覆盖"收敛，不做向量时钟对账。
type Watcher struct {
	opt     Options
	api     client.API
	store   Storage
	newConn connFactory

	met   *metrics.Collector
	notes *notify.Center

	mu           sync.RWMutex
	jobID        string
	sourceType   string
	snap         *snapshot.Snapshot
	activity     *events.Log
	conn         pushConn
	poller       *poll.Poller
	cancel       context.CancelFunc
	unhook       func()
	wasConnected bool

	// 节流写入状态：窗口内的派生快照只保留最后一帧。
	thrMu     sync.Mutex
	pending   *snapshot.Snapshot
	thrTimer  *time.Timer
	lastWrite time.Time

	subMu   sync.RWMutex
	subs    map[int]chan *snapshot.Snapshot
	nextSub int

	refetching atomic.Bool
}

// NewWatcher 构造观察器。
// 默认使用 HTTP API 客户端与进程内存储；两者均可经 Option 注入替换。
func NewWatcher(opts ...Option) *Watcher {
	var c watcherConfig
	for _, o := range opts {
		o(&c)
	}
	c.opt.withDefaults()
	if c.api == nil {
		c.api = client.NewHTTPAPI(c.opt.APIBase, c.opt.HTTPTimeout)
	}
	if c.store == nil {
		c.store = newDefaultMemStore()
	}
	w := &Watcher{
		opt:      c.opt,
		api:      c.api,
		store:    c.store,
		newConn:  c.newConn,
		met:      metrics.NewCollector(),
		notes:    notify.NewCenter(c.opt.NotificationMax),
		activity: events.NewLog(c.opt.ActivityLogMax),
		subs:     make(map[int]chan *snapshot.Snapshot),
	}
	if w.newConn == nil {
		w.newConn = func(jobID string, h stream.Handler, onStatus stream.StatusFunc) pushConn {
			return stream.New(w.opt.PushBase, jobID, w.opt.DebounceWindow, h, onStatus)
		}
	}
	return w
}

// Watch 开始观察指定作业（切换目标时自动结束上一个会话）。
// 功能：先整体拉取建立权威基线，再挂推送通道；
// 基线拉取失败只告警，连接状态回调会兜底启动轮询。
func (w *Watcher) Watch(ctx context.Context, jobID string) {
	w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.jobID = jobID
	w.snap = nil
	w.cancel = cancel
	w.wasConnected = false
	w.activity = events.NewLog(w.opt.ActivityLogMax)
	w.unhook = logging.AddHook(w.promoteErrors)
	w.mu.Unlock()

	if snap, err := w.fetchSnapshot(ctx); err != nil {
		logging.L().Warn(ctx, "initial fetch failed", "job_id", jobID, "err", err)
	} else {
		w.commitFull(ctx, snap)
	}

	poller := poll.New(watcherSource{w: w}, func(s *snapshot.Snapshot) {
		w.met.Poll()
		w.commitFull(ctx, s)
	}, w.opt.PollInterval)

	conn := w.newConn(jobID,
		func(raw []byte) { w.onMessage(ctx, raw) },
		func(st stream.Status) { w.onStatus(ctx, st) },
	)

	w.mu.Lock()
	w.conn = conn
	w.poller = poller
	w.mu.Unlock()

	conn.Start(ctx)
}

// Stop 结束当前观察会话（幂等）：关连接、停轮询、卸载日志钩子、清节流定时器。
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, conn, poller, unhook := w.cancel, w.conn, w.poller, w.unhook
	w.cancel, w.conn, w.poller, w.unhook = nil, nil, nil, nil
	w.mu.Unlock()

	if unhook != nil {
		unhook()
	}
	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	if poller != nil {
		poller.Stop()
	}

	w.thrMu.Lock()
	if w.thrTimer != nil {
		w.thrTimer.Stop()
		w.thrTimer = nil
	}
	w.pending = nil
	w.thrMu.Unlock()
}

// onMessage 推送报文入口：规范化、按作业过滤、(trace_id, created_at) 去重、
// 归档、推导、必要时触发强制整体重拉。
func (w *Watcher) onMessage(ctx context.Context, raw []byte) {
	ev, ok := events.Normalize(raw)
	if !ok {
		w.met.EventDropped()
		return
	}

	w.mu.RLock()
	jobID, cur, activity := w.jobID, w.snap, w.activity
	w.mu.RUnlock()

	if ev.JobID != jobID {
		w.met.EventDropped()
		return
	}
	w.met.EventReceived()

	if !activity.Append(ev) {
		// 重复投递：活动日志与状态推导均不再处理
		return
	}
	rec := eventRecordFrom(ev)
	warnIf(ctx, w.store.AppendEvent(ctx, &rec), "archive event")

	next, force := snapshot.Apply(cur, ev)
	if next != cur {
		w.announce(cur, next, ev)
		w.commitThrottled(ctx, next)
	}
	if force || snapshot.Drifted(next) {
		w.forceRefetch(ctx)
	}
}

// onStatus 连接状态回调：健康时停轮询，降级且作业未真正完成时开轮询。
func (w *Watcher) onStatus(ctx context.Context, st stream.Status) {
	logging.L().Info(ctx, "push channel status", "status", string(st))

	w.mu.Lock()
	poller := w.poller
	reconnected := st == stream.StatusConnected && w.wasConnected
	if st == stream.StatusConnected {
		w.wasConnected = true
	}
	cur := w.snap
	w.mu.Unlock()

	if reconnected {
		w.met.Reconnect()
	}
	if poller == nil {
		return
	}
	switch {
	case st == stream.StatusConnected:
		poller.Stop()
	case st.Degraded():
		if !snapshot.TrulyFinished(cur) {
			poller.Start(ctx)
		}
	}
}

// commitThrottled 提交推送推导出的快照：内存态立即采纳，
// 后续事件总是在最新帧上继续推导；落盘与广播带节流，
// 距上次落盘不足一个窗口时仅暂存最后一帧，窗口期满一次性刷出。
func (w *Watcher) commitThrottled(ctx context.Context, next *snapshot.Snapshot) {
	if !w.adopt(next) {
		return
	}
	w.thrMu.Lock()
	if w.pending != nil {
		w.met.WriteCoalesced()
	}
	w.pending = next
	now := time.Now()
	if now.Sub(w.lastWrite) >= w.opt.ThrottleWindow {
		snap := w.pending
		w.pending = nil
		w.lastWrite = now
		if w.thrTimer != nil {
			w.thrTimer.Stop()
			w.thrTimer = nil
		}
		w.thrMu.Unlock()
		w.publish(ctx, snap)
		return
	}
	if w.thrTimer == nil {
		delay := w.opt.ThrottleWindow - now.Sub(w.lastWrite)
		w.thrTimer = time.AfterFunc(delay, func() { w.flushPending(ctx) })
	}
	w.thrMu.Unlock()
}

// flushPending 节流窗口期满后的延迟刷出（只落盘广播，内存态早已采纳）。
func (w *Watcher) flushPending(ctx context.Context) {
	w.thrMu.Lock()
	snap := w.pending
	w.pending = nil
	w.thrTimer = nil
	if snap != nil {
		w.lastWrite = time.Now()
	}
	w.thrMu.Unlock()
	if snap != nil {
		w.publish(ctx, snap)
	}
}

// commitFull 提交整体拉取得到的权威快照：绕过节流立即落盘，
// 并丢弃窗口内暂存的派生帧（整体快照更新、更全）。
func (w *Watcher) commitFull(ctx context.Context, snap *snapshot.Snapshot) {
	w.thrMu.Lock()
	w.pending = nil
	if w.thrTimer != nil {
		w.thrTimer.Stop()
		w.thrTimer = nil
	}
	w.lastWrite = time.Now()
	w.thrMu.Unlock()
	if w.adopt(snap) {
		w.publish(ctx, snap)
	}
}

// adopt 把快照采纳为当前内存态。
// 返回 false 表示会话已切换，迟到的帧直接丢弃。
func (w *Watcher) adopt(snap *snapshot.Snapshot) bool {
	if snap == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if snap.ID != w.jobID {
		return false
	}
	w.snap = snap
	return true
}

// publish 把快照持久化为作业记录并广播给订阅者。
func (w *Watcher) publish(ctx context.Context, snap *snapshot.Snapshot) {
	w.mu.RLock()
	jobID, sourceType := w.jobID, w.sourceType
	w.mu.RUnlock()
	if snap.ID != jobID {
		return
	}

	rec := jobRecordFromSnapshot(snap, sourceType)
	warnIf(ctx, w.store.UpsertJob(ctx, &rec), "persist job record")

	w.subMu.RLock()
	for _, ch := range w.subs {
		select {
		case ch <- snap:
		default: // 订阅者消费不及时丢帧，不阻塞推导回路
		}
	}
	w.subMu.RUnlock()
}

// forceRefetch 触发一次后台整体重拉（并发触发时只执行一次）。
func (w *Watcher) forceRefetch(ctx context.Context) {
	if w.refetching.Swap(true) {
		return
	}
	w.met.ForcedRefetch()
	go func() {
		defer w.refetching.Store(false)
		snap, err := w.fetchSnapshot(ctx)
		if err != nil {
			logging.L().Warn(ctx, "forced refetch failed", "err", err)
			return
		}
		w.commitFull(ctx, snap)
	}()
}

// fetchSnapshot 整体拉取作业详情并转为本地快照，
// 顺带把详情内嵌的事件补进活动日志与归档（去重后）。
func (w *Watcher) fetchSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	w.mu.RLock()
	jobID := w.jobID
	w.mu.RUnlock()

	job, err := w.api.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.sourceType = job.SourceType
	activity := w.activity
	w.mu.Unlock()

	for _, ev := range eventsFromJob(job) {
		if activity.Append(ev) {
			rec := eventRecordFrom(ev)
			warnIf(ctx, w.store.AppendEvent(ctx, &rec), "archive event")
		}
	}
	return snapshotFromJob(job), nil
}

// announce 在关键转换点产生用户可见通知：任务失败与作业进入终态。
func (w *Watcher) announce(prev, next *snapshot.Snapshot, ev events.Event) {
	if ev.EntityType == events.EntityImageTask &&
		(ev.Type == events.TypeError || ev.Type == events.TypeAlgorithmError) {
		w.notes.Push(notify.Notification{
			Level:   notify.LevelError,
			Title:   "Image task failed",
			Message: ev.Message,
			JobID:   next.ID,
		})
	}
	if prev != nil && !prev.Status.Terminal() && next.Status.Terminal() {
		n := notify.Notification{JobID: next.ID, Title: "Job finished"}
		switch next.Status {
		case snapshot.JobSuccess:
			n.Level, n.Message = notify.LevelSuccess, "all image tasks completed"
		case snapshot.JobPartialSuccess:
			n.Level, n.Message = notify.LevelWarning, "some image tasks failed"
		case snapshot.JobCancelled:
			n.Level, n.Message = notify.LevelInfo, "job cancelled"
		default:
			n.Level, n.Message = notify.LevelError, "job failed"
		}
		w.notes.Push(n)
	}
}

// promoteErrors 日志钩子：仅把 Error 级别日志提升为用户通知，
// 传输层告警（Warn）由重连与轮询自愈，不打扰用户。
func (w *Watcher) promoteErrors(ctx context.Context, level slog.Level, msg string, args ...any) {
	if level < slog.LevelError {
		return
	}
	w.mu.RLock()
	jobID := w.jobID
	w.mu.RUnlock()
	w.notes.Push(notify.Notification{Level: notify.LevelError, Title: "Request failed", Message: msg, JobID: jobID})
}

// Snapshot 返回当前快照的副本（无快照时为 nil）。
func (w *Watcher) Snapshot() *snapshot.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap.Clone()
}

// ConnectionStatus 返回推送通道当前状态。
func (w *Watcher) ConnectionStatus() stream.Status {
	w.mu.RLock()
	conn := w.conn
	w.mu.RUnlock()
	if conn == nil {
		return stream.StatusDisconnected
	}
	return conn.Status()
}

// Polling 轮询回退是否在运行。
func (w *Watcher) Polling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.poller != nil && w.poller.Running()
}

// Activity 返回活动日志（时间序，去重后）。
func (w *Watcher) Activity() []events.Event {
	w.mu.RLock()
	activity := w.activity
	w.mu.RUnlock()
	return activity.Items()
}

// Notifications 返回通知中心。
func (w *Watcher) Notifications() *notify.Center { return w.notes }

// Metrics 返回观测计数快照。
func (w *Watcher) Metrics() metrics.Stats { return w.met.Snapshot() }

// Store 返回持久化实现（供历史查询）。
func (w *Watcher) Store() Storage { return w.store }

// API 返回底层 API 客户端（供取消、局部更新等直连操作）。
func (w *Watcher) API() client.API { return w.api }

// Subscribe 订阅快照更新；返回只读通道与退订函数。
// 通道带缓冲，消费不及时会丢帧而不是阻塞推导。
func (w *Watcher) Subscribe() (<-chan *snapshot.Snapshot, func()) {
	ch := make(chan *snapshot.Snapshot, 8)
	w.subMu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch
	w.subMu.Unlock()
	return ch, func() {
		w.subMu.Lock()
		delete(w.subs, id)
		w.subMu.Unlock()
	}
}

// warnIf 记录但不打断流程；持久化失败由重拉兜底，不提升为用户通知。
func warnIf(ctx context.Context, err error, msg string) {
	if err != nil {
		logging.L().Warn(ctx, msg, "err", err)
	}
}

// watcherSource 把 Watcher 适配为轮询数据源。
type watcherSource struct{ w *Watcher }

func (s watcherSource) FetchSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	return s.w.fetchSnapshot(ctx)
}
