package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/intellai/intell-client-go/logging"
	"github.com/intellai/intell-client-go/snapshot"
)

// Source 仅需要整体拉取一次快照的精简接口，避免与具体 API 客户端强耦合。
type Source interface {
	FetchSnapshot(ctx context.Context) (*snapshot.Snapshot, error)
}

// Sink 收到整体快照后的回调（由调用方落到快照存储）。
type Sink func(*snapshot.Snapshot)

// Poller 轮询回退：按固定周期整体重拉作业快照。
// 功能：作为推送通道降级时的安全网；一旦拉到"真正完成"的快照即自行停止。
type Poller struct {
	src      Source
	sink     Sink
	interval time.Duration
	running  atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New 构造。interval<=0 时使用默认 2s。
func New(src Source, sink Sink, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{src: src, sink: sink, interval: interval}
}

// Start 启动轮询（幂等，已在运行则为 no-op）。
func (p *Poller) Start(ctx context.Context) {
	if p.running.Swap(true) {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		defer p.running.Store(false)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap, err := p.src.FetchSnapshot(ctx)
				if err != nil {
					logging.L().Warn(ctx, "poll refetch failed", "err", err)
					continue
				}
				if p.sink != nil {
					p.sink(snap)
				}
				if snapshot.TrulyFinished(snap) {
					return
				}
			}
		}
	}()
}

// Stop 停止轮询（幂等）。
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Running 是否在轮询中。
func (p *Poller) Running() bool { return p.running.Load() }
