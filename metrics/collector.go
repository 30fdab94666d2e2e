package metrics

import "sync/atomic"

// Collector 同步回路的进程内计数器，供诊断与测试断言使用。
type Collector struct {
	eventsReceived  atomic.Int64
	eventsDropped   atomic.Int64
	writesCoalesced atomic.Int64
	reconnects      atomic.Int64
	forcedRefetches atomic.Int64
	polls           atomic.Int64
}

// Stats 计数器的一次性读数。
type Stats struct {
	EventsReceived  int64
	EventsDropped   int64
	WritesCoalesced int64
	Reconnects      int64
	ForcedRefetches int64
	Polls           int64
}

// NewCollector 构造。
func NewCollector() *Collector { return &Collector{} }

func (c *Collector) EventReceived()  { c.eventsReceived.Add(1) }
func (c *Collector) EventDropped()   { c.eventsDropped.Add(1) }
func (c *Collector) WriteCoalesced() { c.writesCoalesced.Add(1) }
func (c *Collector) Reconnect()      { c.reconnects.Add(1) }
func (c *Collector) ForcedRefetch()  { c.forcedRefetches.Add(1) }
func (c *Collector) Poll()           { c.polls.Add(1) }

// Snapshot 读取当前全部计数。
func (c *Collector) Snapshot() Stats {
	return Stats{
		EventsReceived:  c.eventsReceived.Load(),
		EventsDropped:   c.eventsDropped.Load(),
		WritesCoalesced: c.writesCoalesced.Load(),
		Reconnects:      c.reconnects.Load(),
		ForcedRefetches: c.forcedRefetches.Load(),
		Polls:           c.polls.Load(),
	}
}
