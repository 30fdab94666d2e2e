package intell

import (
	"strings"
	"time"

	"github.com/intellai/intell-client-go/client"
	"github.com/intellai/intell-client-go/config"
)

// Options 组件运行参数。
// 功能：描述与 Intell.AI 后端的交互地址与各同步回路的时间行为。
// 节流窗口与轮询周期刻意做成可调参数而非硬编码常量。
type Options struct {
	APIBase  string // API 基础路径，如 https://api.intell.example/v1
	PushBase string // 推送通道基础路径；留空时由 APIBase 推导（http->ws）

	HTTPTimeout     time.Duration // 单次 HTTP 请求超时
	PollInterval    time.Duration // 轮询回退周期
	ThrottleWindow  time.Duration // 快照派生写入的节流窗口
	DebounceWindow  time.Duration // 建连前去抖窗口（折叠快速重挂载）
	ActivityLogMax  int           // 活动日志容量
	NotificationMax int           // 通知中心容量
}

// withDefaults 填充默认值。
func (o *Options) withDefaults() {
	if o.HTTPTimeout <= 0 {
		o.HTTPTimeout = 15 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 2 * time.Second
	}
	if o.ThrottleWindow <= 0 {
		o.ThrottleWindow = 200 * time.Millisecond
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = 150 * time.Millisecond
	}
	if o.ActivityLogMax <= 0 {
		o.ActivityLogMax = 500
	}
	if o.NotificationMax <= 0 {
		o.NotificationMax = 100
	}
	if o.PushBase == "" && o.APIBase != "" {
		o.PushBase = derivePushBase(o.APIBase)
	}
}

// derivePushBase 由 API 地址推导推送通道地址：仅替换 scheme。
func derivePushBase(apiBase string) string {
	switch {
	case strings.HasPrefix(apiBase, "https://"):
		return "wss://" + strings.TrimPrefix(apiBase, "https://")
	case strings.HasPrefix(apiBase, "http://"):
		return "ws://" + strings.TrimPrefix(apiBase, "http://")
	}
	return apiBase
}

// watcherConfig 聚合全部可选项。
type watcherConfig struct {
	opt     Options
	api     client.API
	store   Storage
	newConn connFactory
}

// Option 可选项函数。
type Option func(*watcherConfig)

// WithAPIBase 设置 API 基础路径。
func WithAPIBase(base string) Option { return func(c *watcherConfig) { c.opt.APIBase = base } }

// WithPushBase 设置推送通道基础路径。
func WithPushBase(base string) Option { return func(c *watcherConfig) { c.opt.PushBase = base } }

// WithHTTPTimeout 设置 HTTP 请求超时。
func WithHTTPTimeout(d time.Duration) Option { return func(c *watcherConfig) { c.opt.HTTPTimeout = d } }

// WithPollInterval 设置轮询回退周期。
func WithPollInterval(d time.Duration) Option {
	return func(c *watcherConfig) { c.opt.PollInterval = d }
}

// WithThrottleWindow 设置快照派生写入的节流窗口。
func WithThrottleWindow(d time.Duration) Option {
	return func(c *watcherConfig) { c.opt.ThrottleWindow = d }
}

// WithDebounceWindow 设置建连去抖窗口。
func WithDebounceWindow(d time.Duration) Option {
	return func(c *watcherConfig) { c.opt.DebounceWindow = d }
}

// WithActivityLogMax 设置活动日志容量。
func WithActivityLogMax(n int) Option { return func(c *watcherConfig) { c.opt.ActivityLogMax = n } }

// WithNotificationMax 设置通知中心容量。
func WithNotificationMax(n int) Option {
	return func(c *watcherConfig) { c.opt.NotificationMax = n }
}

// WithConfig 从 YAML 配置整体导入（零值字段不覆盖）。
func WithConfig(cfg config.Config) Option {
	return func(c *watcherConfig) {
		if cfg.APIBase != "" {
			c.opt.APIBase = cfg.APIBase
		}
		if cfg.PushBase != "" {
			c.opt.PushBase = cfg.PushBase
		}
		if cfg.HTTPTimeoutSeconds > 0 {
			c.opt.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
		}
		if cfg.PollIntervalMS > 0 {
			c.opt.PollInterval = time.Duration(cfg.PollIntervalMS) * time.Millisecond
		}
		if cfg.ThrottleWindowMS > 0 {
			c.opt.ThrottleWindow = time.Duration(cfg.ThrottleWindowMS) * time.Millisecond
		}
		if cfg.DebounceWindowMS > 0 {
			c.opt.DebounceWindow = time.Duration(cfg.DebounceWindowMS) * time.Millisecond
		}
		if cfg.ActivityLogMax > 0 {
			c.opt.ActivityLogMax = cfg.ActivityLogMax
		}
		if cfg.NotificationMax > 0 {
			c.opt.NotificationMax = cfg.NotificationMax
		}
	}
}

// WithClientAPI 注入自定义 API 实现（测试打桩）。
func WithClientAPI(api client.API) Option { return func(c *watcherConfig) { c.api = api } }

// WithStorage 注入自定义持久化实现（如 gormstore.New(db)）。
func WithStorage(s Storage) Option { return func(c *watcherConfig) { c.store = s } }

// WithConnFactory 注入自定义推送连接工厂（测试打桩）。
func WithConnFactory(f connFactory) Option { return func(c *watcherConfig) { c.newConn = f } }
