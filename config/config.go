package config

// Config 组件运行所需的完整配置（可选）。
// 功能：承载 API/推送通道基础地址与各同步回路的时间参数；
// 全部字段均可缺省，缺省值在 intell.Options.withDefaults 中统一填充。
type Config struct {
	APIBase  string `yaml:"api_base"`  // 如 https://api.intell.example/v1
	PushBase string `yaml:"push_base"` // 如 wss://api.intell.example/ws/；留空时由 APIBase 推导

	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
	PollIntervalMS     int `yaml:"poll_interval_ms"`     // 轮询回退周期
	ThrottleWindowMS   int `yaml:"throttle_window_ms"`   // 快照派生写入节流窗口
	DebounceWindowMS   int `yaml:"debounce_window_ms"`   // 建连前去抖窗口
	ActivityLogMax     int `yaml:"activity_log_max"`     // 活动日志容量
	NotificationMax    int `yaml:"notification_max"`     // 通知中心容量
}
