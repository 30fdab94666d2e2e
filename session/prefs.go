package session

import (
	"context"
	"encoding/json"
	"sync"
)

// LibraryViewKey 图库视图偏好在 KV 存储中的条目键。
const LibraryViewKey = "intell:imageLibrary:viewMode"

// ViewScope 图库展示范围。
type ViewScope string

const (
	ScopeAll     ViewScope = "all"
	ScopeGrouped ViewScope = "grouped"
)

// ViewLayout 图库排版方式。
type ViewLayout string

const (
	LayoutGrid ViewLayout = "grid"
	LayoutList ViewLayout = "list"
)

// LibraryPrefs 用户最近一次选择的图库视图模式。
type LibraryPrefs struct {
	Scope  ViewScope  `json:"scope"`
	Layout ViewLayout `json:"layout"`
}

// PrefsStore 图库偏好容器，持久化边界与 WizardStore 一致。
type PrefsStore struct {
	mu    sync.RWMutex
	kv    KV
	prefs LibraryPrefs
}

// NewPrefsStore 创建偏好容器（默认 all + grid）。
func NewPrefsStore(kv KV) *PrefsStore {
	return &PrefsStore{kv: kv, prefs: LibraryPrefs{Scope: ScopeAll, Layout: LayoutGrid}}
}

// Load 从 KV 恢复偏好；缺失或不可解析时保留默认值。
func (p *PrefsStore) Load(ctx context.Context) error {
	raw, err := p.kv.LoadState(ctx, LibraryViewKey)
	if err != nil || raw == "" {
		return nil
	}
	var prefs LibraryPrefs
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil
	}
	if prefs.Scope == "" {
		prefs.Scope = ScopeAll
	}
	if prefs.Layout == "" {
		prefs.Layout = LayoutGrid
	}
	p.mu.Lock()
	p.prefs = prefs
	p.mu.Unlock()
	return nil
}

// Save 持久化当前偏好。
func (p *PrefsStore) Save(ctx context.Context) error {
	p.mu.RLock()
	b, err := json.Marshal(p.prefs)
	p.mu.RUnlock()
	if err != nil {
		return err
	}
	return p.kv.SaveState(ctx, LibraryViewKey, string(b))
}

// Get 返回当前偏好。
func (p *PrefsStore) Get() LibraryPrefs { p.mu.RLock(); defer p.mu.RUnlock(); return p.prefs }

// Set 更新偏好（内存态；持久化需显式 Save）。
func (p *PrefsStore) Set(prefs LibraryPrefs) { p.mu.Lock(); p.prefs = prefs; p.mu.Unlock() }
