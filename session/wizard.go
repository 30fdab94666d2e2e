package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// WizardStoreKey 向导状态在 KV 存储中的条目键。
const WizardStoreKey = "wizard-store"

// KV 会话状态所需的最小持久化接口（由 intell.Storage 满足）。
type KV interface {
	SaveState(ctx context.Context, key, value string) error
	LoadState(ctx context.Context, key string) (string, error)
}

// AlgorithmChoice 向导中选定的一项算法配置，形态与建任务表单的 images 条目一致。
type AlgorithmChoice struct {
	AlgorithmKey     string         `json:"algorithm_key"`
	AlgorithmVersion string         `json:"algorithm_version"`
	Params           map[string]any `json:"params"`
	OutputFormat     string         `json:"output_format"`
}

// WizardState 向导的可序列化状态。
// 注意：上传中的文件句柄不可序列化，刻意不在状态内。
type WizardState struct {
	Step           int               `json:"step"`
	SourceType     string            `json:"source_type"`
	Selections     []AlgorithmChoice `json:"selections"`
	LastJobID      string            `json:"last_job_id"`
	IdempotencyKey string            `json:"idempotency_key"`
}

// WizardStore 向导状态容器。
// 功能：通过窄接口读写状态；持久化是显式的 Load/Save 序列化边界，
// 而非隐式副作用。建任务失败后的重试应先 RotateKey 再重新提交。
type WizardStore struct {
	mu    sync.RWMutex
	kv    KV
	state WizardState
}

// NewWizardStore 创建向导状态容器（带全新幂等键的初始状态）。
func NewWizardStore(kv KV) *WizardStore {
	return &WizardStore{kv: kv, state: WizardState{IdempotencyKey: uuid.NewString()}}
}

// Load 从 KV 恢复状态；条目缺失或不可解析时保留默认状态（不视为错误）。
func (w *WizardStore) Load(ctx context.Context) error {
	raw, err := w.kv.LoadState(ctx, WizardStoreKey)
	if err != nil || raw == "" {
		return nil
	}
	var st WizardState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil
	}
	if st.IdempotencyKey == "" {
		st.IdempotencyKey = uuid.NewString()
	}
	w.mu.Lock()
	w.state = st
	w.mu.Unlock()
	return nil
}

// Save 将当前状态序列化写入 KV。
func (w *WizardStore) Save(ctx context.Context) error {
	w.mu.RLock()
	b, err := json.Marshal(w.state)
	w.mu.RUnlock()
	if err != nil {
		return err
	}
	return w.kv.SaveState(ctx, WizardStoreKey, string(b))
}

// State 返回状态副本。
func (w *WizardStore) State() WizardState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st := w.state
	st.Selections = append([]AlgorithmChoice(nil), w.state.Selections...)
	return st
}

// SetStep 更新向导步索引。
func (w *WizardStore) SetStep(step int) { w.mu.Lock(); w.state.Step = step; w.mu.Unlock() }

// SetSourceType 更新数据源类型。
func (w *WizardStore) SetSourceType(t string) { w.mu.Lock(); w.state.SourceType = t; w.mu.Unlock() }

// SetSelections 整体替换算法选择。
func (w *WizardStore) SetSelections(sel []AlgorithmChoice) {
	w.mu.Lock()
	w.state.Selections = append([]AlgorithmChoice(nil), sel...)
	w.mu.Unlock()
}

// SetLastJobID 记录最近一次提交成功的作业 ID。
func (w *WizardStore) SetLastJobID(id string) { w.mu.Lock(); w.state.LastJobID = id; w.mu.Unlock() }

// IdempotencyKey 返回当前幂等键。
func (w *WizardStore) IdempotencyKey() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.IdempotencyKey
}

// RotateKey 轮换幂等键并返回新值（建任务失败后的显式重试路径调用）。
func (w *WizardStore) RotateKey() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.IdempotencyKey = uuid.NewString()
	return w.state.IdempotencyKey
}

// Reset 清空向导状态并签发新幂等键。
func (w *WizardStore) Reset() {
	w.mu.Lock()
	w.state = WizardState{IdempotencyKey: uuid.NewString()}
	w.mu.Unlock()
}
