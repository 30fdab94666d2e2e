package session

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// mapKV 测试用内存 KV。
type mapKV struct {
	mu sync.Mutex
	m  map[string]string
}

func newMapKV() *mapKV { return &mapKV{m: make(map[string]string)} }

func (k *mapKV) SaveState(ctx context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[key] = value
	return nil
}

func (k *mapKV) LoadState(ctx context.Context, key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.m[key], nil
}

func TestWizardStore(t *testing.T) {
	Convey("向导状态容器", t, func() {
		ctx := context.Background()
		kv := newMapKV()

		Convey("Save/Load 往返", func() {
			w := NewWizardStore(kv)
			w.SetStep(2)
			w.SetSourceType("patent_csv")
			w.SetSelections([]AlgorithmChoice{{AlgorithmKey: "filing_trend", OutputFormat: "png",
				Params: map[string]any{"granularity": "year"}}})
			key := w.IdempotencyKey()
			So(w.Save(ctx), ShouldBeNil)

			w2 := NewWizardStore(kv)
			So(w2.Load(ctx), ShouldBeNil)
			st := w2.State()
			So(st.Step, ShouldEqual, 2)
			So(st.SourceType, ShouldEqual, "patent_csv")
			So(len(st.Selections), ShouldEqual, 1)
			So(w2.IdempotencyKey(), ShouldEqual, key)
		})

		Convey("缺失或损坏的持久化状态回落到默认值", func() {
			w := NewWizardStore(kv)
			So(w.Load(ctx), ShouldBeNil) // KV 为空
			So(w.State().Step, ShouldEqual, 0)

			_ = kv.SaveState(ctx, WizardStoreKey, "{{{not json")
			w2 := NewWizardStore(kv)
			So(w2.Load(ctx), ShouldBeNil)
			So(w2.State().Step, ShouldEqual, 0)
			So(w2.IdempotencyKey(), ShouldNotBeEmpty)
		})

		Convey("RotateKey 更换幂等键", func() {
			w := NewWizardStore(kv)
			k1 := w.IdempotencyKey()
			k2 := w.RotateKey()
			So(k2, ShouldNotEqual, k1)
			So(w.IdempotencyKey(), ShouldEqual, k2)
		})

		Convey("Reset 清空向导但保留新幂等键", func() {
			w := NewWizardStore(kv)
			w.SetStep(3)
			w.SetLastJobID("job-1")
			w.Reset()
			st := w.State()
			So(st.Step, ShouldEqual, 0)
			So(st.LastJobID, ShouldBeEmpty)
			So(st.IdempotencyKey, ShouldNotBeEmpty)
		})
	})
}

func TestPrefsStore(t *testing.T) {
	Convey("图库视图偏好", t, func() {
		ctx := context.Background()
		kv := newMapKV()

		p := NewPrefsStore(kv)
		So(p.Get(), ShouldResemble, LibraryPrefs{Scope: ScopeAll, Layout: LayoutGrid})

		p.Set(LibraryPrefs{Scope: ScopeGrouped, Layout: LayoutList})
		So(p.Save(ctx), ShouldBeNil)

		p2 := NewPrefsStore(kv)
		So(p2.Load(ctx), ShouldBeNil)
		So(p2.Get(), ShouldResemble, LibraryPrefs{Scope: ScopeGrouped, Layout: LayoutList})

		// 损坏数据回落默认
		_ = kv.SaveState(ctx, LibraryViewKey, "???")
		p3 := NewPrefsStore(kv)
		So(p3.Load(ctx), ShouldBeNil)
		So(p3.Get().Scope, ShouldEqual, ScopeAll)
	})
}
