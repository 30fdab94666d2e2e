package memstore

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/intellai/intell-client-go/intell"
)

func TestStore_Jobs(t *testing.T) {
	Convey("作业记录的增改查", t, func() {
		ctx := context.Background()
		s := New()

		So(s.UpsertJob(ctx, &intell.JobRecord{JobID: "j1", Status: "RUNNING", Progress: 10}), ShouldBeNil)
		rec, err := s.GetJob(ctx, "j1")
		So(err, ShouldBeNil)
		So(rec.Status, ShouldEqual, "RUNNING")

		// upsert 覆盖状态
		So(s.UpsertJob(ctx, &intell.JobRecord{JobID: "j1", Status: "SUCCESS", Progress: 100}), ShouldBeNil)
		rec, _ = s.GetJob(ctx, "j1")
		So(rec.Status, ShouldEqual, "SUCCESS")

		_, err = s.GetJob(ctx, "ghost")
		So(err, ShouldEqual, intell.ErrNotFound)
	})
}

func TestStore_ListRecentJobs(t *testing.T) {
	Convey("最近作业按更新时间倒序", t, func() {
		ctx := context.Background()
		s := New()
		now := time.Now()
		_ = s.UpsertJob(ctx, &intell.JobRecord{JobID: "old", UpdatedAt: now.Add(-time.Hour)})
		_ = s.UpsertJob(ctx, &intell.JobRecord{JobID: "new", UpdatedAt: now})
		_ = s.UpsertJob(ctx, &intell.JobRecord{JobID: "mid", UpdatedAt: now.Add(-time.Minute)})

		out, err := s.ListRecentJobs(ctx, 2)
		So(err, ShouldBeNil)
		So(len(out), ShouldEqual, 2)
		So(out[0].JobID, ShouldEqual, "new")
		So(out[1].JobID, ShouldEqual, "mid")
	})
}

func TestStore_Events(t *testing.T) {
	Convey("事件归档按 (trace_id, created_at) 去重", t, func() {
		ctx := context.Background()
		s := New()
		rec := intell.EventRecord{JobID: "j1", EventType: "DONE", TraceID: "tr-1", CreatedAt: "t1"}

		So(s.AppendEvent(ctx, &rec), ShouldBeNil)
		So(s.AppendEvent(ctx, &rec), ShouldBeNil) // 重复为 no-op
		_ = s.AppendEvent(ctx, &intell.EventRecord{JobID: "j2", EventType: "START", TraceID: "tr-2", CreatedAt: "t1"})

		out, err := s.ListEvents(ctx, "j1", 10)
		So(err, ShouldBeNil)
		So(len(out), ShouldEqual, 1)
		So(out[0].ReceivedAt.IsZero(), ShouldBeFalse)
	})
}

func TestStore_State(t *testing.T) {
	Convey("会话状态 KV", t, func() {
		ctx := context.Background()
		s := New()

		_, err := s.LoadState(ctx, "missing")
		So(err, ShouldEqual, intell.ErrNotFound)

		So(s.SaveState(ctx, "k", "v1"), ShouldBeNil)
		So(s.SaveState(ctx, "k", "v2"), ShouldBeNil)
		v, err := s.LoadState(ctx, "k")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "v2")
	})
}
