package events

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("推送报文的规范化", t, func() {
		Convey("完整报文", func() {
			raw := []byte(`{
				"event_type": "PROGRESS",
				"job_id": "job-1",
				"entity_type": "image_task",
				"entity_id": "t1",
				"level": "INFO",
				"progress": 42,
				"message": "rendering",
				"trace_id": "tr-1",
				"created_at": "2026-08-30T10:00:00Z"
			}`)
			ev, ok := Normalize(raw)
			So(ok, ShouldBeTrue)
			So(ev.Type, ShouldEqual, TypeProgress)
			So(ev.JobID, ShouldEqual, "job-1")
			So(ev.EntityType, ShouldEqual, EntityImageTask)
			So(*ev.Progress, ShouldEqual, 42)
			So(ev.DedupKey(), ShouldEqual, "tr-1|2026-08-30T10:00:00Z")
			So(ev.ReceivedAt.IsZero(), ShouldBeFalse)
		})

		Convey("缺少 event_type 或 job_id 直接拒绝", func() {
			_, ok := Normalize([]byte(`{"job_id":"j","entity_type":"job"}`))
			So(ok, ShouldBeFalse)
			_, ok = Normalize([]byte(`{"event_type":"DONE","entity_type":"job"}`))
			So(ok, ShouldBeFalse)
		})

		Convey("未知实体类别拒绝", func() {
			_, ok := Normalize([]byte(`{"event_type":"DONE","job_id":"j","entity_type":"dataset"}`))
			So(ok, ShouldBeFalse)
		})

		Convey("非 JSON 拒绝", func() {
			_, ok := Normalize([]byte(`not json`))
			So(ok, ShouldBeFalse)
		})

		Convey("progress 缺失为 nil，存在但非数值归零", func() {
			ev, ok := Normalize([]byte(`{"event_type":"START","job_id":"j","entity_type":"job"}`))
			So(ok, ShouldBeTrue)
			So(ev.Progress, ShouldBeNil)

			ev, ok = Normalize([]byte(`{"event_type":"PROGRESS","job_id":"j","entity_type":"job","progress":"fast"}`))
			So(ok, ShouldBeTrue)
			So(ev.Progress, ShouldNotBeNil)
			So(*ev.Progress, ShouldEqual, 0)
		})

		Convey("缺 trace_id 时补本地 ID，去重键仍然有效", func() {
			ev, ok := Normalize([]byte(`{"event_type":"INFO","job_id":"j","entity_type":"job"}`))
			So(ok, ShouldBeTrue)
			So(strings.HasPrefix(ev.TraceID, "local-"), ShouldBeTrue)

			ev2, _ := Normalize([]byte(`{"event_type":"INFO","job_id":"j","entity_type":"job"}`))
			So(ev.DedupKey(), ShouldNotEqual, ev2.DedupKey())
		})
	})
}

func TestParseEntityType(t *testing.T) {
	Convey("实体类别解析", t, func() {
		et, ok := ParseEntityType("description_task")
		So(ok, ShouldBeTrue)
		So(et, ShouldEqual, EntityDescriptionTask)
		_, ok = ParseEntityType("widget")
		So(ok, ShouldBeFalse)
	})
}
