package snapshot

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTrulyFinished(t *testing.T) {
	Convey("真正完成的判定", t, func() {
		Convey("作业终态且所有任务终态", func() {
			s := &Snapshot{ID: "j", Status: JobSuccess, Tasks: []Task{
				{ID: "t1", Status: TaskSuccess}, {ID: "t2", Status: TaskFailed},
			}}
			So(TrulyFinished(s), ShouldBeTrue)
		})
		Convey("作业终态但任务仍在跑则未完成", func() {
			s := &Snapshot{ID: "j", Status: JobSuccess, Tasks: []Task{
				{ID: "t1", Status: TaskRunning},
			}}
			So(TrulyFinished(s), ShouldBeFalse)
		})
		Convey("作业非终态则未完成", func() {
			s := &Snapshot{ID: "j", Status: JobRunning}
			So(TrulyFinished(s), ShouldBeFalse)
		})
		Convey("无任务的终态作业视为完成", func() {
			s := &Snapshot{ID: "j", Status: JobCancelled}
			So(TrulyFinished(s), ShouldBeTrue)
		})
		Convey("nil 快照未完成", func() {
			So(TrulyFinished(nil), ShouldBeFalse)
		})
	})
}

func TestDrifted(t *testing.T) {
	Convey("漂移检测", t, func() {
		Convey("终态作业下挂着未完结任务即漂移", func() {
			s := &Snapshot{ID: "j", Status: JobFailed, Tasks: []Task{
				{ID: "t1", Status: TaskSuccess}, {ID: "t2", Status: TaskPending},
			}}
			So(Drifted(s), ShouldBeTrue)
		})
		Convey("全部任务终态则不漂移", func() {
			s := &Snapshot{ID: "j", Status: JobFailed, Tasks: []Task{
				{ID: "t1", Status: TaskFailed},
			}}
			So(Drifted(s), ShouldBeFalse)
		})
		Convey("无任务或非终态不漂移", func() {
			So(Drifted(&Snapshot{ID: "j", Status: JobFailed}), ShouldBeFalse)
			So(Drifted(&Snapshot{ID: "j", Status: JobRunning, Tasks: []Task{{ID: "t1", Status: TaskRunning}}}), ShouldBeFalse)
			So(Drifted(nil), ShouldBeFalse)
		})
	})
}

func TestCloneEqual(t *testing.T) {
	Convey("Clone 与 Equal", t, func() {
		s := &Snapshot{ID: "j", Status: JobRunning, Progress: 30, Tasks: []Task{{ID: "t1", Status: TaskRunning, Progress: 30}}}
		cp := s.Clone()
		So(cp.Equal(s), ShouldBeTrue)

		// 深拷贝：改副本任务不影响原件
		cp.Tasks[0].Progress = 99
		So(s.Tasks[0].Progress, ShouldEqual, 30)
		So(cp.Equal(s), ShouldBeFalse)

		var nilSnap *Snapshot
		So(nilSnap.Clone(), ShouldBeNil)
		So(nilSnap.Equal(nil), ShouldBeTrue)
		So(s.Equal(nil), ShouldBeFalse)
	})
}

func TestParseStatus(t *testing.T) {
	Convey("状态解析拒绝未知值", t, func() {
		st, ok := ParseJobStatus("PARTIAL_SUCCESS")
		So(ok, ShouldBeTrue)
		So(st, ShouldEqual, JobPartialSuccess)

		_, ok = ParseJobStatus("NOPE")
		So(ok, ShouldBeFalse)

		// 任务没有部分成功一说
		_, ok = ParseTaskStatus("PARTIAL_SUCCESS")
		So(ok, ShouldBeFalse)

		ts, ok := ParseTaskStatus("CANCELLED")
		So(ok, ShouldBeTrue)
		So(ts.Terminal(), ShouldBeTrue)
	})
}
