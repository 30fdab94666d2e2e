package intell

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/mock/gomock"

	"github.com/intellai/intell-client-go/client"
	"github.com/intellai/intell-client-go/mocks"
	"github.com/intellai/intell-client-go/stream"
)

func TestTracker(t *testing.T) {
	Convey("多作业关注注册表", t, func() {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := mocks.NewMockAPI(ctrl)
		api.EXPECT().GetJob(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, jobID string) (client.Job, error) {
				return client.Job{ID: jobID, Status: "RUNNING"}, nil
			}).AnyTimes()

		factory := func(jobID string, h stream.Handler, onStatus stream.StatusFunc) pushConn {
			return &fakeConn{status: stream.StatusConnecting, h: h, onStatus: onStatus}
		}
		tr := NewTracker(func() *Watcher {
			return NewWatcher(WithAPIBase("http://api.test"), WithClientAPI(api),
				WithConnFactory(factory), WithThrottleWindow(time.Nanosecond))
		})
		defer tr.Shutdown()

		ctx := context.Background()

		Convey("Track 启动会话并可复用", func() {
			w1 := tr.Track(ctx, "job-1")
			So(w1.Snapshot().ID, ShouldEqual, "job-1")

			again := tr.Track(ctx, "job-1")
			So(again, ShouldEqual, w1)

			tr.Track(ctx, "job-2")
			So(tr.JobIDs(), ShouldResemble, []string{"job-1", "job-2"})

			got, ok := tr.Get("job-2")
			So(ok, ShouldBeTrue)
			So(got.Snapshot().ID, ShouldEqual, "job-2")
		})

		Convey("Untrack 结束会话且幂等", func() {
			tr.Track(ctx, "job-1")
			So(tr.Untrack("job-1"), ShouldBeTrue)
			So(tr.Untrack("job-1"), ShouldBeFalse)
			_, ok := tr.Get("job-1")
			So(ok, ShouldBeFalse)
		})

		Convey("Shutdown 清空全部会话", func() {
			// 进程退出场景：会话挂在信号感知的上下文上
			sigCtx, stop := WithSignalCancel(ctx)
			defer stop()
			tr.Track(sigCtx, "job-1")
			tr.Track(sigCtx, "job-2")
			tr.Shutdown()
			So(tr.JobIDs(), ShouldBeEmpty)
		})
	})
}
