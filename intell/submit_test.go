package intell

import (
	"context"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/mock/gomock"

	"github.com/intellai/intell-client-go/client"
	"github.com/intellai/intell-client-go/mocks"
	"github.com/intellai/intell-client-go/session"
)

func wizardWithSelection(ctx context.Context, kv session.KV) *session.WizardStore {
	wiz := session.NewWizardStore(kv)
	wiz.SetSourceType("patent_csv")
	wiz.SetSelections([]session.AlgorithmChoice{{
		AlgorithmKey: "citation_graph",
		Params:       map[string]any{"layout": "force", "max_nodes": 500},
		OutputFormat: "svg",
	}})
	return wiz
}

func TestSubmitWizard(t *testing.T) {
	Convey("向导提交", t, func() {
		ctx := context.Background()
		store := newDefaultMemStore()

		Convey("成功：携带幂等键，记录作业 ID 并持久化", func() {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			api := mocks.NewMockAPI(ctrl)

			wiz := wizardWithSelection(ctx, store)
			key := wiz.IdempotencyKey()
			So(key, ShouldNotBeEmpty)

			api.EXPECT().CreateJob(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, req client.CreateJobReq) (client.CreateJobResp, error) {
					So(req.IdempotencyKey, ShouldEqual, key)
					So(req.SourceType, ShouldEqual, "patent_csv")
					So(len(req.Images), ShouldEqual, 1)
					So(req.Images[0].AlgorithmKey, ShouldEqual, "citation_graph")
					return client.CreateJobResp{JobID: "job-7", Status: "PENDING"}, nil
				})

			resp, err := SubmitWizard(ctx, api, wiz, SubmitRequest{
				SourceName: "patents.csv",
				SourceData: strings.NewReader("csv data"),
			})
			So(err, ShouldBeNil)
			So(resp.JobID, ShouldEqual, "job-7")
			So(wiz.State().LastJobID, ShouldEqual, "job-7")

			// 状态已持久化，重建后可恢复
			wiz2 := session.NewWizardStore(store)
			So(wiz2.Load(ctx), ShouldBeNil)
			So(wiz2.State().LastJobID, ShouldEqual, "job-7")
		})

		Convey("失败：轮换幂等键，显式重试是服务端眼中的新请求", func() {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			api := mocks.NewMockAPI(ctrl)

			wiz := wizardWithSelection(ctx, store)
			key := wiz.IdempotencyKey()

			api.EXPECT().CreateJob(gomock.Any(), gomock.Any()).
				Return(client.CreateJobResp{}, &client.APIError{StatusCode: 500, Message: "boom"})

			_, err := SubmitWizard(ctx, api, wiz, SubmitRequest{SourceData: strings.NewReader("x")})
			So(err, ShouldNotBeNil)
			So(wiz.IdempotencyKey(), ShouldNotEqual, key)
		})

		Convey("参数不过注册表校验时不发请求", func() {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			api := mocks.NewMockAPI(ctrl)

			wiz := session.NewWizardStore(store)
			wiz.SetSelections([]session.AlgorithmChoice{{
				AlgorithmKey: "ipc_treemap",
				Params:       map[string]any{"depth": "deep"}, // 类型错误
				OutputFormat: "svg",
			}})
			_, err := SubmitWizard(ctx, api, wiz, SubmitRequest{})
			So(err, ShouldNotBeNil)
		})

		Convey("未知算法直接拒绝", func() {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			api := mocks.NewMockAPI(ctrl)

			wiz := session.NewWizardStore(store)
			wiz.SetSelections([]session.AlgorithmChoice{{AlgorithmKey: "nope"}})
			_, err := SubmitWizard(ctx, api, wiz, SubmitRequest{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown algorithm")
		})

		Convey("空选择拒绝", func() {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			api := mocks.NewMockAPI(ctrl)

			wiz := session.NewWizardStore(store)
			_, err := SubmitWizard(ctx, api, wiz, SubmitRequest{})
			So(err, ShouldNotBeNil)
		})
	})
}
