package intell

import (
	"context"
	"fmt"
	"io"

	"github.com/intellai/intell-client-go/algorithms"
	"github.com/intellai/intell-client-go/client"
	"github.com/intellai/intell-client-go/session"
)

// SubmitRequest 建任务向导的最终提交参数。
// 向导状态里只有可序列化的选择；上传内容与可视化配置在提交时现配。
type SubmitRequest struct {
	SourceName          string
	SourceData          io.Reader
	VisualizationConfig map[string]any
}

// SubmitWizard 依据向导状态构建并提交建任务请求。
// 功能：逐项经算法注册表校验参数与输出格式后组装图像规格，
// 携带向导持有的幂等键提交；失败时轮换幂等键，
// 令显式重试成为服务端眼中的新请求（静默自动重试被刻意排除）。
// 返回：创建结果；参数校验失败或请求失败时返回错误。
func SubmitWizard(ctx context.Context, api client.API, wiz *session.WizardStore, req SubmitRequest) (client.CreateJobResp, error) {
	st := wiz.State()

	imgs := make([]client.ImageSpec, 0, len(st.Selections))
	for _, sel := range st.Selections {
		spec, ok := algorithms.Get(sel.AlgorithmKey)
		if !ok {
			return client.CreateJobResp{}, fmt.Errorf("unknown algorithm %q", sel.AlgorithmKey)
		}
		img, err := spec.ImageSpec(sel.Params, sel.OutputFormat)
		if err != nil {
			return client.CreateJobResp{}, fmt.Errorf("algorithm %s: %w", sel.AlgorithmKey, err)
		}
		if sel.AlgorithmVersion != "" {
			img.AlgorithmVersion = sel.AlgorithmVersion
		}
		imgs = append(imgs, img)
	}
	if len(imgs) == 0 {
		return client.CreateJobResp{}, fmt.Errorf("no algorithm selected")
	}

	resp, err := api.CreateJob(ctx, client.CreateJobReq{
		SourceType:          st.SourceType,
		SourceName:          req.SourceName,
		SourceData:          req.SourceData,
		Images:              imgs,
		IdempotencyKey:      st.IdempotencyKey,
		VisualizationConfig: req.VisualizationConfig,
	})
	if err != nil {
		wiz.RotateKey()
		warnIf(ctx, wiz.Save(ctx), "save wizard state")
		return client.CreateJobResp{}, err
	}

	wiz.SetLastJobID(resp.JobID)
	warnIf(ctx, wiz.Save(ctx), "save wizard state")
	return resp, nil
}
