package snapshot

import (
	"github.com/intellai/intell-client-go/events"
)

// Apply 调和引擎：将一条规范化事件套用到当前快照。
// 功能：纯函数，不做任何 I/O；输入快照不被修改，变更体现在返回的新快照上。
// 参数：snap 当前快照（可为 nil）；ev 规范化事件。
// 返回：下一快照与 forceRefetch 标志；后者为 true 表示本地快照已不可信，
// 调用方应整体回源刷新（例如拉取产物 URL 等权威字段）。
// 异常：畸形事件（实体在快照中不存在等）退化为 no-op，原样返回输入快照，
// 绝不让一条意外报文破坏界面状态。
func Apply(snap *Snapshot, ev events.Event) (*Snapshot, bool) {
	if snap == nil {
		return nil, false
	}
	switch ev.EntityType {
	case events.EntityJob:
		return applyJob(snap, ev)
	case events.EntityImageTask:
		return applyTask(snap, ev)
	default:
		// 其他实体（如描述任务）：携带 progress 且作业未取消时直接采纳，不做平均。
		if ev.Progress != nil && snap.Status != JobCancelled {
			next := snap.Clone()
			next.Progress = clampProgress(*ev.Progress)
			if next.Equal(snap) {
				return snap, false
			}
			return next, false
		}
		return snap, false
	}
}

// applyJob 处理作业级事件。
func applyJob(snap *Snapshot, ev events.Event) (*Snapshot, bool) {
	next := snap.Clone()
	force := false
	if ev.Progress != nil {
		next.Progress = clampProgress(*ev.Progress)
	}
	switch ev.Type {
	case events.TypeJobStatusChanged:
		raw, _ := ev.Payload["status"].(string)
		if st, ok := ParseJobStatus(raw); ok && st != next.Status {
			next.Status = st
			force = st.Terminal()
		}
	case events.TypeDone:
		if next.Status != JobSuccess {
			next.Status = JobSuccess
			force = true
		}
	case events.TypeError:
		if next.Status != JobFailed {
			next.Status = JobFailed
			force = true
		}
	case events.TypeStart:
		next.Status = JobRunning
	}
	if next.Equal(snap) {
		// 重复的终态事件等：状态迁移层面的幂等，no-op。
		return snap, false
	}
	return next, force
}

// applyTask 处理图像任务级事件，并在任务集合齐后推导作业终态。
func applyTask(snap *Snapshot, ev events.Event) (*Snapshot, bool) {
	idx := -1
	for i := range snap.Tasks {
		if snap.Tasks[i].ID == ev.EntityID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// 未知任务：按"绝不因意外报文崩溃"策略静默忽略。
		return snap, false
	}
	next := snap.Clone()
	t := &next.Tasks[idx]
	if ev.Progress != nil {
		t.Progress = clampProgress(*ev.Progress)
	}
	switch ev.Type {
	case events.TypeDone:
		t.Status = TaskSuccess
	case events.TypeError, events.TypeAlgorithmError:
		t.Status = TaskFailed
		t.ErrorMessage = ev.Message
	case events.TypeStart:
		t.Status = TaskRunning
	}

	// 已完结作业的展示进度不再由任务推算。
	if !next.Status.Terminal() {
		next.Progress = meanProgress(next.Tasks)
	}

	force := false
	if len(next.Tasks) > 0 && next.Status == JobRunning && allTerminal(next.Tasks) {
		switch {
		case countStatus(next.Tasks, TaskCancelled) == len(next.Tasks):
			next.Status = JobCancelled
		case countStatus(next.Tasks, TaskSuccess) == len(next.Tasks):
			next.Status = JobSuccess
			next.Progress = 100
		case countStatus(next.Tasks, TaskSuccess) > 0:
			next.Status = JobPartialSuccess
			next.Progress = 100
		default:
			next.Status = JobFailed
			next.Progress = 100
		}
		// 终态推导后回源拉取权威记录（产物 URL 等）。
		force = true
	}
	if next.Equal(snap) {
		return snap, false
	}
	return next, force
}

// meanProgress 所有任务进度的无权重平均，取最近整数（恰为 .5 时向下）。
func meanProgress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	sum := 0
	for _, t := range tasks {
		sum += t.Progress
	}
	n := len(tasks)
	return (2*sum + n - 1) / (2 * n)
}

func allTerminal(tasks []Task) bool {
	for _, t := range tasks {
		if !t.Status.Terminal() {
			return false
		}
	}
	return true
}

func countStatus(tasks []Task, st TaskStatus) int {
	n := 0
	for _, t := range tasks {
		if t.Status == st {
			n++
		}
	}
	return n
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
