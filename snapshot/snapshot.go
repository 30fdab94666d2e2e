package snapshot

// JobStatus 作业状态，保持与后端契约一致。
type JobStatus string

const (
	JobPending        JobStatus = "PENDING"
	JobRunning        JobStatus = "RUNNING"
	JobSuccess        JobStatus = "SUCCESS"
	JobPartialSuccess JobStatus = "PARTIAL_SUCCESS"
	JobFailed         JobStatus = "FAILED"
	JobCancelled      JobStatus = "CANCELLED"
)

// Terminal 判断作业状态是否为终态（无后继迁移）。
func (s JobStatus) Terminal() bool {
	switch s {
	case JobSuccess, JobPartialSuccess, JobFailed, JobCancelled:
		return true
	}
	return false
}

// ParseJobStatus 识别线上状态字符串；未知值返回 false。
func ParseJobStatus(raw string) (JobStatus, bool) {
	switch JobStatus(raw) {
	case JobPending, JobRunning, JobSuccess, JobPartialSuccess, JobFailed, JobCancelled:
		return JobStatus(raw), true
	}
	return "", false
}

// TaskStatus 任务状态（任务粒度无 PARTIAL_SUCCESS）。
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskRunning   TaskStatus = "RUNNING"
	TaskSuccess   TaskStatus = "SUCCESS"
	TaskFailed    TaskStatus = "FAILED"
	TaskCancelled TaskStatus = "CANCELLED"
)

// Terminal 判断任务状态是否为终态。
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskSuccess, TaskFailed, TaskCancelled:
		return true
	}
	return false
}

// ParseTaskStatus 识别线上任务状态字符串；未知值返回 false。
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	switch TaskStatus(raw) {
	case TaskPending, TaskRunning, TaskSuccess, TaskFailed, TaskCancelled:
		return TaskStatus(raw), true
	}
	return "", false
}

// Task 作业快照内的任务子记录，仅归属于所在快照。
type Task struct {
	ID           string
	Status       TaskStatus
	Progress     int
	ErrorMessage string
}

// Snapshot 单个作业的本地缓存表示。
// 说明：tasks 顺序为后端创建顺序；progress 取值 0-100，引擎不强制单调。
type Snapshot struct {
	ID       string
	Status   JobStatus
	Progress int
	Tasks    []Task
}

// Clone 深拷贝快照（任务切片独立）。
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Tasks = make([]Task, len(s.Tasks))
	copy(cp.Tasks, s.Tasks)
	return &cp
}

// Equal 逐字段比较两个快照。
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.ID != o.ID || s.Status != o.Status || s.Progress != o.Progress || len(s.Tasks) != len(o.Tasks) {
		return false
	}
	for i := range s.Tasks {
		if s.Tasks[i] != o.Tasks[i] {
			return false
		}
	}
	return true
}

// TrulyFinished 判断作业是否"真正完成"：
// 作业状态为终态，且（无任务 或 所有任务均为终态）。
// 轮询回退以该谓词作为停止条件，界面复用它判断完成态。
func TrulyFinished(s *Snapshot) bool {
	if s == nil || !s.Status.Terminal() {
		return false
	}
	for _, t := range s.Tasks {
		if !t.Status.Terminal() {
			return false
		}
	}
	return true
}

// Drifted 漂移检测：作业已是终态但仍有任务停留在非终态，
// 说明本地快照与权威记录脱节，应当强制回源刷新。
func Drifted(s *Snapshot) bool {
	if s == nil || !s.Status.Terminal() || len(s.Tasks) == 0 {
		return false
	}
	for _, t := range s.Tasks {
		if !t.Status.Terminal() {
			return true
		}
	}
	return false
}
