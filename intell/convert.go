package intell

import (
	"github.com/intellai/intell-client-go/client"
	"github.com/intellai/intell-client-go/events"
	"github.com/intellai/intell-client-go/snapshot"
)

// snapshotFromJob 将接口层作业详情转为本地快照。
// 未识别的状态值一律回退为 PENDING，避免脏数据放大。
func snapshotFromJob(j client.Job) *snapshot.Snapshot {
	st, ok := snapshot.ParseJobStatus(j.Status)
	if !ok {
		st = snapshot.JobPending
	}
	s := &snapshot.Snapshot{
		ID:       j.ID,
		Status:   st,
		Progress: boundProgress(j.Progress),
	}
	for _, img := range j.Images {
		ts, tok := snapshot.ParseTaskStatus(img.Status)
		if !tok {
			ts = snapshot.TaskPending
		}
		s.Tasks = append(s.Tasks, snapshot.Task{
			ID:           img.ID,
			Status:       ts,
			Progress:     boundProgress(img.Progress),
			ErrorMessage: img.ErrorMessage,
		})
	}
	return s
}

// eventsFromJob 将作业详情内嵌的事件列表转为规范事件。
// 整体拉取携带的事件经活动日志去重后补记，不会重复。
func eventsFromJob(j client.Job) []events.Event {
	out := make([]events.Event, 0, len(j.Events))
	for _, e := range j.Events {
		et, ok := events.ParseEntityType(e.EntityType)
		if !ok {
			continue
		}
		out = append(out, events.Event{
			JobID:      j.ID,
			EntityType: et,
			EntityID:   e.EntityID,
			Type:       events.Type(e.EventType),
			Level:      e.Level,
			Progress:   e.Progress,
			Message:    e.Message,
			TraceID:    e.TraceID,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}

// jobRecordFromSnapshot 生成持久化作业记录。
func jobRecordFromSnapshot(s *snapshot.Snapshot, sourceType string) JobRecord {
	return JobRecord{
		JobID:      s.ID,
		Status:     string(s.Status),
		Progress:   s.Progress,
		SourceType: sourceType,
	}
}

// eventRecordFrom 生成持久化事件记录。
func eventRecordFrom(ev events.Event) EventRecord {
	rec := EventRecord{
		JobID:      ev.JobID,
		EntityType: string(ev.EntityType),
		EntityID:   ev.EntityID,
		EventType:  string(ev.Type),
		Level:      ev.Level,
		Message:    ev.Message,
		TraceID:    ev.TraceID,
		CreatedAt:  ev.CreatedAt,
		ReceivedAt: ev.ReceivedAt,
	}
	if ev.Progress != nil {
		rec.HasProgress = true
		rec.Progress = *ev.Progress
	}
	return rec
}

func boundProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
