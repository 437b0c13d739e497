package signal

import (
	"context"

	"github.com/pablasso/vigil/internal/plan"
	"github.com/pablasso/vigil/internal/task"
)

// StoreSource exposes the persisted task document and the target task's
// plan document as signals.
type StoreSource struct {
	Tasks *task.Store
	Plans *plan.Store
}

// Name implements Source.
func (s *StoreSource) Name() string { return "store" }

// Provides implements Source.
func (s *StoreSource) Provides() []Name {
	return []Name{TaskSet, TargetTask, PlanDoc}
}

// Collect implements Source.
func (s *StoreSource) Collect(ctx context.Context, gc Context) Bundle {
	b := Bundle{}

	doc, err := s.Tasks.Load()
	if err != nil {
		b[TaskSet] = Unavailable("task store unreadable: " + err.Error())
	} else {
		b[TaskSet] = Value{Tasks: doc}
	}

	if gc.TaskID != "" {
		b[TargetTask] = TextValue(gc.TaskID)
	} else if doc != nil {
		if current := doc.Current(); current != nil {
			b[TargetTask] = TextValue(current.ID)
		} else {
			b[TargetTask] = Unavailable("no active task")
		}
	} else {
		b[TargetTask] = Unavailable("no active task")
	}

	taskID := ""
	if v := b[TargetTask]; !v.Unavailable {
		taskID = v.Text
	}
	switch {
	case taskID == "":
		b[PlanDoc] = Unavailable("no target task for plan lookup")
	case !s.Plans.Exists(taskID):
		b[PlanDoc] = Unavailable("no plan document for task " + taskID)
	default:
		p, _, err := s.Plans.Load(taskID)
		if err != nil {
			b[PlanDoc] = Unavailable("plan document unreadable: " + err.Error())
		} else {
			b[PlanDoc] = Value{Plan: p}
		}
	}

	return b
}
