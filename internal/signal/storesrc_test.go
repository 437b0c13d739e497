package signal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pablasso/vigil/internal/plan"
	"github.com/pablasso/vigil/internal/task"
)

func newStoreSource(t *testing.T) (*StoreSource, *task.Store, *plan.Store) {
	t.Helper()
	dir := t.TempDir()
	tasks := task.NewStore(dir)
	plans := plan.NewStore(filepath.Join(dir, "plans"))
	return &StoreSource{Tasks: tasks, Plans: plans}, tasks, plans
}

func TestStoreSourceEmptyStore(t *testing.T) {
	src, _, _ := newStoreSource(t)

	b := src.Collect(context.Background(), Context{})

	if v := b.Get(TaskSet); v.Unavailable {
		t.Errorf("empty store still yields a task set: %s", v.Reason)
	}
	if v := b.Get(TargetTask); !v.Unavailable {
		t.Error("no active task: target should be unavailable")
	}
	if v := b.Get(PlanDoc); !v.Unavailable {
		t.Error("no target task: plan should be unavailable")
	}
}

func TestStoreSourceResolvesCurrentTask(t *testing.T) {
	src, tasks, plans := newStoreSource(t)

	err := tasks.Update(func(doc *task.Document) error {
		doc.Tasks = append(doc.Tasks,
			task.Task{ID: "t01", Status: task.StatusCompleted},
			task.Task{ID: "t02", Status: task.StatusInProgress},
		)
		return nil
	})
	if err != nil {
		t.Fatalf("seed tasks failed: %v", err)
	}
	if err := plans.Save("t02", "## Context\nx\n\n## Steps\n1. go\n"); err != nil {
		t.Fatalf("seed plan failed: %v", err)
	}

	b := src.Collect(context.Background(), Context{})

	if v := b.Get(TargetTask); v.Unavailable || v.Text != "t02" {
		t.Errorf("target task: got %+v, want t02", v)
	}
	v := b.Get(PlanDoc)
	if v.Unavailable {
		t.Fatalf("plan doc unavailable: %s", v.Reason)
	}
	if v.Plan.TaskID != "t02" || len(v.Plan.Steps) != 1 {
		t.Errorf("plan: %+v", v.Plan)
	}
}

func TestStoreSourceExplicitTaskIDWins(t *testing.T) {
	src, tasks, _ := newStoreSource(t)

	err := tasks.Update(func(doc *task.Document) error {
		doc.Tasks = append(doc.Tasks, task.Task{ID: "t01", Status: task.StatusInProgress})
		return nil
	})
	if err != nil {
		t.Fatalf("seed tasks failed: %v", err)
	}

	b := src.Collect(context.Background(), Context{TaskID: "t07"})

	if v := b.Get(TargetTask); v.Unavailable || v.Text != "t07" {
		t.Errorf("target task: got %+v, want t07", v)
	}
	if v := b.Get(PlanDoc); !v.Unavailable {
		t.Error("no plan for explicit task: expected unavailable")
	}
}
