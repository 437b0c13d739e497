package check

import (
	"testing"

	"github.com/pablasso/vigil/internal/plan"
	"github.com/pablasso/vigil/internal/signal"
	"github.com/pablasso/vigil/internal/task"
)

var requiredSections = []string{"## Context", "## Steps", "## Acceptance Criteria"}

func TestPlanCompleteness(t *testing.T) {
	c := PlanCompleteness{RequiredSections: requiredSections, MinSteps: 3}

	completePlan := &plan.Plan{
		TaskID:   "t01",
		Sections: []string{"## Context", "## Steps", "## Acceptance Criteria"},
		Steps: []plan.Step{
			{Index: 1, Description: "first"},
			{Index: 2, Description: "second"},
			{Index: 3, Description: "third"},
		},
	}

	f := c.Evaluate(signal.Bundle{signal.PlanDoc: signal.Value{Plan: completePlan}})
	if f.Severity != SeverityNone {
		t.Errorf("complete plan: got %v, want %v", f.Severity, SeverityNone)
	}
}

func TestPlanCompletenessMissingSection(t *testing.T) {
	c := PlanCompleteness{RequiredSections: requiredSections, MinSteps: 3}

	p := &plan.Plan{
		TaskID:   "t01",
		Sections: []string{"## Context", "## Steps"},
		Steps: []plan.Step{
			{Index: 1, Description: "first"},
			{Index: 2, Description: "second"},
			{Index: 3, Description: "third"},
		},
	}

	f := c.Evaluate(signal.Bundle{signal.PlanDoc: signal.Value{Plan: p}})
	if f.Severity != SeverityHigh {
		t.Fatalf("missing section: got %v, want %v", f.Severity, SeverityHigh)
	}
	missing := f.Evidence["missing_sections"]
	if len(missing) != 1 || missing[0] != "## Acceptance Criteria" {
		t.Errorf("missing_sections: got %v, want [## Acceptance Criteria]", missing)
	}
}

func TestPlanCompletenessTooFewSteps(t *testing.T) {
	c := PlanCompleteness{RequiredSections: requiredSections, MinSteps: 3}

	p := &plan.Plan{
		TaskID:   "t01",
		Sections: []string{"## Context", "## Steps", "## Acceptance Criteria"},
		Steps:    []plan.Step{{Index: 1, Description: "only one"}},
	}

	f := c.Evaluate(signal.Bundle{signal.PlanDoc: signal.Value{Plan: p}})
	if f.Severity != SeverityHigh {
		t.Fatalf("too few steps: got %v, want %v", f.Severity, SeverityHigh)
	}
	if got := f.Evidence["step_count"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("step_count: got %v, want [1]", got)
	}
}

func taskSet(tasks ...task.Task) signal.Value {
	return signal.Value{Tasks: &task.Document{Version: 1, Tasks: tasks}}
}

func TestDependencySatisfied(t *testing.T) {
	c := DependencySatisfied{}

	tests := []struct {
		name         string
		depStatus    string
		wantSeverity Severity
	}{
		{"dependency completed", task.StatusCompleted, SeverityNone},
		{"dependency in progress", task.StatusInProgress, SeverityHigh},
		{"dependency pending", task.StatusPending, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := signal.Bundle{
				signal.TaskSet: taskSet(
					task.Task{ID: "t01", Title: "dep", Status: tt.depStatus},
					task.Task{ID: "t02", Title: "work", Status: task.StatusPending, DependsOn: []string{"t01"}},
				),
				signal.TargetTask: signal.TextValue("t02"),
			}
			f := c.Evaluate(b)
			if f.Severity != tt.wantSeverity {
				t.Errorf("severity: got %v, want %v", f.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestDependencySatisfiedMissingDependency(t *testing.T) {
	c := DependencySatisfied{}
	b := signal.Bundle{
		signal.TaskSet: taskSet(
			task.Task{ID: "t02", Status: task.StatusPending, DependsOn: []string{"t99"}},
		),
		signal.TargetTask: signal.TextValue("t02"),
	}

	f := c.Evaluate(b)
	if f.Severity != SeverityHigh {
		t.Fatalf("missing dependency: got %v, want %v", f.Severity, SeverityHigh)
	}
	unmet := f.Evidence["unmet_dependencies"]
	if len(unmet) != 1 || unmet[0] != "t99 (missing)" {
		t.Errorf("unmet_dependencies: got %v, want [t99 (missing)]", unmet)
	}
}

func TestDependencySatisfiedUnknownTask(t *testing.T) {
	c := DependencySatisfied{}
	b := signal.Bundle{
		signal.TaskSet:    taskSet(task.Task{ID: "t01", Status: task.StatusPending}),
		signal.TargetTask: signal.TextValue("t42"),
	}

	f := c.Evaluate(b)
	if f.Severity != SeverityMedium {
		t.Errorf("unknown task: got %v, want %v", f.Severity, SeverityMedium)
	}
}
