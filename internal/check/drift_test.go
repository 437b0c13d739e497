package check

import (
	"testing"

	"github.com/pablasso/vigil/internal/plan"
	"github.com/pablasso/vigil/internal/signal"
)

func planValue(files ...string) signal.Value {
	return signal.Value{Plan: &plan.Plan{TaskID: "t01", Files: files}}
}

func TestUnexpectedFileTouch(t *testing.T) {
	c := UnexpectedFileTouch{CriticalFiles: []string{"go.mod", ".env"}}

	tests := []struct {
		name         string
		changed      []string
		planned      []string
		wantSeverity Severity
	}{
		{
			name:         "all declared",
			changed:      []string{"internal/gate/policy.go"},
			planned:      []string{"internal/gate/policy.go"},
			wantSeverity: SeverityNone,
		},
		{
			name:         "basename match counts as declared",
			changed:      []string{"internal/gate/policy.go"},
			planned:      []string{"policy.go"},
			wantSeverity: SeverityNone,
		},
		{
			name:         "undeclared file",
			changed:      []string{"internal/audit/sink.go"},
			planned:      []string{"policy.go"},
			wantSeverity: SeverityMedium,
		},
		{
			name:         "critical file declared in plan",
			changed:      []string{"go.mod"},
			planned:      []string{"go.mod"},
			wantSeverity: SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := signal.Bundle{
				signal.ChangedFiles: signal.PathsValue(tt.changed),
				signal.PlanDoc:      planValue(tt.planned...),
			}
			f := c.Evaluate(b)
			if f.Severity != tt.wantSeverity {
				t.Errorf("severity: got %v, want %v", f.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestUnexpectedFileTouchEvidence(t *testing.T) {
	c := UnexpectedFileTouch{CriticalFiles: []string{"go.mod"}}
	b := signal.Bundle{
		signal.ChangedFiles: signal.PathsValue([]string{"go.mod", "internal/new.go"}),
		signal.PlanDoc:      planValue("internal/old.go"),
	}

	f := c.Evaluate(b)
	if f.Severity != SeverityMedium {
		t.Fatalf("severity: got %v, want %v", f.Severity, SeverityMedium)
	}
	if len(f.Evidence["unexpected_files"]) != 2 {
		t.Errorf("unexpected_files: got %v, want 2 entries", f.Evidence["unexpected_files"])
	}
	if len(f.Evidence["critical_files"]) != 1 || f.Evidence["critical_files"][0] != "go.mod" {
		t.Errorf("critical_files: got %v, want [go.mod]", f.Evidence["critical_files"])
	}
}

func TestScopeExpansionBoundary(t *testing.T) {
	c := ScopeExpansion{Ratio: 1.5}

	tests := []struct {
		name         string
		changed      int
		planned      int
		wantSeverity Severity
	}{
		{"under threshold", 2, 2, SeverityNone},
		{"exactly at threshold", 3, 2, SeverityNone},
		{"strictly above threshold", 4, 2, SeverityMedium},
		{"single planned file blown out", 5, 1, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := make([]string, tt.changed)
			for i := range changed {
				changed[i] = "file" + string(rune('a'+i)) + ".go"
			}
			planned := make([]string, tt.planned)
			for i := range planned {
				planned[i] = "planned" + string(rune('a'+i)) + ".txt"
			}

			b := signal.Bundle{
				signal.ChangedFiles: signal.PathsValue(changed),
				signal.PlanDoc:      planValue(planned...),
			}
			f := c.Evaluate(b)
			if f.Severity != tt.wantSeverity {
				t.Errorf("%d changed / %d planned: got %v, want %v", tt.changed, tt.planned, f.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestScopeExpansionEmptyPlan(t *testing.T) {
	c := ScopeExpansion{Ratio: 1.5}
	b := signal.Bundle{
		signal.ChangedFiles: signal.PathsValue([]string{"x.go"}),
		signal.PlanDoc:      planValue(),
	}

	f := c.Evaluate(b)
	if f.Severity != SeverityMedium {
		t.Errorf("empty plan: got %v, want %v", f.Severity, SeverityMedium)
	}
}
