package check

import (
	"errors"
	"testing"

	"github.com/pablasso/vigil/internal/signal"
)

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(CompilationClean{}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err := r.Register(CompilationClean{})
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	var dup DuplicateCheckError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateCheckError, got %T", err)
	}
	if dup.Name != NameCompilationClean {
		t.Errorf("duplicate name: got %q, want %q", dup.Name, NameCompilationClean)
	}
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	if err := RegisterBuiltins(r, Thresholds{}); err != nil {
		t.Fatalf("RegisterBuiltins failed: %v", err)
	}

	names := r.List()
	if len(names) != 7 {
		t.Fatalf("expected 7 built-in checks, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}

	if _, ok := r.Get(NameScopeExpansion); !ok {
		t.Errorf("expected %q to be registered", NameScopeExpansion)
	}
}

func TestParseSeverityRoundTrip(t *testing.T) {
	for _, s := range []Severity{SeverityNone, SeverityLow, SeverityMedium, SeverityHigh} {
		parsed, err := ParseSeverity(s.String())
		if err != nil {
			t.Fatalf("ParseSeverity(%q) failed: %v", s.String(), err)
		}
		if parsed != s {
			t.Errorf("ParseSeverity(%q) = %v, want %v", s.String(), parsed, s)
		}
	}

	if _, err := ParseSeverity("critical"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityNone < SeverityLow && SeverityLow < SeverityMedium && SeverityMedium < SeverityHigh) {
		t.Error("severity values must be ordered none < low < medium < high")
	}
}

func TestUnavailableSignalProducesNonNoneFinding(t *testing.T) {
	b := signal.Bundle{
		signal.BuildExitCode: signal.Unavailable("build tool not found"),
	}

	f := CompilationClean{}.Evaluate(b)
	if f.Severity == SeverityNone {
		t.Error("degraded evaluation must not be mistaken for a clean one")
	}
	if f.Severity != SeverityMedium {
		t.Errorf("severity: got %v, want %v", f.Severity, SeverityMedium)
	}
	want := "signal unavailable: build tool not found"
	if f.Message != want {
		t.Errorf("message: got %q, want %q", f.Message, want)
	}
}

func TestMissingSignalReportedAsUnavailable(t *testing.T) {
	f := CompilationClean{}.Evaluate(signal.Bundle{})
	if f.Severity != SeverityMedium {
		t.Errorf("severity: got %v, want %v", f.Severity, SeverityMedium)
	}
}
