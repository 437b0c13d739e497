// Package signal collects raw facts about the repository and task state
// for gate checks to evaluate. Sources never fail collection outright:
// anything they cannot produce is recorded as an unavailable value so
// checks can still report a degraded finding.
package signal

import (
	"github.com/pablasso/vigil/internal/plan"
	"github.com/pablasso/vigil/internal/task"
)

// Name identifies one signal inside a Bundle.
type Name string

// Signal names produced by the built-in sources.
const (
	BuildExitCode  Name = "build.exit_code"
	BuildOutput    Name = "build.output"
	LintViolations Name = "lint.violations"
	LintOutput     Name = "lint.output"
	TestOutput     Name = "test.output"
	ChangedFiles   Name = "git.changed_files"
	RecentCommits  Name = "git.recent_commits"
	TaskSet        Name = "store.tasks"
	TargetTask     Name = "store.task_id"
	PlanDoc        Name = "store.plan"
)

// Value is one collected signal. Exactly one payload field is meaningful
// for a given Name; Unavailable overrides all of them.
type Value struct {
	Unavailable bool
	Reason      string // why collection failed, when Unavailable

	Int   int
	Text  string
	Paths []string
	Tasks *task.Document
	Plan  *plan.Plan
}

// Unavailable marks a signal that could not be collected.
func Unavailable(reason string) Value {
	return Value{Unavailable: true, Reason: reason}
}

// IntValue wraps an integer signal.
func IntValue(n int) Value { return Value{Int: n} }

// TextValue wraps a text signal.
func TextValue(s string) Value { return Value{Text: s} }

// PathsValue wraps a file-path list signal.
func PathsValue(paths []string) Value { return Value{Paths: paths} }

// Bundle maps signal names to collected values. It is immutable once
// handed to checks: all checks in one gate invocation see the same facts.
type Bundle map[Name]Value

// Get returns the named value. A signal that was never collected is
// reported as unavailable rather than a zero value, so checks don't have
// to distinguish "source missing" from "source degraded".
func (b Bundle) Get(name Name) Value {
	if v, ok := b[name]; ok {
		return v
	}
	return Unavailable("signal not collected: " + string(name))
}

// Merge copies all values from other into b, overwriting duplicates.
func (b Bundle) Merge(other Bundle) {
	for k, v := range other {
		b[k] = v
	}
}
