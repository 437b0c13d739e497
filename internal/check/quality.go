package check

import (
	"fmt"
	"strings"

	"github.com/pablasso/vigil/internal/signal"
)

// Built-in check names.
const (
	NameCompilationClean    = "compilation-clean"
	NameLintClean           = "lint-clean"
	NameUnexpectedFileTouch = "unexpected-file-touch"
	NameScopeExpansion      = "scope-expansion"
	NameDependencySatisfied = "dependency-satisfied"
	NamePlanCompleteness    = "plan-completeness"
	NameCascadeRisk         = "cascade-risk"
)

// CompilationClean flags a failing build. A non-zero exit code from the
// build command is high severity with the diagnostic text attached.
type CompilationClean struct{}

func (CompilationClean) Name() string { return NameCompilationClean }

func (CompilationClean) Signals() []signal.Name {
	return []signal.Name{signal.BuildExitCode, signal.BuildOutput}
}

func (c CompilationClean) Evaluate(b signal.Bundle) Finding {
	exitCode := b.Get(signal.BuildExitCode)
	if exitCode.Unavailable {
		return unavailableFinding(c.Name(), exitCode)
	}
	if exitCode.Int == 0 {
		return Finding{Check: c.Name(), Severity: SeverityNone, Message: "build clean"}
	}

	output := b.Get(signal.BuildOutput)
	diagnostics := truncateLines(output.Text, 10)
	return Finding{
		Check:    c.Name(),
		Severity: SeverityHigh,
		Message:  fmt.Sprintf("build failed with exit code %d", exitCode.Int),
		Evidence: map[string][]string{"diagnostics": diagnostics},
	}
}

// LintClean scales severity with the violation count: none at zero,
// low up to LowMax, medium above it.
type LintClean struct {
	// LowMax is the highest violation count still considered low.
	LowMax int
}

func (LintClean) Name() string { return NameLintClean }

func (LintClean) Signals() []signal.Name {
	return []signal.Name{signal.LintViolations, signal.LintOutput}
}

func (c LintClean) Evaluate(b signal.Bundle) Finding {
	violations := b.Get(signal.LintViolations)
	if violations.Unavailable {
		return unavailableFinding(c.Name(), violations)
	}

	n := violations.Int
	switch {
	case n == 0:
		return Finding{Check: c.Name(), Severity: SeverityNone, Message: "lint clean"}
	case n <= c.LowMax:
		return Finding{
			Check:    c.Name(),
			Severity: SeverityLow,
			Message:  fmt.Sprintf("%d lint violations", n),
			Evidence: map[string][]string{"sample": truncateLines(b.Get(signal.LintOutput).Text, 5)},
		}
	default:
		return Finding{
			Check:    c.Name(),
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("%d lint violations (threshold %d)", n, c.LowMax),
			Evidence: map[string][]string{"sample": truncateLines(b.Get(signal.LintOutput).Text, 5)},
		}
	}
}

// truncateLines returns up to max non-empty lines of text.
func truncateLines(text string, max int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == max {
			break
		}
	}
	return lines
}
