package check

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pablasso/vigil/internal/signal"
)

// UnexpectedFileTouch flags changed files the plan never declared.
// Files from the critical list are always called out in the evidence,
// whether planned or not.
type UnexpectedFileTouch struct {
	// CriticalFiles are basenames whose modification is worth flagging
	// regardless of the plan (build manifests, env files).
	CriticalFiles []string
}

func (UnexpectedFileTouch) Name() string { return NameUnexpectedFileTouch }

func (UnexpectedFileTouch) Signals() []signal.Name {
	return []signal.Name{signal.ChangedFiles, signal.PlanDoc}
}

func (c UnexpectedFileTouch) Evaluate(b signal.Bundle) Finding {
	changed := b.Get(signal.ChangedFiles)
	if changed.Unavailable {
		return unavailableFinding(c.Name(), changed)
	}
	planDoc := b.Get(signal.PlanDoc)
	if planDoc.Unavailable {
		return unavailableFinding(c.Name(), planDoc)
	}

	var unexpected []string
	for _, f := range changed.Paths {
		if !planDoc.Plan.DeclaresFile(f) {
			unexpected = append(unexpected, f)
		}
	}

	var critical []string
	for _, f := range changed.Paths {
		base := filepath.Base(f)
		for _, crit := range c.CriticalFiles {
			if base == crit {
				critical = append(critical, f)
				break
			}
		}
	}

	if len(unexpected) == 0 && len(critical) == 0 {
		return Finding{Check: c.Name(), Severity: SeverityNone, Message: "all changed files declared in plan"}
	}

	evidence := map[string][]string{}
	if len(unexpected) > 0 {
		evidence["unexpected_files"] = unexpected
	}
	if len(critical) > 0 {
		evidence["critical_files"] = critical
	}

	if len(unexpected) == 0 {
		return Finding{
			Check:    c.Name(),
			Severity: SeverityLow,
			Message:  fmt.Sprintf("critical files modified: %s", strings.Join(critical, ", ")),
			Evidence: evidence,
		}
	}

	return Finding{
		Check:    c.Name(),
		Severity: SeverityMedium,
		Message:  fmt.Sprintf("%d changed files not declared in plan", len(unexpected)),
		Evidence: evidence,
	}
}

// ScopeExpansion flags when the changed-file count outgrows the plan.
// The boundary is inclusive: a ratio exactly at the threshold passes,
// only strictly greater trips the check.
type ScopeExpansion struct {
	// Ratio is the allowed changed/planned file count ratio.
	Ratio float64
}

func (ScopeExpansion) Name() string { return NameScopeExpansion }

func (ScopeExpansion) Signals() []signal.Name {
	return []signal.Name{signal.ChangedFiles, signal.PlanDoc}
}

func (c ScopeExpansion) Evaluate(b signal.Bundle) Finding {
	changed := b.Get(signal.ChangedFiles)
	if changed.Unavailable {
		return unavailableFinding(c.Name(), changed)
	}
	planDoc := b.Get(signal.PlanDoc)
	if planDoc.Unavailable {
		return unavailableFinding(c.Name(), planDoc)
	}

	planned := len(planDoc.Plan.Files)
	if planned == 0 {
		return Finding{
			Check:    c.Name(),
			Severity: SeverityMedium,
			Message:  "plan declares no files; scope cannot be assessed",
		}
	}

	ratio := float64(len(changed.Paths)) / float64(planned)
	if ratio <= c.Ratio {
		return Finding{
			Check:    c.Name(),
			Severity: SeverityNone,
			Message:  fmt.Sprintf("scope ratio %.2f within threshold %.2f", ratio, c.Ratio),
		}
	}

	return Finding{
		Check:    c.Name(),
		Severity: SeverityMedium,
		Message:  fmt.Sprintf("scope ratio %.2f exceeds threshold %.2f (%d changed vs %d planned)", ratio, c.Ratio, len(changed.Paths), planned),
		Evidence: map[string][]string{"changed_files": changed.Paths},
	}
}

// CascadeRisk counts error signatures matching the configured cascade
// indicators in build and test output. Above HighCount the cascade is
// high severity; any match at all is medium.
type CascadeRisk struct {
	// Indicators are substrings that suggest cascading failures
	// (unresolved imports, missing modules, type mismatches).
	Indicators []string
	// HighCount is the match count above which severity becomes high.
	HighCount int
}

func (CascadeRisk) Name() string { return NameCascadeRisk }

func (CascadeRisk) Signals() []signal.Name {
	return []signal.Name{signal.BuildOutput, signal.TestOutput}
}

func (c CascadeRisk) Evaluate(b signal.Bundle) Finding {
	build := b.Get(signal.BuildOutput)
	test := b.Get(signal.TestOutput)
	if build.Unavailable && test.Unavailable {
		return unavailableFinding(c.Name(), build)
	}

	var matched []string
	count := 0
	for _, line := range splitOutputs(build, test) {
		lower := strings.ToLower(line)
		for _, indicator := range c.Indicators {
			if strings.Contains(lower, strings.ToLower(indicator)) {
				count++
				if len(matched) < 10 {
					matched = append(matched, strings.TrimSpace(line))
				}
				break
			}
		}
	}

	switch {
	case count == 0:
		// A clean partial scan is not a clean verdict: the missing
		// output could hold the indicators.
		if build.Unavailable {
			return unavailableFinding(c.Name(), build)
		}
		if test.Unavailable {
			return unavailableFinding(c.Name(), test)
		}
		return Finding{Check: c.Name(), Severity: SeverityNone, Message: "no cascade indicators found"}
	case count > c.HighCount:
		return Finding{
			Check:    c.Name(),
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%d cascade indicators found; stop and debug the root cause before continuing", count),
			Evidence: map[string][]string{"matches": matched},
		}
	default:
		return Finding{
			Check:    c.Name(),
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("%d cascade indicators found; monitor the next changes carefully", count),
			Evidence: map[string][]string{"matches": matched},
		}
	}
}

func splitOutputs(values ...signal.Value) []string {
	var lines []string
	for _, v := range values {
		if v.Unavailable || v.Text == "" {
			continue
		}
		for _, line := range strings.Split(v.Text, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}
