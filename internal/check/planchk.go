package check

import (
	"fmt"
	"strings"

	"github.com/pablasso/vigil/internal/signal"
)

// PlanCompleteness verifies a plan document carries the required
// section markers and enough steps to be executable.
type PlanCompleteness struct {
	RequiredSections []string
	MinSteps         int
}

func (PlanCompleteness) Name() string { return NamePlanCompleteness }

func (PlanCompleteness) Signals() []signal.Name {
	return []signal.Name{signal.PlanDoc}
}

func (c PlanCompleteness) Evaluate(b signal.Bundle) Finding {
	planDoc := b.Get(signal.PlanDoc)
	if planDoc.Unavailable {
		return unavailableFinding(c.Name(), planDoc)
	}

	p := planDoc.Plan
	missing := p.MissingSections(c.RequiredSections)
	tooFewSteps := len(p.Steps) < c.MinSteps

	if len(missing) == 0 && !tooFewSteps {
		return Finding{Check: c.Name(), Severity: SeverityNone, Message: "plan structure complete"}
	}

	var problems []string
	evidence := map[string][]string{}
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("missing sections: %s", strings.Join(missing, ", ")))
		evidence["missing_sections"] = missing
	}
	if tooFewSteps {
		problems = append(problems, fmt.Sprintf("only %d steps (minimum %d)", len(p.Steps), c.MinSteps))
		evidence["step_count"] = []string{fmt.Sprintf("%d", len(p.Steps))}
	}

	return Finding{
		Check:    c.Name(),
		Severity: SeverityHigh,
		Message:  strings.Join(problems, "; "),
		Evidence: evidence,
	}
}

// DependencySatisfied guards the in-progress transition: the target
// task must have every dependency completed before work starts.
type DependencySatisfied struct{}

func (DependencySatisfied) Name() string { return NameDependencySatisfied }

func (DependencySatisfied) Signals() []signal.Name {
	return []signal.Name{signal.TaskSet, signal.TargetTask}
}

func (c DependencySatisfied) Evaluate(b signal.Bundle) Finding {
	taskSet := b.Get(signal.TaskSet)
	if taskSet.Unavailable {
		return unavailableFinding(c.Name(), taskSet)
	}
	target := b.Get(signal.TargetTask)
	if target.Unavailable {
		return unavailableFinding(c.Name(), target)
	}

	t := taskSet.Tasks.Find(target.Text)
	if t == nil {
		return Finding{
			Check:    c.Name(),
			Severity: SeverityMedium,
			Message:  "signal unavailable: task not found: " + target.Text,
		}
	}

	unmet := taskSet.Tasks.UnmetDependencies(t)
	if len(unmet) == 0 {
		return Finding{Check: c.Name(), Severity: SeverityNone, Message: "all dependencies completed"}
	}

	var detail []string
	for _, depID := range unmet {
		status := "missing"
		if dep := taskSet.Tasks.Find(depID); dep != nil {
			status = dep.Status
		}
		detail = append(detail, fmt.Sprintf("%s (%s)", depID, status))
	}

	return Finding{
		Check:    c.Name(),
		Severity: SeverityHigh,
		Message:  fmt.Sprintf("task %s has %d incomplete dependencies", t.ID, len(unmet)),
		Evidence: map[string][]string{"unmet_dependencies": detail},
	}
}
