package gate

import (
	"fmt"

	"github.com/pablasso/vigil/internal/check"
)

// Policy maps each severity to an action. A policy must be exhaustive:
// construction fails if any severity is unmapped, so classification can
// never fall through at evaluation time.
type Policy map[check.Severity]Action

// DefaultPolicy returns the standard mapping: none and low continue,
// medium alerts, high blocks.
func DefaultPolicy() Policy {
	return Policy{
		check.SeverityNone:   ActionContinue,
		check.SeverityLow:    ActionContinue,
		check.SeverityMedium: ActionAlert,
		check.SeverityHigh:   ActionBlock,
	}
}

// allSeverities enumerates every severity a policy must cover.
var allSeverities = []check.Severity{
	check.SeverityNone, check.SeverityLow, check.SeverityMedium, check.SeverityHigh,
}

// Validate checks the policy covers every severity.
func (p Policy) Validate() error {
	for _, s := range allSeverities {
		if _, ok := p[s]; !ok {
			return fmt.Errorf("policy missing mapping for severity %s", s)
		}
	}
	return nil
}

// Classify returns the action for a severity. Policies are validated at
// construction, so an unmapped severity here is a programming error and
// degrades to block, the safe direction for a gate.
func (p Policy) Classify(severity check.Severity) Action {
	if action, ok := p[severity]; ok {
		return action
	}
	return ActionBlock
}

// PolicyFromOverrides builds a policy from the default with severity
// name to action name overrides applied, rejecting unknown names and
// validating exhaustiveness.
func PolicyFromOverrides(overrides map[string]string) (Policy, error) {
	p := DefaultPolicy()
	for severityName, actionName := range overrides {
		severity, err := check.ParseSeverity(severityName)
		if err != nil {
			return nil, err
		}
		action, err := ParseAction(actionName)
		if err != nil {
			return nil, err
		}
		p[severity] = action
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
