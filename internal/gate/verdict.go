// Package gate runs checks against the current project state and
// classifies the aggregated findings into an advisory action. The
// framework never enforces a block itself; honoring the action is the
// caller's responsibility.
package gate

import (
	"fmt"
	"strings"
	"time"

	"github.com/pablasso/vigil/internal/check"
)

// Action is the advisory outcome of a gate invocation.
type Action int

const (
	ActionContinue Action = iota
	ActionAlert
	ActionBlock
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionAlert:
		return "alert"
	case ActionBlock:
		return "block"
	default:
		return "unknown"
	}
}

// ParseAction converts an action name back to its value.
func ParseAction(s string) (Action, error) {
	switch s {
	case "continue":
		return ActionContinue, nil
	case "alert":
		return ActionAlert, nil
	case "block":
		return ActionBlock, nil
	}
	return ActionContinue, fmt.Errorf("unknown action: %q", s)
}

// Verdict aggregates the findings of one gate invocation. Severity is
// the maximum among the findings; Action is derived from the policy.
// A verdict is never mutated after creation.
type Verdict struct {
	ID        string          `json:"id"`
	Findings  []check.Finding `json:"findings"`
	Severity  check.Severity  `json:"severity"`
	Action    Action          `json:"action"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Message joins the finding messages for human consumption, skipping
// clean results when anything else is present.
func (v Verdict) Message() string {
	var parts []string
	for _, f := range v.Findings {
		if f.Severity == check.SeverityNone {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Check, f.Message))
	}
	if len(parts) == 0 {
		return "all checks clean"
	}
	return strings.Join(parts, "; ")
}
