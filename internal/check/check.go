// Package check defines the gate check contract: a named, pure
// evaluation over a signal bundle producing a severity-ranked finding,
// and the registry that maps check names to implementations.
package check

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pablasso/vigil/internal/signal"
)

// Severity is the ordered risk level of a finding.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity name back to its value.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "none":
		return SeverityNone, nil
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	}
	return SeverityNone, fmt.Errorf("unknown severity: %q", s)
}

// Finding is the immutable output of one check evaluation.
type Finding struct {
	Check    string              `json:"check"`
	Severity Severity            `json:"severity"`
	Message  string              `json:"message"`
	Evidence map[string][]string `json:"evidence,omitempty"`
}

// Check evaluates one heuristic over a signal bundle.
//
// Signals declares what the check reads, so the evaluator can collect
// lazily. Evaluate must be a pure function of the bundle: same bundle,
// same finding.
type Check interface {
	Name() string
	Signals() []signal.Name
	Evaluate(b signal.Bundle) Finding
}

// DuplicateCheckError reports a name registered twice. This is a
// programming error and fails registration outright.
type DuplicateCheckError struct {
	Name string
}

func (e DuplicateCheckError) Error() string {
	return fmt.Sprintf("check already registered: %s", e.Name)
}

// Registry maps check names to implementations.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register adds a check, rejecting duplicate names.
func (r *Registry) Register(c Check) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.checks[c.Name()]; exists {
		return DuplicateCheckError{Name: c.Name()}
	}
	r.checks[c.Name()] = c
	return nil
}

// Get returns the named check.
func (r *Registry) Get(name string) (Check, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checks[name]
	return c, ok
}

// List returns all registered check names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// unavailableFinding is the shared degraded result when a check's
// required signal could not be collected. It is deliberately non-none
// so a degraded evaluation can never be mistaken for a clean one.
func unavailableFinding(name string, v signal.Value) Finding {
	return Finding{
		Check:    name,
		Severity: SeverityMedium,
		Message:  "signal unavailable: " + v.Reason,
	}
}
