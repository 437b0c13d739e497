package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pablasso/vigil/internal/audit"
	"github.com/pablasso/vigil/internal/check"
	"github.com/pablasso/vigil/internal/signal"
)

// AuditSink is where verdicts are persisted. Every invocation appends
// exactly one entry, continue verdicts included.
type AuditSink interface {
	Append(audit.Entry) error
}

// Context identifies what triggered a gate invocation.
type Context struct {
	// Trigger names the operation being gated (e.g. "task-start",
	// "post-edit") for the audit trail.
	Trigger string
	Signal  signal.Context
}

// Evaluator resolves checks, collects the signals they need, and
// aggregates their findings into a classified verdict.
type Evaluator struct {
	registry *check.Registry
	sources  []signal.Source
	policy   Policy
	sink     AuditSink
}

// New creates an evaluator. The policy must be exhaustive; sink may be
// nil for callers that handle persistence themselves.
func New(registry *check.Registry, sources []signal.Source, policy Policy, sink AuditSink) (*Evaluator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{
		registry: registry,
		sources:  sources,
		policy:   policy,
		sink:     sink,
	}, nil
}

// Run evaluates the named checks and returns the classified verdict.
//
// A check that cannot be resolved or that fails internally contributes
// a synthetic medium finding instead of aborting the batch. The only
// errors returned are persistence failures, and even then the verdict
// is returned alongside so the caller can decide how to escalate.
func (e *Evaluator) Run(ctx context.Context, checkNames []string, gc Context) (Verdict, error) {
	checks := make([]check.Check, len(checkNames))
	for i, name := range checkNames {
		if c, ok := e.registry.Get(name); ok {
			checks[i] = c
		}
	}

	bundle := e.collect(ctx, checks, gc.Signal)
	if err := ctx.Err(); err != nil {
		// The invocation was abandoned: whatever signals were collected
		// are discarded and no partial verdict reaches the sink.
		return Verdict{}, err
	}
	findings := e.evaluate(checks, checkNames, bundle)

	severity := check.SeverityNone
	for _, f := range findings {
		if f.Severity > severity {
			severity = f.Severity
		}
	}

	verdict := Verdict{
		ID:        uuid.NewString(),
		Findings:  findings,
		Severity:  severity,
		Action:    e.policy.Classify(severity),
		CreatedAt: time.Now(),
	}

	if e.sink != nil {
		if err := e.append(verdict, gc); err != nil {
			return verdict, err
		}
	}
	return verdict, nil
}

// collect gathers signals lazily: only sources providing something the
// requested checks declared are invoked.
func (e *Evaluator) collect(ctx context.Context, checks []check.Check, sc signal.Context) signal.Bundle {
	wanted := make(map[signal.Name]bool)
	for _, c := range checks {
		if c == nil {
			continue
		}
		for _, n := range c.Signals() {
			wanted[n] = true
		}
	}

	bundle := signal.Bundle{}
	for _, src := range e.sources {
		if !signal.Provides(src, wanted) {
			continue
		}
		bundle.Merge(src.Collect(ctx, sc))
	}
	return bundle
}

// evaluate runs the checks in parallel over the immutable bundle. Each
// finding is computed independently; the aggregation in Run is the only
// synchronization point.
func (e *Evaluator) evaluate(checks []check.Check, names []string, bundle signal.Bundle) []check.Finding {
	findings := make([]check.Finding, len(checks))

	var wg sync.WaitGroup
	for i := range checks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			findings[i] = e.evaluateOne(checks[i], names[i], bundle)
		}(i)
	}
	wg.Wait()

	return findings
}

// evaluateOne guards a single check: an unresolved name or a panic
// inside Evaluate becomes a synthetic medium finding, so one
// misbehaving check never aborts the gate.
func (e *Evaluator) evaluateOne(c check.Check, name string, bundle signal.Bundle) (f check.Finding) {
	defer func() {
		if r := recover(); r != nil {
			f = check.Finding{
				Check:    name,
				Severity: check.SeverityMedium,
				Message:  fmt.Sprintf("check unavailable: %v", r),
			}
		}
	}()

	if c == nil {
		return check.Finding{
			Check:    name,
			Severity: check.SeverityMedium,
			Message:  "check unavailable: not registered",
		}
	}
	return c.Evaluate(bundle)
}

func (e *Evaluator) append(v Verdict, gc Context) error {
	records := make([]audit.FindingRecord, len(v.Findings))
	for i, f := range v.Findings {
		records[i] = audit.FindingRecord{
			Check:    f.Check,
			Severity: f.Severity.String(),
			Message:  f.Message,
			Evidence: f.Evidence,
		}
	}

	return e.sink.Append(audit.Entry{
		ID:        v.ID,
		TaskID:    gc.Signal.TaskID,
		Trigger:   gc.Trigger,
		Severity:  v.Severity.String(),
		Action:    v.Action.String(),
		Findings:  records,
		CreatedAt: v.CreatedAt,
	})
}
