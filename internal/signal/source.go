package signal

import (
	"context"
	"time"
)

// DefaultToolTimeout bounds a single external tool invocation.
const DefaultToolTimeout = 30 * time.Second

// Context carries the per-invocation facts sources collect against.
type Context struct {
	RepoRoot string
	TaskID   string
	// BaseRef is the git ref changed files are computed against.
	BaseRef string
	// ChangedFiles, when non-nil, overrides git collection entirely
	// (the caller already knows what changed).
	ChangedFiles []string
	Timeout      time.Duration
}

// ToolTimeout returns the configured timeout or the default.
func (c Context) ToolTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultToolTimeout
}

// Source extracts a related group of signals from the environment.
//
// Collect must not fail: signals that cannot be produced are returned as
// unavailable values. The evaluator only invokes sources whose Provides
// set intersects the signals the requested checks declared, so a check
// that doesn't need git history never pays for computing it.
type Source interface {
	Name() string
	Provides() []Name
	Collect(ctx context.Context, gc Context) Bundle
}

// Provides reports whether src produces any of the wanted signals.
func Provides(src Source, wanted map[Name]bool) bool {
	for _, n := range src.Provides() {
		if wanted[n] {
			return true
		}
	}
	return false
}
