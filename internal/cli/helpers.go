package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pablasso/vigil/internal/audit"
	"github.com/pablasso/vigil/internal/check"
	"github.com/pablasso/vigil/internal/config"
	"github.com/pablasso/vigil/internal/gate"
	"github.com/pablasso/vigil/internal/plan"
	"github.com/pablasso/vigil/internal/signal"
	"github.com/pablasso/vigil/internal/task"
)

const vigilDir = ".vigil"

// IsInitialized checks if vigil is initialized in the current directory.
func IsInitialized() bool {
	info, err := os.Stat(vigilDir)
	return err == nil && info.IsDir()
}

// RequireInitialized returns an error if vigil is not initialized.
func RequireInitialized() error {
	if !IsInitialized() {
		return fmt.Errorf("vigil is not initialized. Run 'vigil init' first.")
	}
	return nil
}

// loadConfig reads .vigil/config.yaml from the current directory.
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(vigilDir)
}

func thresholdsFrom(cfg *config.Config) check.Thresholds {
	return check.Thresholds{
		LintLowMax:        cfg.Checks.LintLowMax,
		ScopeRatio:        cfg.Checks.ScopeRatio,
		CascadeIndicators: cfg.Checks.CascadeIndicators,
		CascadeHighCount:  cfg.Checks.CascadeHighCount,
		RequiredSections:  cfg.Checks.RequiredSections,
		MinSteps:          cfg.Checks.MinSteps,
		CriticalFiles:     cfg.Checks.CriticalFiles,
	}
}

// buildEvaluator wires the configured checks, signal sources, policy,
// and audit sink into an evaluator. The caller must Close the sink.
func buildEvaluator(cfg *config.Config) (*gate.Evaluator, *audit.Sink, error) {
	registry := check.NewRegistry()
	if err := check.RegisterBuiltins(registry, thresholdsFrom(cfg)); err != nil {
		return nil, nil, err
	}

	tasks := task.NewStore(vigilDir)
	plans := plan.NewStore(filepath.Join(vigilDir, "plans"))

	sources := []signal.Source{
		&signal.ToolSource{
			BuildCommand: cfg.Tool.BuildCommand,
			LintCommand:  cfg.Tool.LintCommand,
			TestCommand:  cfg.Tool.TestCommand,
		},
		&signal.GitSource{CommitCount: cfg.Git.CommitCount},
		&signal.StoreSource{Tasks: tasks, Plans: plans},
	}

	policy := gate.DefaultPolicy()
	if len(cfg.Policy) > 0 {
		var err error
		policy, err = gate.PolicyFromOverrides(cfg.Policy)
		if err != nil {
			return nil, nil, err
		}
	}

	sink, err := audit.Open(filepath.Join(vigilDir, "audit.db"), cfg.Audit.MaxEntries)
	if err != nil {
		return nil, nil, err
	}

	ev, err := gate.New(registry, sources, policy, sink)
	if err != nil {
		sink.Close()
		return nil, nil, err
	}
	return ev, sink, nil
}

// signalContext builds the collection context for a gate run.
func signalContext(cfg *config.Config, taskID string) signal.Context {
	cwd, _ := os.Getwd()
	return signal.Context{
		RepoRoot: cwd,
		TaskID:   taskID,
		BaseRef:  cfg.Git.BaseRef,
		Timeout:  time.Duration(cfg.Tool.TimeoutSeconds) * time.Second,
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
