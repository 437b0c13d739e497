// Package config loads .vigil/config.yaml: tool command lines, check
// thresholds, and the severity-to-action policy. Every knob the gate
// framework consults lives here; nothing is hardcoded in the checks.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultLintLowMax       = 10
	DefaultScopeRatio       = 1.5
	DefaultCascadeHighCount = 5
	DefaultMinSteps         = 3
	DefaultToolTimeoutSecs  = 30
	DefaultCommitCount      = 5
	DefaultAuditMaxEntries  = 1000
)

// DefaultCascadeIndicators mirror the error signatures that suggest a
// failure in one file is propagating into others.
func DefaultCascadeIndicators() []string {
	return []string{
		"cannot find module",
		"cannot find package",
		"undefined:",
		"is not assignable to",
		"does not exist on type",
		"cannot resolve",
		"import error",
	}
}

// DefaultRequiredSections are the plan markers a complete plan carries.
func DefaultRequiredSections() []string {
	return []string{"## Context", "## Steps", "## Acceptance Criteria"}
}

// DefaultCriticalFiles are basenames whose modification is flagged
// regardless of the plan.
func DefaultCriticalFiles() []string {
	return []string{"go.mod", "go.sum", "package.json", "tsconfig.json", ".env", "Makefile"}
}

// ToolConfig holds the external tool command lines.
type ToolConfig struct {
	BuildCommand   []string `yaml:"build_command"`
	LintCommand    []string `yaml:"lint_command"`
	TestCommand    []string `yaml:"test_command"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// ChecksConfig holds the built-in check thresholds.
type ChecksConfig struct {
	LintLowMax        int      `yaml:"lint_low_max"`
	ScopeRatio        float64  `yaml:"scope_ratio"`
	CascadeIndicators []string `yaml:"cascade_indicators"`
	CascadeHighCount  int      `yaml:"cascade_high_count"`
	RequiredSections  []string `yaml:"required_sections"`
	MinSteps          int      `yaml:"min_steps"`
	CriticalFiles     []string `yaml:"critical_files"`
}

// AuditConfig holds audit sink settings.
type AuditConfig struct {
	// MaxEntries caps retained audit entries; 0 keeps everything.
	MaxEntries int `yaml:"max_entries"`
}

// GitConfig holds version-control signal settings.
type GitConfig struct {
	BaseRef     string `yaml:"base_ref"`
	CommitCount int    `yaml:"commit_count"`
}

// Config represents the .vigil/config.yaml file.
type Config struct {
	Tool   ToolConfig   `yaml:"tool"`
	Checks ChecksConfig `yaml:"checks"`
	Git    GitConfig    `yaml:"git"`
	Audit  AuditConfig  `yaml:"audit"`
	// Policy maps severity names to action names, overriding the
	// default none/low->continue, medium->alert, high->block.
	Policy map[string]string `yaml:"policy"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Tool: ToolConfig{
			TimeoutSeconds: DefaultToolTimeoutSecs,
		},
		Checks: ChecksConfig{
			LintLowMax:        DefaultLintLowMax,
			ScopeRatio:        DefaultScopeRatio,
			CascadeIndicators: DefaultCascadeIndicators(),
			CascadeHighCount:  DefaultCascadeHighCount,
			RequiredSections:  DefaultRequiredSections(),
			MinSteps:          DefaultMinSteps,
			CriticalFiles:     DefaultCriticalFiles(),
		},
		Git: GitConfig{
			BaseRef:     "HEAD",
			CommitCount: DefaultCommitCount,
		},
		Audit: AuditConfig{
			MaxEntries: DefaultAuditMaxEntries,
		},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads and parses config.yaml from the given vigil
// directory. If the file doesn't exist, returns default config. Fields
// missing from the file keep their defaults.
func LoadConfig(dir string) (*Config, error) {
	configPath := filepath.Join(dir, "config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if cfg.Checks.LintLowMax < 0 {
		return ValidationError{Field: "checks.lint_low_max", Message: "must not be negative"}
	}
	if cfg.Checks.ScopeRatio <= 0 {
		return ValidationError{Field: "checks.scope_ratio", Message: "must be positive"}
	}
	if cfg.Checks.CascadeHighCount < 0 {
		return ValidationError{Field: "checks.cascade_high_count", Message: "must not be negative"}
	}
	if cfg.Checks.MinSteps < 0 {
		return ValidationError{Field: "checks.min_steps", Message: "must not be negative"}
	}
	if cfg.Tool.TimeoutSeconds <= 0 {
		return ValidationError{Field: "tool.timeout_seconds", Message: "must be positive"}
	}
	if cfg.Git.CommitCount <= 0 {
		return ValidationError{Field: "git.commit_count", Message: "must be positive"}
	}
	if cfg.Audit.MaxEntries < 0 {
		return ValidationError{Field: "audit.max_entries", Message: "must not be negative"}
	}

	validSeverities := map[string]bool{"none": true, "low": true, "medium": true, "high": true}
	validActions := map[string]bool{"continue": true, "alert": true, "block": true}
	for severity, action := range cfg.Policy {
		if !validSeverities[severity] {
			return ValidationError{Field: "policy", Message: fmt.Sprintf("unknown severity %q", severity)}
		}
		if !validActions[action] {
			return ValidationError{Field: "policy", Message: fmt.Sprintf("unknown action %q", action)}
		}
	}

	return nil
}

// WriteDefault writes the default config file for vigil init.
func WriteDefault(dir string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
