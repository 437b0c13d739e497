package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644)
	require.NoError(t, err)
	return dir
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultLintLowMax, cfg.Checks.LintLowMax)
	assert.Equal(t, DefaultScopeRatio, cfg.Checks.ScopeRatio)
	assert.Equal(t, DefaultToolTimeoutSecs, cfg.Tool.TimeoutSeconds)
	assert.Equal(t, DefaultAuditMaxEntries, cfg.Audit.MaxEntries)
	assert.Equal(t, DefaultRequiredSections(), cfg.Checks.RequiredSections)
	assert.Empty(t, cfg.Tool.BuildCommand)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := writeConfig(t, `
tool:
  build_command: ["go", "build", "./..."]
checks:
  lint_low_max: 5
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "build", "./..."}, cfg.Tool.BuildCommand)
	assert.Equal(t, 5, cfg.Checks.LintLowMax)
	// Unspecified fields keep their defaults.
	assert.Equal(t, DefaultScopeRatio, cfg.Checks.ScopeRatio)
	assert.Equal(t, DefaultToolTimeoutSecs, cfg.Tool.TimeoutSeconds)
}

func TestLoadConfigPolicyOverrides(t *testing.T) {
	dir := writeConfig(t, `
policy:
  medium: block
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "block", cfg.Policy["medium"])
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := writeConfig(t, "tool: [not a map")

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "negative lint threshold",
			mutate:    func(c *Config) { c.Checks.LintLowMax = -1 },
			wantField: "checks.lint_low_max",
		},
		{
			name:      "zero scope ratio",
			mutate:    func(c *Config) { c.Checks.ScopeRatio = 0 },
			wantField: "checks.scope_ratio",
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.Tool.TimeoutSeconds = 0 },
			wantField: "tool.timeout_seconds",
		},
		{
			name:      "unknown policy severity",
			mutate:    func(c *Config) { c.Policy = map[string]string{"fatal": "block"} },
			wantField: "policy",
		},
		{
			name:      "unknown policy action",
			mutate:    func(c *Config) { c.Policy = map[string]string{"high": "explode"} },
			wantField: "policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := ValidateConfig(&cfg)
			require.Error(t, err)

			var vErr ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, ValidateConfig(&cfg))
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}
