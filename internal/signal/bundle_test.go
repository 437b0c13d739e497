package signal

import (
	"strings"
	"testing"
	"time"
)

func TestBundleGetMissingSignal(t *testing.T) {
	b := Bundle{}

	v := b.Get(BuildExitCode)
	if !v.Unavailable {
		t.Fatal("missing signal must be reported as unavailable")
	}
	if !strings.Contains(v.Reason, string(BuildExitCode)) {
		t.Errorf("reason should name the signal: %q", v.Reason)
	}
}

func TestBundleMerge(t *testing.T) {
	b := Bundle{BuildExitCode: IntValue(1)}
	b.Merge(Bundle{
		BuildExitCode: IntValue(0),
		LintOutput:    TextValue("clean"),
	})

	if got := b.Get(BuildExitCode).Int; got != 0 {
		t.Errorf("merge must overwrite: got %d, want 0", got)
	}
	if got := b.Get(LintOutput).Text; got != "clean" {
		t.Errorf("merged value: got %q", got)
	}
}

func TestContextToolTimeoutDefault(t *testing.T) {
	var c Context
	if got := c.ToolTimeout(); got != 30*time.Second {
		t.Errorf("default timeout: got %v, want 30s", got)
	}

	c.Timeout = 5 * time.Second
	if got := c.ToolTimeout(); got != 5*time.Second {
		t.Errorf("explicit timeout: got %v, want 5s", got)
	}
}

func TestProvides(t *testing.T) {
	src := &ToolSource{}

	if !Provides(src, map[Name]bool{BuildExitCode: true}) {
		t.Error("tool source provides build exit code")
	}
	if Provides(src, map[Name]bool{ChangedFiles: true}) {
		t.Error("tool source does not provide git signals")
	}
	if Provides(src, nil) {
		t.Error("empty wanted set matches nothing")
	}
}
