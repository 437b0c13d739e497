package signal

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/pablasso/vigil/internal/testutil"
)

func restoreCommandContext(t *testing.T) {
	t.Helper()
	original := CommandContext
	t.Cleanup(func() { CommandContext = original })
}

func TestToolSourceCleanBuild(t *testing.T) {
	restoreCommandContext(t)
	CommandContext = testutil.MockCommandFunc("")

	s := &ToolSource{BuildCommand: []string{"make", "build"}}
	b := s.Collect(context.Background(), Context{})

	v := b.Get(BuildExitCode)
	if v.Unavailable {
		t.Fatalf("build exit code unavailable: %s", v.Reason)
	}
	if v.Int != 0 {
		t.Errorf("exit code: got %d, want 0", v.Int)
	}
}

func TestToolSourceFailingBuild(t *testing.T) {
	restoreCommandContext(t)
	CommandContext = testutil.MockFailingCommandFunc("x.go:1: boom", 2)

	s := &ToolSource{BuildCommand: []string{"make", "build"}}
	b := s.Collect(context.Background(), Context{})

	v := b.Get(BuildExitCode)
	if v.Unavailable {
		t.Fatalf("build exit code unavailable: %s", v.Reason)
	}
	if v.Int != 2 {
		t.Errorf("exit code: got %d, want 2", v.Int)
	}
	if out := b.Get(BuildOutput); !strings.Contains(out.Text, "boom") {
		t.Errorf("build output: got %q", out.Text)
	}
}

func TestToolSourceMissingBinary(t *testing.T) {
	restoreCommandContext(t)
	CommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "definitely-not-a-real-binary-xyz")
	}

	s := &ToolSource{BuildCommand: []string{"make"}}
	b := s.Collect(context.Background(), Context{})

	v := b.Get(BuildExitCode)
	if !v.Unavailable {
		t.Fatal("expected unavailable signal for missing binary")
	}
	if !strings.HasPrefix(v.Reason, "tool unavailable:") {
		t.Errorf("reason: got %q", v.Reason)
	}
}

func TestToolSourceLintViolationCount(t *testing.T) {
	restoreCommandContext(t)
	CommandContext = testutil.MockFailingCommandFunc("a.go:1: warn\nb.go:2: warn\n", 1)

	s := &ToolSource{LintCommand: []string{"golangci-lint", "run"}}
	b := s.Collect(context.Background(), Context{})

	v := b.Get(LintViolations)
	if v.Unavailable {
		t.Fatalf("lint violations unavailable: %s", v.Reason)
	}
	if v.Int != 2 {
		t.Errorf("violations: got %d, want 2", v.Int)
	}
}

func TestToolSourceLintCleanRun(t *testing.T) {
	restoreCommandContext(t)
	CommandContext = testutil.MockCommandFunc("")

	s := &ToolSource{LintCommand: []string{"golangci-lint", "run"}}
	b := s.Collect(context.Background(), Context{})

	if v := b.Get(LintViolations); v.Unavailable || v.Int != 0 {
		t.Errorf("violations: got %+v, want 0", v)
	}
}

func TestToolSourceUnconfiguredCommands(t *testing.T) {
	s := &ToolSource{}
	b := s.Collect(context.Background(), Context{})

	for _, name := range []Name{BuildExitCode, LintViolations, TestOutput} {
		v := b.Get(name)
		if !v.Unavailable {
			t.Errorf("%s: expected unavailable for unconfigured command", name)
		}
		if !strings.Contains(v.Reason, "configured") {
			t.Errorf("%s: reason %q", name, v.Reason)
		}
	}
}
