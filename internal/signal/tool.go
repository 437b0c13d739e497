package signal

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// CommandContext is the function used to create exec.Cmd instances.
// It can be replaced in tests to mock command execution.
var CommandContext = exec.CommandContext

// ToolSource runs the configured build and lint commands and exposes
// their outcomes as signals. A missing binary or a timeout is reported
// as an unavailable signal, not an error: a compiler that isn't
// installed is a degraded environment, not a gate failure.
type ToolSource struct {
	BuildCommand []string
	LintCommand  []string
	TestCommand  []string
}

// Name implements Source.
func (s *ToolSource) Name() string { return "tool" }

// Provides implements Source.
func (s *ToolSource) Provides() []Name {
	return []Name{BuildExitCode, BuildOutput, LintViolations, LintOutput, TestOutput}
}

// Collect implements Source.
func (s *ToolSource) Collect(ctx context.Context, gc Context) Bundle {
	b := Bundle{}

	if len(s.BuildCommand) > 0 {
		exitCode, output, err := s.run(ctx, gc, s.BuildCommand)
		if err != nil {
			b[BuildExitCode] = Unavailable(err.Error())
			b[BuildOutput] = Unavailable(err.Error())
		} else {
			b[BuildExitCode] = IntValue(exitCode)
			b[BuildOutput] = TextValue(output)
		}
	} else {
		b[BuildExitCode] = Unavailable("no build command configured")
		b[BuildOutput] = Unavailable("no build command configured")
	}

	if len(s.LintCommand) > 0 {
		exitCode, output, err := s.run(ctx, gc, s.LintCommand)
		switch {
		case err != nil:
			b[LintViolations] = Unavailable(err.Error())
			b[LintOutput] = Unavailable(err.Error())
		case exitCode == 0:
			b[LintViolations] = IntValue(0)
			b[LintOutput] = TextValue(output)
		default:
			b[LintViolations] = IntValue(countViolations(output))
			b[LintOutput] = TextValue(output)
		}
	} else {
		b[LintViolations] = Unavailable("no lint command configured")
		b[LintOutput] = Unavailable("no lint command configured")
	}

	if len(s.TestCommand) > 0 {
		_, output, err := s.run(ctx, gc, s.TestCommand)
		if err != nil {
			b[TestOutput] = Unavailable(err.Error())
		} else {
			b[TestOutput] = TextValue(output)
		}
	} else {
		b[TestOutput] = Unavailable("no test command configured")
	}

	return b
}

// run executes one tool command with the invocation timeout applied.
// The returned error is non-nil only when no exit status could be
// obtained at all (binary missing, timeout, cancelled).
func (s *ToolSource) run(ctx context.Context, gc Context, command []string) (int, string, error) {
	runCtx, cancel := context.WithTimeout(ctx, gc.ToolTimeout())
	defer cancel()

	cmd := CommandContext(runCtx, command[0], command[1:]...)
	if gc.RepoRoot != "" {
		cmd.Dir = gc.RepoRoot
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err == nil {
		return 0, buf.String(), nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return 0, "", errors.New("tool timed out: " + strings.Join(command, " "))
	}
	if ctx.Err() != nil {
		return 0, "", ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), buf.String(), nil
	}

	// exec.Error covers "binary not found in PATH"
	return 0, "", errors.New("tool unavailable: " + err.Error())
}

// countViolations counts diagnostic lines in lint output. Tools differ
// in format, so one non-empty line is treated as one violation.
func countViolations(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
