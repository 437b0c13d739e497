package signal

import (
	"context"
	"os/exec"
	"testing"
)

func TestGitSourceExplicitChangedFilesOverride(t *testing.T) {
	restoreCommandContext(t)
	// git log still runs for recent commits; keep it quiet.
	CommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "true")
	}

	s := &GitSource{}
	b := s.Collect(context.Background(), Context{ChangedFiles: []string{"a.go", "b.go"}})

	v := b.Get(ChangedFiles)
	if v.Unavailable {
		t.Fatalf("changed files unavailable: %s", v.Reason)
	}
	if len(v.Paths) != 2 || v.Paths[0] != "a.go" {
		t.Errorf("paths: got %v", v.Paths)
	}
}

func TestGitSourceParsesPorcelainStatus(t *testing.T) {
	restoreCommandContext(t)
	CommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if len(args) > 0 && args[0] == "status" {
			return exec.CommandContext(ctx, "printf", " M internal/gate/policy.go\n?? internal/new.go\n")
		}
		return exec.CommandContext(ctx, "printf", "fix the gate\nadd tests\n")
	}

	s := &GitSource{CommitCount: 2}
	b := s.Collect(context.Background(), Context{})

	v := b.Get(ChangedFiles)
	if v.Unavailable {
		t.Fatalf("changed files unavailable: %s", v.Reason)
	}
	want := []string{"internal/gate/policy.go", "internal/new.go"}
	if len(v.Paths) != 2 || v.Paths[0] != want[0] || v.Paths[1] != want[1] {
		t.Errorf("paths: got %v, want %v", v.Paths, want)
	}

	commits := b.Get(RecentCommits)
	if commits.Unavailable {
		t.Fatalf("recent commits unavailable: %s", commits.Reason)
	}
	if len(commits.Paths) != 2 || commits.Paths[0] != "fix the gate" {
		t.Errorf("commits: got %v", commits.Paths)
	}
}

func TestGitSourceDegradesWithoutGit(t *testing.T) {
	restoreCommandContext(t)
	CommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "definitely-not-a-real-binary-xyz")
	}

	s := &GitSource{}
	b := s.Collect(context.Background(), Context{})

	if v := b.Get(ChangedFiles); !v.Unavailable {
		t.Error("expected changed files to degrade to unavailable")
	}
	if v := b.Get(RecentCommits); !v.Unavailable {
		t.Error("expected recent commits to degrade to unavailable")
	}
}
