package signal

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// GitSource exposes version-control facts: the set of changed files and
// recent commit subjects. It shells out to git; a repository without
// history (or no git at all) degrades to unavailable signals.
type GitSource struct {
	// CommitCount is how many recent commit subjects to collect.
	CommitCount int
}

// Name implements Source.
func (s *GitSource) Name() string { return "git" }

// Provides implements Source.
func (s *GitSource) Provides() []Name {
	return []Name{ChangedFiles, RecentCommits}
}

// Collect implements Source.
func (s *GitSource) Collect(ctx context.Context, gc Context) Bundle {
	b := Bundle{}

	if gc.ChangedFiles != nil {
		b[ChangedFiles] = PathsValue(gc.ChangedFiles)
	} else {
		files, err := changedFiles(ctx, gc)
		if err != nil {
			b[ChangedFiles] = Unavailable("git diff failed: " + err.Error())
		} else {
			b[ChangedFiles] = PathsValue(files)
		}
	}

	n := s.CommitCount
	if n <= 0 {
		n = 5
	}
	commits, err := recentCommitMessages(ctx, gc, n)
	if err != nil {
		b[RecentCommits] = Unavailable("git log failed: " + err.Error())
	} else {
		b[RecentCommits] = PathsValue(commits)
	}

	return b
}

// changedFiles returns the union of dirty working-tree files and files
// changed since the base ref (when one is configured).
func changedFiles(ctx context.Context, gc Context) ([]string, error) {
	seen := make(map[string]bool)

	dirty, err := dirtyFiles(ctx, gc.RepoRoot)
	if err != nil {
		return nil, err
	}
	for _, f := range dirty {
		seen[f] = true
	}

	if gc.BaseRef != "" {
		committed, err := diffNameOnly(ctx, gc.RepoRoot, gc.BaseRef)
		if err != nil {
			return nil, err
		}
		for _, f := range committed {
			seen[f] = true
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// dirtyFiles parses git status --porcelain output.
func dirtyFiles(ctx context.Context, dir string) ([]string, error) {
	output, err := runGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// porcelain format: XY filename
		if len(line) > 3 {
			files = append(files, line[3:])
		} else {
			files = append(files, strings.TrimSpace(line))
		}
	}
	return files, nil
}

func diffNameOnly(ctx context.Context, dir, ref string) ([]string, error) {
	output, err := runGit(ctx, dir, "diff", "--name-only", ref)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(output, "\n") {
		if f := strings.TrimSpace(line); f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// recentCommitMessages returns the last n commit subjects, newest first.
func recentCommitMessages(ctx context.Context, gc Context, n int) ([]string, error) {
	output, err := runGit(ctx, gc.RepoRoot, "log", "--format=%s", "-n", strconv.Itoa(n))
	if err != nil {
		return nil, err
	}

	var subjects []string
	for _, line := range strings.Split(output, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			subjects = append(subjects, s)
		}
	}
	return subjects, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}
