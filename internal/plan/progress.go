package plan

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Progress summarizes how far a plan's step list has advanced.
type Progress struct {
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Status     string `json:"status"`
	Milestone  bool   `json:"milestone"`
}

// milestoneKeywords mark steps worth calling out when completed.
var milestoneKeywords = []string{
	"milestone", "phase complete", "major step",
	"integration point", "key feature", "core functionality",
}

// ComputeProgress derives progress from the plan's step list and the
// document content (for milestone detection).
func ComputeProgress(p *Plan, content string) Progress {
	pr := Progress{Total: len(p.Steps)}
	for _, s := range p.Steps {
		if s.Done {
			pr.Completed++
		}
	}
	if pr.Total > 0 {
		pr.Percentage = pr.Completed * 100 / pr.Total
	}
	pr.Status = statusForPercentage(pr.Percentage)

	lower := strings.ToLower(content)
	for _, kw := range milestoneKeywords {
		if strings.Contains(lower, kw) {
			pr.Milestone = true
			break
		}
	}
	return pr
}

func statusForPercentage(pct int) string {
	switch {
	case pct == 100:
		return "Completed"
	case pct >= 75:
		return "Nearly complete"
	case pct >= 50:
		return "Good progress"
	case pct >= 25:
		return "Early progress"
	default:
		return "Just started"
	}
}

const progressHeader = "## Progress Tracking"

var progressSectionRe = regexp.MustCompile(`(?s)## Progress Tracking.*?(\n## |$)`)

// UpdateProgressSection rewrites (or appends) the progress tracking
// section of a plan document and returns the new content.
func UpdateProgressSection(content string, pr Progress) string {
	section := renderProgressSection(pr)
	if !strings.Contains(content, progressHeader) {
		return strings.TrimRight(content, "\n") + "\n\n" + section + "\n"
	}
	return progressSectionRe.ReplaceAllString(content, section+"$1")
}

func renderProgressSection(pr Progress) string {
	const barLength = 20
	filled := barLength * pr.Percentage / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barLength-filled)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", progressHeader)
	fmt.Fprintf(&b, "- **Steps completed:** %d/%d\n", pr.Completed, pr.Total)
	fmt.Fprintf(&b, "- **Progress:** %d%% %s\n", pr.Percentage, bar)
	fmt.Fprintf(&b, "- **Status:** %s\n", pr.Status)
	fmt.Fprintf(&b, "- **Last updated:** %s\n", time.Now().Format("2006-01-02 15:04"))
	return b.String()
}
