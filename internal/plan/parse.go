package plan

import (
	"regexp"
	"strings"
)

var (
	sectionRe = regexp.MustCompile(`(?m)^(#{1,3}\s+.+)$`)
	stepRe    = regexp.MustCompile(`(?m)^(\d+)\.\s+(.*)$`)

	// File mentions: backticked paths are the strongest signal, bare
	// paths with an extension the weaker fallback.
	backtickFileRe = regexp.MustCompile("`([^`]*\\.[a-zA-Z]{1,4})`")
	bareFileRe     = regexp.MustCompile(`([a-zA-Z0-9_./-]+/[a-zA-Z0-9_.-]+\.[a-zA-Z]{1,4})`)
)

// Step completion markers recognized at the end of a step line.
var doneMarkers = []string{"✓", "✅", "[COMPLETED]", "(DONE)"}

// Parse extracts the structured plan from a markdown document.
func Parse(taskID, content string) *Plan {
	p := &Plan{
		TaskID:    taskID,
		WordCount: len(strings.Fields(content)),
	}

	for _, m := range sectionRe.FindAllStringSubmatch(content, -1) {
		p.Sections = append(p.Sections, strings.TrimRight(m[1], " \t"))
	}

	index := 0
	for _, m := range stepRe.FindAllStringSubmatch(content, -1) {
		desc := strings.TrimSpace(m[2])
		done := false
		for _, marker := range doneMarkers {
			if strings.Contains(desc, marker) {
				done = true
				desc = strings.TrimSpace(strings.ReplaceAll(desc, marker, ""))
				break
			}
		}
		p.Steps = append(p.Steps, Step{Index: index, Description: desc, Done: done})
		index++
	}

	p.Files = extractFiles(content)
	return p
}

// extractFiles pulls file paths mentioned anywhere in the document,
// deduplicated, filtering out URL-ish false positives.
func extractFiles(content string) []string {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = strings.TrimSpace(path)
		if path == "" || seen[path] {
			return
		}
		if strings.HasPrefix(path, "http") || strings.HasPrefix(path, "www.") || strings.Contains(path, "//") {
			return
		}
		if !strings.Contains(path, ".") {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, m := range backtickFileRe.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	for _, m := range bareFileRe.FindAllStringSubmatch(content, -1) {
		add(m[1])
	}
	return files
}
