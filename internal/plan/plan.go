// Package plan models the per-task implementation plan: a markdown
// document with required sections, an ordered numbered step list, and
// the file paths the work is expected to touch.
package plan

import (
	"path/filepath"
	"strings"
)

// Step is one unit of a plan's ordered step list.
type Step struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Plan is the parsed form of one plan document.
type Plan struct {
	TaskID string `json:"taskId"`
	// Sections holds the section markers found in the document
	// (e.g. "## Context"), in order of appearance.
	Sections []string `json:"sections"`
	Steps    []Step   `json:"steps"`
	// Files are the paths the plan declares it will touch.
	Files []string `json:"files"`
	// WordCount of the whole document, used as a detail heuristic.
	WordCount int `json:"wordCount"`
}

// Complete reports whether every step is done. An empty plan is not
// complete: it has no evidence of work.
func (p *Plan) Complete() bool {
	if len(p.Steps) == 0 {
		return false
	}
	for _, s := range p.Steps {
		if !s.Done {
			return false
		}
	}
	return true
}

// HasSection reports whether the document contains the given marker.
func (p *Plan) HasSection(marker string) bool {
	for _, s := range p.Sections {
		if s == marker {
			return true
		}
	}
	return false
}

// MissingSections returns the required markers absent from the plan.
func (p *Plan) MissingSections(required []string) []string {
	var missing []string
	for _, marker := range required {
		if !p.HasSection(marker) {
			missing = append(missing, marker)
		}
	}
	return missing
}

// DeclaresFile reports whether path matches any planned file. Matching
// is lenient: a basename match counts, since plans often name a file
// without its full path.
func (p *Plan) DeclaresFile(path string) bool {
	base := filepath.Base(path)
	for _, planned := range p.Files {
		if path == planned || base == filepath.Base(planned) {
			return true
		}
		if strings.Contains(planned, base) || strings.Contains(path, filepath.Base(planned)) {
			return true
		}
	}
	return false
}
