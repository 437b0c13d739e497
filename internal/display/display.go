// Package display renders verdicts, findings, and audit entries for
// terminal output.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/vigil/internal/audit"
	"github.com/pablasso/vigil/internal/check"
	"github.com/pablasso/vigil/internal/gate"
)

var (
	continueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AF87")).Bold(true)
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F")).Bold(true)
	blockStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AF5F5F")).Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	checkStyle    = lipgloss.NewStyle().Bold(true)
)

func actionStyle(a gate.Action) lipgloss.Style {
	switch a {
	case gate.ActionBlock:
		return blockStyle
	case gate.ActionAlert:
		return alertStyle
	default:
		return continueStyle
	}
}

func severityLabel(s check.Severity) string {
	switch s {
	case check.SeverityHigh:
		return blockStyle.Render("high")
	case check.SeverityMedium:
		return alertStyle.Render("medium")
	case check.SeverityLow:
		return alertStyle.Render("low")
	default:
		return subtleStyle.Render("none")
	}
}

// Verdict renders a full verdict with one line per finding.
func Verdict(v gate.Verdict) string {
	var b strings.Builder

	header := fmt.Sprintf("%s  %s", actionStyle(v.Action).Render(strings.ToUpper(v.Action.String())), v.Message())
	b.WriteString(header)
	b.WriteString("\n")

	findings := make([]check.Finding, len(v.Findings))
	copy(findings, v.Findings)
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity > findings[j].Severity
		}
		return findings[i].Check < findings[j].Check
	})

	for _, f := range findings {
		b.WriteString(fmt.Sprintf("  %s %-22s %s\n", severityLabel(f.Severity), checkStyle.Render(f.Check), f.Message))
		for _, key := range sortedKeys(f.Evidence) {
			for _, item := range f.Evidence[key] {
				b.WriteString(subtleStyle.Render(fmt.Sprintf("      %s: %s", key, item)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(subtleStyle.Render(fmt.Sprintf("  verdict %s", v.ID)))
	b.WriteString("\n")

	return b.String()
}

// AuditEntry renders a single persisted verdict as one summary line.
func AuditEntry(e audit.Entry) string {
	action, _ := gate.ParseAction(e.Action)
	return fmt.Sprintf("%s  %-8s %-8s %-10s %s",
		e.CreatedAt.Format("2006-01-02 15:04:05"),
		actionStyle(action).Render(e.Action),
		e.Severity,
		e.TaskID,
		e.Trigger)
}

// AuditDetail renders a persisted verdict with its findings expanded.
func AuditDetail(e audit.Entry) string {
	var b strings.Builder
	b.WriteString(AuditEntry(e))
	b.WriteString("\n")
	for _, f := range e.Findings {
		b.WriteString(fmt.Sprintf("    %-8s %-22s %s\n", f.Severity, f.Check, f.Message))
	}
	return b.String()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
