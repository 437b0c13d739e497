package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pablasso/vigil/internal/audit"
	"github.com/pablasso/vigil/internal/tui/components"
	"github.com/pablasso/vigil/internal/tui/msgs"
	"github.com/pablasso/vigil/internal/tui/styles"
)

// LogDetailModel shows a single verdict with its findings expanded.
type LogDetailModel struct {
	entry    audit.Entry
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewLogDetailModel creates a detail view for the given entry.
func NewLogDetailModel(entry audit.Entry) LogDetailModel {
	return LogDetailModel{entry: entry}
}

// Init implements tea.Model.
func (m LogDetailModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m LogDetailModel) Update(msg tea.Msg) (LogDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := m.height - 4 // title, blank, blank, status bar
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, contentHeight)
			m.viewport.SetContent(m.renderContent())
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = contentHeight
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q":
			return m, func() tea.Msg { return msgs.GoToListMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m LogDetailModel) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder

	header := fmt.Sprintf("Verdict %s", m.entry.ID)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.TitleStyle.Render(header)))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	statusItems := []string{"↑↓ Scroll", "Esc Back", "Ctrl+C Quit"}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

func (m LogDetailModel) renderContent() string {
	var b strings.Builder

	e := m.entry
	b.WriteString(fmt.Sprintf("Recorded:  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("Trigger:   %s\n", valueOr(e.Trigger, "-")))
	b.WriteString(fmt.Sprintf("Task:      %s\n", valueOr(e.TaskID, "-")))
	b.WriteString(fmt.Sprintf("Severity:  %s\n", e.Severity))
	b.WriteString(fmt.Sprintf("Action:    %s\n", styles.ActionStyle(e.Action).Render(e.Action)))
	b.WriteString("\n")

	if len(e.Findings) == 0 {
		b.WriteString(styles.SubtleStyle.Render("No findings recorded."))
		return b.String()
	}

	for _, f := range e.Findings {
		b.WriteString(fmt.Sprintf("%-8s %s\n", f.Severity, lipgloss.NewStyle().Bold(true).Render(f.Check)))
		b.WriteString(fmt.Sprintf("         %s\n", f.Message))
		for key, items := range f.Evidence {
			for _, item := range items {
				b.WriteString(styles.SubtleStyle.Render(fmt.Sprintf("         %s: %s", key, item)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
