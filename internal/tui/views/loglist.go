package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pablasso/vigil/internal/audit"
	"github.com/pablasso/vigil/internal/tui/components"
	"github.com/pablasso/vigil/internal/tui/msgs"
	"github.com/pablasso/vigil/internal/tui/styles"
)

// LogListModel is the model for the verdict list view.
type LogListModel struct {
	entries []audit.Entry
	cursor  int
	width   int
	height  int
}

// NewLogListModel creates a LogListModel over the given entries,
// newest first.
func NewLogListModel(entries []audit.Entry) LogListModel {
	reversed := make([]audit.Entry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	return LogListModel{entries: reversed}
}

// Init implements tea.Model.
func (m LogListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m LogListModel) Update(msg tea.Msg) (LogListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.entries) {
				selected := m.entries[m.cursor]
				return m, func() tea.Msg { return msgs.ShowEntryMsg{EntryID: selected.ID} }
			}
		}
	}
	return m, nil
}

// Entry returns the entry with the given ID, or nil.
func (m LogListModel) Entry(id string) *audit.Entry {
	for i := range m.entries {
		if m.entries[i].ID == id {
			return &m.entries[i]
		}
	}
	return nil
}

// View implements tea.Model.
func (m LogListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if len(m.entries) == 0 {
		return m.renderEmptyView()
	}

	return m.renderNormalView()
}

func (m LogListModel) renderEmptyView() string {
	var b strings.Builder

	message := styles.SubtleStyle.Render("No verdicts recorded yet. Run 'vigil gate run' first.")
	centered := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, message)

	b.WriteString(centered)
	b.WriteString("\n")
	b.WriteString(components.NewStatusBar().Render(m.width, []string{"q Quit"}))

	return b.String()
}

func (m LogListModel) renderNormalView() string {
	var b strings.Builder

	title := styles.TitleStyle.Render("Audit Log")
	titleLine := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title)

	// Keep the cursor visible inside the available rows.
	statusBarHeight := 1
	headerHeight := 2
	visible := m.height - statusBarHeight - headerHeight
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.entries) {
		end = len(m.entries)
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, m.formatEntryLine(i, m.entries[i]))
	}

	b.WriteString(titleLine)
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))

	padding := visible - (end - start)
	if padding > 0 {
		b.WriteString(strings.Repeat("\n", padding))
	}
	b.WriteString("\n")

	statusItems := []string{"↑↓ Navigate", "Enter Details", "q Quit"}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

func (m LogListModel) formatEntryLine(index int, e audit.Entry) string {
	indicator := "○"
	if index == m.cursor {
		indicator = "●"
	}

	taskID := e.TaskID
	if taskID == "" {
		taskID = "-"
	}

	line := fmt.Sprintf("%s %s  %s  %-8s %-8s %s",
		indicator,
		e.CreatedAt.Format("2006-01-02 15:04:05"),
		styles.ActionStyle(e.Action).Render(fmt.Sprintf("%-8s", e.Action)),
		e.Severity,
		taskID,
		e.Trigger)

	if index == m.cursor {
		return styles.SelectedStyle.Render(line)
	}
	return line
}
