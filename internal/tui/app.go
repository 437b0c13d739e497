// Package tui implements the interactive audit log browser.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pablasso/vigil/internal/audit"
	"github.com/pablasso/vigil/internal/config"
	"github.com/pablasso/vigil/internal/tui/msgs"
	"github.com/pablasso/vigil/internal/tui/views"
)

// View represents the different screens in the TUI.
type View int

const (
	ViewList View = iota
	ViewDetail
)

// Model is the main Bubble Tea model that orchestrates all views.
type Model struct {
	currentView View
	width       int
	height      int

	list   views.LogListModel
	detail views.LogDetailModel
}

// Run starts the TUI application. It loads the audit log from the
// nearest initialized repository and browses it.
func Run() error {
	m, err := initialModel()
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func initialModel() (Model, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Model{}, err
	}

	root := findVigilRoot(cwd)
	if root == "" {
		return Model{}, fmt.Errorf("vigil is not initialized. Run 'vigil init' first.")
	}

	base := filepath.Join(root, ".vigil")
	cfg, err := config.LoadConfig(base)
	if err != nil {
		return Model{}, err
	}

	sink, err := audit.Open(filepath.Join(base, "audit.db"), cfg.Audit.MaxEntries)
	if err != nil {
		return Model{}, err
	}
	defer sink.Close()

	entries, err := sink.ScanSince(time.Time{})
	if err != nil {
		return Model{}, err
	}

	return Model{
		currentView: ViewList,
		list:        views.NewLogListModel(entries),
	}, nil
}

// findVigilRoot walks up from dir looking for a .vigil directory.
func findVigilRoot(dir string) string {
	for {
		if info, err := os.Stat(filepath.Join(dir, ".vigil")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list, _ = m.list.Update(msg)
		m.detail, _ = m.detail.Update(msg)
		return m, nil

	case msgs.ShowEntryMsg:
		if entry := m.list.Entry(msg.EntryID); entry != nil {
			m.detail = views.NewLogDetailModel(*entry)
			m.currentView = ViewDetail
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			return m, cmd
		}
		return m, nil

	case msgs.GoToListMsg:
		m.currentView = ViewList
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.currentView {
	case ViewDetail:
		return m.detail.View()
	default:
		return m.list.View()
	}
}
