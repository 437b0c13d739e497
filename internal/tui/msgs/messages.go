// Package msgs defines shared message types for TUI view transitions.
package msgs

// GoToListMsg signals transition back to the verdict list view.
type GoToListMsg struct{}

// ShowEntryMsg is sent when the user selects a verdict to inspect.
type ShowEntryMsg struct {
	EntryID string
}
