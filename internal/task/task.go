// Package task defines the unit-of-work model and its persisted store.
// Tasks come from decomposing a requirements document; they are never
// deleted, only cancelled.
package task

import (
	"fmt"
	"time"
)

// Status values a task moves through.
const (
	StatusPending    = "pending"
	StatusPlanning   = "planning"
	StatusInProgress = "in-progress"
	StatusBlocked    = "blocked"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task represents a single unit of work.
type Task struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Status             string    `json:"status"`
	Priority           string    `json:"priority,omitempty"`
	DependsOn          []string  `json:"dependsOn,omitempty"`
	ParentID           string    `json:"parentId,omitempty"`
	AcceptanceCriteria []string  `json:"acceptanceCriteria,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Document is the full persisted task collection. Version is bumped on
// every successful write so concurrent updaters can detect clobbering.
type Document struct {
	Version int    `json:"version"`
	Tasks   []Task `json:"tasks"`
}

// Find returns the task with the given ID, or nil.
func (d *Document) Find(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// Current returns the active task: the first one in-progress, falling
// back to the first one in planning. Returns nil when nothing is active.
func (d *Document) Current() *Task {
	for i := range d.Tasks {
		if d.Tasks[i].Status == StatusInProgress {
			return &d.Tasks[i]
		}
	}
	for i := range d.Tasks {
		if d.Tasks[i].Status == StatusPlanning {
			return &d.Tasks[i]
		}
	}
	return nil
}

// NextID returns the next sequence-numbered task label (t01, t02, ...).
func (d *Document) NextID() string {
	return fmt.Sprintf("t%02d", len(d.Tasks)+1)
}

// UnmetDependencies returns the dependency IDs of t that are not yet
// completed. A dependency that doesn't exist in the document counts as
// unmet: it can never complete.
func (d *Document) UnmetDependencies(t *Task) []string {
	var unmet []string
	for _, depID := range t.DependsOn {
		dep := d.Find(depID)
		if dep == nil || dep.Status != StatusCompleted {
			unmet = append(unmet, depID)
		}
	}
	return unmet
}

// validTransitions maps each status to the statuses it may move to.
// cancelled is terminal; completed may reopen to in-progress if rework
// is needed.
var validTransitions = map[string][]string{
	StatusPending:    {StatusPlanning, StatusInProgress, StatusBlocked, StatusCancelled},
	StatusPlanning:   {StatusPending, StatusInProgress, StatusBlocked, StatusCancelled},
	StatusInProgress: {StatusBlocked, StatusCompleted, StatusCancelled, StatusPending},
	StatusBlocked:    {StatusPending, StatusPlanning, StatusInProgress, StatusCancelled},
	StatusCompleted:  {StatusInProgress},
	StatusCancelled:  {},
}

// ValidStatus reports whether s is a recognized task status.
func ValidStatus(s string) bool {
	_, ok := validTransitions[s]
	return ok
}

// Transition moves the task with the given ID to a new status,
// enforcing the lifecycle rules: the transition must be allowed, and a
// task may only become in-progress once every dependency is completed.
func (d *Document) Transition(id, to string) error {
	t := d.Find(id)
	if t == nil {
		return fmt.Errorf("task not found: %s", id)
	}
	if !ValidStatus(to) {
		return fmt.Errorf("invalid status: %s", to)
	}

	allowed := false
	for _, next := range validTransitions[t.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("task %s cannot move from %s to %s", id, t.Status, to)
	}

	if to == StatusInProgress {
		if unmet := d.UnmetDependencies(t); len(unmet) > 0 {
			return fmt.Errorf("task %s has incomplete dependencies: %v", id, unmet)
		}
	}

	t.Status = to
	t.UpdatedAt = time.Now()
	return nil
}
