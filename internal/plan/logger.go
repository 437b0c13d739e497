package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const progressLogFileName = "progress.log"

// Event type constants for the per-plan progress log.
const (
	EventPlanCreated   = "plan_created"
	EventStepCompleted = "step_completed"
	EventPlanCompleted = "plan_completed"
	EventPlanUpdated   = "plan_updated"
)

// ProgressEvent is a single progress log entry.
type ProgressEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event"`
	TaskID    string         `json:"task_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// ProgressLogger writes plan progress events to a JSON Lines file in
// the plans directory. This is the lightweight per-plan trail; gate
// verdicts go to the audit sink instead.
type ProgressLogger struct {
	path string
}

// NewProgressLogger creates a progress logger for the plans directory.
func NewProgressLogger(dir string) *ProgressLogger {
	return &ProgressLogger{path: filepath.Join(dir, progressLogFileName)}
}

// Log appends one event to the log file.
func (l *ProgressLogger) Log(event, taskID string, data map[string]any) error {
	entry := ProgressEvent{
		Timestamp: time.Now(),
		Event:     event,
		TaskID:    taskID,
		Data:      data,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	jsonBytes = append(jsonBytes, '\n')

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(jsonBytes)
	return err
}

// StepCompleted logs a step_completed event.
func (l *ProgressLogger) StepCompleted(taskID string, step int, pr Progress) error {
	return l.Log(EventStepCompleted, taskID, map[string]any{
		"step":       step,
		"completed":  pr.Completed,
		"total":      pr.Total,
		"percentage": pr.Percentage,
	})
}

// PlanCompleted logs a plan_completed event.
func (l *ProgressLogger) PlanCompleted(taskID string, pr Progress) error {
	return l.Log(EventPlanCompleted, taskID, map[string]any{
		"total": pr.Total,
	})
}
