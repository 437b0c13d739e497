package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes plan documents, one markdown file per task.
type Store struct {
	dir string
}

// NewStore creates a plan store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the document location for a task.
func (s *Store) Path(taskID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("plan-%s.md", strings.ToLower(taskID)))
}

// Exists reports whether a plan document exists for the task.
func (s *Store) Exists(taskID string) bool {
	_, err := os.Stat(s.Path(taskID))
	return err == nil
}

// Load reads and parses the plan document for a task. The raw content
// is returned alongside the parsed form so callers can rewrite it.
func (s *Store) Load(taskID string) (*Plan, string, error) {
	data, err := os.ReadFile(s.Path(taskID))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read plan document: %w", err)
	}
	content := string(data)
	return Parse(taskID, content), content, nil
}

// Save atomically writes the plan document via temp file + rename.
func (s *Store) Save(taskID, content string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create plans directory: %w", err)
	}

	path := s.Path(taskID)
	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
