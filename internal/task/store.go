package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const (
	tasksFileName = "tasks.json"
	lockFileName  = "tasks.lock"
)

// ErrVersionConflict is returned when the document changed underneath a
// read-modify-write cycle.
var ErrVersionConflict = errors.New("task document modified concurrently")

// Store persists the task document as a JSON file with atomic writes
// and a pid lockfile around read-modify-write cycles, so two gate
// invocations cannot silently clobber each other's updates.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the location of the tasks file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, tasksFileName)
}

// Load reads and parses the task document. A missing file yields an
// empty document rather than an error.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tasks file: %w", err)
	}
	return &doc, nil
}

// Update runs fn over the current document under the store lock and
// persists the result with the version bumped. The lock serializes the
// whole read-modify-write cycle across processes.
func (s *Store) Update(fn func(*Document) error) error {
	if err := s.acquireLock(); err != nil {
		return err
	}
	defer s.releaseLock()

	doc, err := s.Load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	doc.Version++
	return s.save(doc)
}

// CompareAndSave persists doc only if the on-disk version still matches
// doc.Version, for callers that loaded earlier without holding the
// lock. On success the stored version is doc.Version+1.
func (s *Store) CompareAndSave(doc *Document) error {
	if err := s.acquireLock(); err != nil {
		return err
	}
	defer s.releaseLock()

	current, err := s.Load()
	if err != nil {
		return err
	}
	if current.Version != doc.Version {
		return ErrVersionConflict
	}

	doc.Version++
	return s.save(doc)
}

// save atomically writes the document via temp file + rename.
func (s *Store) save(doc *Document) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	path := s.Path()
	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// acquireLock takes the store lockfile with O_EXCL. Stale locks from
// dead processes are cleaned up and acquisition retried once.
func (s *Store) acquireLock() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	lockPath := filepath.Join(s.dir, lockFileName)
	if err := tryLock(lockPath); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	data, err := os.ReadFile(lockPath)
	if err != nil {
		return fmt.Errorf("failed to read existing lock file: %w", err)
	}

	pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if parseErr == nil && processExists(pid) {
		return fmt.Errorf("task store is locked by another process (PID %d)", pid)
	}

	// Stale or invalid lock: remove and retry once.
	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale lock file: %w", err)
	}
	if err := tryLock(lockPath); err != nil {
		if os.IsExist(err) {
			return errors.New("lock acquired by another process during retry")
		}
		return fmt.Errorf("failed to create lock file on retry: %w", err)
	}
	return nil
}

func tryLock(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, writeErr := fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()
	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return nil
}

func (s *Store) releaseLock() {
	os.Remove(filepath.Join(s.dir, lockFileName))
}

// processExists checks for a live process using signal 0.
func processExists(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
