// Package jsonstore provides a JSON file-based implementation of
// domain.TaskRepository. It is a durability collaborator layered on the
// repository contract: tasks persist as serialized records, so subtasks
// degrade to ID references across a save/load cycle.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"tasktrack/internal/domain"
)

// storeData represents the JSON file structure.
type storeData struct {
	Tasks map[string]domain.Record `json:"tasks"`
}

// Ensure Store implements the repository contract.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

// Store implements domain.TaskRepository using a JSON file. Cross-process
// safety comes from flock on a sidecar lock file; writes go through a temp
// file and rename for atomicity.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Save inserts or replaces a task by ID and returns the stored value.
func (s *Store) Save(task *domain.Task) (*domain.Task, error) {
	err := s.withLockWrite(func(data *storeData) error {
		data.Tasks[task.ID()] = task.Record()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(id string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(func(data *storeData) error {
		rec, ok := data.Tasks[id]
		if !ok {
			return nil
		}
		t, err := domain.FromRecord(rec)
		if err != nil {
			return fmt.Errorf("restore task %s: %w", id, err)
		}
		task = t
		return nil
	})
	return task, err
}

// List returns all tasks, ordered by creation time then ID for stability.
func (s *Store) List() ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.withLock(func(data *storeData) error {
		for id, rec := range data.Tasks {
			t, err := domain.FromRecord(rec)
			if err != nil {
				return fmt.Errorf("restore task %s: %w", id, err)
			}
			tasks = append(tasks, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})
	return tasks, nil
}

// Delete removes a task by ID. Returns false if the task was absent.
func (s *Store) Delete(id string) (bool, error) {
	var deleted bool
	err := s.withLockWrite(func(data *storeData) error {
		if _, ok := data.Tasks[id]; ok {
			delete(data.Tasks, id)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

// FindByCriteria returns tasks matching the criteria, in List order.
func (s *Store) FindByCriteria(criteria domain.Criteria) ([]*domain.Task, error) {
	tasks, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []*domain.Task
	for _, t := range tasks {
		if t.MatchesCriteria(criteria) {
			out = append(out, t)
		}
	}
	return out, nil
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	return s.write(&storeData{Tasks: make(map[string]domain.Record)})
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	if data.Tasks == nil {
		data.Tasks = make(map[string]domain.Record)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
