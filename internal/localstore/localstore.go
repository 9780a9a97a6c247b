// Package localstore persists guest state (the task list and today's
// cycle count) as a JSON file under the user's data directory. It is
// the stand-in for the durable store when nobody is logged in.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/terraincognita07/pomoflow/internal/models"
)

type payload struct {
	Tasks          []models.Task `json:"tasks"`
	CycleCount     int           `json:"cycleCount"`
	CycleUpdatedAt time.Time     `json:"cycleUpdatedAt"`
}

// Store is a file-backed guest cache. A sibling lock file guards
// against two timer processes mutating the cache at once.
type Store struct {
	path string
	lock *flock.Flock
}

func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// DefaultPath places the cache under the conventional per-user data
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pomoflow", "guest.json")
	}
	return filepath.Join(home, ".local", "share", "pomoflow", "guest.json")
}

func (store *Store) LoadTasks() ([]models.Task, error) {
	data, err := store.read()
	if err != nil {
		return nil, err
	}
	return data.Tasks, nil
}

func (store *Store) SaveTasks(tasks []models.Task) error {
	return store.update(func(data *payload) {
		data.Tasks = tasks
	})
}

// LoadCycle returns today's cached count and when it was last updated.
// A zero time means no cycle was ever recorded.
func (store *Store) LoadCycle() (int, time.Time, error) {
	data, err := store.read()
	if err != nil {
		return 0, time.Time{}, err
	}
	return data.CycleCount, data.CycleUpdatedAt, nil
}

func (store *Store) SaveCycle(count int, updatedAt time.Time) error {
	return store.update(func(data *payload) {
		data.CycleCount = count
		data.CycleUpdatedAt = updatedAt
	})
}

// Clear drops all guest state. Called after a successful login, when
// the server copy becomes authoritative and local tasks are discarded.
func (store *Store) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear guest cache: %w", err)
	}
	return nil
}

func (store *Store) read() (payload, error) {
	if err := store.lock.Lock(); err != nil {
		return payload{}, fmt.Errorf("lock guest cache: %w", err)
	}
	defer store.lock.Unlock()
	return store.readLocked()
}

func (store *Store) update(mutate func(*payload)) error {
	if err := store.lock.Lock(); err != nil {
		return fmt.Errorf("lock guest cache: %w", err)
	}
	defer store.lock.Unlock()

	data, err := store.readLocked()
	if err != nil {
		return err
	}
	mutate(&data)
	return store.writeLocked(data)
}

func (store *Store) readLocked() (payload, error) {
	raw, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return payload{Tasks: []models.Task{}}, nil
		}
		return payload{}, fmt.Errorf("read guest cache: %w", err)
	}

	var data payload
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt cache is treated as empty rather than wedging the
		// timer; guest state is ephemeral by contract.
		return payload{Tasks: []models.Task{}}, nil
	}
	if data.Tasks == nil {
		data.Tasks = []models.Task{}
	}
	return data, nil
}

func (store *Store) writeLocked(data payload) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode guest cache: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("write guest cache: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("replace guest cache: %w", err)
	}
	return nil
}
