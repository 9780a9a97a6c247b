package localstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/pomoflow/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "guest.json"))
}

func TestMissingCacheReadsAsEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	tasks, err := store.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty task list, got %d", len(tasks))
	}

	count, updatedAt, err := store.LoadCycle()
	if err != nil {
		t.Fatalf("load cycle: %v", err)
	}
	if count != 0 || !updatedAt.IsZero() {
		t.Fatalf("expected zero cycle state, got %d at %v", count, updatedAt)
	}
}

func TestSaveAndLoadTasks(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	saved := []models.Task{
		{ID: "a", Text: "newer", Pomodoros: 2},
		{ID: "b", Text: "older", Pomodoros: 1, Completed: true},
	}
	if err := store.SaveTasks(saved); err != nil {
		t.Fatalf("save tasks: %v", err)
	}

	loaded, err := store.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(loaded))
	}
	if loaded[0].ID != "a" || loaded[1].ID != "b" {
		t.Fatalf("expected order preserved, got %s, %s", loaded[0].ID, loaded[1].ID)
	}
	if !loaded[1].Completed {
		t.Fatal("expected completed flag to round-trip")
	}
}

func TestSaveTasksKeepsCycleState(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	updatedAt := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	if err := store.SaveCycle(3, updatedAt); err != nil {
		t.Fatalf("save cycle: %v", err)
	}
	if err := store.SaveTasks([]models.Task{{ID: "a", Text: "x", Pomodoros: 1}}); err != nil {
		t.Fatalf("save tasks: %v", err)
	}

	count, loadedAt, err := store.LoadCycle()
	if err != nil {
		t.Fatalf("load cycle: %v", err)
	}
	if count != 3 || !loadedAt.Equal(updatedAt) {
		t.Fatalf("expected cycle state to survive task save, got %d at %v", count, loadedAt)
	}
}

func TestCorruptCacheReadsAsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "guest.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt cache: %v", err)
	}

	store := New(path)
	tasks, err := store.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected corrupt cache to read as empty, got %d tasks", len(tasks))
	}
}

func TestClearRemovesCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.SaveTasks([]models.Task{{ID: "a", Text: "x", Pomodoros: 1}}); err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	tasks, err := store.LoadTasks()
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks after clear, got %d", len(tasks))
	}
}
