package client

import (
	"context"
	"errors"
	"testing"
)

func TestGuestCreatePrependsAndPersists(t *testing.T) {
	t.Parallel()

	store, local := newGuestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, "first", 1, nil)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := store.Create(ctx, "second", 2, nil)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.ID == "" || second.ID == "" {
		t.Fatal("expected generated ids for guest tasks")
	}

	tasks := store.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatal("expected newest-first ordering")
	}

	// A fresh store over the same file sees the same list.
	reloaded := NewTaskStore(newGuestResolver(t), nil, local)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Tasks(); len(got) != 2 || got[0].ID != second.ID {
		t.Fatalf("expected persisted tasks, got %v", got)
	}
}

func TestGuestCreateDropsProjectReference(t *testing.T) {
	t.Parallel()

	store, _ := newGuestStore(t)

	projectID := "2f9c11de-0fb2-4c6a-9a62-cf4b09826973"
	task, err := store.Create(context.Background(), "no projects offline", 1, &projectID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ProjectID != nil {
		t.Fatalf("expected project reference dropped for guest, got %v", *task.ProjectID)
	}
}

func TestGuestCreateValidation(t *testing.T) {
	t.Parallel()

	store, _ := newGuestStore(t)
	ctx := context.Background()

	var validation *ValidationError
	if _, err := store.Create(ctx, "   ", 1, nil); !errors.As(err, &validation) {
		t.Fatalf("expected validation error for empty text, got %v", err)
	}
	if _, err := store.Create(ctx, "x", 0, nil); !errors.As(err, &validation) {
		t.Fatalf("expected validation error for zero target, got %v", err)
	}
	if len(store.Tasks()) != 0 {
		t.Fatal("expected no tasks after rejected creates")
	}
}

func TestGuestIncrementPromotesCompletion(t *testing.T) {
	t.Parallel()

	store, _ := newGuestStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, "two rounds", 2, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.IncrementPomodoro(ctx, task.ID); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	if got := store.Tasks()[0]; got.PomodorosCompleted != 1 || got.Completed {
		t.Fatalf("expected 1/2 incomplete, got %d completed=%v", got.PomodorosCompleted, got.Completed)
	}

	if err := store.IncrementPomodoro(ctx, task.ID); err != nil {
		t.Fatalf("second increment: %v", err)
	}
	if got := store.Tasks()[0]; got.PomodorosCompleted != 2 || !got.Completed {
		t.Fatalf("expected 2/2 complete, got %d completed=%v", got.PomodorosCompleted, got.Completed)
	}
}

func TestGuestUpdateAndToggleAndDelete(t *testing.T) {
	t.Parallel()

	store, _ := newGuestStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, "editable", 1, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newText := "edited"
	if err := store.Update(ctx, task.ID, TaskPatch{Text: &newText}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := store.Tasks()[0]; got.Text != "edited" {
		t.Fatalf("expected edited text, got %q", got.Text)
	}

	if err := store.ToggleCompleted(ctx, task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !store.Tasks()[0].Completed {
		t.Fatal("expected toggled task complete")
	}

	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.Tasks()) != 0 {
		t.Fatal("expected empty list after delete")
	}
}

func TestGuestOperationsOnUnknownTask(t *testing.T) {
	t.Parallel()

	store, _ := newGuestStore(t)
	ctx := context.Background()

	var notFound *NotFoundError
	if err := store.IncrementPomodoro(ctx, "missing"); !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if err := store.Delete(ctx, "missing"); !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if err := store.Update(ctx, "missing", TaskPatch{}); !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
