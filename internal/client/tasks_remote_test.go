package client

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terraincognita07/pomoflow/internal/localstore"
	"github.com/terraincognita07/pomoflow/internal/models"
)

func serverTasks() []models.Task {
	return []models.Task{
		{ID: "cccccccc-0000-0000-0000-000000000003", Text: "third", Pomodoros: 1},
		{ID: "bbbbbbbb-0000-0000-0000-000000000002", Text: "second", Pomodoros: 1},
		{ID: "aaaaaaaa-0000-0000-0000-000000000001", Text: "first", Pomodoros: 1},
	}
}

func newRemoteStore(t *testing.T, mux *http.ServeMux) (*TaskStore, *localstore.Store) {
	t.Helper()

	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusOK, serverTasks())
	})

	local := localstore.New(filepath.Join(t.TempDir(), "guest.json"))
	api, resolver := newAuthenticatedResolver(t, mux)
	store := NewTaskStore(resolver, api, local)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load remote store: %v", err)
	}
	return store, local
}

func TestLoadDiscardsGuestTasksOnLogin(t *testing.T) {
	t.Parallel()

	mux := newRemoteMux(t)
	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusOK, serverTasks())
	})

	local := localstore.New(filepath.Join(t.TempDir(), "guest.json"))
	if err := local.SaveTasks([]models.Task{{ID: "guest-task", Text: "offline work", Pomodoros: 1}}); err != nil {
		t.Fatalf("seed guest cache: %v", err)
	}

	api, resolver := newAuthenticatedResolver(t, mux)
	store := NewTaskStore(resolver, api, local)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, task := range store.Tasks() {
		if task.ID == "guest-task" {
			t.Fatal("expected guest tasks discarded, not merged")
		}
	}
	cached, err := local.LoadTasks()
	if err != nil {
		t.Fatalf("reload cache: %v", err)
	}
	if len(cached) != 0 {
		t.Fatalf("expected cleared guest cache, got %d tasks", len(cached))
	}
}

func TestRemoteCreateReplacesTemporaryID(t *testing.T) {
	t.Parallel()

	mux := newRemoteMux(t)
	created := models.Task{ID: "dddddddd-0000-0000-0000-000000000004", Text: "from server", Pomodoros: 1}
	mux.HandleFunc("POST /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode create body: %v", err)
		}
		if body["text"] != "from server" {
			t.Errorf("unexpected create body: %v", body)
		}
		writeTestJSON(t, w, http.StatusCreated, created)
	})
	store, _ := newRemoteStore(t, mux)

	task, err := store.Create(context.Background(), "from server", 1, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID != created.ID {
		t.Fatalf("expected server id %q, got %q", created.ID, task.ID)
	}

	tasks := store.Tasks()
	if tasks[0].ID != created.ID {
		t.Fatalf("expected server task at head, got %q", tasks[0].ID)
	}
	for _, item := range tasks {
		if strings.HasPrefix(item.ID, "optimistic-") {
			t.Fatalf("temporary id leaked into the list: %q", item.ID)
		}
	}
}

func TestRemoteCreateFailureRollsBack(t *testing.T) {
	t.Parallel()

	mux := newRemoteMux(t)
	mux.HandleFunc("POST /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	store, _ := newRemoteStore(t, mux)

	before := store.Tasks()
	if _, err := store.Create(context.Background(), "doomed", 1, nil); err == nil {
		t.Fatal("expected create to fail")
	}

	after := store.Tasks()
	if len(after) != len(before) {
		t.Fatalf("expected list restored, got %d tasks instead of %d", len(after), len(before))
	}
	for index := range before {
		if after[index].ID != before[index].ID {
			t.Fatalf("expected identical list after rollback, diverged at %d", index)
		}
	}
}

func TestRemoteDeleteFailureRestoresPosition(t *testing.T) {
	t.Parallel()

	mux := newRemoteMux(t)
	mux.HandleFunc("DELETE /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	store, _ := newRemoteStore(t, mux)

	middleID := serverTasks()[1].ID
	if err := store.Delete(context.Background(), middleID); err == nil {
		t.Fatal("expected delete to fail")
	}

	tasks := store.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks after rollback, got %d", len(tasks))
	}
	// The rolled-back task sits where it was, not at the end.
	if tasks[1].ID != middleID {
		t.Fatalf("expected %q restored to the middle, got order %q, %q, %q",
			middleID, tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
}

func TestRemoteDeleteSuccess(t *testing.T) {
	t.Parallel()

	mux := newRemoteMux(t)
	mux.HandleFunc("DELETE /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, http.StatusOK, map[string]any{"ok": true})
	})
	store, _ := newRemoteStore(t, mux)

	target := serverTasks()[0].ID
	if err := store.Delete(context.Background(), target); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, task := range store.Tasks() {
		if task.ID == target {
			t.Fatal("expected task removed")
		}
	}
}

func TestRemoteIncrementFailureRestoresCount(t *testing.T) {
	t.Parallel()

	mux := newRemoteMux(t)
	mux.HandleFunc("PUT /api/tasks/{id}/incrementPomodoro", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	store, _ := newRemoteStore(t, mux)

	target := serverTasks()[0].ID
	if err := store.IncrementPomodoro(context.Background(), target); err == nil {
		t.Fatal("expected increment to fail")
	}
	if got := store.Tasks()[0]; got.PomodorosCompleted != 0 {
		t.Fatalf("expected count rolled back to 0, got %d", got.PomodorosCompleted)
	}
}

// Two increments on the same task may overlap; each captures its own
// snapshot and the later server response is the one that sticks.
func TestOverlappingIncrementsLaterResponseWins(t *testing.T) {
	t.Parallel()

	mux := newRemoteMux(t)
	arrivals := make(chan chan int)
	mux.HandleFunc("PUT /api/tasks/{id}/incrementPomodoro", func(w http.ResponseWriter, r *http.Request) {
		release := make(chan int)
		arrivals <- release
		count := <-release

		updated := serverTasks()[0]
		updated.Pomodoros = 4
		updated.PomodorosCompleted = count
		writeTestJSON(t, w, http.StatusOK, updated)
	})
	store, _ := newRemoteStore(t, mux)
	target := serverTasks()[0].ID

	results := make(chan error, 2)
	go func() { results <- store.IncrementPomodoro(context.Background(), target) }()
	first := <-arrivals
	go func() { results <- store.IncrementPomodoro(context.Background(), target) }()
	second := <-arrivals

	// Both requests are in flight, so both optimistic applies have
	// already landed.
	if got := store.Tasks()[0].PomodorosCompleted; got != 2 {
		t.Fatalf("expected both optimistic increments visible, got %d", got)
	}

	first <- 1
	if err := <-results; err != nil {
		t.Fatalf("first increment: %v", err)
	}
	second <- 2
	if err := <-results; err != nil {
		t.Fatalf("second increment: %v", err)
	}

	if got := store.Tasks()[0].PomodorosCompleted; got != 2 {
		t.Fatalf("expected the later response to win with count 2, got %d", got)
	}
}

func TestRemoteUpdateUsesServerResponse(t *testing.T) {
	t.Parallel()

	mux := newRemoteMux(t)
	target := serverTasks()[2]
	mux.HandleFunc("PUT /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		updated := target
		updated.Text = "authoritative"
		updated.Pomodoros = 9
		writeTestJSON(t, w, http.StatusOK, updated)
	})
	store, _ := newRemoteStore(t, mux)

	newText := "optimistic"
	if err := store.Update(context.Background(), target.ID, TaskPatch{Text: &newText}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var got models.Task
	for _, task := range store.Tasks() {
		if task.ID == target.ID {
			got = task
		}
	}
	if got.Text != "authoritative" || got.Pomodoros != 9 {
		t.Fatalf("expected server copy to win, got %+v", got)
	}
}
