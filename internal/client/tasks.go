package client

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/pomoflow/internal/localstore"
	"github.com/terraincognita07/pomoflow/internal/models"
)

// TaskStore is the single task interface the UI talks to. Every
// operation asks the resolver whether a guest or an account is acting
// and routes to the local cache or the server accordingly; the choice
// is never cached across calls, so logging in or out mid-session takes
// effect on the next operation.
type TaskStore struct {
	resolver *Resolver
	api      *API
	local    *localstore.Store

	mu    sync.Mutex
	tasks []models.Task
}

func NewTaskStore(resolver *Resolver, api *API, local *localstore.Store) *TaskStore {
	return &TaskStore{
		resolver: resolver,
		api:      api,
		local:    local,
		tasks:    []models.Task{},
	}
}

// TaskPatch is a partial update. Nil fields stay untouched; SetProject
// marks an explicit project change, including clearing it with a nil
// ProjectID.
type TaskPatch struct {
	Text               *string
	Pomodoros          *int
	PomodorosCompleted *int
	Completed          *bool
	SetProject         bool
	ProjectID          *string
}

// Load populates the store for the current principal: a server fetch
// for accounts, the cache file for guests. Logging in discards guest
// tasks rather than merging them; the server copy wins.
func (store *TaskStore) Load(ctx context.Context) error {
	if err := store.resolver.Await(ctx); err != nil {
		return err
	}

	if store.resolver.IsAuthenticated() {
		var tasks []models.Task
		if err := store.api.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
			return err
		}
		store.mu.Lock()
		store.tasks = tasks
		store.mu.Unlock()
		return store.local.Clear()
	}

	tasks, err := store.local.LoadTasks()
	if err != nil {
		return &TransientIOError{Message: "load guest tasks", Err: err}
	}
	store.mu.Lock()
	store.tasks = tasks
	store.mu.Unlock()
	return nil
}

// Tasks returns a copy of the current list, newest first.
func (store *TaskStore) Tasks() []models.Task {
	store.mu.Lock()
	defer store.mu.Unlock()
	return cloneTasks(store.tasks)
}

func (store *TaskStore) Create(ctx context.Context, text string, pomodoros int, projectID *string) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, &ValidationError{Message: "task text must not be empty"}
	}
	if pomodoros < 1 {
		return models.Task{}, &ValidationError{Message: "target pomodoros must be at least 1"}
	}
	if err := store.resolver.Await(ctx); err != nil {
		return models.Task{}, err
	}

	now := time.Now()
	if !store.resolver.IsAuthenticated() {
		// Guests cannot reference projects; the reference is silently
		// dropped rather than rejected.
		task := models.Task{
			ID:        uuid.NewString(),
			Text:      text,
			Pomodoros: pomodoros,
			ProjectID: nil,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := store.mutateLocal(func(tasks []models.Task) []models.Task {
			return append([]models.Task{task}, tasks...)
		})
		if err != nil {
			return models.Task{}, err
		}
		return task, nil
	}

	// The temporary record carries a throwaway identifier; it is either
	// replaced by the server's task or removed on rollback, and must
	// never be visible to a follow-up operation after that.
	tempID := "optimistic-" + uuid.NewString()
	optimistic := models.Task{
		ID:        tempID,
		Text:      text,
		Pomodoros: pomodoros,
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created models.Task
	err := store.mutateRemote(ctx,
		func(tasks []models.Task) []models.Task {
			return append([]models.Task{optimistic}, tasks...)
		},
		func(ctx context.Context) (func([]models.Task) []models.Task, error) {
			body := map[string]any{"text": text, "pomodoros": pomodoros}
			if projectID != nil {
				body["projectId"] = *projectID
			}
			if err := store.api.do(ctx, http.MethodPost, "/api/tasks", body, &created); err != nil {
				return nil, err
			}
			return replaceTask(tempID, created), nil
		},
	)
	if err != nil {
		return models.Task{}, err
	}
	return created, nil
}

func (store *TaskStore) Update(ctx context.Context, taskID string, patch TaskPatch) error {
	if patch.Text != nil && strings.TrimSpace(*patch.Text) == "" {
		return &ValidationError{Message: "task text must not be empty"}
	}
	if patch.Pomodoros != nil && *patch.Pomodoros < 1 {
		return &ValidationError{Message: "target pomodoros must be at least 1"}
	}
	if err := store.resolver.Await(ctx); err != nil {
		return err
	}

	if !store.resolver.IsAuthenticated() {
		if !store.contains(taskID) {
			return &NotFoundError{Message: "task not found"}
		}
		return store.mutateLocal(func(tasks []models.Task) []models.Task {
			return applyPatch(tasks, taskID, patch, false)
		})
	}

	var updated models.Task
	return store.mutateRemote(ctx,
		func(tasks []models.Task) []models.Task {
			return applyPatch(tasks, taskID, patch, true)
		},
		func(ctx context.Context) (func([]models.Task) []models.Task, error) {
			body := map[string]any{}
			if patch.Text != nil {
				body["text"] = *patch.Text
			}
			if patch.Pomodoros != nil {
				body["pomodoros"] = *patch.Pomodoros
			}
			if patch.PomodorosCompleted != nil {
				body["pomodorosCompleted"] = *patch.PomodorosCompleted
			}
			if patch.Completed != nil {
				body["completed"] = *patch.Completed
			}
			if patch.SetProject {
				if patch.ProjectID != nil {
					body["projectId"] = *patch.ProjectID
				} else {
					body["projectId"] = nil
				}
			}
			if err := store.api.do(ctx, http.MethodPut, "/api/tasks/"+taskID, body, &updated); err != nil {
				return nil, err
			}
			return replaceTask(taskID, updated), nil
		},
	)
}

// IncrementPomodoro bumps the completed count by one. The pre-increment
// value is captured inside the synchronous apply phase, before any
// network suspension, so a rollback restores exactly what this call
// observed.
func (store *TaskStore) IncrementPomodoro(ctx context.Context, taskID string) error {
	if err := store.resolver.Await(ctx); err != nil {
		return err
	}

	increment := func(tasks []models.Task) []models.Task {
		for index := range tasks {
			if tasks[index].ID == taskID {
				tasks[index].PomodorosCompleted++
				tasks[index].PromoteCompletion()
				tasks[index].UpdatedAt = time.Now()
			}
		}
		return tasks
	}

	if !store.resolver.IsAuthenticated() {
		if !store.contains(taskID) {
			return &NotFoundError{Message: "task not found"}
		}
		return store.mutateLocal(increment)
	}

	var updated models.Task
	return store.mutateRemote(ctx, increment,
		func(ctx context.Context) (func([]models.Task) []models.Task, error) {
			if err := store.api.do(ctx, http.MethodPut, "/api/tasks/"+taskID+"/incrementPomodoro", nil, &updated); err != nil {
				return nil, err
			}
			return replaceTask(taskID, updated), nil
		},
	)
}

func (store *TaskStore) ToggleCompleted(ctx context.Context, taskID string) error {
	if err := store.resolver.Await(ctx); err != nil {
		return err
	}

	toggle := func(tasks []models.Task) []models.Task {
		for index := range tasks {
			if tasks[index].ID == taskID {
				tasks[index].Completed = !tasks[index].Completed
				tasks[index].UpdatedAt = time.Now()
			}
		}
		return tasks
	}

	if !store.resolver.IsAuthenticated() {
		if !store.contains(taskID) {
			return &NotFoundError{Message: "task not found"}
		}
		return store.mutateLocal(toggle)
	}

	var updated models.Task
	return store.mutateRemote(ctx, toggle,
		func(ctx context.Context) (func([]models.Task) []models.Task, error) {
			if err := store.api.do(ctx, http.MethodPut, "/api/tasks/"+taskID+"/toggleCompleted", nil, &updated); err != nil {
				return nil, err
			}
			return replaceTask(taskID, updated), nil
		},
	)
}

// Delete removes a task. On a failed remote delete the snapshot
// restore puts the task back in its original list position, not at the
// end.
func (store *TaskStore) Delete(ctx context.Context, taskID string) error {
	if err := store.resolver.Await(ctx); err != nil {
		return err
	}

	remove := func(tasks []models.Task) []models.Task {
		remaining := make([]models.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.ID != taskID {
				remaining = append(remaining, task)
			}
		}
		return remaining
	}

	if !store.resolver.IsAuthenticated() {
		if !store.contains(taskID) {
			return &NotFoundError{Message: "task not found"}
		}
		return store.mutateLocal(remove)
	}

	return store.mutateRemote(ctx, remove,
		func(ctx context.Context) (func([]models.Task) []models.Task, error) {
			if err := store.api.do(ctx, http.MethodDelete, "/api/tasks/"+taskID, nil, nil); err != nil {
				return nil, err
			}
			return nil, nil
		},
	)
}

func (store *TaskStore) contains(taskID string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, task := range store.tasks {
		if task.ID == taskID {
			return true
		}
	}
	return false
}

// applyPatch merges a patch into the matching task and re-evaluates the
// completion promotion. Guests never keep a project reference.
func applyPatch(tasks []models.Task, taskID string, patch TaskPatch, allowProject bool) []models.Task {
	for index := range tasks {
		if tasks[index].ID != taskID {
			continue
		}
		if patch.Text != nil {
			tasks[index].Text = strings.TrimSpace(*patch.Text)
		}
		if patch.Pomodoros != nil {
			tasks[index].Pomodoros = *patch.Pomodoros
		}
		if patch.PomodorosCompleted != nil {
			tasks[index].PomodorosCompleted = *patch.PomodorosCompleted
		}
		if patch.Completed != nil {
			tasks[index].Completed = *patch.Completed
		}
		if patch.SetProject {
			if allowProject {
				tasks[index].ProjectID = patch.ProjectID
			} else {
				tasks[index].ProjectID = nil
			}
		}
		tasks[index].PromoteCompletion()
		tasks[index].UpdatedAt = time.Now()
	}
	return tasks
}

func replaceTask(taskID string, replacement models.Task) func([]models.Task) []models.Task {
	return func(tasks []models.Task) []models.Task {
		for index := range tasks {
			if tasks[index].ID == taskID {
				tasks[index] = replacement
			}
		}
		return tasks
	}
}
