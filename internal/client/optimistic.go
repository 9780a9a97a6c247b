package client

import (
	"context"

	"github.com/terraincognita07/pomoflow/internal/models"
)

// mutateRemote runs the three-phase protocol every authenticated
// mutation follows:
//
//  1. snapshot the current task list,
//  2. apply the optimistic mutation synchronously,
//  3. perform the remote call; on success install the server's
//     authoritative commit, on failure restore the snapshot.
//
// The snapshot is taken before any suspension point, so a rollback
// restores exactly the pre-operation list, including ordering. Two
// overlapping mutations on the same task each capture their own
// snapshot; the later server response wins.
func (store *TaskStore) mutateRemote(
	ctx context.Context,
	apply func([]models.Task) []models.Task,
	call func(context.Context) (commit func([]models.Task) []models.Task, err error),
) error {
	store.mu.Lock()
	snapshot := cloneTasks(store.tasks)
	store.tasks = apply(cloneTasks(store.tasks))
	store.mu.Unlock()

	commit, err := call(ctx)

	store.mu.Lock()
	defer store.mu.Unlock()
	if err != nil {
		store.tasks = snapshot
		return err
	}
	if commit != nil {
		store.tasks = commit(store.tasks)
	}
	return nil
}

// mutateLocal is the guest-side counterpart: apply the mutation and
// persist the cache synchronously. A failed persist rolls the
// in-memory list back so memory and disk stay consistent.
func (store *TaskStore) mutateLocal(apply func([]models.Task) []models.Task) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	snapshot := store.tasks
	mutated := apply(cloneTasks(store.tasks))
	if err := store.local.SaveTasks(mutated); err != nil {
		store.tasks = snapshot
		return &TransientIOError{Message: "persist guest tasks", Err: err}
	}
	store.tasks = mutated
	return nil
}

func cloneTasks(tasks []models.Task) []models.Task {
	cloned := make([]models.Task, len(tasks))
	copy(cloned, tasks)
	return cloned
}
