package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/errs"
)

type TasksRepo struct {
	mu    sync.RWMutex
	items map[string]task.Task
}

func NewTasksRepo() *TasksRepo {
	return &TasksRepo{
		items: make(map[string]task.Task),
	}
}

func (r *TasksRepo) ListByOwner(_ context.Context, ownerID string) ([]task.Task, error) {
	r.mu.RLock()
	out := make([]task.Task, 0)
	for _, t := range r.items {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()

	// newest first, id as tie breaker
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (r *TasksRepo) Create(_ context.Context, t task.Task) (task.Task, error) {
	r.mu.Lock()
	r.items[t.ID] = t
	r.mu.Unlock()

	return t, nil
}

// lookupLocked is the single id+owner match every addressed operation goes through.
func (r *TasksRepo) lookupLocked(ownerID, id string) (task.Task, bool) {
	t, ok := r.items[id]
	if !ok || t.UserID != ownerID {
		return task.Task{}, false
	}
	return t, true
}

func (r *TasksRepo) GetForOwner(_ context.Context, ownerID, id string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.lookupLocked(ownerID, id)
	if !ok {
		return task.Task{}, errs.ErrNotFound
	}
	return t, nil
}

func (r *TasksRepo) UpdateForOwner(_ context.Context, ownerID, id string, patch task.Patch) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.lookupLocked(ownerID, id)
	if !ok {
		return task.Task{}, errs.ErrNotFound
	}

	t = patch.Apply(t)
	r.items[id] = t

	return t, nil
}

func (r *TasksRepo) DeleteForOwner(_ context.Context, ownerID, id string) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.lookupLocked(ownerID, id)
	if !ok {
		return task.Task{}, errs.ErrNotFound
	}

	delete(r.items, id)
	return t, nil
}
