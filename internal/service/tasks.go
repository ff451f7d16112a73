package service

import (
	"context"
	"fmt"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/errs"
	"github.com/geocoder89/taskhub/internal/utils"
	"github.com/geocoder89/taskhub/internal/validation"
)

// Tasks scopes every task operation to the owner id the auth gate attached.
type Tasks struct {
	store TaskStore
	now   func() time.Time
}

func NewTasks(store TaskStore) *Tasks {
	return &Tasks{store: store, now: task.Now}
}

func (s *Tasks) List(ctx context.Context, ownerID string) ([]task.Task, error) {
	if ownerID == "" {
		return nil, errs.ErrUnauthenticated
	}

	items, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if items == nil {
		items = []task.Task{}
	}
	return items, nil
}

func (s *Tasks) Create(ctx context.Context, ownerID string, req task.CreateTaskRequest) (task.Task, error) {
	if ownerID == "" {
		return task.Task{}, errs.ErrUnauthenticated
	}

	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return task.Task{}, err
	}

	t, err := s.store.Create(ctx, task.NewFromCreateRequest(ownerID, req, s.now()))
	if err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *Tasks) Get(ctx context.Context, ownerID, id string) (task.Task, error) {
	if err := checkScope(ownerID, id); err != nil {
		return task.Task{}, err
	}
	return s.store.GetForOwner(ctx, ownerID, id)
}

// Update applies only the fields present in req. An empty update returns the
// current task without touching updatedAt.
func (s *Tasks) Update(ctx context.Context, ownerID, id string, req task.UpdateTaskRequest) (task.Task, error) {
	if err := checkScope(ownerID, id); err != nil {
		return task.Task{}, err
	}

	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return task.Task{}, err
	}

	patch := req.Patch(s.now())
	if patch.IsEmpty() {
		return s.store.GetForOwner(ctx, ownerID, id)
	}

	return s.store.UpdateForOwner(ctx, ownerID, id, patch)
}

func (s *Tasks) Delete(ctx context.Context, ownerID, id string) (task.Task, error) {
	if err := checkScope(ownerID, id); err != nil {
		return task.Task{}, err
	}
	return s.store.DeleteForOwner(ctx, ownerID, id)
}

func checkScope(ownerID, id string) error {
	if ownerID == "" {
		return errs.ErrUnauthenticated
	}
	if !utils.IsUUID(id) {
		return errs.ErrInvalidID
	}
	return nil
}
