// Package service holds the two boundaries the HTTP layer talks to:
// Accounts (credential store) and Tasks (per-user task scoping).
package service

import (
	"context"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

// UserStore is implemented by every backend in internal/repo.
type UserStore interface {
	// Create fails with errs.ErrEmailTaken when the email already exists.
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

// TaskStore methods that address a single task match id and owner in one query;
// a task owned by someone else is errs.ErrNotFound.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]task.Task, error)
	Create(ctx context.Context, t task.Task) (task.Task, error)
	GetForOwner(ctx context.Context, ownerID, id string) (task.Task, error)
	UpdateForOwner(ctx context.Context, ownerID, id string, patch task.Patch) (task.Task, error)
	DeleteForOwner(ctx context.Context, ownerID, id string) (task.Task, error)
}
