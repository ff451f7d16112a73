package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/errs"
	"github.com/geocoder89/taskhub/internal/repo/memory"
	"github.com/geocoder89/taskhub/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTasks() *service.Tasks {
	return service.NewTasks(memory.NewTasksRepo())
}

func TestTasks_CreateThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTasks()
	owner := uuid.NewString()

	created, err := s.Create(ctx, owner, task.CreateTaskRequest{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	got, err := s.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Buy milk", got.Title)
	require.Equal(t, "2%", got.Description)
	require.False(t, got.Completed)
	require.NotEmpty(t, got.ID)
	require.False(t, got.CreatedAt.IsZero())
	require.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestTasks_CreateValidatesBeforeWrite(t *testing.T) {
	ctx := context.Background()
	s := newTasks()
	owner := uuid.NewString()

	_, err := s.Create(ctx, owner, task.CreateTaskRequest{Title: strings.Repeat("x", 40)})
	require.NoError(t, err)

	for _, title := range []string{strings.Repeat("x", 41), "", "    "} {
		_, err := s.Create(ctx, owner, task.CreateTaskRequest{Title: title})
		require.True(t, errs.IsValidation(err), "title %q: want validation error, got %v", title, err)
	}

	list, err := s.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTasks_CrossUserAccessLooksLikeNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTasks()
	alice, bob := uuid.NewString(), uuid.NewString()

	tk, err := s.Create(ctx, alice, task.CreateTaskRequest{Title: "alice only"})
	require.NoError(t, err)

	_, err = s.Get(ctx, bob, tk.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = s.Update(ctx, bob, tk.ID, task.UpdateTaskRequest{Title: strPtr("mine now")})
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = s.Update(ctx, bob, tk.ID, task.UpdateTaskRequest{})
	require.ErrorIs(t, err, errs.ErrNotFound, "empty update must not reveal existence either")

	_, err = s.Delete(ctx, bob, tk.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	bobs, err := s.List(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, bobs)

	still, err := s.Get(ctx, alice, tk.ID)
	require.NoError(t, err)
	require.Equal(t, "alice only", still.Title)
}

func TestTasks_DeleteIsNotRepeatable(t *testing.T) {
	ctx := context.Background()
	s := newTasks()
	owner := uuid.NewString()

	tk, err := s.Create(ctx, owner, task.CreateTaskRequest{Title: "once"})
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, owner, tk.ID)
	require.NoError(t, err)
	require.Equal(t, tk.ID, deleted.ID)

	for i := 0; i < 3; i++ {
		_, err = s.Delete(ctx, owner, tk.ID)
		require.ErrorIs(t, err, errs.ErrNotFound)
	}

	_, err = s.Delete(ctx, owner, uuid.NewString())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTasks_InvalidIDRejectedBeforeStore(t *testing.T) {
	ctx := context.Background()
	s := service.NewTasks(nil) // any store access would panic
	owner := uuid.NewString()

	_, err := s.Get(ctx, owner, "not-a-uuid")
	require.ErrorIs(t, err, errs.ErrInvalidID)

	_, err = s.Update(ctx, owner, "123", task.UpdateTaskRequest{})
	require.ErrorIs(t, err, errs.ErrInvalidID)

	_, err = s.Delete(ctx, owner, "")
	require.ErrorIs(t, err, errs.ErrInvalidID)

	_, err = s.Get(ctx, "", uuid.NewString())
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestTasks_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTasks()
	owner := uuid.NewString()

	tk, err := s.Create(ctx, owner, task.CreateTaskRequest{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)

	done := task.FlexBool(true)
	updated, err := s.Update(ctx, owner, tk.ID, task.UpdateTaskRequest{Completed: &done})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.Equal(t, "Buy milk", updated.Title)
	require.Equal(t, "2%", updated.Description)
	require.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	updated, err = s.Update(ctx, owner, tk.ID, task.UpdateTaskRequest{Description: strPtr("  ")})
	require.NoError(t, err)
	require.Equal(t, "", updated.Description, "description is trimmed and may be emptied")
	require.True(t, updated.Completed, "completed must survive an update that omits it")

	_, err = s.Update(ctx, owner, tk.ID, task.UpdateTaskRequest{Title: strPtr(strings.Repeat("t", 41))})
	require.True(t, errs.IsValidation(err))

	unchanged, err := s.Update(ctx, owner, tk.ID, task.UpdateTaskRequest{})
	require.NoError(t, err)
	require.Equal(t, updated, unchanged)
}

func TestTasks_ListEmptyIsNotNil(t *testing.T) {
	list, err := newTasks().List(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Len(t, list, 0)
}
