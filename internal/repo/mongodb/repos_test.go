package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/errs"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func taskBSON(id, owner, title string, completed bool, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "userId", Value: owner},
		{Key: "title", Value: title},
		{Key: "description", Value: ""},
		{Key: "completed", Value: completed},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: created},
	}
}

func TestUsersRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		r := NewUsersRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := user.User{ID: "u1", Email: "alice@x.com", Name: "Alice"}
		got, err := r.Create(context.Background(), u)
		require.NoError(mt, err)
		require.Equal(mt, u, got)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		r := NewUsersRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := r.Create(context.Background(), user.User{ID: "u2", Email: "alice@x.com"})
		require.ErrorIs(mt, err, errs.ErrEmailTaken)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		r := NewUsersRepo(mt.DB, nil)
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskhub.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "email", Value: "alice@x.com"},
			{Key: "passwordHash", Value: "h"},
			{Key: "name", Value: "Alice"},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		}))

		u, err := r.GetByEmail(context.Background(), "alice@x.com")
		require.NoError(mt, err)
		require.Equal(mt, "u1", u.ID)
		require.Equal(mt, "h", u.PasswordHash)
		require.True(mt, now.Equal(u.CreatedAt))
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		r := NewUsersRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskhub.users", mtest.FirstBatch))

		_, err := r.GetByID(context.Background(), "nope")
		require.ErrorIs(mt, err, errs.ErrNotFound)
	})
}

func TestTasksRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Now().UTC().Truncate(time.Millisecond)

	mt.Run("list by owner", func(mt *mtest.T) {
		r := NewTasksRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskhub.tasks", mtest.FirstBatch,
			taskBSON("t2", "owner", "B", true, now),
			taskBSON("t1", "owner", "A", false, now.Add(-time.Minute)),
		))

		list, err := r.ListByOwner(context.Background(), "owner")
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		require.Equal(mt, "t2", list[0].ID)
		require.Equal(mt, "owner", list[0].UserID)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		r := NewTasksRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskhub.tasks", mtest.FirstBatch))

		list, err := r.ListByOwner(context.Background(), "owner")
		require.NoError(mt, err)
		require.NotNil(mt, list)
		require.Empty(mt, list)
	})

	mt.Run("create", func(mt *mtest.T) {
		r := NewTasksRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		tk := task.NewFromCreateRequest("owner", task.CreateTaskRequest{Title: "Buy milk"}, now)
		got, err := r.Create(context.Background(), tk)
		require.NoError(mt, err)
		require.Equal(mt, tk, got)
	})

	mt.Run("get for other owner", func(mt *mtest.T) {
		r := NewTasksRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskhub.tasks", mtest.FirstBatch))

		_, err := r.GetForOwner(context.Background(), "intruder", "t1")
		require.ErrorIs(mt, err, errs.ErrNotFound)
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		r := NewTasksRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: taskBSON("t1", "owner", "A", true, now)},
		))

		done := true
		got, err := r.UpdateForOwner(context.Background(), "owner", "t1", task.Patch{Completed: &done, UpdatedAt: now})
		require.NoError(mt, err)
		require.True(mt, got.Completed)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		r := NewTasksRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		title := "x"
		_, err := r.UpdateForOwner(context.Background(), "intruder", "t1", task.Patch{Title: &title, UpdatedAt: now})
		require.ErrorIs(mt, err, errs.ErrNotFound)
	})

	mt.Run("delete returns removed document", func(mt *mtest.T) {
		r := NewTasksRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: taskBSON("t1", "owner", "A", false, now)},
		))

		got, err := r.DeleteForOwner(context.Background(), "owner", "t1")
		require.NoError(mt, err)
		require.Equal(mt, "t1", got.ID)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		r := NewTasksRepo(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := r.DeleteForOwner(context.Background(), "owner", "t1")
		require.ErrorIs(mt, err, errs.ErrNotFound)
	})
}
