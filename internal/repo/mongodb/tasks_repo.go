package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/errs"
	"github.com/geocoder89/taskhub/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Completed   bool      `bson:"completed"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func fromTask(t task.Task) taskDoc {
	return taskDoc{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDoc) toTask() task.Task {
	return task.Task{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type TasksRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewTasksRepo(db *mongo.Database, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{coll: db.Collection(tasksCollection), prom: prom}
}

func ownedBy(ownerID, id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: ownerID}}
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID string) ([]task.Task, error) {
	var docs []taskDoc

	err := r.prom.ObserveDB("tasks.list_by_owner", func() error {
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
		cur, err := r.coll.Find(ctx, bson.D{{Key: "userId", Value: ownerID}}, opts)
		if err != nil {
			return err
		}
		return cur.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	out := make([]task.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toTask())
	}
	return out, nil
}

func (r *TasksRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	err := r.prom.ObserveDB("tasks.create", func() error {
		_, e := r.coll.InsertOne(ctx, fromTask(t))
		return e
	})
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (r *TasksRepo) GetForOwner(ctx context.Context, ownerID, id string) (task.Task, error) {
	var doc taskDoc

	err := r.prom.ObserveDB("tasks.get_for_owner", func() error {
		return r.coll.FindOne(ctx, ownedBy(ownerID, id)).Decode(&doc)
	})
	if err != nil {
		return task.Task{}, notFound(err)
	}
	return doc.toTask(), nil
}

func (r *TasksRepo) UpdateForOwner(ctx context.Context, ownerID, id string, patch task.Patch) (task.Task, error) {
	if patch.IsEmpty() {
		return r.GetForOwner(ctx, ownerID, id)
	}

	set := bson.D{{Key: "updatedAt", Value: patch.UpdatedAt}}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.Completed != nil {
		set = append(set, bson.E{Key: "completed", Value: *patch.Completed})
	}

	var doc taskDoc

	err := r.prom.ObserveDB("tasks.update_for_owner", func() error {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		return r.coll.FindOneAndUpdate(ctx, ownedBy(ownerID, id), bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	})
	if err != nil {
		return task.Task{}, notFound(err)
	}
	return doc.toTask(), nil
}

func (r *TasksRepo) DeleteForOwner(ctx context.Context, ownerID, id string) (task.Task, error) {
	var doc taskDoc

	err := r.prom.ObserveDB("tasks.delete_for_owner", func() error {
		return r.coll.FindOneAndDelete(ctx, ownedBy(ownerID, id)).Decode(&doc)
	})
	if err != nil {
		return task.Task{}, notFound(err)
	}
	return doc.toTask(), nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNotFound
	}
	return err
}
