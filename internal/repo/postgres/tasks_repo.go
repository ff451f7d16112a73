package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/errs"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

type TasksRepo struct {
	pool PgxPool
	prom *observability.Prom
}

func NewTasksRepo(pool PgxPool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{pool: pool, prom: prom}
}

func (r *TasksRepo) observe(op string, fn func() error) error {
	return r.prom.ObserveDB(op, fn)
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return task.Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID string) ([]task.Task, error) {
	out := make([]task.Task, 0)

	err := r.observe("tasks.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, ownerID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TasksRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	err := r.observe("tasks.create", func() error {
		_, e := r.pool.Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, t.ID, t.UserID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt)
		return e
	})
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (r *TasksRepo) GetForOwner(ctx context.Context, ownerID, id string) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.get_for_owner", func() error {
		var e error
		t, e = scanTask(r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2`, id, ownerID))
		return e
	})

	return t, notFound(err)
}

// UpdateForOwner applies the patch in one statement; NULL arguments keep the stored value.
func (r *TasksRepo) UpdateForOwner(ctx context.Context, ownerID, id string, patch task.Patch) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.update_for_owner", func() error {
		var e error
		t, e = scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($3, title),
			description = COALESCE($4, description),
			completed = COALESCE($5, completed),
			updated_at = $6
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns,
			id, ownerID, patch.Title, patch.Description, patch.Completed, patch.UpdatedAt))
		return e
	})

	return t, notFound(err)
}

func (r *TasksRepo) DeleteForOwner(ctx context.Context, ownerID, id string) (task.Task, error) {
	var t task.Task

	err := r.observe("tasks.delete_for_owner", func() error {
		var e error
		t, e = scanTask(r.pool.QueryRow(ctx, `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns, id, ownerID))
		return e
	})

	return t, notFound(err)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}
