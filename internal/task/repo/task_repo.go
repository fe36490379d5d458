package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/taskloop/service-task-go/internal/task/entity"
)

// TaskRepo provides data access for the tasks table using sqlx. Every read
// and write is filtered by owner so a task is never visible outside its
// owning user.
type TaskRepo struct {
	db *sqlx.DB
}

func NewTaskRepo(db *sqlx.DB) *TaskRepo { return &TaskRepo{db: db} }

// EnsureTable creates the tasks table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *TaskRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  id VARCHAR(32) PRIMARY KEY,
  user_id VARCHAR(32) NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks (user_id, created_at DESC);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// ListByOwner returns all tasks owned by userID, newest first.
func (r *TaskRepo) ListByOwner(ctx context.Context, userID string) ([]entity.Task, error) {
	const q = `SELECT id, user_id, title, description, created_at, updated_at
	           FROM tasks WHERE user_id = $1
	           ORDER BY created_at DESC, id DESC`
	tasks := []entity.Task{}
	if err := r.db.SelectContext(ctx, &tasks, q, userID); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create inserts a new task; the store assigns both timestamps.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) (*entity.Task, error) {
	const q = `INSERT INTO tasks (id, user_id, title, description)
	           VALUES ($1, $2, $3, $4)
	           RETURNING created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, q, t.ID, t.UserID, t.Title, t.Description).
		Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies the non-nil fields to the task matching id AND owner and
// returns the updated row. When no such row exists (wrong id, or owned by
// someone else) it returns (nil, nil) so callers cannot distinguish the
// two cases.
func (r *TaskRepo) Update(ctx context.Context, userID, id string, title, description *string) (*entity.Task, error) {
	const q = `UPDATE tasks
	           SET title = COALESCE($3, title),
	               description = COALESCE($4, description),
	               updated_at = NOW()
	           WHERE id = $1 AND user_id = $2
	           RETURNING id, user_id, title, description, created_at, updated_at`
	var t entity.Task
	err := r.db.QueryRowxContext(ctx, q, id, userID, title, description).StructScan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes the task matching id AND owner. Deleting a missing or
// non-owned task is a no-op, not an error.
func (r *TaskRepo) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, id, userID)
	return err
}
