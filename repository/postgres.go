package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todochat/model"
)

const taskColumns = `id, title, enhanced_title, completed, user_email, user_name, created_at`

const tasksSchema = `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
  title TEXT NOT NULL CHECK (title <> ''),
  enhanced_title TEXT,
  completed BOOLEAN NOT NULL DEFAULT false,
  user_email TEXT NOT NULL,
  user_name TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_email_created_at ON tasks(user_email, created_at DESC);
`

// PostgresStore keeps tasks in the tasks table of a postgres database, such
// as a hosted Supabase instance.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tasks table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, tasksSchema); err != nil {
		return fmt.Errorf("create tasks schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByOwner(ctx context.Context, email string) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+taskColumns+`
FROM tasks
WHERE user_email = $1
ORDER BY created_at DESC
`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *PostgresStore) Insert(ctx context.Context, newTask model.NewTask) (model.Task, error) {
	row := s.pool.QueryRow(ctx, `
INSERT INTO tasks (title, user_email, user_name)
VALUES ($1, $2, $3)
RETURNING `+taskColumns, newTask.Title, newTask.UserEmail, newTask.UserName)
	return scanTask(row)
}

func (s *PostgresStore) UpdateFields(ctx context.Context, id string, update model.TaskUpdate) (model.Task, error) {
	var (
		sets []string
		args []any
	)
	if update.Title != nil {
		args = append(args, *update.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if update.Completed != nil {
		args = append(args, *update.Completed)
		sets = append(sets, fmt.Sprintf("completed = $%d", len(args)))
	}
	args = append(args, id)

	var query string
	if len(sets) == 0 {
		query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	} else {
		query = fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), taskColumns)
	}

	task, err := scanTask(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func scanTask(row pgx.Row) (model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.EnhancedTitle,
		&task.Completed,
		&task.UserEmail,
		&task.UserName,
		&task.CreatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}
	task.CreatedAt = task.CreatedAt.UTC()
	return task, nil
}
