package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// task store backed by the cloud Postgres database
type PostgresStore struct {
	db *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, task *Task) error {
	_, err := s.db.Exec(
		ctx,
		pgCreate,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
		task.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, taskID string) (*Task, error) {
	task, err := scanPostgresTask(s.db.QueryRow(ctx, pgGet, taskID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return task, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string, filter ListFilter) ([]Task, error) {
	rows, err := s.db.Query(ctx, pgList, userID, string(filter.Status), string(filter.Priority))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	defer rows.Close()
	var list []Task

	for rows.Next() {
		task, err := scanPostgresTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}

		list = append(list, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return list, nil
}

func (s *PostgresStore) Update(ctx context.Context, task *Task) error {
	tag, err := s.db.Exec(
		ctx,
		pgUpdate,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.UpdatedAt,
		task.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, taskID string) error {
	tag, err := s.db.Exec(ctx, pgDelete, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (s *PostgresStore) Stats(ctx context.Context, userID string) (*Stats, error) {
	var stats Stats

	err := s.db.QueryRow(ctx, pgStats, userID).Scan(
		&stats.TotalTasks,
		&stats.CompletedTasks,
		&stats.PendingTasks,
		&stats.InProgressTasks,
		&stats.HighPriorityTasks,
	)

	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}

	return &stats, nil
}

func scanPostgresTask(row pgx.Row) (*Task, error) {
	var (
		task     Task
		status   string
		priority string
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	task.Status = Status(status)
	task.Priority = Priority(priority)
	task.DueDate = utcPtr(task.DueDate)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	task.CompletedAt = utcPtr(task.CompletedAt)

	return &task, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	utc := t.UTC()
	return &utc
}
