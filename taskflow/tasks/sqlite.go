package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeberg.org/taskflow/server/internal/storage"
)

// task store backed by the local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Create(ctx context.Context, task *Task) error {
	_, err := s.db.ExecContext(
		ctx,
		sqliteCreate,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		storage.SQLiteNullTime(task.DueDate),
		storage.SQLiteTime(task.CreatedAt),
		storage.SQLiteTime(task.UpdatedAt),
		storage.SQLiteNullTime(task.CompletedAt),
	)

	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID, taskID string) (*Task, error) {
	task, err := scanSQLiteTask(s.db.QueryRowContext(ctx, sqliteGet, taskID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return task, nil
}

func (s *SQLiteStore) List(ctx context.Context, userID string, filter ListFilter) ([]Task, error) {
	status, priority := string(filter.Status), string(filter.Priority)

	rows, err := s.db.QueryContext(ctx, sqliteList, userID, status, status, priority, priority)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	defer rows.Close() //nolint:errcheck // read-only cursor
	var list []Task

	for rows.Next() {
		task, err := scanSQLiteTask(rows)
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

func (s *SQLiteStore) Update(ctx context.Context, task *Task) error {
	res, err := s.db.ExecContext(
		ctx,
		sqliteUpdate,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		storage.SQLiteNullTime(task.DueDate),
		storage.SQLiteTime(task.UpdatedAt),
		storage.SQLiteNullTime(task.CompletedAt),
		task.ID,
		task.UserID,
	)

	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	return expectOneRow(res)
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, taskID string) error {
	res, err := s.db.ExecContext(ctx, sqliteDelete, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return expectOneRow(res)
}

func (s *SQLiteStore) Stats(ctx context.Context, userID string) (*Stats, error) {
	var stats Stats

	err := s.db.QueryRowContext(ctx, sqliteStats, userID).Scan(
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTask(row rowScanner) (*Task, error) {
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
		storage.ScanSQLiteNullTime(&task.DueDate),
		storage.ScanSQLiteTime(&task.CreatedAt),
		storage.ScanSQLiteTime(&task.UpdatedAt),
		storage.ScanSQLiteNullTime(&task.CompletedAt),
	)

	if err != nil {
		return nil, err
	}

	task.Status = Status(status)
	task.Priority = Priority(priority)

	return &task, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return ErrTaskNotFound
	}

	return nil
}
