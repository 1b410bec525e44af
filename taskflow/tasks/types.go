package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	ErrInvalidStatus   = errors.New("status must be one of pending, in_progress, completed")
	ErrInvalidPriority = errors.New("priority must be one of low, medium, high")
)

const MaxTitleLength = 200

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}

	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}

	return false
}

// a unit of work owned by exactly one user
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required,max=200"`
	Description string       `json:"description" binding:"max=10000"`
	Status      Status       `json:"status"`
	Priority    Priority     `json:"priority"`
	DueDate     NullableTime `json:"due_date"`
}

// partial update, nil fields are left untouched
type UpdateTaskRequest struct {
	Title       *string      `json:"title" binding:"omitempty,max=200"`
	Description *string      `json:"description" binding:"omitempty,max=10000"`
	Status      *Status      `json:"status"`
	Priority    *Priority    `json:"priority"`
	DueDate     NullableTime `json:"due_date"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// optional list filters, empty means no filter
type ListFilter struct {
	Status   Status
	Priority Priority
}

// per-user task counters
type Stats struct {
	TotalTasks        int `json:"total_tasks"`
	CompletedTasks    int `json:"completed_tasks"`
	PendingTasks      int `json:"pending_tasks"`
	InProgressTasks   int `json:"in_progress_tasks"`
	HighPriorityTasks int `json:"high_priority_tasks"`
}

// persistence for tasks. every method is scoped to the owning user
type Store interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, userID, taskID string) (*Task, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, userID, taskID string) error
	Stats(ctx context.Context, userID string) (*Stats, error)
}

// a JSON timestamp that distinguishes an absent field from an explicit null
type NullableTime struct {
	Set   bool
	Value *time.Time
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true

	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("due_date must be an ISO 8601 string: %w", err)
	}

	if raw == "" {
		n.Value = nil
		return nil
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			n.Value = &t
			return nil
		}
	}

	return fmt.Errorf("due_date %q is not a valid ISO 8601 timestamp", raw)
}

func (n NullableTime) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}

	return json.Marshal(n.Value)
}
