package tasks

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// task operations for a single authenticated owner
type Service struct {
	store Store
	now   func() time.Time
}

// creates a new task service
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, userID string, req CreateTaskRequest) (*Task, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	now := s.now().UTC()

	task := &Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate.Value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	applyStatus(task, status, now)

	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *Service) Get(ctx context.Context, userID, taskID string) (*Task, error) {
	if uuid.Validate(taskID) != nil {
		return nil, ErrTaskNotFound
	}

	return s.store.Get(ctx, userID, taskID)
}

// lists the owner's tasks, newest first
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	list, err := s.store.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	if list == nil {
		list = []Task{}
	}

	return list, nil
}

// applies the fields present in req
func (s *Service) Update(ctx context.Context, userID, taskID string, req UpdateTaskRequest) (*Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	if req.Title != nil {
		title, err := normalizeTitle(*req.Title)
		if err != nil {
			return nil, err
		}

		task.Title = title
	}

	if req.Description != nil {
		task.Description = *req.Description
	}

	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, ErrInvalidPriority
		}

		task.Priority = *req.Priority
	}

	if req.DueDate.Set {
		task.DueDate = req.DueDate.Value
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}

		applyStatus(task, *req.Status, now)
	}

	task.UpdatedAt = now

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *Service) UpdateStatus(ctx context.Context, userID, taskID string, status Status) (*Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	return s.Update(ctx, userID, taskID, UpdateTaskRequest{Status: &status})
}

func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	if uuid.Validate(taskID) != nil {
		return ErrTaskNotFound
	}

	return s.store.Delete(ctx, userID, taskID)
}

func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	return s.store.Stats(ctx, userID)
}

// completed_at is stamped when a task enters completed and cleared when it leaves
func applyStatus(task *Task, status Status, now time.Time) {
	if status == StatusCompleted {
		if task.CompletedAt == nil {
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}

	task.Status = status
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return "", ErrTitleRequired
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}

	return title, nil
}
