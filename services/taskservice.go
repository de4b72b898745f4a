package services

import (
	"context"
	"errors"
	"strings"

	"todochat/apperr"
	"todochat/model"
	"todochat/repository"
)

// TaskNotifier is told about every task that was created successfully.
// Implementations must not block.
type TaskNotifier interface {
	TaskCreated(task model.Task)
}

// TaskService implements the task operations on top of a repository.
// Every operation targets a single row; there are no transactions.
type TaskService struct {
	repo     repository.TaskRepository
	notifier TaskNotifier
}

func NewTaskService(repo repository.TaskRepository, notifier TaskNotifier) *TaskService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &TaskService{repo: repo, notifier: notifier}
}

// List returns the tasks owned by email, newest first.
func (s *TaskService) List(ctx context.Context, email string) ([]model.Task, error) {
	if email == "" {
		return nil, apperr.Validation("Email required")
	}

	tasks, err := s.repo.FindByOwner(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Create inserts a task and notifies the enhancement automation. The
// notification's outcome never affects the result.
func (s *TaskService) Create(ctx context.Context, title, userEmail string, userName *string) (model.Task, error) {
	if isBlank(title) || userEmail == "" {
		return model.Task{}, apperr.Validation("Title and email required")
	}

	task, err := s.repo.Insert(ctx, model.NewTask{
		Title:     title,
		UserEmail: userEmail,
		UserName:  userName,
	})
	if err != nil {
		return model.Task{}, storeError(err)
	}

	s.notifier.TaskCreated(task)
	return task, nil
}

// Update applies the fields present in update and returns the task.
func (s *TaskService) Update(ctx context.Context, id string, update model.TaskUpdate) (model.Task, error) {
	if id == "" {
		return model.Task{}, apperr.Validation("Task id required")
	}
	if update.Title != nil && isBlank(*update.Title) {
		return model.Task{}, apperr.Validation("Title must not be empty")
	}

	task, err := s.repo.UpdateFields(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Task{}, &apperr.NotFoundError{Resource: "Task", ID: id}
		}
		return model.Task{}, storeError(err)
	}
	return task, nil
}

// Delete removes the task. A task that is already gone is not an error.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("Task id required")
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return storeError(err)
	}
	return nil
}

// storeError passes configuration errors through and wraps everything else.
func storeError(err error) error {
	var cfgErr *apperr.ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr
	}
	return &apperr.StoreError{Err: err}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

type nopNotifier struct{}

func (nopNotifier) TaskCreated(model.Task) {}
