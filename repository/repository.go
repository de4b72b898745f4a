// Package repository stores tasks. TaskRepository is implemented by a
// firestore collection, a postgres table and an in-process map.
package repository

import (
	"context"
	"errors"

	"todochat/model"
)

// ErrNotFound is returned by UpdateFields when no task has the given id.
var ErrNotFound = errors.New("task not found")

type TaskRepository interface {
	// FindByOwner returns the owner's tasks, newest first.
	FindByOwner(ctx context.Context, email string) ([]model.Task, error)

	// Insert stores a new task and returns it with its generated id and
	// creation time.
	Insert(ctx context.Context, task model.NewTask) (model.Task, error)

	// UpdateFields applies the non-nil fields of update and returns the
	// resulting task.
	UpdateFields(ctx context.Context, id string, update model.TaskUpdate) (model.Task, error)

	// DeleteByID removes the task. Deleting a missing task is not an error.
	DeleteByID(ctx context.Context, id string) error
}

// Unavailable returns a repository whose every call fails with err. It
// stands in for a store that could not be opened at startup.
func Unavailable(err error) TaskRepository {
	return unavailable{err: err}
}

type unavailable struct {
	err error
}

func (u unavailable) FindByOwner(context.Context, string) ([]model.Task, error) {
	return nil, u.err
}

func (u unavailable) Insert(context.Context, model.NewTask) (model.Task, error) {
	return model.Task{}, u.err
}

func (u unavailable) UpdateFields(context.Context, string, model.TaskUpdate) (model.Task, error) {
	return model.Task{}, u.err
}

func (u unavailable) DeleteByID(context.Context, string) error {
	return u.err
}
