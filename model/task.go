package model

import (
	"time"
)

type Task struct {
	ID            string    `json:"id" firestore:"id"`
	Title         string    `json:"title" firestore:"title"`
	EnhancedTitle *string   `json:"enhanced_title" firestore:"enhanced_title,omitempty"`
	Completed     bool      `json:"completed" firestore:"completed"`
	UserEmail     string    `json:"user_email" firestore:"user_email"`
	UserName      *string   `json:"user_name" firestore:"user_name,omitempty"`
	CreatedAt     time.Time `json:"created_at" firestore:"created_at"`
}

// DisplayTitle is the enhanced title when the automation has set one.
func (t Task) DisplayTitle() string {
	if t.EnhancedTitle != nil && *t.EnhancedTitle != "" {
		return *t.EnhancedTitle
	}
	return t.Title
}

// NewTask holds the caller-supplied fields of a task about to be inserted.
type NewTask struct {
	Title     string
	UserEmail string
	UserName  *string
}

// TaskUpdate is a partial update: nil fields are left unchanged.
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Completed == nil
}
