package domain

import (
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists every valid status in summary bucket order.
var TaskStatuses = []TaskStatus{StatusCompleted, StatusInProgress, StatusPending}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents a user-owned unit of work that time can be tracked against.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsCompleted reports whether the task reached its terminal status.
func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// TaskUpdate enumerates the mutable task fields. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// Normalize trims the title and validates every provided field.
func (u *TaskUpdate) Normalize() error {
	if u == nil {
		return ErrInvalidPayload
	}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return ErrTitleRequired
		}
		u.Title = &title
	}
	if u.Status != nil && !u.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Apply copies the provided fields onto the task.
func (u TaskUpdate) Apply(t *Task) {
	if t == nil {
		return
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
}
