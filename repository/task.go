package repository

import (
	"context"

	"github.com/fastygo/timetracker/domain"
)

// TaskRepository stores tasks. Every lookup is scoped to the owning user: a task owned by
// someone else is reported as domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	List(ctx context.Context, userID string) ([]domain.Task, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Task, error)
	Update(ctx context.Context, id, userID string, update domain.TaskUpdate) error
	Delete(ctx context.Context, id, userID string) error
}
