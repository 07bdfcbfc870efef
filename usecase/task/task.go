package task

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/timetracker/domain"
	appLogger "github.com/fastygo/timetracker/pkg/logger"
	"github.com/fastygo/timetracker/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return uc.tasks.List(ctx, userID)
}

func (uc *UseCase) GetTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id, userID)
}

func (uc *UseCase) CreateTask(ctx context.Context, userID, title, description string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	return uc.tasks.Create(ctx, &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      domain.StatusPending,
	})
}

// UpdateTask applies a partial update. Completed tasks are immutable.
func (uc *UseCase) UpdateTask(ctx context.Context, id, userID string, update domain.TaskUpdate) (*domain.Task, error) {
	if err := update.Normalize(); err != nil {
		return nil, err
	}

	if _, err := uc.mutable(ctx, id, userID); err != nil {
		return nil, err
	}
	if err := uc.tasks.Update(ctx, id, userID, update); err != nil {
		return nil, err
	}
	return uc.tasks.GetByID(ctx, id, userID)
}

func (uc *UseCase) DeleteTask(ctx context.Context, id, userID string) error {
	if _, err := uc.mutable(ctx, id, userID); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id, userID); err != nil {
		return err
	}
	appLogger.WithRequestID(ctx, uc.logger).Debug("task deleted", zap.String("task_id", id))
	return nil
}

// mutable loads an owned task and rejects it when completed.
func (uc *UseCase) mutable(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return nil, domain.ErrTaskCompleted
	}
	return task, nil
}
