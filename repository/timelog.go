package repository

import (
	"context"
	"time"

	"github.com/fastygo/timetracker/domain"
)

// TimeLogRepository stores time logs. Finders return (nil, nil) when nothing is active.
type TimeLogRepository interface {
	Create(ctx context.Context, log *domain.TimeLog) (*domain.TimeLog, error)
	FindActiveForUser(ctx context.Context, userID string) (*domain.TimeLog, error)
	FindAllActiveForUser(ctx context.Context, userID string) ([]domain.TimeLog, error)
	FindActiveForTask(ctx context.Context, userID, taskID string) (*domain.TimeLog, error)
	// Stop does not re-check ownership; callers resolve the log through an owner-scoped finder first.
	Stop(ctx context.Context, id string, endTime time.Time, duration int64) error
	ListByTask(ctx context.Context, taskID, userID string) ([]domain.TimeLog, error)
	ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.TimeLog, error)
	SumDurationForTask(ctx context.Context, taskID, userID string) (int64, error)
}
