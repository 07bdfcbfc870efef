// Package timer implements the start/stop state machine of time logs.
//
// A user is Idle while no log of theirs lacks an end time and Running otherwise. The
// service runs the single-timer policy: starting while Running is a conflict, whatever
// the task. The check and the insert are separate store calls, so two concurrent starts
// can both succeed; the store offers no per-user lock to close that window.
package timer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/timetracker/domain"
	appLogger "github.com/fastygo/timetracker/pkg/logger"
	"github.com/fastygo/timetracker/repository"
)

// StopResult describes a stopped log.
type StopResult struct {
	TimeLog  domain.TimeLog
	Duration int64
}

// Active lists the caller's running logs. Timer is the first of them, or nil.
type Active struct {
	Timer  *domain.TimeLog
	Timers []domain.TimeLog
}

// History is the log list of one task with the summed duration of its stopped logs.
type History struct {
	TimeLogs  []domain.TimeLog
	TotalTime int64
}

type Option func(*UseCase)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

type UseCase struct {
	tasks  repository.TaskRepository
	logs   repository.TimeLogRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, logs repository.TimeLogRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:  tasks,
		logs:   logs,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Start opens a log on the task and moves a pending task to In Progress.
// timestamp is the current time at the millisecond precision logs are stored with.
func (uc *UseCase) timestamp() time.Time {
	return uc.now().Truncate(time.Millisecond)
}

func (uc *UseCase) Start(ctx context.Context, userID, taskID string) (*domain.TimeLog, error) {
	if taskID == "" {
		return nil, domain.ErrTaskIDRequired
	}

	task, err := uc.tasks.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return nil, domain.ErrTimerOnCompleted
	}

	active, err := uc.logs.FindActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrTimerAlreadyActive
	}

	log, err := uc.logs.Create(ctx, &domain.TimeLog{
		UserID:    userID,
		TaskID:    taskID,
		StartTime: uc.timestamp(),
	})
	if err != nil {
		return nil, err
	}

	if task.Status == domain.StatusPending {
		status := domain.StatusInProgress
		if err := uc.tasks.Update(ctx, taskID, userID, domain.TaskUpdate{Status: &status}); err != nil {
			appLogger.WithRequestID(ctx, uc.logger).Error("failed to mark task in progress",
				zap.String("task_id", taskID),
				zap.Error(err))
		}
	}

	appLogger.WithRequestID(ctx, uc.logger).Debug("timer started", zap.String("user_id", userID), zap.String("time_log_id", log.ID))
	return log, nil
}

// Stop closes the running log of the task, or of the user when taskID is empty.
// The duration is floor(now - start) in seconds and is not clamped at zero.
func (uc *UseCase) Stop(ctx context.Context, userID, taskID string) (*StopResult, error) {
	var (
		active *domain.TimeLog
		err    error
	)
	if taskID != "" {
		active, err = uc.logs.FindActiveForTask(ctx, userID, taskID)
	} else {
		active, err = uc.logs.FindActiveForUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	// The repository stop is unscoped, so ownership is settled here.
	if active == nil || active.UserID != userID {
		return nil, domain.ErrActiveTimerNotFound
	}

	end := uc.timestamp()
	duration := domain.ElapsedSeconds(active.StartTime, end)
	if err := uc.logs.Stop(ctx, active.ID, end, duration); err != nil {
		return nil, err
	}

	stopped := *active
	stopped.EndTime = &end
	stopped.Duration = duration

	appLogger.WithRequestID(ctx, uc.logger).Debug("timer stopped",
		zap.String("user_id", userID),
		zap.String("time_log_id", active.ID),
		zap.Int64("duration", duration))
	return &StopResult{TimeLog: stopped, Duration: duration}, nil
}

func (uc *UseCase) Active(ctx context.Context, userID string) (*Active, error) {
	timers, err := uc.logs.FindAllActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := &Active{Timers: timers}
	if len(timers) > 0 {
		first := timers[0]
		result.Timer = &first
	}
	return result, nil
}

// History lists the caller's logs of a task. Unknown or foreign tasks yield an empty history.
func (uc *UseCase) History(ctx context.Context, userID, taskID string) (*History, error) {
	logs, err := uc.logs.ListByTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	total, err := uc.logs.SumDurationForTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.TimeLog{}
	}
	return &History{TimeLogs: logs, TotalTime: total}, nil
}
