package summary

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/repository"
)

const dateLayout = "2006-01-02"

type Option func(*UseCase)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

// UseCase builds daily summaries. Tasks count as worked on only when a log of the day
// references them; creating a task without tracking time does not.
type UseCase struct {
	tasks    repository.TaskRepository
	logs     repository.TimeLogRepository
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func New(tasks repository.TaskRepository, logs repository.TimeLogRepository, location *time.Location, logger *zap.Logger, opts ...Option) *UseCase {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:    tasks,
		logs:     logs,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// DayWindow returns the first and last millisecond of the calendar day named by date
// (YYYY-MM-DD) in the configured zone. An empty date means today.
func (uc *UseCase) DayWindow(date string) (time.Time, time.Time, error) {
	var day time.Time
	if date = strings.TrimSpace(date); date == "" {
		day = uc.now().In(uc.location)
	} else {
		parsed, err := time.ParseInLocation(dateLayout, date, uc.location)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidDate
		}
		day = parsed
	}

	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, uc.location)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, uc.location).Add(-time.Millisecond)
	return start, end, nil
}

func (uc *UseCase) Daily(ctx context.Context, userID, date string) (*domain.DailySummary, error) {
	start, end, err := uc.DayWindow(date)
	if err != nil {
		return nil, err
	}

	logs, err := uc.logs.ListByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.TimeLog{}
	}

	referenced := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		referenced[l.TaskID] = struct{}{}
	}

	tasks, err := uc.tasks.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	worked := []domain.Task{}
	breakdown := domain.NewStatusBreakdown()
	for _, t := range tasks {
		if _, ok := referenced[t.ID]; !ok {
			continue
		}
		worked = append(worked, t)
		if _, known := breakdown[t.Status]; known {
			breakdown[t.Status]++
		}
	}

	var (
		total  int64
		active *domain.TimeLog
	)
	for i := range logs {
		if logs[i].EndTime != nil {
			total += logs[i].Duration
			continue
		}
		if active == nil {
			active = &logs[i]
		}
	}
	if active != nil {
		total += domain.ElapsedSeconds(active.StartTime, uc.now())
	}

	return &domain.DailySummary{
		Date:            start.Format(dateLayout),
		TasksWorkedOn:   worked,
		TotalTime:       total,
		StatusBreakdown: breakdown,
		TimeLogs:        logs,
		ActiveTimer:     active,
	}, nil
}
