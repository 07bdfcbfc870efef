// Package memory holds map-backed repository implementations with the same ownership
// semantics as the MongoDB ones. They back the use case and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/repository"
)

// Store groups the repositories over one shared lock.
type Store struct {
	mu    sync.Mutex
	now   func() time.Time
	users map[string]domain.User
	tasks map[string]domain.Task
	logs  map[string]domain.TimeLog
	seq   int64
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:   now,
		users: make(map[string]domain.User),
		tasks: make(map[string]domain.Task),
		logs:  make(map[string]domain.TimeLog),
	}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }

func (s *Store) Tasks() repository.TaskRepository { return taskRepo{s} }

func (s *Store) TimeLogs() repository.TimeLogRepository { return timeLogRepo{s} }

// stamp returns the current time, nudged forward so successive writes are strictly ordered.
func (s *Store) stamp() time.Time {
	s.seq++
	return s.now().Add(time.Duration(s.seq) * time.Nanosecond)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	created := *user
	created.ID = uuid.NewString()
	created.CreatedAt = r.s.stamp()
	r.s.users[created.ID] = created
	return &created, nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type taskRepo struct{ s *Store }

func (r taskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := *task
	created.ID = uuid.NewString()
	if created.Status == "" {
		created.Status = domain.StatusPending
	}
	created.CreatedAt = r.s.stamp()
	created.UpdatedAt = created.CreatedAt
	r.s.tasks[created.ID] = created
	return &created, nil
}

func (r taskRepo) List(_ context.Context, userID string) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks := []domain.Task{}
	for _, task := range r.s.tasks {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks, nil
}

func (r taskRepo) GetByID(_ context.Context, id, userID string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r taskRepo) Update(_ context.Context, id, userID string, update domain.TaskUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	update.Apply(&task)
	task.UpdatedAt = r.s.stamp()
	r.s.tasks[id] = task
	return nil
}

func (r taskRepo) Delete(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

type timeLogRepo struct{ s *Store }

func (r timeLogRepo) Create(_ context.Context, log *domain.TimeLog) (*domain.TimeLog, error) {
	if log == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := *log
	created.ID = uuid.NewString()
	created.CreatedAt = r.s.stamp()
	r.s.logs[created.ID] = created
	return &created, nil
}

func (r timeLogRepo) FindActiveForUser(_ context.Context, userID string) (*domain.TimeLog, error) {
	logs := r.filter(func(l domain.TimeLog) bool { return l.UserID == userID && l.EndTime == nil }, true)
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

func (r timeLogRepo) FindAllActiveForUser(_ context.Context, userID string) ([]domain.TimeLog, error) {
	return r.filter(func(l domain.TimeLog) bool { return l.UserID == userID && l.EndTime == nil }, true), nil
}

func (r timeLogRepo) FindActiveForTask(_ context.Context, userID, taskID string) (*domain.TimeLog, error) {
	logs := r.filter(func(l domain.TimeLog) bool {
		return l.UserID == userID && l.TaskID == taskID && l.EndTime == nil
	}, true)
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

func (r timeLogRepo) Stop(_ context.Context, id string, endTime time.Time, duration int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log, ok := r.s.logs[id]
	if !ok {
		return domain.ErrTimeLogNotFound
	}
	end := endTime
	log.EndTime = &end
	log.Duration = duration
	r.s.logs[id] = log
	return nil
}

func (r timeLogRepo) ListByTask(_ context.Context, taskID, userID string) ([]domain.TimeLog, error) {
	return r.filter(func(l domain.TimeLog) bool { return l.TaskID == taskID && l.UserID == userID }, false), nil
}

func (r timeLogRepo) ListByDateRange(_ context.Context, userID string, start, end time.Time) ([]domain.TimeLog, error) {
	return r.filter(func(l domain.TimeLog) bool {
		return l.UserID == userID && !l.StartTime.Before(start) && !l.StartTime.After(end)
	}, false), nil
}

func (r timeLogRepo) SumDurationForTask(_ context.Context, taskID, userID string) (int64, error) {
	var total int64
	for _, l := range r.filter(func(l domain.TimeLog) bool {
		return l.TaskID == taskID && l.UserID == userID && l.EndTime != nil
	}, false) {
		total += l.Duration
	}
	return total, nil
}

// filter returns matching logs ordered by start time, oldest first when ascending.
func (r timeLogRepo) filter(match func(domain.TimeLog) bool, ascending bool) []domain.TimeLog {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	logs := []domain.TimeLog{}
	for _, l := range r.s.logs {
		if match(l) {
			logs = append(logs, l)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].StartTime.Equal(logs[j].StartTime) {
			return strings.Compare(logs[i].ID, logs[j].ID) < 0
		}
		if ascending {
			return logs[i].StartTime.Before(logs[j].StartTime)
		}
		return logs[i].StartTime.After(logs[j].StartTime)
	})
	return logs
}
