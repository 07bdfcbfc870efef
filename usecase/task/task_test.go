package task

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/repository/memory"
)

func newUseCase() *UseCase {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(func() time.Time { return now })
	return New(store.Tasks(), nil)
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }

func TestCreateReadUpdateRead(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	created, err := uc.CreateTask(ctx, "u1", "  Write report ", "quarterly")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Write report" || created.Status != domain.StatusPending {
		t.Fatalf("unexpected task %+v", created)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatal("createdAt and updatedAt should match on creation")
	}

	read, err := uc.GetTask(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(read, created) {
		t.Fatalf("read %+v, want %+v", read, created)
	}

	updated, err := uc.UpdateTask(ctx, created.ID, "u1", domain.TaskUpdate{
		Description: strPtr("annual"),
		Status:      statusPtr(domain.StatusInProgress),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Write report" || updated.Description != "annual" || updated.Status != domain.StatusInProgress {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}

	reread, err := uc.GetTask(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if !reflect.DeepEqual(reread, updated) {
		t.Fatalf("reread %+v, want %+v", reread, updated)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	uc := newUseCase()
	if _, err := uc.CreateTask(context.Background(), "u1", "   ", ""); !errors.Is(err, domain.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	created, err := uc.CreateTask(ctx, "u1", "Write report", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = uc.UpdateTask(ctx, created.ID, "u1", domain.TaskUpdate{Status: statusPtr("Archived")})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	_, err = uc.UpdateTask(ctx, created.ID, "u1", domain.TaskUpdate{Title: strPtr(" ")})
	if !errors.Is(err, domain.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestCompletedTaskIsImmutable(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	created, err := uc.CreateTask(ctx, "u1", "Write report", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	completed, err := uc.UpdateTask(ctx, created.ID, "u1", domain.TaskUpdate{Status: statusPtr(domain.StatusCompleted)})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = uc.UpdateTask(ctx, created.ID, "u1", domain.TaskUpdate{Title: strPtr("Rewrite report")})
	if !errors.Is(err, domain.ErrTaskCompleted) {
		t.Fatalf("update: expected ErrTaskCompleted, got %v", err)
	}
	if err := uc.DeleteTask(ctx, created.ID, "u1"); !errors.Is(err, domain.ErrTaskCompleted) {
		t.Fatalf("delete: expected ErrTaskCompleted, got %v", err)
	}

	after, err := uc.GetTask(ctx, created.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(after, completed) {
		t.Fatalf("completed task changed: %+v vs %+v", after, completed)
	}
}

func TestForeignTaskLooksAbsent(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	created, err := uc.CreateTask(ctx, "u1", "Write report", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := uc.GetTask(ctx, created.ID, "u2"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("get: %v", err)
	}
	if _, err := uc.UpdateTask(ctx, created.ID, "u2", domain.TaskUpdate{Title: strPtr("x")}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("update: %v", err)
	}
	if err := uc.DeleteTask(ctx, created.ID, "u2"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.GetTask(ctx, "does-not-exist", "u1"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("missing: %v", err)
	}

	tasks, err := uc.ListTasks(ctx, "u2")
	if err != nil || len(tasks) != 0 {
		t.Fatalf("u2 should see no tasks, got %v (%v)", tasks, err)
	}
}

func TestDeleteAndListOrder(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	first, _ := uc.CreateTask(ctx, "u1", "first", "")
	second, _ := uc.CreateTask(ctx, "u1", "second", "")

	tasks, err := uc.ListTasks(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", tasks)
	}

	if err := uc.DeleteTask(ctx, first.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := uc.GetTask(ctx, first.ID, "u1"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("deleted task still readable: %v", err)
	}
}
