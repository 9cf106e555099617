package store_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/taskflowhq/taskflow/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	// Use a temp file that is cleaned up after the test
	f, err := os.CreateTemp(t.TempDir(), "taskflow-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp db file: %v", err)
	}
	f.Close()

	s, err := store.New(f.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestCreateAndGetTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := &store.Task{
		OwnerID:     "alice",
		Title:       "buy groceries",
		Description: "Date: tomorrow\nTime: 3pm",
	}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == "" {
		t.Fatal("CreateTask did not assign an ID")
	}
	if task.Priority != store.PriorityMedium {
		t.Errorf("Priority default: got %q, want %q", task.Priority, store.PriorityMedium)
	}

	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.OwnerID != "alice" {
		t.Errorf("OwnerID: got %q, want %q", got.OwnerID, "alice")
	}
	if got.Title != "buy groceries" {
		t.Errorf("Title: got %q, want %q", got.Title, "buy groceries")
	}
	if got.Completed {
		t.Error("Completed: new task should not be completed")
	}
}

func TestCreateTask_RequiresOwner(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateTask(context.Background(), &store.Task{Title: "orphan"})
	if err == nil {
		t.Fatal("expected error for task without owner, got nil")
	}
}

func TestCreateTask_RejectsBadPriority(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateTask(context.Background(), &store.Task{
		OwnerID:  "alice",
		Title:    "x",
		Priority: "urgent",
	})
	if err == nil {
		t.Fatal("expected error for invalid priority, got nil")
	}
}

func TestGetTask_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTask(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTasks_FiltersByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct{ owner, title string }{
		{"alice", "task a"},
		{"alice", "task b"},
		{"bob", "task c"},
	} {
		if err := s.CreateTask(ctx, &store.Task{OwnerID: tc.owner, Title: tc.title}); err != nil {
			t.Fatalf("CreateTask(%q): %v", tc.title, err)
		}
	}

	aliceTasks, err := s.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(aliceTasks) != 2 {
		t.Fatalf("alice tasks: got %d, want 2", len(aliceTasks))
	}
	for _, task := range aliceTasks {
		if task.OwnerID != "alice" {
			t.Errorf("leaked task %q owned by %q", task.Title, task.OwnerID)
		}
	}

	bobTasks, err := s.ListTasks(ctx, "bob")
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(bobTasks) != 1 {
		t.Errorf("bob tasks: got %d, want 1", len(bobTasks))
	}
}

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := &store.Task{OwnerID: "alice", Title: "draft"}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	task.Title = "final"
	task.Completed = true
	task.Priority = store.PriorityHigh
	if err := s.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Title != "final" || !got.Completed || got.Priority != store.PriorityHigh {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateTask(context.Background(), &store.Task{
		ID: "ghost", Title: "x", Priority: store.PriorityLow,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := &store.Task{OwnerID: "alice", Title: "temp"}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := s.GetTask(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteTask(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestTaskCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.TaskCount(ctx)
	if err != nil {
		t.Fatalf("TaskCount: %v", err)
	}
	if n != 0 {
		t.Errorf("empty store count: got %d, want 0", n)
	}

	for i := 0; i < 3; i++ {
		if err := s.CreateTask(ctx, &store.Task{OwnerID: "alice", Title: "t"}); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}
	n, err = s.TaskCount(ctx)
	if err != nil {
		t.Fatalf("TaskCount: %v", err)
	}
	if n != 3 {
		t.Errorf("count: got %d, want 3", n)
	}
}

func TestDueSoonAndMarkReminded(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	soon := &store.Task{
		OwnerID:  "alice",
		Title:    "call dentist",
		Reminder: true,
		DueDate:  sql.NullTime{Time: time.Now().Add(30 * time.Second), Valid: true},
	}
	later := &store.Task{
		OwnerID:  "alice",
		Title:    "renew passport",
		Reminder: true,
		DueDate:  sql.NullTime{Time: time.Now().Add(48 * time.Hour), Valid: true},
	}
	silent := &store.Task{
		OwnerID: "alice",
		Title:   "no reminder set",
		DueDate: sql.NullTime{Time: time.Now().Add(30 * time.Second), Valid: true},
	}
	for _, task := range []*store.Task{soon, later, silent} {
		if err := s.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask(%q): %v", task.Title, err)
		}
	}

	due, err := s.DueSoon(ctx, time.Minute)
	if err != nil {
		t.Fatalf("DueSoon: %v", err)
	}
	if len(due) != 1 || due[0].Title != "call dentist" {
		t.Fatalf("DueSoon: got %d tasks, want just %q", len(due), "call dentist")
	}

	if err := s.MarkReminded(ctx, soon.ID); err != nil {
		t.Fatalf("MarkReminded: %v", err)
	}
	due, err = s.DueSoon(ctx, time.Minute)
	if err != nil {
		t.Fatalf("DueSoon after mark: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("DueSoon after mark: got %d tasks, want 0", len(due))
	}
}
