// Package reminder periodically scans for tasks that are about to fall due
// and announces each one exactly once.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskflowhq/taskflow/internal/store"
)

const (
	defaultInterval  = time.Minute
	defaultLookahead = time.Minute
)

// Notifier receives each due task once. The default notifier logs the
// reminder; a real deployment can plug in push delivery here.
type Notifier func(task *store.Task)

// Scanner polls the store for tasks whose reminder flag is set and whose due
// date falls inside the lookahead window.
type Scanner struct {
	store     *store.Store
	interval  time.Duration
	lookahead time.Duration
	notify    Notifier
}

// New creates a scanner. Non-positive durations fall back to one minute, and
// a nil notifier logs each reminder.
func New(st *store.Store, interval, lookahead time.Duration, notify Notifier) *Scanner {
	if interval <= 0 {
		interval = defaultInterval
	}
	if lookahead <= 0 {
		lookahead = defaultLookahead
	}
	if notify == nil {
		notify = func(task *store.Task) {
			slog.Info("task due soon",
				"task_id", task.ID,
				"owner_id", task.OwnerID,
				"title", task.Title,
				"due_date", task.DueDate.Time,
			)
		}
	}
	return &Scanner{
		store:     st,
		interval:  interval,
		lookahead: lookahead,
		notify:    notify,
	}
}

// Run scans on every tick until ctx is cancelled. A failed sweep is logged
// and retried on the next tick.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("reminder scanner started",
		"interval", s.interval,
		"lookahead", s.lookahead,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder scanner stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				slog.Error("reminder sweep failed", "error", err)
			}
		}
	}
}

// Sweep performs one scan: every due task is announced and marked so it is
// never announced again.
func (s *Scanner) Sweep(ctx context.Context) error {
	tasks, err := s.store.DueSoon(ctx, s.lookahead)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		s.notify(task)
		if err := s.store.MarkReminded(ctx, task.ID); err != nil {
			slog.Error("mark reminded failed", "task_id", task.ID, "error", err)
		}
	}
	return nil
}
