package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is one unit of scheduled work.
type Task func(ctx context.Context) error

// Scheduler runs a single task on a cron schedule. It is constructed and
// started explicitly by the caller rather than registered as a process
// side effect, and RunOnce triggers the task outside the schedule for
// tests and manual kicks.
//
// A tick that overruns into the next scheduled time is not guarded
// against; ticks are expected to finish well within a day.
type Scheduler struct {
	cron *cron.Cron
	spec string
	name string
	task Task
}

func NewScheduler(name, spec string, task Task) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		name: name,
		task: task,
	}
}

// Start registers the task and begins ticking.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		start := time.Now()
		slog.Info("scheduled task started", "task", s.name)
		if err := s.task(context.Background()); err != nil {
			slog.Error("scheduled task failed", "task", s.name, "error", err)
			return
		}
		slog.Info("scheduled task finished", "task", s.name, "duration_ms", time.Since(start).Milliseconds())
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	slog.Info("scheduler started", "task", s.name, "schedule", s.spec)
	return nil
}

// Stop halts the ticker. A running task is not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce executes the task immediately, outside the schedule.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.task(ctx)
}
