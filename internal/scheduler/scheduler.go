// Package scheduler runs trading cycles on a cron expression.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// Job is one schedulable unit of work.
type Job interface {
	Run(ctx context.Context) error
}

// Scheduler triggers a Job on a cron expression. Overlapping runs are
// skipped: if a cycle is still in progress when the next tick fires,
// the tick is dropped rather than queued.
type Scheduler struct {
	cron    *cron.Cron
	job     Job
	log     *slog.Logger
	running atomic.Bool
}

func New(job Job, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		job:  job,
		log:  log,
	}
}

// Register adds the cycle job under the given cron expression
// (6-field, with seconds).
func (s *Scheduler) Register(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() { s.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("register cycle task %q: %w", spec, err)
	}
	return nil
}

// RunNow executes the job immediately, subject to the same overlap guard.
func (s *Scheduler) RunNow(ctx context.Context) {
	s.runOnce(ctx)
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("previous cycle still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	if err := s.job.Run(ctx); err != nil {
		s.log.Error("cycle aborted", "err", err)
	}
}

// Start begins firing scheduled ticks.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
