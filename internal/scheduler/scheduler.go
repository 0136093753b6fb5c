// Package scheduler runs the background jobs: price refreshes and the
// auto-close sweep for matured positions.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pesaprime/internal/logger"
)

// Job is a named unit of background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages background jobs on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.SugaredLogger
	timeout time.Duration
}

// New creates a scheduler. Each job run gets a context bounded by timeout.
func New(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		log:     logger.Component("scheduler"),
		timeout: timeout,
	}
}

// AddJob registers a job with a cron schedule, e.g. "@every 2h" or
// "*/5 * * * *".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			s.log.Errorw("job failed", "job", job.Name(), "error", err)
			return
		}
		s.log.Debugw("job completed", "job", job.Name())
	})
	if err != nil {
		return err
	}

	s.log.Infow("job registered", "job", job.Name(), "schedule", schedule)
	return nil
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
