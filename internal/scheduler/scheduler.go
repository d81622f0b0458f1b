package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"clubhub-backend/internal/jobs"
	"clubhub-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler with every job whose schedule is set.
// An invalid schedule is an error.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config()

	entries := []struct {
		name     string
		schedule string
		run      func() error
	}{
		{jobs.JobSendUnreadDigests, cfg.SendUnreadDigests, s.jobs.SendUnreadDigests},
		{jobs.JobRemindPendingApprovals, cfg.RemindPendingApprovals, s.jobs.RemindPendingApprovals},
		{jobs.JobRemindJoinRequests, cfg.RemindJoinRequests, s.jobs.RemindJoinRequests},
	}

	for _, e := range entries {
		if e.schedule == "" {
			logger.Info("Job not scheduled", "job", e.name)
			continue
		}
		run := e.run
		if _, err := s.cron.AddFunc(e.schedule, func() { _ = run() }); err != nil {
			return fmt.Errorf("failed to register %s job: %w", e.name, err)
		}
		logger.Debug("Registered job", "job", e.name, "schedule", e.schedule)
	}

	logger.Info("All cron jobs registered successfully", "jobs", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Run starts the scheduler and stops it when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

// Next reports when each registered job will fire next, keyed by position.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, len(entries))
	for i, e := range entries {
		out[i] = e.Next
	}
	return out
}
