package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"clubhub-backend/internal/config"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/metrics"
	"clubhub-backend/internal/repository"
	"clubhub-backend/internal/service"
)

const (
	JobSendUnreadDigests      = "send-unread-digests"
	JobRemindPendingApprovals = "remind-pending-approvals"
	JobRemindJoinRequests     = "remind-join-requests"
)

var ErrUnknownJob = errors.New("unknown job")

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    repository.Store
	services *Services
	metrics  *metrics.Metrics
	config   config.SchedulerConfig
	timeout  time.Duration
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email         service.EmailService
	Notifications service.NotificationService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store repository.Store, services *Services, m *metrics.Metrics, cfg config.SchedulerConfig) *JobRunner {
	return &JobRunner{
		store:    store,
		services: services,
		metrics:  m,
		config:   cfg,
		timeout:  10 * time.Minute,
	}
}

func (jr *JobRunner) Config() config.SchedulerConfig {
	return jr.config
}

// Names lists the jobs Run accepts, sorted.
func Names() []string {
	names := []string{JobSendUnreadDigests, JobRemindPendingApprovals, JobRemindJoinRequests}
	sort.Strings(names)
	return names
}

// Run executes one job by name.
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobSendUnreadDigests:
		return jr.SendUnreadDigests()
	case JobRemindPendingApprovals:
		return jr.RemindPendingApprovals()
	case JobRemindJoinRequests:
		return jr.RemindJoinRequests()
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

// RunAll runs every job once, continuing past failures.
func (jr *JobRunner) RunAll() error {
	return errors.Join(
		jr.SendUnreadDigests(),
		jr.RemindPendingApprovals(),
		jr.RemindJoinRequests(),
	)
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		jr.metrics.JobRun(jobName, err)
	}()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "duration", time.Since(start), "error", err)
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
	return nil
}
