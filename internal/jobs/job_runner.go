package jobs

import (
	"fmt"

	"fleetdesk-backend/internal/config"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/metrics"
	"fleetdesk-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	metrics  *metrics.Metrics
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Workspace *service.Workspace
	Backup    service.BackupService
	Renewal   service.RenewalService
	Notifier  service.Notifier
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config, m *metrics.Metrics) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		metrics:  m,
	}
}

// Config returns the runner configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery. The outcome is
// tracked as a job metric either way.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) {
	tracker := jr.metrics.Track(jobName)
	var err error
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
		if tracker.End(err) != nil {
			logger.Error("Job failed", "job", jobName, "error", err)
			return
		}
		logger.Info("Job completed", "job", jobName)
	}()

	logger.Info("Starting job", "job", jobName)
	err = jobFunc()
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.BackupSnapshot()
	jr.SendRenewalDigest()
	jr.FlushMetrics()
}
