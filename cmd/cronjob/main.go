package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fleetdesk-backend/internal/bootstrap"
	"fleetdesk-backend/internal/config"
	"fleetdesk-backend/internal/jobs"
	"fleetdesk-backend/internal/logger"
	"fleetdesk-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'backup-snapshot', 'all-daily')")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Fleetdesk Cronjob Runner...", "log_level", cfg.Log.Level, "storage", cfg.Storage.Type)

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer app.Close()

	jobServices := &jobs.Services{
		Workspace: app.Workspace,
		Backup:    app.Backup,
		Renewal:   app.Renewals,
		Notifier:  app.Notifier,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg, app.Metrics)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			app.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		app.Close()
		os.Exit(1)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once; false means the name is unknown
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "backup-snapshot":
		jobRunner.BackupSnapshot()
	case "send-renewal-digest":
		jobRunner.SendRenewalDigest()
	case "flush-metrics":
		jobRunner.FlushMetrics()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - backup-snapshot\n")
		fmt.Printf("  - send-renewal-digest\n")
		fmt.Printf("  - flush-metrics\n")
		fmt.Printf("  - all-daily\n")
		return false
	}
	return true
}
