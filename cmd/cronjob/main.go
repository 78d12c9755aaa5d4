package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/SkAltmash/ZapSplit/internal/config"
	"github.com/SkAltmash/ZapSplit/internal/jobs"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/push"
	"github.com/SkAltmash/ZapSplit/internal/repository/postgres"
	"github.com/SkAltmash/ZapSplit/internal/scheduler"
	"github.com/SkAltmash/ZapSplit/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-due-reminders', 'mark-overdue-draws', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ZapSplit Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Push Sender
	var pushSender push.Sender
	if cfg.Firebase.CredentialsFile == "" {
		logger.Info("Firebase credentials not configured, push notifications disabled")
		pushSender = push.NopSender{}
	} else {
		pushSender, err = push.NewFCMSender(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM sender", "error", err)
			log.Fatalf("Failed to initialize FCM sender: %v", err)
		}
	}

	// Initialize Services
	emailService := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)
	projector := service.NewProjector(
		store.NotificationRepository,
		store.ConversationRepository,
		store.UserRepository,
		pushSender,
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, emailService, projector, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

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

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-due-reminders":
		jobRunner.SendDueReminders()
	case "mark-overdue-draws":
		jobRunner.MarkOverdueDraws()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-due-reminders\n")
		fmt.Printf("  - mark-overdue-draws\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
