package jobs

import (
	"database/sql"

	"github.com/SkAltmash/ZapSplit/internal/config"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository/postgres"
	"github.com/SkAltmash/ZapSplit/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db        *sql.DB
	store     *postgres.Store
	email     service.EmailService
	projector *service.Projector
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, email service.EmailService, projector *service.Projector, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:        db,
		store:     store,
		email:     email,
		projector: projector,
		config:    cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllJobs runs every scheduled job once (for manual execution)
func (jr *JobRunner) RunAllJobs() {
	jr.MarkOverdueDraws()
	jr.SendDueReminders()
}
