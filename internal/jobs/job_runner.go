package jobs

import (
	"leasemarket-backend/internal/config"
	"leasemarket-backend/internal/logger"
	"leasemarket-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	market service.MarketService
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(market service.MarketService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		market: market,
		config: cfg,
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
