package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"leasemarket-backend/internal/config"
	"leasemarket-backend/internal/credential"
	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/jobs"
	"leasemarket-backend/internal/logger"
	"leasemarket-backend/internal/registry"
	"leasemarket-backend/internal/repository"
	"leasemarket-backend/internal/repository/memory"
	"leasemarket-backend/internal/repository/postgres"
	"leasemarket-backend/internal/scheduler"
	"leasemarket-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reclaim-expired-leases')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LeaseMarket Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize persistence
	offers, negotiations, nonces, closeStore, err := buildStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err)
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	// External collaborators
	assets := registry.NewMemoryAssetRegistry(cfg.Market.ChainID)
	payments := registry.NewMemoryPaymentLedger()

	// Market service
	settings, err := service.NewSettings(
		domain.Address(cfg.Market.Owner),
		domain.Address(cfg.Market.Wallet),
		cfg.Market.FeeRate,
		cfg.Market.FeeDenominator,
	)
	if err != nil {
		logger.Error("Invalid market settings", "error", err)
		log.Fatalf("Invalid market settings: %v", err)
	}

	rentDomain := credential.Domain{
		Name:     cfg.Market.DomainName,
		Version:  cfg.Market.DomainVersion,
		ChainID:  cfg.Market.ChainID,
		Contract: domain.Address(cfg.Market.Engine),
	}
	marketSvc := service.NewMarketService(offers, negotiations, nonces, assets, payments, settings,
		domain.Address(cfg.Market.Engine), domain.Address(cfg.Market.Operator),
		rentDomain, cfg.Market.DayLength())

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(marketSvc, cfg)

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
	case "reclaim-expired-leases":
		jobRunner.ReclaimExpiredLeases()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - reclaim-expired-leases\n")
		os.Exit(1)
	}
}

// buildStore wires the configured persistence backend behind the repository
// interfaces.
func buildStore(cfg *config.Config) (repository.OfferRepository, repository.NegotiationRepository, repository.NonceRepository, func(), error) {
	switch cfg.Store.Type {
	case "memory":
		logger.Info("Using in-memory store")
		store := memory.NewStore()
		return store, store, store, func() {}, nil
	case "postgres":
		logger.Info("Connecting to database...", "host", cfg.Store.Host, "port", cfg.Store.Port, "database", cfg.Store.Database)
		db, err := sql.Open("postgres", cfg.Store.DSN())
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, nil, nil, err
		}
		logger.Info("Database connection established")
		store := postgres.NewStore(db)
		return store, store, store, func() { db.Close() }, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown store type: %q", cfg.Store.Type)
	}
}
