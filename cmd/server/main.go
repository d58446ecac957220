package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "leasemarket-backend/internal/api/http"
	"leasemarket-backend/internal/config"
	"leasemarket-backend/internal/credential"
	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/logger"
	"leasemarket-backend/internal/registry"
	"leasemarket-backend/internal/repository"
	"leasemarket-backend/internal/repository/memory"
	"leasemarket-backend/internal/repository/postgres"
	"leasemarket-backend/internal/security"
	"leasemarket-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LeaseMarket Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Market configuration",
		"chain_id", cfg.Market.ChainID,
		"fee_rate", cfg.Market.FeeRate,
		"fee_denominator", cfg.Market.FeeDenominator,
		"day_length", cfg.Market.DayLength())

	// Initialize persistence
	offers, negotiations, nonces, closeStore, err := buildStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err)
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	// External collaborators. The in-memory registries stand in for the
	// real asset and payment ledgers in dev mode.
	assets := registry.NewMemoryAssetRegistry(cfg.Market.ChainID)
	payments := registry.NewMemoryPaymentLedger()
	logger.Info("Using in-memory asset registry and payment ledger")

	// Market settings and services
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
	adminSvc := service.NewAdminService(settings)

	// Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// HTTP server
	router := httpapi.NewRouter(marketSvc, adminSvc, tokenManager)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("HTTP server listening", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
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
