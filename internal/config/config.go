package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Market    MarketConfig    `yaml:"market"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Type     string `yaml:"type"` // "memory" or "postgres"
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DSN builds the postgres connection string
func (s StoreConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Database, s.SSLMode)
}

// JWTConfig contains API token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// MarketConfig contains the market engine parameters
type MarketConfig struct {
	ChainID          uint64 `yaml:"chain_id"`
	Engine           string `yaml:"engine"`   // the engine's ledger identity
	Owner            string `yaml:"owner"`    // may mutate wallet/fee settings
	Wallet           string `yaml:"wallet"`   // receives the platform fee
	Operator         string `yaml:"operator"` // may reclaim expired leases
	FeeRate          int64  `yaml:"fee_rate"`
	FeeDenominator   int64  `yaml:"fee_denominator"`
	DayLengthSeconds int64  `yaml:"day_length_seconds"`
	DomainName       string `yaml:"domain_name"`    // signed lease intent domain
	DomainVersion    string `yaml:"domain_version"` //
}

// DayLength returns the configured lease day as a duration
func (m MarketConfig) DayLength() time.Duration {
	return time.Duration(m.DayLengthSeconds) * time.Second
}

// SchedulerConfig contains cron specs for background jobs
type SchedulerConfig struct {
	ReclaimSpec string `yaml:"reclaim_spec"` // cron spec for the expired-lease reclaim job
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Store
	if val := os.Getenv("STORE_TYPE"); val != "" {
		c.Store.Type = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Store.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Store.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Store.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Store.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Store.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Store.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Market
	if val := os.Getenv("MARKET_OWNER"); val != "" {
		c.Market.Owner = val
	}
	if val := os.Getenv("MARKET_WALLET"); val != "" {
		c.Market.Wallet = val
	}
	if val := os.Getenv("MARKET_OPERATOR"); val != "" {
		c.Market.Operator = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.Market.FeeDenominator == 0 {
		c.Market.FeeDenominator = 100
	}
	if c.Market.DayLengthSeconds == 0 {
		c.Market.DayLengthSeconds = 86400
	}
	if c.Market.DomainName == "" {
		c.Market.DomainName = "LeaseMarket"
	}
	if c.Market.DomainVersion == "" {
		c.Market.DomainVersion = "1"
	}
	if c.Scheduler.ReclaimSpec == "" {
		c.Scheduler.ReclaimSpec = "@every 10m"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Store validation
	switch c.Store.Type {
	case "memory":
	case "postgres":
		if c.Store.Host == "" {
			return fmt.Errorf("store host is required for postgres")
		}
		if c.Store.User == "" {
			return fmt.Errorf("store user is required for postgres")
		}
		if c.Store.Database == "" {
			return fmt.Errorf("store database is required for postgres")
		}
	default:
		return fmt.Errorf("unknown store type: %q", c.Store.Type)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	// Market validation
	if c.Market.Engine == "" {
		return fmt.Errorf("market engine address is required")
	}
	if c.Market.Owner == "" {
		return fmt.Errorf("market owner address is required")
	}
	if c.Market.Wallet == "" {
		return fmt.Errorf("market wallet address is required")
	}
	if c.Market.FeeRate < 0 || c.Market.FeeRate > c.Market.FeeDenominator {
		return fmt.Errorf("fee rate %d out of range for denominator %d", c.Market.FeeRate, c.Market.FeeDenominator)
	}
	if c.Market.DayLengthSeconds <= 0 {
		return fmt.Errorf("day length must be positive")
	}

	return nil
}
