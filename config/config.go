package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
	Ledger   LedgerConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

// LedgerConfig carries the funding ledger's arithmetic bounds. Amounts and
// goals are currency units with two decimal places.
type LedgerConfig struct {
	AmountMin   decimal.Decimal
	AmountMax   decimal.Decimal
	GoalMin     decimal.Decimal
	GoalMax     decimal.Decimal
	OpTimeout   time.Duration
	SnapshotTTL time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Ledger: LedgerConfig{
			AmountMin:   getEnvAsDecimal("CONTRIBUTION_MIN", "1"),
			AmountMax:   getEnvAsDecimal("CONTRIBUTION_MAX", "10000"),
			GoalMin:     getEnvAsDecimal("FUNDING_GOAL_MIN", "1"),
			GoalMax:     getEnvAsDecimal("FUNDING_GOAL_MAX", "1000000"),
			OpTimeout:   getEnvAsDuration("LEDGER_OP_TIMEOUT", 5*time.Second),
			SnapshotTTL: getEnvAsDuration("SNAPSHOT_CACHE_TTL", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.Ledger.AmountMin.Sign() <= 0 {
		return fmt.Errorf("CONTRIBUTION_MIN must be positive")
	}

	if c.Ledger.AmountMax.LessThan(c.Ledger.AmountMin) {
		return fmt.Errorf("CONTRIBUTION_MAX must be >= CONTRIBUTION_MIN")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDecimal(key, defaultValue string) decimal.Decimal {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid decimal for %s, using default: %s", key, defaultValue)
		value, _ = decimal.NewFromString(defaultValue)
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
