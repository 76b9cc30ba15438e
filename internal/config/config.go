package config

import (
	"os"
	"strconv"
	"time"

	"stagedoor/internal/cache"
	"stagedoor/internal/database"
	"stagedoor/internal/messaging"
)

// Config holds the full application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// Reservation lifecycle tunables
	HoldDuration  time.Duration
	SweepInterval time.Duration
	CancelCutoff  time.Duration

	Database database.Config
	NATS     messaging.Config
	Valkey   cache.Config
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		HoldDuration:  time.Duration(getEnvInt("HOLD_DURATION_MIN", 15)) * time.Minute,
		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,
		CancelCutoff:  time.Duration(getEnvInt("CANCEL_CUTOFF_HOURS", 24)) * time.Hour,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "stagedoor"),
			Password:           getEnv("DB_PASSWORD", "stagedoor123"),
			DBName:             getEnv("DB_NAME", "stagedoor"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "stagedoor"),
			ClientID:  getEnv("NATS_CLIENT_ID", "stagedoor-api"),
		},

		Valkey: cache.Config{
			Addr:         getEnv("VALKEY_ADDR", "localhost:6379"),
			Password:     getEnv("VALKEY_PASSWORD", ""),
			UsersHashKey: getEnv("VALKEY_USERS_HASH_KEY", "users:auth"),
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
