package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppPort  string
	LogLevel string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	IdempotencyKeyTTL time.Duration
	CleanupInterval   time.Duration
	GracefulTimeout   time.Duration
	LockTimeout       time.Duration

	RetryMaxAttempts   int
	RetryBaseDelay     time.Duration
	RetryBackoffFactor float64

	GatewayFailureRate float64
	GatewayLatency     time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", DriverSQLite),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "charges"),
		DBPassword: getEnv("DB_PASSWORD", "charges123"),
		DBName:     getEnv("DB_NAME", "charges_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "charges.db"),

		IdempotencyKeyTTL: parseDuration(getEnv("IDEMPOTENCY_KEY_TTL", "0"), 0),
		CleanupInterval:   parseDuration(getEnv("CLEANUP_INTERVAL", "1h"), time.Hour),
		GracefulTimeout:   parseDuration(getEnv("GRACEFUL_TIMEOUT", "5s"), 5*time.Second),
		LockTimeout:       parseDuration(getEnv("LOCK_TIMEOUT", "0"), 0),

		RetryMaxAttempts:   parseInt(getEnv("RETRY_MAX_ATTEMPTS", "3"), 3),
		RetryBaseDelay:     parseDuration(getEnv("RETRY_BASE_DELAY", "200ms"), 200*time.Millisecond),
		RetryBackoffFactor: parseFloat(getEnv("RETRY_BACKOFF_FACTOR", "2.0"), 2.0),

		GatewayFailureRate: parseFloat(getEnv("GATEWAY_FAILURE_RATE", "0.0"), 0),
		GatewayLatency:     parseDuration(getEnv("GATEWAY_LATENCY", "100ms"), 100*time.Millisecond),
	}
}

func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}
