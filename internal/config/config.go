package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string

	BookingAPIURL       string
	AvailabilityTimeout time.Duration
	AvailabilityRPS     float64

	SessionIdleTTL time.Duration

	OpenHour  int
	CloseHour int
	Location  *time.Location

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	LogLevel  string
	LogFormat string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Booking server base URL is required
	cfg.BookingAPIURL = os.Getenv("BOOKING_API_URL")
	if cfg.BookingAPIURL == "" {
		return nil, fmt.Errorf("BOOKING_API_URL is required")
	}

	// Upstream timeout, parse as time.Duration (e.g. "5s").
	cfg.AvailabilityTimeout, err = getEnvAsDuration("AVAILABILITY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_TIMEOUT: %w", err)
	}

	// Upstream requests per second (default: 10, 0 disables throttling)
	rpsStr := getEnv("AVAILABILITY_RPS", "10")
	cfg.AvailabilityRPS, err = strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_RPS: %w", err)
	}

	// Widget sessions idle for longer than this are closed (0 keeps them until deleted)
	cfg.SessionIdleTTL, err = getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TTL: %w", err)
	}
	if cfg.SessionIdleTTL < 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL must not be negative")
	}

	// Slot grid hours (default: 14 to 23)
	cfg.OpenHour, err = getEnvAsInt("OPEN_HOUR", 14)
	if err != nil {
		return nil, fmt.Errorf("invalid OPEN_HOUR: %w", err)
	}
	cfg.CloseHour, err = getEnvAsInt("CLOSE_HOUR", 23)
	if err != nil {
		return nil, fmt.Errorf("invalid CLOSE_HOUR: %w", err)
	}
	if cfg.OpenHour < 0 || cfg.CloseHour > 24 || cfg.OpenHour >= cfg.CloseHour {
		return nil, fmt.Errorf("OPEN_HOUR (%d) must be before CLOSE_HOUR (%d) within 0..24", cfg.OpenHour, cfg.CloseHour)
	}

	// Time zone that decides which day is "today"
	tz := getEnv("TIMEZONE", "America/Argentina/Buenos_Aires")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	// Redis cache (optional: empty address disables it)
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.CacheTTL, err = getEnvAsDuration("AVAILABILITY_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_CACHE_TTL: %w", err)
	}

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}
