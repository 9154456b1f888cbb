package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"futuresOrderBot/internal/adapters/logger" // Import the logger package for LogLevel
	"futuresOrderBot/internal/execution"
)

// LogFormat selects the logging adapter wired in at startup.
type LogFormat string

const (
	LogFormatText LogFormat = "text" // stderr key=value lines
	LogFormatJSON LogFormat = "json" // zap structured JSON
)

// Config holds all application configuration.
type Config struct {
	// Binance API
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Defaults for the CLI
	DefaultSymbol string
	MarginAsset   string // asset checked for balance sufficiency (e.g. USDT)

	// Retry behaviour around the order call
	Retry execution.Policy

	// Logging
	LogLevel  logger.LogLevel
	LogFormat LogFormat
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	if cfg.APIKey == "" {
		errs = append(errs, "BINANCE_API_KEY must be set")
	}
	if cfg.SecretKey == "" {
		errs = append(errs, "BINANCE_API_SECRET must be set")
	}

	// CLI defaults
	cfg.DefaultSymbol = getEnv("DEFAULT_SYMBOL", "")
	cfg.MarginAsset = getEnv("MARGIN_ASSET", "USDT")
	if cfg.MarginAsset == "" {
		errs = append(errs, "MARGIN_ASSET must be set")
	}

	// Retry policy
	def := execution.DefaultPolicy()
	cfg.Retry = def

	cfg.Retry.MaxAttempts = getEnvAsInt("MAX_RETRIES", def.MaxAttempts)
	if cfg.Retry.MaxAttempts <= 0 {
		errs = append(errs, "MAX_RETRIES must be positive")
	}

	baseDelaySeconds := getEnvAsFloat("BASE_DELAY_SECONDS", def.BaseDelay.Seconds())
	if baseDelaySeconds <= 0 {
		errs = append(errs, "BASE_DELAY_SECONDS must be positive")
	}
	cfg.Retry.BaseDelay = secondsToDuration(baseDelaySeconds)

	maxDelaySeconds := getEnvAsFloat("MAX_DELAY_SECONDS", def.MaxDelay.Seconds())
	if maxDelaySeconds <= 0 {
		errs = append(errs, "MAX_DELAY_SECONDS must be positive")
	}
	cfg.Retry.MaxDelay = secondsToDuration(maxDelaySeconds)

	rateLimitDelaySeconds := getEnvAsFloat("RATE_LIMIT_DELAY_SECONDS", def.RateLimitDelay.Seconds())
	if rateLimitDelaySeconds <= 0 {
		errs = append(errs, "RATE_LIMIT_DELAY_SECONDS must be positive")
	}
	cfg.Retry.RateLimitDelay = secondsToDuration(rateLimitDelaySeconds)

	rateLimitCapSeconds := getEnvAsFloat("RATE_LIMIT_CAP_SECONDS", def.RateLimitCap.Seconds())
	if rateLimitCapSeconds <= 0 {
		errs = append(errs, "RATE_LIMIT_CAP_SECONDS must be positive")
	}
	cfg.Retry.RateLimitCap = secondsToDuration(rateLimitCapSeconds)

	if cfg.Retry.RateLimitCap < cfg.Retry.RateLimitDelay {
		errs = append(errs, "RATE_LIMIT_CAP_SECONDS must be >= RATE_LIMIT_DELAY_SECONDS")
	}

	cfg.Retry.Jitter = getEnvAsBool("RETRY_JITTER", def.Jitter)

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	switch strings.ToLower(getEnv("LOG_FORMAT", string(LogFormatText))) {
	case string(LogFormatText):
		cfg.LogFormat = LogFormatText
	case string(LogFormatJSON):
		cfg.LogFormat = LogFormatJSON
	default:
		errs = append(errs, "LOG_FORMAT must be 'text' or 'json'")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
