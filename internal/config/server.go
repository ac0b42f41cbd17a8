package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

// Server defaults.
const (
	DefaultListenAddr        = ":8080"
	DefaultLogLevel          = "info"
	DefaultRateLimitRequests = 100
	DefaultRateLimitPeriod   = time.Minute
)

// ServerConfig holds server-level configuration loaded from environment variables.
type ServerConfig struct {
	Environment       Environment
	LogLevel          string
	ListenAddr        string
	PricingConfig     string // optional path to a pricing YAML file
	RateLimitRequests int64  // requests per period per client, 0 disables limiting
	RateLimitPeriod   time.Duration
	MetricsEnabled    bool // expose /metrics
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// LoadServerConfig reads server configuration from environment variables.
func LoadServerConfig() ServerConfig {
	env := Environment(os.Getenv("ENV"))
	switch env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// valid
	default:
		env = EnvDevelopment
	}

	requests := getEnvInt("RATE_LIMIT_REQUESTS", DefaultRateLimitRequests)
	if requests < 0 {
		requests = DefaultRateLimitRequests
	}

	period := getEnvDuration("RATE_LIMIT_PERIOD", DefaultRateLimitPeriod)
	if period <= 0 {
		period = DefaultRateLimitPeriod
	}

	return ServerConfig{
		Environment:       env,
		LogLevel:          getEnvString("LOG_LEVEL", DefaultLogLevel),
		ListenAddr:        getEnvString("LISTEN_ADDR", DefaultListenAddr),
		PricingConfig:     strings.TrimSpace(os.Getenv("PRICING_CONFIG")),
		RateLimitRequests: int64(requests),
		RateLimitPeriod:   period,
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnvString(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

// getEnvBool reads a boolean from an environment variable, returning the default if unset or invalid.
func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvDuration reads a Go duration string, returning the default if unset or invalid.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
