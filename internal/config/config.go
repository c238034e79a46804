// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all runtime configuration for the returns service.
type Config struct {
	Environment    string
	ServiceName    string
	ServiceVersion string

	HTTPAddr string

	DatabaseDriver string
	DatabaseDSN    string

	TracingEnabled       bool
	TracingEndpoint      string
	TracingProtocol      string
	TracingSamplingRatio float64

	RateLimit       int
	RateLimitWindow time.Duration

	NotificationWebhookURL string
}

// Module provides Config to the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load reads configuration from the environment, honoring a local .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:          getenv("RETURNLY_ENV", "development"),
		ServiceName:          getenv("RETURNLY_SERVICE_NAME", "returnly"),
		ServiceVersion:       getenv("RETURNLY_SERVICE_VERSION", "dev"),
		HTTPAddr:             getenv("RETURNLY_HTTP_ADDR", ":8080"),
		DatabaseDriver:       getenv("RETURNLY_DB_DRIVER", "postgres"),
		DatabaseDSN:          getenv("RETURNLY_DB_DSN", ""),
		TracingEnabled:       getenvBool("RETURNLY_TRACING_ENABLED", false),
		TracingEndpoint:      getenv("RETURNLY_TRACING_ENDPOINT", ""),
		TracingProtocol:      getenv("RETURNLY_TRACING_PROTOCOL", "grpc"),
		TracingSamplingRatio: getenvFloat("RETURNLY_TRACING_SAMPLING_RATIO", 0.1),
		RateLimit:            getenvInt("RETURNLY_RATE_LIMIT", 30),
		RateLimitWindow:      getenvDuration("RETURNLY_RATE_LIMIT_WINDOW", time.Minute),

		NotificationWebhookURL: getenv("RETURNLY_NOTIFICATION_WEBHOOK_URL", ""),
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
