// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ShutdownTimeout bounds graceful shutdown of the servers.
	ShutdownTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// EnvironmentName labels the deployment in the health payload (e.g., "production").
	EnvironmentName string
	// LocationName is the human-readable salon location in the health payload.
	LocationName string
	// ServiceName identifies this service in the health payload.
	ServiceName string

	// MeevoAuthURL is the OAuth2 token endpoint of the Meevo marketplace.
	MeevoAuthURL string
	// MeevoAPIURL is the base URL of the Meevo public API.
	MeevoAPIURL string
	// MeevoClientID is the credential identifier for the token exchange.
	MeevoClientID string
	// MeevoClientSecret is the credential secret for the token exchange.
	MeevoClientSecret string
	// MeevoTenantID is the tenant all directory queries are scoped to.
	MeevoTenantID string
	// MeevoLocationID is the default location when a request omits one.
	MeevoLocationID string
	// MeevoListTimeout bounds each directory or change-feed page request.
	MeevoListTimeout time.Duration
	// MeevoDetailTimeout bounds each client-detail request.
	MeevoDetailTimeout time.Duration
	// MeevoTokenMargin is subtracted from the token expiry before a refresh is forced.
	MeevoTokenMargin time.Duration

	// MeevoRateLimitEnabled indicates whether upstream request rate limiting is enabled.
	MeevoRateLimitEnabled bool
	// MeevoRateLimitRequestsPerSec caps the aggregate upstream request rate.
	MeevoRateLimitRequestsPerSec float64
	// MeevoRateLimitBurst is the burst size for upstream rate limiting.
	MeevoRateLimitBurst int
	// MeevoBreakerEnabled indicates whether the upstream circuit breaker is enabled.
	MeevoBreakerEnabled bool

	// DiscoveryStrategy selects the candidate source: "recency", "changefeed",
	// "surname" or "hybrid".
	DiscoveryStrategy string
	// DiscoveryChangeWindowDays is the trailing window scanned by the change feed.
	DiscoveryChangeWindowDays int
	// DiscoveryNoPhoneOnly restricts recency-scan candidates to records without
	// a phone number before paying for a detail fetch.
	DiscoveryNoPhoneOnly bool
	// DiscoveryMaxPages caps how many directory or change-feed pages one
	// discovery call may fetch.
	DiscoveryMaxPages int
	// DiscoveryPagesPerBatch is the number of pages fetched concurrently.
	DiscoveryPagesPerBatch int
	// DiscoveryDetailBatch is the concurrent fan-out width for candidate
	// detail fetches.
	DiscoveryDetailBatch int
	// DiscoveryItemsPerPage is the page size requested from the directory.
	DiscoveryItemsPerPage int

	// ResolverPagesPerBatch is the number of directory pages the phone resolver
	// fetches concurrently per batch.
	ResolverPagesPerBatch int
	// ResolverMaxBatches caps total phone-resolver batches.
	ResolverMaxBatches int
	// ResolverItemsPerPage is the page size used by the phone resolver.
	ResolverItemsPerPage int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:      env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:      env.GetInt("SERVER_PORT", 8080),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Health payload
		EnvironmentName: env.GetString("ENVIRONMENT_NAME", "development"),
		LocationName:    env.GetString("LOCATION_NAME", ""),
		ServiceName:     env.GetString("SERVICE_NAME", "linked-profiles"),

		// Meevo upstream
		MeevoAuthURL:       env.GetString("MEEVO_AUTH_URL", "https://marketplace.meevo.com/oauth2/token"),
		MeevoAPIURL:        env.GetString("MEEVO_API_URL", "https://na1pub.meevo.com/publicapi/v1"),
		MeevoClientID:      env.GetString("MEEVO_CLIENT_ID", ""),
		MeevoClientSecret:  env.GetString("MEEVO_CLIENT_SECRET", ""),
		MeevoTenantID:      env.GetString("MEEVO_TENANT_ID", ""),
		MeevoLocationID:    env.GetString("MEEVO_LOCATION_ID", ""),
		MeevoListTimeout:   env.GetDuration("MEEVO_LIST_TIMEOUT_SECONDS", 3, time.Second),
		MeevoDetailTimeout: env.GetDuration("MEEVO_DETAIL_TIMEOUT_SECONDS", 2, time.Second),
		MeevoTokenMargin:   env.GetDuration("MEEVO_TOKEN_MARGIN_SECONDS", 300, time.Second),

		// Upstream load controls
		MeevoRateLimitEnabled:        env.GetBool("MEEVO_RATE_LIMIT_ENABLED", false),
		MeevoRateLimitRequestsPerSec: env.GetFloat64("MEEVO_RATE_LIMIT_REQUESTS_PER_SEC", 100.0),
		MeevoRateLimitBurst:          env.GetInt("MEEVO_RATE_LIMIT_BURST", 50),
		MeevoBreakerEnabled:          env.GetBool("MEEVO_BREAKER_ENABLED", true),

		// Discovery
		DiscoveryStrategy:         env.GetString("DISCOVERY_STRATEGY", "hybrid"),
		DiscoveryChangeWindowDays: env.GetInt("DISCOVERY_CHANGE_WINDOW_DAYS", 365),
		DiscoveryNoPhoneOnly:      env.GetBool("DISCOVERY_NO_PHONE_ONLY", true),
		DiscoveryMaxPages:         env.GetInt("DISCOVERY_MAX_PAGES", 200),
		DiscoveryPagesPerBatch:    env.GetInt("DISCOVERY_PAGES_PER_BATCH", 10),
		DiscoveryDetailBatch:      env.GetInt("DISCOVERY_DETAIL_BATCH", 50),
		DiscoveryItemsPerPage:     env.GetInt("DISCOVERY_ITEMS_PER_PAGE", 100),

		// Phone resolver
		ResolverPagesPerBatch: env.GetInt("RESOLVER_PAGES_PER_BATCH", 10),
		ResolverMaxBatches:    env.GetInt("RESOLVER_MAX_BATCHES", 20),
		ResolverItemsPerPage:  env.GetInt("RESOLVER_ITEMS_PER_PAGE", 100),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "linked_profiles"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
