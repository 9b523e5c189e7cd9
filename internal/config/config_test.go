package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "linked-profiles", cfg.ServiceName)
				assert.Equal(t, 3*time.Second, cfg.MeevoListTimeout)
				assert.Equal(t, 2*time.Second, cfg.MeevoDetailTimeout)
				assert.Equal(t, 300*time.Second, cfg.MeevoTokenMargin)
				assert.Equal(t, "hybrid", cfg.DiscoveryStrategy)
				assert.Equal(t, 365, cfg.DiscoveryChangeWindowDays)
				assert.True(t, cfg.DiscoveryNoPhoneOnly)
				assert.Equal(t, 50, cfg.DiscoveryDetailBatch)
				assert.Equal(t, 10, cfg.ResolverPagesPerBatch)
				assert.Equal(t, 20, cfg.ResolverMaxBatches)
				assert.Equal(t, 100, cfg.ResolverItemsPerPage)
				assert.True(t, cfg.MeevoBreakerEnabled)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "linked_profiles", cfg.MetricsNamespace)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom upstream configuration",
			envVars: map[string]string{
				"MEEVO_AUTH_URL":             "https://auth.example.com/token",
				"MEEVO_API_URL":              "https://api.example.com/v1",
				"MEEVO_CLIENT_ID":            "client-123",
				"MEEVO_CLIENT_SECRET":        "secret-456",
				"MEEVO_TENANT_ID":            "200507",
				"MEEVO_LOCATION_ID":          "201664",
				"MEEVO_LIST_TIMEOUT_SECONDS": "5",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://auth.example.com/token", cfg.MeevoAuthURL)
				assert.Equal(t, "https://api.example.com/v1", cfg.MeevoAPIURL)
				assert.Equal(t, "client-123", cfg.MeevoClientID)
				assert.Equal(t, "secret-456", cfg.MeevoClientSecret)
				assert.Equal(t, "200507", cfg.MeevoTenantID)
				assert.Equal(t, "201664", cfg.MeevoLocationID)
				assert.Equal(t, 5*time.Second, cfg.MeevoListTimeout)
			},
		},
		{
			name: "load custom discovery configuration",
			envVars: map[string]string{
				"DISCOVERY_STRATEGY":           "recency",
				"DISCOVERY_CHANGE_WINDOW_DAYS": "6",
				"DISCOVERY_NO_PHONE_ONLY":      "false",
				"DISCOVERY_MAX_PAGES":          "80",
				"DISCOVERY_DETAIL_BATCH":       "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "recency", cfg.DiscoveryStrategy)
				assert.Equal(t, 6, cfg.DiscoveryChangeWindowDays)
				assert.False(t, cfg.DiscoveryNoPhoneOnly)
				assert.Equal(t, 80, cfg.DiscoveryMaxPages)
				assert.Equal(t, 10, cfg.DiscoveryDetailBatch)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment and set test values
			os.Clearenv()
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
