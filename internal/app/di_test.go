package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepitcut/linked-profiles/internal/config"
	"github.com/keepitcut/linked-profiles/internal/metrics"
)

func testConfig(metricsEnabled bool) *config.Config {
	cfg := config.Load()
	cfg.MetricsEnabled = metricsEnabled
	cfg.MeevoClientID = "test-client"
	cfg.MeevoClientSecret = "test-secret"
	cfg.MeevoTenantID = "5693"
	cfg.MeevoLocationID = "201664"
	return cfg
}

func TestContainer_Basics(t *testing.T) {
	cfg := testConfig(false)
	container := NewContainer(cfg)

	assert.Same(t, cfg, container.Config())

	// Logger is a singleton.
	logger := container.Logger()
	require.NotNil(t, logger)
	assert.Same(t, logger, container.Logger())
}

func TestContainer_MetricsDisabled(t *testing.T) {
	container := NewContainer(testConfig(false))

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	businessMetrics, err := container.BusinessMetrics()
	require.NoError(t, err)
	assert.IsType(t, &metrics.NoOpBusinessMetrics{}, businessMetrics)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.Nil(t, metricsServer)
}

func TestContainer_MetricsEnabled(t *testing.T) {
	container := NewContainer(testConfig(true))

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	require.NotNil(t, provider)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.NotNil(t, metricsServer)

	require.NoError(t, container.Shutdown(context.Background()))
}

func TestContainer_WiresLookupStack(t *testing.T) {
	container := NewContainer(testConfig(false))

	// Construction performs no upstream I/O.
	useCase, err := container.LookupUseCase()
	require.NoError(t, err)
	assert.NotNil(t, useCase)

	server, err := container.HTTPServer()
	require.NoError(t, err)
	assert.NotNil(t, server)

	// Same instances on repeat access.
	again, err := container.HTTPServer()
	require.NoError(t, err)
	assert.Same(t, server, again)
}
