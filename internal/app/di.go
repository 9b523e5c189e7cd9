// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keepitcut/linked-profiles/internal/config"
	"github.com/keepitcut/linked-profiles/internal/http"
	"github.com/keepitcut/linked-profiles/internal/meevo"
	"github.com/keepitcut/linked-profiles/internal/metrics"
	profilesHTTP "github.com/keepitcut/linked-profiles/internal/profiles/http"
	profilesService "github.com/keepitcut/linked-profiles/internal/profiles/service"
	profilesUseCase "github.com/keepitcut/linked-profiles/internal/profiles/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	upstreamMetrics metrics.UpstreamMetrics

	// Upstream
	tokenProvider *meevo.TokenProvider
	meevoClient   *meevo.Client

	// Services
	phoneResolver *profilesService.PhoneResolver
	discoverer    *profilesService.Discoverer

	// Use Cases
	lookupUseCase profilesUseCase.LookupUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	upstreamMetricsInit sync.Once
	tokenProviderInit   sync.Once
	meevoClientInit     sync.Once
	phoneResolverInit   sync.Once
	discovererInit      sync.Once
	lookupUseCaseInit   sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the OTel meter provider backed by the Prometheus
// registry, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the lookup operation metrics recorder. A no-op
// implementation is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// UpstreamMetrics returns the upstream call metrics recorder. A no-op
// implementation is returned when metrics are disabled.
func (c *Container) UpstreamMetrics() (metrics.UpstreamMetrics, error) {
	c.upstreamMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["upstreamMetrics"] = err
			return
		}
		if provider == nil {
			c.upstreamMetrics = metrics.NewNoOpUpstreamMetrics()
			return
		}
		c.upstreamMetrics, err = metrics.NewUpstreamMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["upstreamMetrics"] = err
		}
	})
	if storedErr, exists := c.initErrors["upstreamMetrics"]; exists {
		return nil, storedErr
	}
	return c.upstreamMetrics, nil
}

// TokenProvider returns the cached upstream token provider.
func (c *Container) TokenProvider() *meevo.TokenProvider {
	c.tokenProviderInit.Do(func() {
		c.tokenProvider = meevo.NewTokenProvider(c.meevoConfig(), c.Logger())
	})
	return c.tokenProvider
}

// MeevoClient returns the upstream directory client.
func (c *Container) MeevoClient() (*meevo.Client, error) {
	c.meevoClientInit.Do(func() {
		upstreamMetrics, err := c.UpstreamMetrics()
		if err != nil {
			c.initErrors["meevoClient"] = err
			return
		}
		c.meevoClient = meevo.NewClient(c.meevoConfig(), c.TokenProvider(), upstreamMetrics, c.Logger())
	})
	if storedErr, exists := c.initErrors["meevoClient"]; exists {
		return nil, storedErr
	}
	return c.meevoClient, nil
}

// PhoneResolver returns the phone-to-client resolver.
func (c *Container) PhoneResolver() (*profilesService.PhoneResolver, error) {
	c.phoneResolverInit.Do(func() {
		client, err := c.MeevoClient()
		if err != nil {
			c.initErrors["phoneResolver"] = err
			return
		}
		c.phoneResolver = profilesService.NewPhoneResolver(client, profilesService.PhoneResolverConfig{
			PagesPerBatch: c.config.ResolverPagesPerBatch,
			MaxBatches:    c.config.ResolverMaxBatches,
			ItemsPerPage:  c.config.ResolverItemsPerPage,
		}, c.Logger())
	})
	if storedErr, exists := c.initErrors["phoneResolver"]; exists {
		return nil, storedErr
	}
	return c.phoneResolver, nil
}

// Discoverer returns the linked-profile discovery engine.
func (c *Container) Discoverer() (*profilesService.Discoverer, error) {
	c.discovererInit.Do(func() {
		client, err := c.MeevoClient()
		if err != nil {
			c.initErrors["discoverer"] = err
			return
		}
		c.discoverer = profilesService.NewDiscoverer(client, profilesService.DiscovererConfig{
			Strategy:        profilesService.ParseStrategy(c.config.DiscoveryStrategy),
			ChangeWindow:    time.Duration(c.config.DiscoveryChangeWindowDays) * 24 * time.Hour,
			NoPhoneOnly:     c.config.DiscoveryNoPhoneOnly,
			MaxPages:        c.config.DiscoveryMaxPages,
			PagesPerBatch:   c.config.DiscoveryPagesPerBatch,
			DetailBatchSize: c.config.DiscoveryDetailBatch,
			ItemsPerPage:    c.config.DiscoveryItemsPerPage,
		}, c.Logger())
	})
	if storedErr, exists := c.initErrors["discoverer"]; exists {
		return nil, storedErr
	}
	return c.discoverer, nil
}

// LookupUseCase returns the lookup use case, decorated with business metrics.
func (c *Container) LookupUseCase() (profilesUseCase.LookupUseCase, error) {
	c.lookupUseCaseInit.Do(func() {
		resolver, err := c.PhoneResolver()
		if err != nil {
			c.initErrors["lookupUseCase"] = err
			return
		}
		discoverer, err := c.Discoverer()
		if err != nil {
			c.initErrors["lookupUseCase"] = err
			return
		}
		client, err := c.MeevoClient()
		if err != nil {
			c.initErrors["lookupUseCase"] = err
			return
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["lookupUseCase"] = err
			return
		}

		useCase := profilesUseCase.NewLookupUseCase(
			resolver,
			client,
			discoverer,
			c.config.MeevoLocationID,
			c.Logger(),
		)
		c.lookupUseCase = profilesUseCase.NewLookupUseCaseWithMetrics(
			useCase,
			businessMetrics,
			string(profilesService.ParseStrategy(c.config.DiscoveryStrategy)),
		)
	})
	if storedErr, exists := c.initErrors["lookupUseCase"]; exists {
		return nil, storedErr
	}
	return c.lookupUseCase, nil
}

// HTTPServer returns the API server with all routes wired.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		lookupUseCase, err := c.LookupUseCase()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		var httpMetrics gin.HandlerFunc
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		if provider != nil {
			httpMetrics = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
		}

		handler := profilesHTTP.NewLookupHandler(lookupUseCase, c.Logger())
		c.httpServer = http.NewServer(c.config, handler, httpMetrics, c.Logger())
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus exposition server, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// meevoConfig maps the application configuration to the upstream client config.
func (c *Container) meevoConfig() meevo.Config {
	return meevo.Config{
		AuthURL:                 c.config.MeevoAuthURL,
		APIURL:                  c.config.MeevoAPIURL,
		ClientID:                c.config.MeevoClientID,
		ClientSecret:            c.config.MeevoClientSecret,
		TenantID:                c.config.MeevoTenantID,
		ListTimeout:             c.config.MeevoListTimeout,
		DetailTimeout:           c.config.MeevoDetailTimeout,
		TokenMargin:             c.config.MeevoTokenMargin,
		RateLimitEnabled:        c.config.MeevoRateLimitEnabled,
		RateLimitRequestsPerSec: c.config.MeevoRateLimitRequestsPerSec,
		RateLimitBurst:          c.config.MeevoRateLimitBurst,
		BreakerEnabled:          c.config.MeevoBreakerEnabled,
	}
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
