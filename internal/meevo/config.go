// Package meevo provides the gateway to the Meevo public API: bearer-token
// acquisition with expiry-margin caching, paginated client directory listing,
// client detail lookup and the client change feed. Every call carries a fixed
// per-call timeout and passes through an optional circuit breaker and rate
// limiter so that a flaky upstream degrades scans instead of failing requests.
package meevo

import "time"

// Config holds the upstream connection settings.
type Config struct {
	// AuthURL is the OAuth2 token endpoint.
	AuthURL string
	// APIURL is the base URL of the Meevo public API.
	APIURL string
	// ClientID and ClientSecret are exchanged for a bearer token.
	ClientID     string
	ClientSecret string
	// TenantID scopes every directory query.
	TenantID string

	// ListTimeout bounds directory and change-feed page requests.
	ListTimeout time.Duration
	// DetailTimeout bounds client detail requests.
	DetailTimeout time.Duration
	// TokenMargin is subtracted from the token expiry before a refresh is
	// forced, guarding against clock skew and in-flight request latency.
	TokenMargin time.Duration

	// RateLimitEnabled turns on the aggregate upstream request rate cap.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained upstream request rate.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the rate limiter burst size.
	RateLimitBurst int

	// BreakerEnabled turns on the upstream circuit breaker.
	BreakerEnabled bool
}

// withDefaults fills zero-valued timeouts with safe values.
func (c Config) withDefaults() Config {
	if c.ListTimeout <= 0 {
		c.ListTimeout = 3 * time.Second
	}
	if c.DetailTimeout <= 0 {
		c.DetailTimeout = 2 * time.Second
	}
	if c.TokenMargin <= 0 {
		c.TokenMargin = 5 * time.Minute
	}
	return c
}
