package meevo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
	"github.com/keepitcut/linked-profiles/internal/metrics"
	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// Client issues read requests against the Meevo client directory, detail and
// change-feed endpoints. Errors are returned to the caller; the scan layers
// above treat them as "no data from this unit of work".
type Client struct {
	cfg        Config
	tokens     TokenSource
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	metrics    metrics.UpstreamMetrics
	logger     *slog.Logger
}

// NewClient creates the upstream API client. The upstream metrics sink may be
// a no-op implementation when metrics are disabled.
func NewClient(cfg Config, tokens TokenSource, upstreamMetrics metrics.UpstreamMetrics, logger *slog.Logger) *Client {
	cfg = cfg.withDefaults()

	c := &Client{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{},
		metrics:    upstreamMetrics,
		logger:     logger,
	}

	if cfg.BreakerEnabled {
		c.breaker = newBreaker(logger)
	}
	if cfg.RateLimitEnabled {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRequestsPerSec), cfg.RateLimitBurst)
	}

	return c
}

// newBreaker creates the circuit breaker guarding upstream calls. Timeouts on
// individual pages are routine during scans, so the breaker only opens after a
// sustained failure streak.
func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "meevo",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 10
		},
		// A 404 on a detail lookup is an upstream answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || apperrors.Is(err, apperrors.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("upstream circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

// ListClientsPage fetches one page of the client directory for a location.
// An empty result means "no data from this page", not authoritative absence.
func (c *Client) ListClientsPage(
	ctx context.Context,
	locationID string,
	page, itemsPerPage int,
) ([]domain.ClientRecord, error) {
	query := url.Values{}
	query.Set("tenantid", c.cfg.TenantID)
	query.Set("locationid", locationID)
	query.Set("PageNumber", strconv.Itoa(page))
	query.Set("ItemsPerPage", strconv.Itoa(itemsPerPage))

	body, err := c.get(ctx, "list_clients", c.cfg.APIURL+"/clients?"+query.Encode(), c.cfg.ListTimeout)
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "decode clients page")
	}

	return toRecords(envelope.Data), nil
}

// GetClientDetail fetches the full record for one client, which is the only
// representation carrying the guardian reference on the general directory API.
// NotFound and transport failures both surface as errors; callers collapse
// them to "no record".
func (c *Client) GetClientDetail(ctx context.Context, clientID, locationID string) (*domain.ClientRecord, error) {
	query := url.Values{}
	query.Set("TenantId", c.cfg.TenantID)
	query.Set("LocationId", locationID)

	endpoint := fmt.Sprintf("%s/client/%s?%s", c.cfg.APIURL, url.PathEscape(clientID), query.Encode())
	body, err := c.get(ctx, "client_detail", endpoint, c.cfg.DetailTimeout)
	if err != nil {
		return nil, err
	}

	payload, err := decodeDetail(body)
	if err != nil {
		return nil, err
	}
	if payload.ClientID == "" {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "client detail")
	}

	record := payload.toRecord()
	return &record, nil
}

// ListChanges fetches one page of the client change feed: full entity
// snapshots (guardian reference included) for records changed since the given
// instant. Strictly cheaper than per-record detail fetches when available.
func (c *Client) ListChanges(
	ctx context.Context,
	locationID string,
	since time.Time,
	page, itemsPerPage int,
) ([]domain.ClientRecord, error) {
	query := url.Values{}
	query.Set("tenantid", c.cfg.TenantID)
	query.Set("locationid", locationID)
	query.Set("SinceDate", since.UTC().Format(time.RFC3339))
	query.Set("PageNumber", strconv.Itoa(page))
	query.Set("ItemsPerPage", strconv.Itoa(itemsPerPage))

	body, err := c.get(ctx, "list_changes", c.cfg.APIURL+"/cdc/client?"+query.Encode(), c.cfg.ListTimeout)
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "decode change feed page")
	}

	return toRecords(envelope.Data), nil
}

// get performs one authenticated GET with a per-call timeout, passing through
// the rate limiter and circuit breaker when enabled.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, timeout time.Duration) ([]byte, error) {
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.RecordCall(ctx, endpoint, "error", time.Since(start))
			return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "rate limiter")
		}
	}

	body, err := c.execute(ctx, rawURL, timeout)

	status := "success"
	switch {
	case err == nil:
	case apperrors.Is(err, gobreaker.ErrOpenState) || apperrors.Is(err, gobreaker.ErrTooManyRequests):
		status = "open"
		err = apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "circuit breaker open")
	default:
		status = "error"
	}
	c.metrics.RecordCall(ctx, endpoint, status, time.Since(start))

	if err != nil {
		c.logger.Debug("upstream call failed",
			slog.String("endpoint", endpoint),
			slog.Any("error", err),
		)
		return nil, err
	}
	return body, nil
}

// execute runs the request, optionally inside the circuit breaker.
func (c *Client) execute(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	if c.breaker == nil {
		return c.do(ctx, rawURL, timeout)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.do(ctx, rawURL, timeout)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) do(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", apperrors.ErrUpstreamUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "upstream")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream returned %d: %w", resp.StatusCode, apperrors.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "read response body")
	}
	return body, nil
}

// decodeDetail unwraps a detail response, which is either enveloped in "data"
// or a bare client object.
func decodeDetail(body []byte) (clientPayload, error) {
	var envelope detailEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		var payload clientPayload
		if err := json.Unmarshal(envelope.Data, &payload); err == nil && payload.ClientID != "" {
			return payload, nil
		}
	}

	var payload clientPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return clientPayload{}, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "decode client detail")
	}
	return payload, nil
}
