package meevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
)

// TokenSource supplies a valid bearer token for upstream calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenProvider caches the upstream bearer token process-wide and refreshes it
// ahead of expiry. Reads and writes of the cached value are guarded, but the
// fetch itself runs outside the lock: concurrent callers hitting an expired
// cache may perform redundant exchanges, which is acceptable since token
// issuance is idempotent and cheap relative to request volume.
type TokenProvider struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time

	// now is swapped in tests to control expiry behavior.
	now func() time.Time
}

// NewTokenProvider creates a token provider for the configured auth endpoint.
func NewTokenProvider(cfg Config, logger *slog.Logger) *TokenProvider {
	cfg = cfg.withDefaults()
	return &TokenProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns the cached token while now < expiry - margin, otherwise
// performs exactly one synchronous exchange for this caller. Failures are
// returned immediately as ErrUpstreamAuth; there is no retry.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.token != "" && p.now().Before(p.expiry.Add(-p.cfg.TokenMargin)) {
		token := p.token
		p.mu.Unlock()
		return token, nil
	}
	p.mu.Unlock()

	token, expiry, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.token = token
	p.expiry = expiry
	p.mu.Unlock()

	p.logger.Debug("upstream token refreshed", slog.Time("expiry", expiry))
	return token, nil
}

// tokenResponse is the wire shape of the auth endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (p *TokenProvider) fetch(ctx context.Context) (string, time.Time, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     p.cfg.ClientID,
		"client_secret": p.cfg.ClientSecret,
	})
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(apperrors.ErrUpstreamAuth, "encode credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.AuthURL, bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(apperrors.ErrUpstreamAuth, "build token request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token endpoint unreachable: %w", apperrors.ErrUpstreamAuth)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", time.Time{}, fmt.Errorf("token endpoint returned %d: %w", resp.StatusCode, apperrors.ErrUpstreamAuth)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", time.Time{}, fmt.Errorf("decode token response: %w", apperrors.ErrUpstreamAuth)
	}
	if tr.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("token response missing access_token: %w", apperrors.ErrUpstreamAuth)
	}

	return tr.AccessToken, p.now().Add(time.Duration(tr.ExpiresIn) * time.Second), nil
}
