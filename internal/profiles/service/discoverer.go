package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// Strategy selects how discovery generates candidates. Confirmation is always
// the same: a record is linked iff its guardian reference equals the target
// guardian exactly.
type Strategy string

const (
	// StrategyRecency scans directory pages most-recent-first, pre-filtering
	// to records without a phone number, and stops once the highest-priority
	// range yields a result.
	StrategyRecency Strategy = "recency"
	// StrategyChangeFeed scans the client change feed over a trailing window;
	// snapshots carry the guardian reference, so no detail fetches are needed.
	StrategyChangeFeed Strategy = "changefeed"
	// StrategySurname scans the full directory, narrowing candidates to those
	// sharing the guardian's last name before paying for a detail fetch.
	StrategySurname Strategy = "surname"
	// StrategyHybrid runs the change feed first and falls back to the surname
	// scan when the feed yields nothing.
	StrategyHybrid Strategy = "hybrid"
)

// ParseStrategy maps a configuration value to a Strategy, defaulting to hybrid.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyRecency, StrategyChangeFeed, StrategySurname, StrategyHybrid:
		return Strategy(s)
	default:
		return StrategyHybrid
	}
}

// DiscovererConfig tunes the discovery scan. The candidate filter and search
// window are deliberately configuration, not constants: they trade recall
// against upstream cost and no single answer fits every location.
type DiscovererConfig struct {
	// Strategy selects the candidate source.
	Strategy Strategy
	// ChangeWindow is the trailing window scanned by the change feed.
	ChangeWindow time.Duration
	// NoPhoneOnly restricts recency-scan candidates to records without a
	// phone number, a cheap proxy for "likely dependent".
	NoPhoneOnly bool
	// MaxPages caps how many pages one discovery call may fetch per source.
	MaxPages int
	// PagesPerBatch is the concurrent page fan-out width.
	PagesPerBatch int
	// DetailBatchSize is the concurrent detail-fetch fan-out width.
	DetailBatchSize int
	// ItemsPerPage is the requested page size.
	ItemsPerPage int
}

func (c DiscovererConfig) withDefaults() DiscovererConfig {
	if c.Strategy == "" {
		c.Strategy = StrategyHybrid
	}
	if c.ChangeWindow <= 0 {
		c.ChangeWindow = 365 * 24 * time.Hour
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 200
	}
	if c.PagesPerBatch <= 0 {
		c.PagesPerBatch = 10
	}
	if c.DetailBatchSize <= 0 {
		c.DetailBatchSize = 50
	}
	if c.ItemsPerPage <= 0 {
		c.ItemsPerPage = 100
	}
	return c
}

// Discoverer finds every client record whose guardian reference matches a
// given guardian, within the search space its strategy covers. Completeness is
// bounded by strategy, not absolute: a failed page or detail fetch excludes
// its candidates from the result instead of failing the request.
type Discoverer struct {
	dir    Directory
	cfg    DiscovererConfig
	logger *slog.Logger

	// now is swapped in tests to pin the change-feed window.
	now func() time.Time
}

// NewDiscoverer creates a discovery engine over the given directory.
func NewDiscoverer(dir Directory, cfg DiscovererConfig, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		dir:    dir,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// Discover returns the linked profiles of the guardian in first-discovered
// order, deduplicated by client id, plus the number of candidates skipped
// because an upstream fetch failed. The only error it can return is a
// credential failure; everything else degrades to a smaller result.
func (d *Discoverer) Discover(ctx context.Context, guardianID, guardianLastName, locationID string) ([]domain.LinkedProfile, int, error) {
	session := domain.NewDiscoverySession(guardianID, guardianLastName)

	logger := d.logger.With(
		slog.String("session_id", session.ID.String()),
		slog.String("guardian_id", guardianID),
		slog.String("strategy", string(d.cfg.Strategy)),
	)
	logger.Info("discovering linked profiles")

	var err error
	switch d.cfg.Strategy {
	case StrategyRecency:
		err = d.scanRecency(ctx, session, locationID)
	case StrategyChangeFeed:
		err = d.scanChangeFeed(ctx, session, locationID)
	case StrategySurname:
		err = d.scanSurname(ctx, session, locationID)
	default: // StrategyHybrid
		err = d.scanChangeFeed(ctx, session, locationID)
		if err == nil && session.Found() == 0 {
			logger.Info("change feed yielded nothing, falling back to surname scan")
			err = d.scanSurname(ctx, session, locationID)
		}
	}
	if err != nil {
		return nil, 0, err
	}

	logger.Info("discovery finished",
		slog.Int("found", session.Found()),
		slog.Int("skipped", session.Skipped()),
	)

	return session.Results(), session.Skipped(), nil
}

// scanRecency walks directory pages in priority order, most recent first.
// Dependent profiles are typically created close in time to a booking call, so
// once any range yields a confirmed result the older ranges are not scanned.
func (d *Discoverer) scanRecency(ctx context.Context, session *domain.DiscoverySession, locationID string) error {
	for _, pageRange := range d.recencyRanges() {
		if err := d.scanRange(ctx, session, locationID, pageRange[0], pageRange[1]); err != nil {
			return err
		}

		if session.Found() > 0 {
			return nil
		}
	}
	return nil
}

// recencyRanges splits [1, MaxPages] into quarters, newest quarter first.
// With the default 200-page ceiling: [150,200) [100,150) [50,100) [1,50).
func (d *Discoverer) recencyRanges() [][2]int {
	quarter := d.cfg.MaxPages / 4
	if quarter < 1 {
		return [][2]int{{1, d.cfg.MaxPages + 1}}
	}
	return [][2]int{
		{3 * quarter, 4 * quarter},
		{2 * quarter, 3 * quarter},
		{quarter, 2 * quarter},
		{1, quarter},
	}
}

// scanRange walks pages [start, end) in concurrent batches, collecting
// candidates per the configured filter and confirming them via detail fetches.
func (d *Discoverer) scanRange(ctx context.Context, session *domain.DiscoverySession, locationID string, start, end int) error {
	for batchStart := start; batchStart < end; batchStart += d.cfg.PagesPerBatch {
		count := min(d.cfg.PagesPerBatch, end-batchStart)
		pages, err := fetchPages(ctx, d.dir, locationID, batchStart, count, d.cfg.ItemsPerPage)
		if err != nil {
			return err
		}

		var candidates []domain.ClientRecord
		for _, page := range pages {
			for _, record := range page {
				if session.Seen(record.ID) {
					continue
				}
				if d.cfg.NoPhoneOnly && record.HasPhone() {
					continue
				}
				candidates = append(candidates, record)
			}
		}

		d.confirmViaDetail(ctx, session, candidates, locationID)

		if countEmpty(pages) == count {
			// End of the directory within this range.
			return nil
		}
	}
	return nil
}

// scanChangeFeed walks the change feed page by page over the trailing window.
// Snapshots are authoritative, so confirmation needs no extra fetch.
func (d *Discoverer) scanChangeFeed(ctx context.Context, session *domain.DiscoverySession, locationID string) error {
	since := d.now().Add(-d.cfg.ChangeWindow)

	for page := 1; page <= d.cfg.MaxPages; page++ {
		records, err := d.dir.ListChanges(ctx, locationID, since, page, d.cfg.ItemsPerPage)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrUpstreamAuth) {
				return err
			}
			// Feed unavailable; callers fall back to directory scans.
			d.logger.Debug("change feed page failed", slog.Int("page", page), slog.Any("error", err))
			return nil
		}
		if len(records) == 0 {
			return nil
		}

		for _, record := range records {
			session.Confirm(record)
		}
	}
	return nil
}

// scanSurname walks the whole directory, pre-filtering candidates to records
// sharing the guardian's last name. Trades recall (misses dependents with a
// different surname) for a far smaller detail-fetch volume.
func (d *Discoverer) scanSurname(ctx context.Context, session *domain.DiscoverySession, locationID string) error {
	if session.GuardianLastName == "" {
		return nil
	}

	for batchStart := 1; batchStart <= d.cfg.MaxPages; batchStart += d.cfg.PagesPerBatch {
		count := min(d.cfg.PagesPerBatch, d.cfg.MaxPages-batchStart+1)
		pages, err := fetchPages(ctx, d.dir, locationID, batchStart, count, d.cfg.ItemsPerPage)
		if err != nil {
			return err
		}

		var candidates []domain.ClientRecord
		for _, page := range pages {
			for _, record := range page {
				if session.Seen(record.ID) || record.ID == session.GuardianID {
					continue
				}
				if session.MatchesSurname(record) {
					candidates = append(candidates, record)
				}
			}
		}

		d.confirmViaDetail(ctx, session, candidates, locationID)

		if countEmpty(pages) == count {
			return nil
		}
	}
	return nil
}

// confirmViaDetail fetches details for candidates in bounded concurrent
// batches and confirms each against the session. A failed detail fetch
// silently excludes that candidate; the scan carries on.
func (d *Discoverer) confirmViaDetail(ctx context.Context, session *domain.DiscoverySession, candidates []domain.ClientRecord, locationID string) {
	for chunkStart := 0; chunkStart < len(candidates); chunkStart += d.cfg.DetailBatchSize {
		chunk := candidates[chunkStart:min(chunkStart+d.cfg.DetailBatchSize, len(candidates))]
		details := make([]*domain.ClientRecord, len(chunk))

		var g errgroup.Group
		for i, candidate := range chunk {
			g.Go(func() error {
				record, err := d.dir.GetClientDetail(ctx, candidate.ID, locationID)
				if err != nil {
					return nil
				}
				details[i] = record
				return nil
			})
		}
		_ = g.Wait()

		// Results are appended in candidate order, keeping repeat discovery
		// calls deterministic for unchanged upstream state.
		for _, record := range details {
			if record == nil {
				session.Skip()
				continue
			}
			session.Confirm(*record)
		}
	}
}
