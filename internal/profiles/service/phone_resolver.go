package service

import (
	"context"
	"log/slog"

	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// PhoneResolverConfig tunes the directory scan performed per phone lookup.
type PhoneResolverConfig struct {
	// PagesPerBatch is the number of pages fetched concurrently per batch.
	PagesPerBatch int
	// MaxBatches caps total batches, bounding upstream load per lookup.
	MaxBatches int
	// ItemsPerPage is the requested page size.
	ItemsPerPage int
}

// withDefaults fills zero values with the production defaults
// (10 pages x 100 items, 20 batches = at most 20,000 records scanned).
func (c PhoneResolverConfig) withDefaults() PhoneResolverConfig {
	if c.PagesPerBatch <= 0 {
		c.PagesPerBatch = 10
	}
	if c.MaxBatches <= 0 {
		c.MaxBatches = 20
	}
	if c.ItemsPerPage <= 0 {
		c.ItemsPerPage = 100
	}
	return c
}

// PhoneResolver maps a normalized phone number to an upstream client record by
// scanning paginated directory results in concurrent batches.
type PhoneResolver struct {
	dir    Directory
	cfg    PhoneResolverConfig
	logger *slog.Logger
}

// NewPhoneResolver creates a phone resolver over the given directory.
func NewPhoneResolver(dir Directory, cfg PhoneResolverConfig, logger *slog.Logger) *PhoneResolver {
	return &PhoneResolver{
		dir:    dir,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// ResolveByPhone returns the first directory record whose normalized phone
// matches, in page-ascending then within-page order. Scanning stops when an
// entire batch yields zero records or the batch ceiling is reached. A nil
// record with nil error is the normal "no match" outcome.
func (r *PhoneResolver) ResolveByPhone(ctx context.Context, phone, locationID string) (*domain.ClientRecord, error) {
	normalized := domain.NormalizePhone(phone)
	if normalized == "" {
		return nil, nil
	}

	for batch := 0; batch < r.cfg.MaxBatches; batch++ {
		startPage := batch*r.cfg.PagesPerBatch + 1
		pages, err := fetchPages(ctx, r.dir, locationID, startPage, r.cfg.PagesPerBatch, r.cfg.ItemsPerPage)
		if err != nil {
			return nil, err
		}

		for _, page := range pages {
			for _, record := range page {
				if domain.SamePhone(record.PrimaryPhone, normalized) {
					r.logger.Debug("phone resolved",
						slog.String("client_id", record.ID),
						slog.Int("batch", batch),
					)
					return &record, nil
				}
			}
		}

		if countEmpty(pages) == r.cfg.PagesPerBatch {
			// Directory exhausted.
			break
		}
	}

	return nil, nil
}
