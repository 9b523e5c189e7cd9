// Package service implements the scan algorithms over the upstream client
// directory: phone-number resolution and linked-profile discovery. The
// upstream API offers only flat pagination, with no server-side filter by
// guardian or phone, so both operations are built as bounded concurrent scans.
package service

import (
	"context"
	"time"

	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// Directory is the slice of the upstream API the scans depend on.
type Directory interface {
	// ListClientsPage fetches one directory page. Empty means "no data from
	// this page", not authoritative absence.
	ListClientsPage(ctx context.Context, locationID string, page, itemsPerPage int) ([]domain.ClientRecord, error)
	// GetClientDetail fetches the full record for one client, the only general
	// representation carrying the guardian reference.
	GetClientDetail(ctx context.Context, clientID, locationID string) (*domain.ClientRecord, error)
	// ListChanges fetches one page of full entity snapshots changed since the
	// given instant.
	ListChanges(ctx context.Context, locationID string, since time.Time, page, itemsPerPage int) ([]domain.ClientRecord, error)
}
