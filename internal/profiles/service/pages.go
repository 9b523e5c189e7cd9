package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// fetchPages fetches count consecutive directory pages starting at startPage
// concurrently, returning them in page order. A transport failure yields a nil
// page; callers must treat it as "no data from this page". A credential
// failure is returned instead: it is fatal for the whole request, not one
// unit of work. The whole group is awaited before returning, so concurrent
// upstream connections are capped at count.
func fetchPages(
	ctx context.Context,
	dir Directory,
	locationID string,
	startPage, count, itemsPerPage int,
) ([][]domain.ClientRecord, error) {
	pages := make([][]domain.ClientRecord, count)

	var g errgroup.Group
	for i := range count {
		g.Go(func() error {
			records, err := dir.ListClientsPage(ctx, locationID, startPage+i, itemsPerPage)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrUpstreamAuth) {
					return err
				}
				// Degrades to an empty page; scans never abort on one bad fetch.
				return nil
			}
			pages[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}

// countEmpty returns how many of the fetched pages carried no records.
func countEmpty(pages [][]domain.ClientRecord) int {
	empty := 0
	for _, page := range pages {
		if len(page) == 0 {
			empty++
		}
	}
	return empty
}
