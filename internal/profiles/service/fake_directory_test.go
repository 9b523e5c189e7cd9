package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

// fakeDirectory is an in-memory Directory for scan tests. Pages not present in
// the maps are empty; ids in failing sets return transport-style errors.
type fakeDirectory struct {
	mu sync.Mutex

	pages       map[int][]domain.ClientRecord
	changePages map[int][]domain.ClientRecord
	details     map[string]domain.ClientRecord

	failPages   map[int]bool
	failDetails map[string]bool
	listErr     error
	changesErr  error

	listedPages   []int
	detailFetches []string
	lastSince     time.Time
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		pages:       make(map[int][]domain.ClientRecord),
		changePages: make(map[int][]domain.ClientRecord),
		details:     make(map[string]domain.ClientRecord),
		failPages:   make(map[int]bool),
		failDetails: make(map[string]bool),
	}
}

// addClient places a record on a directory page and registers its detail.
func (f *fakeDirectory) addClient(page int, record domain.ClientRecord) {
	f.pages[page] = append(f.pages[page], record)
	f.details[record.ID] = record
}

func (f *fakeDirectory) ListClientsPage(ctx context.Context, locationID string, page, itemsPerPage int) ([]domain.ClientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listedPages = append(f.listedPages, page)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.failPages[page] {
		return nil, apperrors.ErrUpstreamUnavailable
	}
	return f.pages[page], nil
}

func (f *fakeDirectory) GetClientDetail(ctx context.Context, clientID, locationID string) (*domain.ClientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.detailFetches = append(f.detailFetches, clientID)
	if f.failDetails[clientID] {
		return nil, apperrors.ErrUpstreamUnavailable
	}
	record, ok := f.details[clientID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &record, nil
}

func (f *fakeDirectory) ListChanges(ctx context.Context, locationID string, since time.Time, page, itemsPerPage int) ([]domain.ClientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastSince = since
	if f.changesErr != nil {
		return nil, f.changesErr
	}
	return f.changePages[page], nil
}

// maxListedPage returns the highest directory page the scans touched.
func (f *fakeDirectory) maxListedPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	maxPage := 0
	for _, page := range f.listedPages {
		if page > maxPage {
			maxPage = page
		}
	}
	return maxPage
}

// minListedPage returns the lowest directory page the scans touched.
func (f *fakeDirectory) minListedPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	minPage := 0
	for _, page := range f.listedPages {
		if minPage == 0 || page < minPage {
			minPage = page
		}
	}
	return minPage
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
