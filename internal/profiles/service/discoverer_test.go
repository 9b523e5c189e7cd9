package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/keepitcut/linked-profiles/internal/errors"
	"github.com/keepitcut/linked-profiles/internal/profiles/domain"
)

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategyRecency, ParseStrategy("recency"))
	assert.Equal(t, StrategyChangeFeed, ParseStrategy("changefeed"))
	assert.Equal(t, StrategySurname, ParseStrategy("surname"))
	assert.Equal(t, StrategyHybrid, ParseStrategy("hybrid"))
	assert.Equal(t, StrategyHybrid, ParseStrategy(""))
	assert.Equal(t, StrategyHybrid, ParseStrategy("bogus"))
}

func TestDiscoverer_ChangeFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("ConfirmsSnapshotsWithoutDetailFetches", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.changePages[1] = []domain.ClientRecord{
			{ID: "C100", FirstName: "Jon", LastName: "Ray"},
			{ID: "C101", FirstName: "Mia", LastName: "Ray", GuardianID: "C100", IsMinor: true},
			{ID: "C900", FirstName: "Zed", GuardianID: "C777"},
			{ID: "C102", FirstName: "Ana", LastName: "Ray", GuardianID: "C100"},
		}

		d := NewDiscoverer(dir, DiscovererConfig{Strategy: StrategyChangeFeed}, testLogger())

		profiles, skipped, err := d.Discover(ctx, "C100", "Ray", "201664")
		require.NoError(t, err)

		require.Len(t, profiles, 2)
		assert.Equal(t, "C101", profiles[0].ClientID)
		assert.Equal(t, domain.ProfileTypeMinor, profiles[0].Type)
		assert.Equal(t, "C102", profiles[1].ClientID)
		assert.Equal(t, domain.ProfileTypeGuest, profiles[1].Type)
		assert.Zero(t, skipped)
		assert.Empty(t, dir.detailFetches)
	})

	t.Run("DeduplicatesAcrossFeedPages", func(t *testing.T) {
		dir := newFakeDirectory()
		minor := domain.ClientRecord{ID: "C101", GuardianID: "C100", IsMinor: true}
		dir.changePages[1] = []domain.ClientRecord{minor}
		dir.changePages[2] = []domain.ClientRecord{minor}

		d := NewDiscoverer(dir, DiscovererConfig{Strategy: StrategyChangeFeed}, testLogger())

		profiles, _, err := d.Discover(ctx, "C100", "", "201664")
		require.NoError(t, err)

		assert.Len(t, profiles, 1)
	})

	t.Run("FeedFailureYieldsEmpty", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.changesErr = context.DeadlineExceeded

		d := NewDiscoverer(dir, DiscovererConfig{Strategy: StrategyChangeFeed}, testLogger())

		profiles, skipped, err := d.Discover(ctx, "C100", "", "201664")
		require.NoError(t, err)

		assert.Empty(t, profiles)
		assert.Zero(t, skipped)
	})
}

func TestDiscoverer_Recency(t *testing.T) {
	ctx := context.Background()

	// Small ceiling keeps ranges readable: quarters of 20 pages are
	// [15,20) [10,15) [5,10) [1,5).
	cfg := DiscovererConfig{
		Strategy:      StrategyRecency,
		MaxPages:      20,
		PagesPerBatch: 5,
		NoPhoneOnly:   true,
	}

	t.Run("ConfirmsNoPhoneCandidatesViaDetail", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.addClient(16, domain.ClientRecord{ID: "C101", FirstName: "Mia", GuardianID: "C100", IsMinor: true})
		dir.addClient(16, domain.ClientRecord{ID: "Cphone", PrimaryPhone: "5551112222", GuardianID: "C100"})
		dir.addClient(17, domain.ClientRecord{ID: "C900", GuardianID: "C777"})

		// Listings do not carry the guardian reference upstream; strip it to
		// prove confirmation comes from the detail fetch.
		dir.pages[16][0].GuardianID = ""
		dir.pages[17][0].GuardianID = ""

		d := NewDiscoverer(dir, cfg, testLogger())

		profiles, skipped, err := d.Discover(ctx, "C100", "", "201664")
		require.NoError(t, err)

		require.Len(t, profiles, 1)
		assert.Equal(t, "C101", profiles[0].ClientID)
		assert.Zero(t, skipped)
		// The phone-carrying record was filtered before any detail fetch.
		assert.NotContains(t, dir.detailFetches, "Cphone")
	})

	t.Run("EarlyStopSkipsOlderRanges", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.addClient(16, domain.ClientRecord{ID: "C101", GuardianID: "C100", IsMinor: true})
		dir.addClient(2, domain.ClientRecord{ID: "C102", GuardianID: "C100"})

		d := NewDiscoverer(dir, cfg, testLogger())

		profiles, _, err := d.Discover(ctx, "C100", "", "201664")
		require.NoError(t, err)

		assert.Len(t, profiles, 1)
		// Pages below the newest quarter were never listed.
		assert.GreaterOrEqual(t, dir.minListedPage(), 15)
	})

	t.Run("FailedDetailFetchSkipsCandidateOnly", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.addClient(16, domain.ClientRecord{ID: "C101", GuardianID: "C100", IsMinor: true})
		dir.addClient(16, domain.ClientRecord{ID: "Cbad", GuardianID: "C100"})
		dir.failDetails["Cbad"] = true

		d := NewDiscoverer(dir, cfg, testLogger())

		profiles, skipped, err := d.Discover(ctx, "C100", "", "201664")
		require.NoError(t, err)

		require.Len(t, profiles, 1)
		assert.Equal(t, "C101", profiles[0].ClientID)
		assert.Equal(t, 1, skipped)
	})

	t.Run("UnconditionalCandidateFilter", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.addClient(16, domain.ClientRecord{ID: "Cphone", PrimaryPhone: "5551112222", GuardianID: "C100"})

		noFilter := cfg
		noFilter.NoPhoneOnly = false
		d := NewDiscoverer(dir, noFilter, testLogger())

		profiles, _, err := d.Discover(ctx, "C100", "", "201664")
		require.NoError(t, err)

		require.Len(t, profiles, 1)
		assert.Equal(t, "Cphone", profiles[0].ClientID)
	})
}

func TestDiscoverer_Surname(t *testing.T) {
	ctx := context.Background()
	cfg := DiscovererConfig{Strategy: StrategySurname, MaxPages: 10, PagesPerBatch: 5}

	t.Run("NarrowsCandidatesByLastName", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.addClient(1, domain.ClientRecord{ID: "C101", FirstName: "Mia", LastName: "rivera", GuardianID: "C100", IsMinor: true})
		dir.addClient(1, domain.ClientRecord{ID: "Cother", FirstName: "Bob", LastName: "Smith", GuardianID: "C100"})
		dir.addClient(2, domain.ClientRecord{ID: "C100", FirstName: "Eva", LastName: "Rivera"})

		d := NewDiscoverer(dir, cfg, testLogger())

		profiles, _, err := d.Discover(ctx, "C100", "Rivera", "201664")
		require.NoError(t, err)

		require.Len(t, profiles, 1)
		assert.Equal(t, "C101", profiles[0].ClientID)
		// Different-surname dependents are the accepted recall cost.
		assert.NotContains(t, dir.detailFetches, "Cother")
		// The guardian's own record is never a candidate.
		assert.NotContains(t, dir.detailFetches, "C100")
	})

	t.Run("NoSurnameMeansNoScan", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.addClient(1, domain.ClientRecord{ID: "C101", LastName: "Rivera", GuardianID: "C100"})

		d := NewDiscoverer(dir, cfg, testLogger())

		profiles, _, err := d.Discover(ctx, "C100", "", "201664")
		require.NoError(t, err)

		assert.Empty(t, profiles)
		assert.Empty(t, dir.listedPages)
	})
}

func TestDiscoverer_Hybrid(t *testing.T) {
	ctx := context.Background()
	cfg := DiscovererConfig{Strategy: StrategyHybrid, MaxPages: 10, PagesPerBatch: 5}

	t.Run("PrefersChangeFeed", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.changePages[1] = []domain.ClientRecord{
			{ID: "C101", LastName: "Rivera", GuardianID: "C100", IsMinor: true},
		}
		dir.addClient(1, domain.ClientRecord{ID: "C102", LastName: "Rivera", GuardianID: "C100"})

		d := NewDiscoverer(dir, cfg, testLogger())

		profiles, _, err := d.Discover(ctx, "C100", "Rivera", "201664")
		require.NoError(t, err)

		require.Len(t, profiles, 1)
		assert.Equal(t, "C101", profiles[0].ClientID)
		assert.Empty(t, dir.listedPages)
	})

	t.Run("FallsBackToSurnameScanOnEmptyFeed", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.addClient(1, domain.ClientRecord{ID: "C101", FirstName: "Mia", LastName: "Rivera", GuardianID: "C100", IsMinor: true})

		d := NewDiscoverer(dir, cfg, testLogger())

		profiles, _, err := d.Discover(ctx, "C100", "Rivera", "201664")
		require.NoError(t, err)

		require.Len(t, profiles, 1)
		assert.Equal(t, "C101", profiles[0].ClientID)
		assert.NotEmpty(t, dir.listedPages)
	})

	t.Run("FallsBackWhenFeedUnavailable", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.changesErr = context.DeadlineExceeded
		dir.addClient(1, domain.ClientRecord{ID: "C101", LastName: "Rivera", GuardianID: "C100"})

		d := NewDiscoverer(dir, cfg, testLogger())

		profiles, _, err := d.Discover(ctx, "C100", "Rivera", "201664")
		require.NoError(t, err)

		assert.Len(t, profiles, 1)
	})
}

func TestDiscoverer_Determinism(t *testing.T) {
	ctx := context.Background()

	dir := newFakeDirectory()
	dir.addClient(1, domain.ClientRecord{ID: "C103", LastName: "Rivera", GuardianID: "C100"})
	dir.addClient(1, domain.ClientRecord{ID: "C101", LastName: "Rivera", GuardianID: "C100", IsMinor: true})
	dir.addClient(2, domain.ClientRecord{ID: "C102", LastName: "Rivera", GuardianID: "C100", IsMinor: true})

	cfg := DiscovererConfig{Strategy: StrategySurname, MaxPages: 10, PagesPerBatch: 5}

	first, _, _ := NewDiscoverer(dir, cfg, testLogger()).Discover(ctx, "C100", "Rivera", "201664")
	second, _, _ := NewDiscoverer(dir, cfg, testLogger()).Discover(ctx, "C100", "Rivera", "201664")

	// Same upstream state twice yields the same ordered result: first
	// discovered across scan order, within-batch in candidate order.
	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "C103", first[0].ClientID)
	assert.Equal(t, "C101", first[1].ClientID)
	assert.Equal(t, "C102", first[2].ClientID)
}

func TestDiscoverer_AuthFailureIsFatal(t *testing.T) {
	ctx := context.Background()

	t.Run("FromChangeFeed", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.changesErr = apperrors.ErrUpstreamAuth

		d := NewDiscoverer(dir, DiscovererConfig{Strategy: StrategyHybrid}, testLogger())

		_, _, err := d.Discover(ctx, "C100", "Rivera", "201664")

		require.ErrorIs(t, err, apperrors.ErrUpstreamAuth)
		// No fallback scan after a credential failure.
		assert.Empty(t, dir.listedPages)
	})

	t.Run("FromDirectoryPages", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.listErr = apperrors.ErrUpstreamAuth

		d := NewDiscoverer(dir, DiscovererConfig{Strategy: StrategySurname, MaxPages: 10, PagesPerBatch: 5}, testLogger())

		_, _, err := d.Discover(ctx, "C100", "Rivera", "201664")

		require.ErrorIs(t, err, apperrors.ErrUpstreamAuth)
	})
}

func TestDiscoverer_WindowStart(t *testing.T) {
	// The change feed window is anchored at now - ChangeWindow.
	dir := newFakeDirectory()
	d := NewDiscoverer(dir, DiscovererConfig{Strategy: StrategyChangeFeed, ChangeWindow: 6 * 24 * time.Hour}, testLogger())

	fixed := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	_, _, _ = d.Discover(context.Background(), "C100", "", "201664")

	assert.Equal(t, fixed.Add(-6*24*time.Hour), dir.lastSince)
}
