package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mseals/cinematch/internal/models"
)

type stubAssembler struct {
	calls atomic.Int32
}

func (a *stubAssembler) FetchBundle(ctx context.Context, movieID int) models.Bundle {
	a.calls.Add(1)
	return models.Bundle{
		ID:      movieID,
		Details: map[string]interface{}{"title": "stub"},
		Cast:    []string{"Someone"},
	}
}

type stubCatalog struct {
	calls atomic.Int32
	list  []models.MovieSummary
}

func (c *stubCatalog) FetchTrending(ctx context.Context) ([]models.MovieSummary, bool) {
	c.calls.Add(1)
	return c.list, true
}

func newTestManager() (*Manager, *stubAssembler, *stubCatalog, *Session) {
	assembler := &stubAssembler{}
	catalog := &stubCatalog{list: []models.MovieSummary{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}}}
	m := NewManager(assembler, catalog)
	s := m.Session(uuid.New())
	return m, assembler, catalog, s
}

func TestGetOrFetchBundleIdempotent(t *testing.T) {
	m, assembler, _, s := newTestManager()
	ctx := context.Background()

	first := m.GetOrFetchBundle(ctx, s, 603)
	second := m.GetOrFetchBundle(ctx, s, 603)

	assert.Equal(t, int32(1), assembler.calls.Load(), "second call must not refetch")
	assert.Equal(t, first, second)

	m.GetOrFetchBundle(ctx, s, 604)
	assert.Equal(t, int32(2), assembler.calls.Load(), "distinct ids fetch independently")
}

func TestBundleCacheIsPerSession(t *testing.T) {
	m, assembler, _, s1 := newTestManager()
	s2 := m.Session(uuid.New())
	ctx := context.Background()

	m.GetOrFetchBundle(ctx, s1, 603)
	m.GetOrFetchBundle(ctx, s2, 603)
	assert.Equal(t, int32(2), assembler.calls.Load())
}

func TestTrendingTTL(t *testing.T) {
	m, _, catalog, s := newTestManager()
	ctx := context.Background()

	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }

	list := m.GetOrFetchTrending(ctx, s)
	require.Len(t, list, 2)
	assert.Equal(t, int32(1), catalog.calls.Load())

	// One second before expiry: served from cache.
	now = now.Add(3599 * time.Second)
	m.GetOrFetchTrending(ctx, s)
	assert.Equal(t, int32(1), catalog.calls.Load())

	// Past expiry: exactly one refetch, clock resets.
	now = now.Add(2 * time.Second)
	m.GetOrFetchTrending(ctx, s)
	assert.Equal(t, int32(2), catalog.calls.Load())

	now = now.Add(3599 * time.Second)
	m.GetOrFetchTrending(ctx, s)
	assert.Equal(t, int32(2), catalog.calls.Load())
}

func TestWatchlistOrderAndDedup(t *testing.T) {
	_, _, _, s := newTestManager()

	s.AddToWatchlist(3, "Gamma")
	s.AddToWatchlist(1, "Alpha")
	s.AddToWatchlist(3, "Gamma")

	assert.Equal(t, []WatchlistEntry{{ID: 3, Title: "Gamma"}, {ID: 1, Title: "Alpha"}}, s.Watchlist())

	s.RemoveFromWatchlist(3)
	assert.Equal(t, []WatchlistEntry{{ID: 1, Title: "Alpha"}}, s.Watchlist())

	s.RemoveFromWatchlist(42) // absent id is a no-op
	assert.Len(t, s.Watchlist(), 1)
}

func TestClearDropsAllState(t *testing.T) {
	m, assembler, catalog, s := newTestManager()
	ctx := context.Background()

	m.GetOrFetchBundle(ctx, s, 603)
	m.GetOrFetchTrending(ctx, s)
	s.AddToWatchlist(1, "Alpha")

	s.Clear()

	assert.Empty(t, s.Watchlist())
	m.GetOrFetchBundle(ctx, s, 603)
	assert.Equal(t, int32(2), assembler.calls.Load(), "bundle memo is gone after Clear")
	m.GetOrFetchTrending(ctx, s)
	assert.Equal(t, int32(2), catalog.calls.Load(), "trending slot is gone after Clear")
}

func TestSessionReuseAndDrop(t *testing.T) {
	m, _, _, s := newTestManager()

	again := m.Session(s.ID)
	assert.Same(t, s, again)

	m.Drop(s.ID)
	fresh := m.Session(s.ID)
	assert.NotSame(t, s, fresh)
}
