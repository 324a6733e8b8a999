package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mseals/cinematch/internal/metrics"
	"github.com/mseals/cinematch/internal/models"
)

// trendingTTL is how long the single-slot trending cache stays fresh.
const trendingTTL = 3600 * time.Second

// BundleFetcher is the slice of the assembler the session layer needs.
type BundleFetcher interface {
	FetchBundle(ctx context.Context, movieID int) models.Bundle
}

// TrendingFetcher is the slice of the catalog client the session layer needs.
type TrendingFetcher interface {
	FetchTrending(ctx context.Context) ([]models.MovieSummary, bool)
}

// WatchlistEntry is one saved movie, in the order it was added.
type WatchlistEntry struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Session holds one visitor's ephemeral state: the bundle memo, the
// trending slot and the watchlist. Nothing survives the process.
type Session struct {
	ID uuid.UUID

	mu          sync.Mutex
	bundles     map[int]models.Bundle
	trending    []models.MovieSummary
	trendingAt  time.Time
	hasTrending bool
	watchlist   []WatchlistEntry
}

// Manager owns the live sessions and the fetchers they populate from.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	assembler BundleFetcher
	catalog   TrendingFetcher
	ttl       time.Duration
	now       func() time.Time
}

func NewManager(assembler BundleFetcher, catalog TrendingFetcher) *Manager {
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		assembler: assembler,
		catalog:   catalog,
		ttl:       trendingTTL,
		now:       time.Now,
	}
}

// Session returns the session for id, creating it on first contact.
func (m *Manager) Session(id uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{
			ID:      id,
			bundles: make(map[int]models.Bundle),
		}
		m.sessions[id] = s
		log.Printf("[session] created %s", id)
	}
	return s
}

// Drop removes a session and all its state.
func (m *Manager) Drop(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// GetOrFetchBundle memoizes the assembler per movie id: at most one
// assembler call per distinct id per session lifetime, even when the remote
// data has since changed. The session lock is held across the fetch so
// concurrent callers for the same session cannot double-fetch.
func (m *Manager) GetOrFetchBundle(ctx context.Context, s *Session, movieID int) models.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.bundles[movieID]; ok {
		metrics.BundleCacheHits.Inc()
		return b
	}
	metrics.BundleCacheMisses.Inc()
	b := m.assembler.FetchBundle(ctx, movieID)
	s.bundles[movieID] = b
	return b
}

// GetOrFetchTrending serves the single trending slot, refetching once the
// TTL has elapsed. An unavailable upstream caches an empty list for the
// same TTL; empty is a normal, displayable state.
func (m *Manager) GetOrFetchTrending(ctx context.Context, s *Session) []models.MovieSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasTrending && m.now().Sub(s.trendingAt) <= m.ttl {
		return s.trending
	}
	list, _ := m.catalog.FetchTrending(ctx)
	s.trending = list
	s.trendingAt = m.now()
	s.hasTrending = true
	return list
}

// ──────────────────── Watchlist ────────────────────

func (s *Session) AddToWatchlist(movieID int, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.watchlist {
		if e.ID == movieID {
			return
		}
	}
	s.watchlist = append(s.watchlist, WatchlistEntry{ID: movieID, Title: title})
}

func (s *Session) RemoveFromWatchlist(movieID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.watchlist {
		if e.ID == movieID {
			s.watchlist = append(s.watchlist[:i], s.watchlist[i+1:]...)
			return
		}
	}
}

func (s *Session) Watchlist() []WatchlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WatchlistEntry, len(s.watchlist))
	copy(out, s.watchlist)
	return out
}

// Clear drops every cached bundle, the trending slot and the watchlist.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles = make(map[int]models.Bundle)
	s.trending = nil
	s.hasTrending = false
	s.watchlist = nil
}
