package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mseals/cinematch/internal/metrics"
	"github.com/mseals/cinematch/internal/similarity"
)

// defaultTrendingLimit caps the trending list at the presentation boundary;
// the session cache holds the full catalog list.
const defaultTrendingLimit = 8

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"version": s.version,
		"catalog": s.index.Size(),
	}})
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	titles := s.index.Titles()
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"titles": titles,
		"total":  len(titles),
	}})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		s.respondError(w, http.StatusBadRequest, "title parameter required")
		return
	}

	start := time.Now()
	recs, err := s.index.Recommend(title)
	metrics.RecommendLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, similarity.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "title not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: recs})
}

func (s *Server) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || movieID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	b := s.sessions.GetOrFetchBundle(r.Context(), s.session(r), movieID)
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: b})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultTrendingLimit
	}

	list := s.sessions.GetOrFetchTrending(r.Context(), s.session(r))
	if len(list) > limit {
		list = list[:limit]
	}
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"results": list,
		"total":   len(list),
	}})
}

// ──────────────────── Watchlist ────────────────────

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, Response{Success: true, Data: s.session(r).Watchlist()})
}

func (s *Server) handleAddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID <= 0 || req.Title == "" {
		s.respondError(w, http.StatusBadRequest, "id and title required")
		return
	}
	s.session(r).AddToWatchlist(req.ID, req.Title)
	s.respondJSON(w, http.StatusCreated, Response{Success: true})
}

func (s *Server) handleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	s.session(r).RemoveFromWatchlist(movieID)
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	sess.Clear()
	s.sessions.Drop(sess.ID)
	s.respondJSON(w, http.StatusOK, Response{Success: true})
}
