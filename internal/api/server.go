package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mseals/cinematch/internal/config"
	"github.com/mseals/cinematch/internal/session"
	"github.com/mseals/cinematch/internal/similarity"
)

const sessionCookie = "cinematch_session"

type Server struct {
	config   *config.Config
	index    *similarity.Index
	sessions *session.Manager
	version  string
	router   chi.Router
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func NewServer(cfg *config.Config, index *similarity.Index, sessions *session.Manager, version string) *Server {
	s := &Server{
		config:   cfg,
		index:    index,
		sessions: sessions,
		version:  version,
		router:   chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/api/v1/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/movies", s.handleListMovies)
		r.Get("/movies/{id}", s.handleGetBundle)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/trending", s.handleTrending)
		r.Get("/watchlist", s.handleGetWatchlist)
		r.Post("/watchlist", s.handleAddToWatchlist)
		r.Delete("/watchlist/{id}", s.handleRemoveFromWatchlist)
		r.Delete("/session", s.handleClearSession)
	})
}

// ──────────────────── Session middleware ────────────────────

type contextKey string

const sessionKey contextKey = "session"

// withSession attaches the caller's session to the request context,
// minting a new session cookie on first contact.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id uuid.UUID
		if c, err := r.Cookie(sessionCookie); err == nil {
			id, _ = uuid.Parse(c.Value)
		}
		if id == uuid.Nil {
			id = uuid.New()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		sess := s.sessions.Session(id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func (s *Server) session(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey).(*session.Session)
}

// ──────────────────── JSON helpers ────────────────────

func (s *Server) respondJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, Response{Success: false, Error: msg})
}
