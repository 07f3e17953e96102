// Package http exposes the expense ledger as a JSON API: CRUD over
// /expenses plus the aggregated views under /stats.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendlog/internal/cache"
	"spendlog/internal/core"
	"spendlog/internal/store"
)

const (
	overallCacheKey   = "overall"
	breakdownCacheKey = "monthly_breakdown"

	// Stats caches are invalidated on every write; the TTL only guards
	// against a missed invalidation.
	statsCacheTTL = 5 * time.Minute
)

type Server struct {
	http.Server
	store          store.Store
	allowedOrigins []string
	rateLimiter    *rateLimiter

	overallCache   *cache.LRUCache[core.OverallStats]
	breakdownCache *cache.LRUCache[[]core.MonthBreakdown]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. allowedOrigins is the CORS allow-list; origins not on it
// get no CORS headers at all.
func NewServer(addr string, st store.Store, allowedOrigins []string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:            st,
		allowedOrigins:   allowedOrigins,
		rateLimiter:      newRateLimiter(),
		overallCache:     cache.NewLRUCache[core.OverallStats](4, statsCacheTTL),
		breakdownCache:   cache.NewLRUCache[[]core.MonthBreakdown](4, statsCacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /{$}", s.withMiddleware(s.handleRoot))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("POST /expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("GET /expenses/{id}", s.withMiddleware(s.handleGetExpense))
	mux.HandleFunc("PUT /expenses/{id}", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("GET /stats/overall", s.withMiddleware(s.handleOverallStats))
	mux.HandleFunc("GET /stats/monthly_breakdown", s.withMiddleware(s.handleMonthlyBreakdown))
	mux.HandleFunc("OPTIONS /", s.withMiddleware(s.handlePreflight))

	return s
}

// startCacheCleanup evicts expired stats entries in the background.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			overallCleaned := s.overallCache.CleanExpired()
			breakdownCleaned := s.breakdownCache.CleanExpired()
			if overallCleaned > 0 || breakdownCleaned > 0 {
				slog.Debug("Cache cleanup completed",
					"overall_entries_removed", overallCleaned,
					"breakdown_entries_removed", breakdownCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// invalidateStatsCaches drops both cached views. Called on every
// successful write so stats never serve stale totals.
func (s *Server) invalidateStatsCaches() {
	s.overallCache.Delete(overallCacheKey)
	s.breakdownCache.Delete(breakdownCacheKey)
}

// Shutdown stops the cleanup goroutines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"message": "spendlog expense tracker"})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports readiness, probing the store when it exposes a
// connection to probe.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if pinger, ok := s.store.(store.Pinger); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Readiness probe failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("store unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handlePreflight answers CORS preflight requests. The actual CORS
// headers are attached by the middleware for allowed origins.
func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
