package http

import (
	"log/slog"
	"net/http"

	"spendlog/internal/core"
)

func (s *Server) handleOverallStats(w http.ResponseWriter, r *http.Request) {
	if stats, found := s.overallCache.Get(overallCacheKey); found {
		slog.DebugContext(r.Context(), "Overall stats cache hit")
		respondJSON(w, r, http.StatusOK, stats)
		return
	}

	expenses, err := s.store.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load expenses for stats", "error", err)
		respondError(w, r, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	stats := core.ComputeOverallStats(expenses)
	s.overallCache.Set(overallCacheKey, stats)
	respondJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleMonthlyBreakdown(w http.ResponseWriter, r *http.Request) {
	if breakdown, found := s.breakdownCache.Get(breakdownCacheKey); found {
		slog.DebugContext(r.Context(), "Monthly breakdown cache hit")
		respondJSON(w, r, http.StatusOK, breakdown)
		return
	}

	expenses, err := s.store.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load expenses for breakdown", "error", err)
		respondError(w, r, http.StatusInternalServerError, "failed to compute breakdown")
		return
	}

	breakdown := core.ComputeMonthlyBreakdown(expenses)
	s.breakdownCache.Set(breakdownCacheKey, breakdown)
	respondJSON(w, r, http.StatusOK, breakdown)
}
