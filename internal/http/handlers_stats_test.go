package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"spendlog/internal/core"
)

func seedScenario(t *testing.T, s *Server) {
	t.Helper()
	seeds := []struct {
		amount float64
		paidBy string
		typ    string
		date   string
	}{
		{50, "Alice", "food", "2024-01-05"},
		{30, "Bob", "food", "2024-01-20"},
		{20, "Alice", "travel", "2024-02-01"},
	}
	for _, seed := range seeds {
		body := fmt.Sprintf(`{"amount": %g, "paid_by": "%s", "type": "%s", "date": "%s"}`,
			seed.amount, seed.paidBy, seed.typ, seed.date)
		if rec := doRequest(t, s, http.MethodPost, "/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d: %s", rec.Code, rec.Body.String())
		}
	}
}

func getOverall(t *testing.T, s *Server) core.OverallStats {
	t.Helper()
	rec := doRequest(t, s, http.MethodGet, "/stats/overall", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	var stats core.OverallStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	return stats
}

func TestOverallStats(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	seedScenario(t, s)

	stats := getOverall(t, s)
	if stats.Total != 100 {
		t.Fatalf("expected total 100, got %g", stats.Total)
	}
	wantMonths := []core.MonthTotal{{Month: "2024-01", Total: 80}, {Month: "2024-02", Total: 20}}
	if len(stats.ByMonth) != len(wantMonths) {
		t.Fatalf("expected %d months, got %+v", len(wantMonths), stats.ByMonth)
	}
	for i, want := range wantMonths {
		if stats.ByMonth[i] != want {
			t.Fatalf("month %d: expected %+v, got %+v", i, want, stats.ByMonth[i])
		}
	}
	if stats.ByUser[0].User != "Alice" || stats.ByUser[0].Total != 70 {
		t.Fatalf("expected Alice first with 70, got %+v", stats.ByUser)
	}
	if stats.ByCategory[0].Category != "food" || stats.ByCategory[0].Total != 80 {
		t.Fatalf("expected food first with 80, got %+v", stats.ByCategory)
	}
}

func TestOverallStatsEmptyLedger(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())

	stats := getOverall(t, s)
	if stats.Total != 0 {
		t.Fatalf("expected zero total, got %g", stats.Total)
	}
	if stats.ByMonth == nil || stats.ByUser == nil || stats.ByCategory == nil {
		t.Fatalf("grouped views must be empty arrays, got %+v", stats)
	}
}

func TestStatsCacheInvalidatedByWrites(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	seedScenario(t, s)

	if got := getOverall(t, s); got.Total != 100 {
		t.Fatalf("expected total 100, got %g", got.Total)
	}
	// Second read is served from cache.
	if got := getOverall(t, s); got.Total != 100 {
		t.Fatalf("cached read: expected total 100, got %g", got.Total)
	}

	rec := doRequest(t, s, http.MethodPost, "/expenses",
		`{"amount": 10, "paid_by": "Carol", "type": "food", "date": "2024-02-10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}

	if got := getOverall(t, s); got.Total != 110 {
		t.Fatalf("stats must reflect the write immediately, expected 110, got %g", got.Total)
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	seedScenario(t, s)

	rec := doRequest(t, s, http.MethodGet, "/stats/monthly_breakdown", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var breakdown []core.MonthBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 months, got %d", len(breakdown))
	}
	// Most recent month first.
	if breakdown[0].Month != "2024-02" || breakdown[1].Month != "2024-01" {
		t.Fatalf("expected descending months, got %+v", breakdown)
	}
	jan := breakdown[1]
	if len(jan.ByUser) != 2 || jan.ByUser[0].User != "Alice" || jan.ByUser[0].Total != 50 {
		t.Fatalf("unexpected January users: %+v", jan.ByUser)
	}
	if len(jan.ByCategory) != 1 || jan.ByCategory[0].Category != "food" || jan.ByCategory[0].Total != 80 {
		t.Fatalf("unexpected January categories: %+v", jan.ByCategory)
	}
}

func TestMonthlyBreakdownEmptyLedger(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())

	rec := doRequest(t, s, http.MethodGet, "/stats/monthly_breakdown", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var breakdown []core.MonthBreakdown
	if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if len(breakdown) != 0 {
		t.Fatalf("expected no months, got %+v", breakdown)
	}
}

func TestStatsAfterDelete(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown(context.Background())
	seedScenario(t, s)

	list := doRequest(t, s, http.MethodGet, "/expenses", "")
	var expenses []core.Expense
	if err := json.Unmarshal(list.Body.Bytes(), &expenses); err != nil {
		t.Fatalf("decode list: %v", err)
	}

	// Warm the cache, then delete the most recent record.
	if got := getOverall(t, s); got.Total != 100 {
		t.Fatalf("expected total 100, got %g", got.Total)
	}
	rec := doRequest(t, s, http.MethodDelete, fmt.Sprintf("/expenses/%d", expenses[0].ID), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d", rec.Code)
	}

	if got := getOverall(t, s); got.Total != 80 {
		t.Fatalf("expected total 80 after delete, got %g", got.Total)
	}
}
