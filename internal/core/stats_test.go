package core

import (
	"math"
	"testing"
)

func expense(amount float64, paidBy, category, date string) Expense {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Expense{ExpenseFields: ExpenseFields{
		Amount:   amount,
		PaidBy:   paidBy,
		Category: category,
		Date:     d,
	}}
}

func sampleRecords() []Expense {
	return []Expense{
		expense(50, "A", "food", "2024-01-05"),
		expense(30, "B", "food", "2024-01-20"),
		expense(20, "A", "travel", "2024-02-01"),
	}
}

func TestComputeOverallStatsEmpty(t *testing.T) {
	stats := ComputeOverallStats(nil)
	if stats.Total != 0.0 {
		t.Fatalf("expected zero total, got %v", stats.Total)
	}
	if stats.ByMonth == nil || len(stats.ByMonth) != 0 {
		t.Fatalf("expected empty by_month, got %v", stats.ByMonth)
	}
	if stats.ByUser == nil || len(stats.ByUser) != 0 {
		t.Fatalf("expected empty by_user, got %v", stats.ByUser)
	}
	if stats.ByCategory == nil || len(stats.ByCategory) != 0 {
		t.Fatalf("expected empty by_category, got %v", stats.ByCategory)
	}
}

func TestComputeOverallStatsScenario(t *testing.T) {
	stats := ComputeOverallStats(sampleRecords())

	if stats.Total != 100.0 {
		t.Fatalf("expected total 100.0, got %v", stats.Total)
	}

	wantMonths := []MonthTotal{{"2024-01", 80.0}, {"2024-02", 20.0}}
	if len(stats.ByMonth) != len(wantMonths) {
		t.Fatalf("expected %d months, got %d", len(wantMonths), len(stats.ByMonth))
	}
	for i, want := range wantMonths {
		if stats.ByMonth[i] != want {
			t.Fatalf("by_month[%d]: expected %+v, got %+v", i, want, stats.ByMonth[i])
		}
	}

	wantUsers := []UserTotal{{"A", 70.0}, {"B", 30.0}}
	for i, want := range wantUsers {
		if stats.ByUser[i] != want {
			t.Fatalf("by_user[%d]: expected %+v, got %+v", i, want, stats.ByUser[i])
		}
	}

	wantCats := []CategoryTotal{{"food", 80.0}, {"travel", 20.0}}
	for i, want := range wantCats {
		if stats.ByCategory[i] != want {
			t.Fatalf("by_category[%d]: expected %+v, got %+v", i, want, stats.ByCategory[i])
		}
	}
}

// Every grouped view must partition the same total.
func TestComputeOverallStatsPartition(t *testing.T) {
	records := []Expense{
		expense(12.5, "A", "food", "2023-11-02"),
		expense(-4.25, "B", "food", "2023-11-15"),
		expense(100, "C", "rent", "2023-12-01"),
		expense(3.75, "A", "travel", "2024-01-09"),
	}
	stats := ComputeOverallStats(records)

	sum := func(totals []float64) float64 {
		var s float64
		for _, v := range totals {
			s += v
		}
		return s
	}

	var months, users, cats []float64
	for _, m := range stats.ByMonth {
		months = append(months, m.Total)
	}
	for _, u := range stats.ByUser {
		users = append(users, u.Total)
	}
	for _, c := range stats.ByCategory {
		cats = append(cats, c.Total)
	}

	for name, got := range map[string]float64{
		"by_month":    sum(months),
		"by_user":     sum(users),
		"by_category": sum(cats),
	} {
		if math.Abs(got-stats.Total) > 1e-9 {
			t.Fatalf("%s sums to %v, total is %v", name, got, stats.Total)
		}
	}
}

func TestComputeOverallStatsOrdering(t *testing.T) {
	records := []Expense{
		expense(10, "B", "x", "2024-03-01"),
		expense(10, "A", "y", "2024-01-01"),
		expense(25, "C", "z", "2024-02-01"),
	}
	stats := ComputeOverallStats(records)

	// Months ascend chronologically.
	for i := 1; i < len(stats.ByMonth); i++ {
		if stats.ByMonth[i-1].Month >= stats.ByMonth[i].Month {
			t.Fatalf("by_month not ascending: %+v", stats.ByMonth)
		}
	}
	// Users descend by total, ties broken by name ascending.
	want := []UserTotal{{"C", 25}, {"A", 10}, {"B", 10}}
	for i, w := range want {
		if stats.ByUser[i] != w {
			t.Fatalf("by_user[%d]: expected %+v, got %+v", i, w, stats.ByUser[i])
		}
	}
}

func TestComputeMonthlyBreakdown(t *testing.T) {
	breakdown := ComputeMonthlyBreakdown(sampleRecords())

	if len(breakdown) != 2 {
		t.Fatalf("expected 2 months, got %d", len(breakdown))
	}
	// Most recent month first.
	if breakdown[0].Month != "2024-02" || breakdown[1].Month != "2024-01" {
		t.Fatalf("unexpected month order: %s, %s", breakdown[0].Month, breakdown[1].Month)
	}

	feb := breakdown[0]
	if len(feb.ByUser) != 1 || feb.ByUser[0] != (UserTotal{"A", 20.0}) {
		t.Fatalf("unexpected feb by_user: %+v", feb.ByUser)
	}
	if len(feb.ByCategory) != 1 || feb.ByCategory[0] != (CategoryTotal{"travel", 20.0}) {
		t.Fatalf("unexpected feb by_category: %+v", feb.ByCategory)
	}

	jan := breakdown[1]
	if len(jan.ByUser) != 2 {
		t.Fatalf("expected 2 jan users, got %+v", jan.ByUser)
	}
	if jan.ByUser[0] != (UserTotal{"A", 50.0}) || jan.ByUser[1] != (UserTotal{"B", 30.0}) {
		t.Fatalf("unexpected jan by_user: %+v", jan.ByUser)
	}
	if len(jan.ByCategory) != 1 || jan.ByCategory[0] != (CategoryTotal{"food", 80.0}) {
		t.Fatalf("unexpected jan by_category: %+v", jan.ByCategory)
	}
}

func TestComputeMonthlyBreakdownEmpty(t *testing.T) {
	breakdown := ComputeMonthlyBreakdown(nil)
	if breakdown == nil || len(breakdown) != 0 {
		t.Fatalf("expected empty breakdown, got %v", breakdown)
	}
}

// The breakdown's month set must equal the overall stats month set.
func TestBreakdownMonthsMatchOverall(t *testing.T) {
	records := []Expense{
		expense(5, "A", "food", "2023-06-10"),
		expense(7, "B", "travel", "2023-08-01"),
		expense(9, "A", "rent", "2024-01-01"),
	}
	stats := ComputeOverallStats(records)
	breakdown := ComputeMonthlyBreakdown(records)

	overall := map[string]bool{}
	for _, m := range stats.ByMonth {
		overall[m.Month] = true
	}
	if len(breakdown) != len(overall) {
		t.Fatalf("month count mismatch: %d vs %d", len(breakdown), len(overall))
	}
	for _, entry := range breakdown {
		if !overall[entry.Month] {
			t.Fatalf("month %s missing from overall stats", entry.Month)
		}
	}
}
