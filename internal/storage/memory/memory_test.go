package memory

import (
	"context"
	"testing"

	"spendlog/internal/core"
)

func fields(amount float64, paidBy, category, date string) core.ExpenseFields {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.ExpenseFields{Amount: amount, PaidBy: paidBy, Category: category, Date: d}
}

func TestCreateListOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Create(ctx, fields(1, "A", "food", "2024-01-10"))
	s.Create(ctx, fields(2, "B", "food", "2024-03-01"))
	s.Create(ctx, fields(3, "C", "food", "2024-02-15"))
	last, _ := s.Create(ctx, fields(4, "D", "food", "2024-02-15"))

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-03-01", "2024-02-15", "2024-02-15", "2024-01-10"}
	for i, w := range want {
		if all[i].Date.String() != w {
			t.Fatalf("position %d: expected %s, got %s", i, w, all[i].Date.String())
		}
	}
	if all[1].ID != last.ID {
		t.Fatalf("tie-break wrong: expected id %d first, got %d", last.ID, all[1].ID)
	}
}

func TestUpdateAndDeleteContract(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, _ := s.Create(ctx, fields(10, "A", "food", "2024-01-01"))

	if got, _ := s.Update(ctx, created.ID+5, fields(1, "B", "x", "2024-01-02")); got != nil {
		t.Fatalf("expected nil for missing update, got %+v", got)
	}

	updated, _ := s.Update(ctx, created.ID, fields(20, "B", "travel", "2024-02-02"))
	if updated == nil || updated.Amount != 20 || updated.PaidBy != "B" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	snapshot, _ := s.Delete(ctx, created.ID)
	if snapshot == nil || snapshot.Amount != 20 {
		t.Fatalf("expected snapshot of current state, got %+v", snapshot)
	}
	if again, _ := s.Delete(ctx, created.ID); again != nil {
		t.Fatalf("expected nil on repeat delete, got %+v", again)
	}
	if got, _ := s.Get(ctx, created.ID); got != nil {
		t.Fatalf("deleted record still readable: %+v", got)
	}
}
