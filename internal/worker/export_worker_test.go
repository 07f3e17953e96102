package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	exportmem "spendlog/internal/export/memory"
	applog "spendlog/internal/log"
)

type fakeStore struct {
	mu       sync.Mutex
	records  map[int64]core.Expense
	pending  []int64
	exported []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[int64]core.Expense)}
}

func (s *fakeStore) add(e core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[e.ID] = e
	s.pending = append(s.pending, e.ID)
}

func (s *fakeStore) Get(_ context.Context, id int64) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.records[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *fakeStore) PendingExport(_ context.Context, limit int) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, id := range s.pending {
		if len(out) == limit {
			break
		}
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *fakeStore) MarkExported(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	s.exported = append(s.exported, id)
	return nil
}

func testExpense(id int64, amount float64, date string) core.Expense {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Expense{
		ID: id,
		ExpenseFields: core.ExpenseFields{
			Amount:   amount,
			PaidBy:   "Alice",
			Category: "food",
			Date:     d,
		},
	}
}

func newTestWorker(store ExportStore, target *exportmem.Exporter) *ExportWorker {
	return NewExportWorker(store, target, applog.New(applog.DefaultConfig()), 10, time.Second)
}

func TestHandleEventCreated(t *testing.T) {
	store := newFakeStore()
	store.add(testExpense(1, 42.5, "2024-03-01"))
	target := exportmem.New()
	w := newTestWorker(store, target)

	event := amqp.NewExpenseEvent(1, amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle created: %v", err)
	}

	rows := target.Rows()
	if got, ok := rows[1]; !ok || got.Amount != 42.5 {
		t.Fatalf("expected exported row for id 1, got %+v", rows)
	}
	if len(store.exported) != 1 || store.exported[0] != 1 {
		t.Fatalf("expected id 1 marked exported, got %v", store.exported)
	}
}

func TestHandleEventUpdatedReplacesRow(t *testing.T) {
	store := newFakeStore()
	store.add(testExpense(1, 99, "2024-03-01"))
	target := exportmem.New()
	if err := target.AppendExpense(context.Background(), testExpense(1, 10, "2024-01-01")); err != nil {
		t.Fatalf("seed target: %v", err)
	}
	w := newTestWorker(store, target)

	event := amqp.NewExpenseEvent(1, amqp.ActionUpdated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle updated: %v", err)
	}

	rows := target.Rows()
	if len(rows) != 1 || rows[1].Amount != 99 {
		t.Fatalf("expected single row with updated amount, got %+v", rows)
	}
}

func TestHandleEventDeleted(t *testing.T) {
	store := newFakeStore()
	target := exportmem.New()
	if err := target.AppendExpense(context.Background(), testExpense(7, 5, "2024-02-02")); err != nil {
		t.Fatalf("seed target: %v", err)
	}
	w := newTestWorker(store, target)

	event := amqp.NewExpenseEvent(7, amqp.ActionDeleted)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle deleted: %v", err)
	}
	if rows := target.Rows(); len(rows) != 0 {
		t.Fatalf("expected empty target, got %+v", rows)
	}
}

func TestHandleEventVanishedRecord(t *testing.T) {
	store := newFakeStore()
	target := exportmem.New()
	w := newTestWorker(store, target)

	event := amqp.NewExpenseEvent(404, amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("vanished record must not fail the event, got %v", err)
	}
	if rows := target.Rows(); len(rows) != 0 {
		t.Fatalf("nothing should be exported, got %+v", rows)
	}
}

func TestSweepOnceExportsAllPending(t *testing.T) {
	store := newFakeStore()
	for i := int64(1); i <= 6; i++ {
		store.add(testExpense(i, float64(i), "2024-05-01"))
	}
	target := exportmem.New()
	w := newTestWorker(store, target)

	if err := w.SweepOnce(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	rows := target.Rows()
	if len(rows) != 6 {
		t.Fatalf("expected 6 exported rows, got %d", len(rows))
	}
	if len(store.pending) != 0 {
		t.Fatalf("expected no pending records, got %v", store.pending)
	}
}

func TestSweepOnceHonorsBatchSize(t *testing.T) {
	store := newFakeStore()
	for i := int64(1); i <= 5; i++ {
		store.add(testExpense(i, float64(i), "2024-05-01"))
	}
	target := exportmem.New()
	w := NewExportWorker(store, target, applog.New(applog.DefaultConfig()), 2, time.Second)

	if err := w.SweepOnce(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if got := len(target.Rows()); got != 2 {
		t.Fatalf("expected batch of 2 exported, got %d", got)
	}
	if len(store.pending) != 3 {
		t.Fatalf("expected 3 still pending, got %v", store.pending)
	}
}
