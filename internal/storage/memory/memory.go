// Package memory provides a mutex-guarded in-memory record store. It
// backs the memory data backend and the HTTP handler tests, honoring
// the same ordering and not-found contract as the SQLite store.
package memory

import (
	"context"
	"sort"
	"sync"

	"spendlog/internal/core"
	"spendlog/internal/store"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Get(_ context.Context, id int64) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.items {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Store) ListAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) Create(_ context.Context, f core.ExpenseFields) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := core.Expense{ID: s.nextID, ExpenseFields: f}
	s.nextID++
	s.items = append(s.items, e)
	return e, nil
}

func (s *Store) Update(_ context.Context, id int64, f core.ExpenseFields) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].ExpenseFields = f
			copied := s.items[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Store) Delete(_ context.Context, id int64) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			snapshot := s.items[i]
			s.items = append(s.items[:i], s.items[i+1:]...)
			return &snapshot, nil
		}
	}
	return nil, nil
}
