// Package memory is an in-memory export target used by worker tests.
package memory

import (
	"context"
	"sync"

	"spendlog/internal/core"
	"spendlog/internal/export"
)

type Exporter struct {
	mu   sync.Mutex
	rows map[int64]core.Expense
}

var _ export.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{rows: make(map[int64]core.Expense)}
}

func (e *Exporter) AppendExpense(_ context.Context, exp core.Expense) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows[exp.ID] = exp
	return nil
}

func (e *Exporter) RemoveExpense(_ context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rows, id)
	return nil
}

// Rows returns a copy of the exported records keyed by id.
func (e *Exporter) Rows() map[int64]core.Expense {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[int64]core.Expense, len(e.rows))
	for id, exp := range e.rows {
		out[id] = exp
	}
	return out
}
