// Package store defines the record store port consumed by the HTTP
// layer and the expense service. Absence of a record is represented by
// a nil result, not an error; only genuine store failures return one.
package store

import (
	"context"

	"spendlog/internal/core"
)

type Store interface {
	// Get returns the record with the given id, or nil if none exists.
	Get(ctx context.Context, id int64) (*core.Expense, error)

	// ListAll returns every record ordered by date descending, id
	// descending on equal dates. The order is stable for fixed data.
	ListAll(ctx context.Context) ([]core.Expense, error)

	// Create inserts a new record and returns it with the assigned id.
	Create(ctx context.Context, fields core.ExpenseFields) (core.Expense, error)

	// Update overwrites every field of an existing record and returns
	// the result, or nil without mutating anything if id is absent.
	Update(ctx context.Context, id int64, fields core.ExpenseFields) (*core.Expense, error)

	// Delete removes a record and returns its pre-deletion snapshot, or
	// nil if id is absent.
	Delete(ctx context.Context, id int64) (*core.Expense, error)
}

// Pinger reports whether the underlying store is reachable. Implemented
// by backends that hold a real connection; used by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
