// Package export defines the outbound port for mirroring the ledger to
// an external target, plus its implementations.
package export

import (
	"context"

	"spendlog/internal/core"
)

// Exporter mirrors expense records to an external target. Implementations
// must be safe to call with the same record more than once: the worker
// retries on failure and the sweep may race a queued event.
type Exporter interface {
	// AppendExpense adds a record to the target.
	AppendExpense(ctx context.Context, e core.Expense) error

	// RemoveExpense removes the record with the given id from the
	// target. Removing an id that was never exported is a no-op.
	RemoveExpense(ctx context.Context, id int64) error
}
