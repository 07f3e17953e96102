// Package worker consumes expense events and mirrors records to the
// configured export target. A periodic sweep re-exports anything the
// event path missed, so the sheet converges even when the broker drops
// messages.
package worker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/export"
	applog "spendlog/internal/log"
)

// maxConcurrentExports bounds the sweep fan-out so a large backlog does
// not hammer the Sheets API quota.
const maxConcurrentExports = 4

// ExportStore is the slice of the storage layer the worker needs.
type ExportStore interface {
	Get(ctx context.Context, id int64) (*core.Expense, error)
	PendingExport(ctx context.Context, limit int) ([]core.Expense, error)
	MarkExported(ctx context.Context, id int64) error
}

type ExportWorker struct {
	store     ExportStore
	exporter  export.Exporter
	logger    *applog.Logger
	batchSize int
	interval  time.Duration
}

func NewExportWorker(store ExportStore, exporter export.Exporter, logger *applog.Logger, batchSize int, interval time.Duration) *ExportWorker {
	return &ExportWorker{
		store:     store,
		exporter:  exporter,
		logger:    logger.WithComponent(applog.ComponentWorker),
		batchSize: batchSize,
		interval:  interval,
	}
}

// HandleEvent exports the record named by an expense event. Events carry
// only the id, so the current row is always fetched from storage; a
// record deleted between publish and consume is treated as a delete.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.ExpenseEvent) error {
	w.logger.InfoContext(ctx, "Processing expense event",
		applog.FieldExpenseID, event.ID,
		applog.FieldAction, string(event.Action))

	switch event.Action {
	case amqp.ActionDeleted:
		if err := w.exporter.RemoveExpense(ctx, event.ID); err != nil {
			return fmt.Errorf("remove expense %d: %w", event.ID, err)
		}
		return nil
	case amqp.ActionCreated, amqp.ActionUpdated:
		expense, err := w.store.Get(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("load expense %d: %w", event.ID, err)
		}
		if expense == nil {
			// Deleted before we got here; the delete event handles the sheet.
			w.logger.WarnContext(ctx, "Expense vanished before export",
				applog.FieldExpenseID, event.ID)
			return nil
		}
		return w.exportExpense(ctx, *expense, event.Action == amqp.ActionUpdated)
	default:
		return fmt.Errorf("unknown action %q for expense %d", event.Action, event.ID)
	}
}

// exportExpense writes one record to the target and marks it exported.
// Updates clear the stale row first so the sheet never holds two rows
// for the same id.
func (w *ExportWorker) exportExpense(ctx context.Context, expense core.Expense, replace bool) error {
	if replace {
		if err := w.exporter.RemoveExpense(ctx, expense.ID); err != nil {
			return fmt.Errorf("remove stale row for expense %d: %w", expense.ID, err)
		}
	}
	if err := w.exporter.AppendExpense(ctx, expense); err != nil {
		return fmt.Errorf("append expense %d: %w", expense.ID, err)
	}
	if err := w.store.MarkExported(ctx, expense.ID); err != nil {
		return fmt.Errorf("mark expense %d exported: %w", expense.ID, err)
	}
	return nil
}

// RunSweep periodically exports pending records until ctx is cancelled.
// One sweep runs immediately on start.
func (w *ExportWorker) RunSweep(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "Export sweep started",
		"interval", w.interval,
		"batch_size", w.batchSize)

	if err := w.SweepOnce(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Export sweep failed", applog.FieldError, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Export sweep stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.SweepOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Export sweep failed", applog.FieldError, err)
			}
		}
	}
}

// SweepOnce exports up to batchSize pending records concurrently.
// Pending rows may have a stale copy in the target (updates re-queue the
// record), so every row is exported as remove-then-append.
func (w *ExportWorker) SweepOnce(ctx context.Context) error {
	pending, err := w.store.PendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Sweeping pending exports", "count", len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentExports)
	for _, expense := range pending {
		g.Go(func() error {
			return w.exportExpense(gctx, expense, true)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("sweep batch: %w", err)
	}
	return nil
}
