package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/store"
)

// EventPublisher publishes expense events for the export pipeline.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event *amqp.ExpenseEvent) error
}

// ExpenseService wraps a record store and announces every successful
// write on the event bus. Publishing is best-effort: the write already
// happened, so a broker failure is logged and swallowed. The periodic
// export sweep picks up anything that slips through.
type ExpenseService struct {
	store     store.Store
	publisher EventPublisher
}

var _ store.Store = (*ExpenseService)(nil)

// NewExpenseService creates a service over the given store. publisher
// may be nil, which disables event publishing entirely.
func NewExpenseService(s store.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{store: s, publisher: publisher}
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (*core.Expense, error) {
	return s.store.Get(ctx, id)
}

func (s *ExpenseService) ListAll(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListAll(ctx)
}

func (s *ExpenseService) Create(ctx context.Context, fields core.ExpenseFields) (core.Expense, error) {
	created, err := s.store.Create(ctx, fields)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.publish(ctx, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *ExpenseService) Update(ctx context.Context, id int64, fields core.ExpenseFields) (*core.Expense, error) {
	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	if updated != nil {
		s.publish(ctx, id, amqp.ActionUpdated)
	}
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) (*core.Expense, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete expense: %w", err)
	}
	if deleted != nil {
		s.publish(ctx, id, amqp.ActionDeleted)
	}
	return deleted, nil
}

func (s *ExpenseService) publish(ctx context.Context, id int64, action amqp.Action) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(id, action)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"error", err, "id", id, "action", action)
	}
}
