package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spendlog/internal/core"
	"spendlog/internal/store"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable record store. SQLite serializes
// conflicting writes internally, so no additional locking is layered on
// top; every call acquires a pooled connection for its own duration.
type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const expenseColumns = "id, amount, paid_by, category, expense_date, notes"

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
		notes   sql.NullString
	)
	err := row.Scan(&e.ID, &e.Amount, &e.PaidBy, &e.Category, &dateStr, &notes)
	if err != nil {
		return core.Expense{}, err
	}
	e.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	return e, nil
}

func notesValue(f core.ExpenseFields) any {
	if f.Notes == nil {
		return nil
	}
	return *f.Notes
}

// Get returns the record with the given id, or nil when absent.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// ListAll returns every record, newest date first, id descending on
// equal dates.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses ORDER BY expense_date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// Create inserts a new record and returns it with the assigned id.
func (r *SQLiteRepository) Create(ctx context.Context, f core.ExpenseFields) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO expenses (amount, paid_by, category, expense_date, notes)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+expenseColumns,
		f.Amount, f.PaidBy, f.Category, f.Date.String(), notesValue(f))
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"amount", e.Amount,
		"paid_by", e.PaidBy,
		"category", e.Category,
		"date", e.Date.String())
	return e, nil
}

// Update overwrites every field of an existing record. A fresh update
// re-enters the export queue. Returns nil when id is absent.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, f core.ExpenseFields) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE expenses
		 SET amount = ?, paid_by = ?, category = ?, expense_date = ?, notes = ?, exported = 0
		 WHERE id = ?
		 RETURNING `+expenseColumns,
		f.Amount, f.PaidBy, f.Category, f.Date.String(), notesValue(f), id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return &e, nil
}

// Delete removes a record and returns its pre-deletion snapshot, or nil
// when id is absent.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"DELETE FROM expenses WHERE id = ? RETURNING "+expenseColumns, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete expense: %w", err)
	}
	return &e, nil
}

// PendingExport returns up to limit records not yet mirrored to the
// export target, oldest first so the sheet stays roughly chronological.
func (r *SQLiteRepository) PendingExport(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE exported = 0 ORDER BY id ASC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("pending export: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending expenses: %w", err)
	}
	return expenses, nil
}

// MarkExported records that an expense reached the export target.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET exported = 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	slog.DebugContext(ctx, "Expense marked exported", "id", id)
	return nil
}
