package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no time-of-day component. It marshals
	// as YYYY-MM-DD on the wire and groups by year-month in aggregations.
	Date struct {
		time.Time
	}

	// ExpenseFields holds every caller-supplied field of an expense
	// record. Updates overwrite all of them; there is no partial patch.
	ExpenseFields struct {
		Amount   float64 `json:"amount"`
		PaidBy   string  `json:"paid_by"`
		Category string  `json:"type"`
		Date     Date    `json:"date"`
		Notes    *string `json:"notes"`
	}

	// Expense is a persisted expense record. The store assigns ID on
	// creation; it is immutable afterwards.
	Expense struct {
		ID int64 `json:"id"`
		ExpenseFields
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyPaidBy   = errors.New("empty paid_by")
	ErrEmptyCategory = errors.New("empty type")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthKey returns the year-month grouping key, e.g. "2024-01".
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks field presence only. The amount is deliberately
// unconstrained: negative values represent refunds.
func (f ExpenseFields) Validate() error {
	if err := f.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(f.PaidBy) == "" {
		return ErrEmptyPaidBy
	}
	if strings.TrimSpace(f.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
