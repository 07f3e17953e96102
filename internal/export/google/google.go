// Package google mirrors expense records into a Google Sheet using a
// service account. The sheet is a write-only export target: one row per
// record, id in the first column.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"spendlog/internal/core"
	"spendlog/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.Exporter = (*Client)(nil)

// NewFromEnv creates a Sheets exporter from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME
// (default "Expenses").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Expenses"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendExpense appends one row: id, date, amount, paid_by, type, notes.
func (c *Client) AppendExpense(ctx context.Context, e core.Expense) error {
	notes := ""
	if e.Notes != nil {
		notes = *e.Notes
	}
	values := &gsheet.ValueRange{
		Values: [][]any{{
			strconv.FormatInt(e.ID, 10),
			e.Date.String(),
			e.Amount,
			e.PaidBy,
			e.Category,
			notes,
		}},
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:F", values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	slog.InfoContext(ctx, "Expense exported to sheet",
		"id", e.ID,
		"sheet", c.sheetName)
	return nil
}

// RemoveExpense clears the row whose first column matches id. Ids never
// exported are silently ignored.
func (c *Client) RemoveExpense(ctx context.Context, id int64) error {
	rowIndex, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	if rowIndex == 0 {
		slog.WarnContext(ctx, "Expense not found in sheet, nothing to remove",
			"id", id, "sheet", c.sheetName)
		return nil
	}

	rowRange := fmt.Sprintf("%s!A%d:F%d", c.sheetName, rowIndex, rowIndex)
	_, err = c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, rowRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear row %d: %w", rowIndex, err)
	}

	slog.InfoContext(ctx, "Expense removed from sheet",
		"id", id,
		"row", rowIndex,
		"sheet", c.sheetName)
	return nil
}

// findRow returns the 1-based sheet row holding id, or 0 if absent.
func (c *Client) findRow(ctx context.Context, id int64) (int, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!A:A").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("read id column: %w", err)
	}

	want := strconv.FormatInt(id, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if cell, ok := row[0].(string); ok && cell == want {
			return i + 1, nil
		}
	}
	return 0, nil
}
