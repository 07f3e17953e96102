package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"spendlog/internal/core"
)

// maxBodyBytes caps request bodies; expense payloads are tiny.
const maxBodyBytes = 1 << 20

// expenseRequest is the write payload. Every field is a pointer so a
// missing key can be told apart from a zero value; unknown keys are
// rejected outright.
type expenseRequest struct {
	Amount *float64 `json:"amount"`
	PaidBy *string  `json:"paid_by"`
	Type   *string  `json:"type"`
	Date   *string  `json:"date"`
	Notes  *string  `json:"notes"`
}

// decodeExpenseRequest parses the request body strictly: exactly one
// JSON object, no unknown fields, no trailing data.
func decodeExpenseRequest(r *http.Request) (*expenseRequest, error) {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req expenseRequest
	if err := dec.Decode(&req); err != nil {
		return nil, normalizeDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("request body must contain a single JSON object")
	}
	return &req, nil
}

func normalizeDecodeError(err error) error {
	var unmarshalErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return errors.New("request body is empty")
	case errors.As(err, &unmarshalErr):
		return fmt.Errorf("invalid value for field %q", unmarshalErr.Field)
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("request body exceeds %d bytes", maxBytesErr.Limit)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Errorf("unknown field %s", field)
	default:
		return errors.New("malformed JSON body")
	}
}

// toFields validates presence of the required keys and converts the
// payload into domain fields. Amounts may be negative (refunds).
func (req *expenseRequest) toFields() (core.ExpenseFields, error) {
	var missing []string
	if req.Amount == nil {
		missing = append(missing, "amount")
	}
	if req.PaidBy == nil {
		missing = append(missing, "paid_by")
	}
	if req.Type == nil {
		missing = append(missing, "type")
	}
	if req.Date == nil {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return core.ExpenseFields{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	date, err := core.ParseDate(strings.TrimSpace(*req.Date))
	if err != nil {
		return core.ExpenseFields{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", *req.Date)
	}

	fields := core.ExpenseFields{
		Amount:   *req.Amount,
		PaidBy:   strings.TrimSpace(*req.PaidBy),
		Category: strings.TrimSpace(*req.Type),
		Date:     date,
		Notes:    req.Notes,
	}
	if err := fields.Validate(); err != nil {
		return core.ExpenseFields{}, err
	}
	return fields, nil
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response",
			"error", err, "url", r.URL.Path)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, map[string]string{"error": message})
}
