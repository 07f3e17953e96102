package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"spendlog/internal/core"
)

// parseExpenseID reads the id path segment. Non-numeric ids are a client
// error, not a missing record.
func parseExpenseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	req, err := decodeExpenseRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	fields, err := req.toFields()
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.Create(r.Context(), fields)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create expense",
			"error", err,
			"amount", fields.Amount,
			"paid_by", fields.PaidBy,
			"category", fields.Category)
		respondError(w, r, http.StatusInternalServerError, "failed to save expense")
		return
	}

	s.invalidateStatsCaches()

	slog.InfoContext(r.Context(), "Expense created",
		"expense_id", created.ID,
		"amount", created.Amount,
		"paid_by", created.PaidBy,
		"category", created.Category)
	respondJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list expenses", "error", err)
		respondError(w, r, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, r, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid expense id")
		return
	}

	expense, err := s.store.Get(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load expense", "error", err, "expense_id", id)
		respondError(w, r, http.StatusInternalServerError, "failed to load expense")
		return
	}
	if expense == nil {
		respondError(w, r, http.StatusNotFound, "expense not found")
		return
	}
	respondJSON(w, r, http.StatusOK, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid expense id")
		return
	}

	req, err := decodeExpenseRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	fields, err := req.toFields()
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.Update(r.Context(), id, fields)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to update expense", "error", err, "expense_id", id)
		respondError(w, r, http.StatusInternalServerError, "failed to update expense")
		return
	}
	if updated == nil {
		respondError(w, r, http.StatusNotFound, "expense not found")
		return
	}

	s.invalidateStatsCaches()

	slog.InfoContext(r.Context(), "Expense updated", "expense_id", id)
	respondJSON(w, r, http.StatusOK, updated)
}

// handleDeleteExpense removes a record. Deleting an id that does not
// exist still answers 204, so retries are safe.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid expense id")
		return
	}

	deleted, err := s.store.Delete(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "expense_id", id)
		respondError(w, r, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	if deleted != nil {
		s.invalidateStatsCaches()
		slog.InfoContext(r.Context(), "Expense deleted", "expense_id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}
