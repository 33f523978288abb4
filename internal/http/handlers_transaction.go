package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"spendsmart/internal/core"
	"spendsmart/internal/storage"
)

type transactionRequest struct {
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD, empty for no date
}

type transactionResponse struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Date        string `json:"date,omitempty"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:          tx.ID,
		Amount:      tx.Amount.Decimal(),
		AmountCents: tx.Amount.Cents,
		Type:        string(tx.Type),
		Category:    tx.Category,
	}
	if tx.HasDate() {
		resp.Date = tx.Date.Format(jsonDateLayout)
	}
	return resp
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTransaction(w, r, id)
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, ok := s.transactionFromRequest(w, req)
	if !ok {
		return
	}

	saved, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.overviewCache.Purge()
	writeJSON(w, http.StatusCreated, toTransactionResponse(saved))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	var f storage.Filter

	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		t := core.TransactionType(v)
		if err := t.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid type '"+v+"'")
			return
		}
		f.Type = t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" || r.URL.Query().Get("month") != "" {
		year, month, err := parseYearMonth(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.From, f.To = core.MonthBounds(year, month)
	}

	txs, err := s.ledger.ListTransactions(r.Context(), f)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request, id string) {
	tx, err := s.ledger.GetTransaction(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get transaction failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, ok := s.transactionFromRequest(w, req)
	if !ok {
		return
	}

	err := s.ledger.UpdateTransaction(r.Context(), id, tx.Amount, tx.Category, tx.Date)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Update transaction failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}

	s.overviewCache.Purge()
	updated, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Reload updated transaction failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	err := s.ledger.DeleteTransaction(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.overviewCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

// transactionFromRequest validates and converts the request payload. It
// writes the error response itself and reports ok=false when invalid.
func (s *Server) transactionFromRequest(w http.ResponseWriter, req transactionRequest) (core.Transaction, bool) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount '"+req.Amount+"'")
		return core.Transaction{}, false
	}

	tx := core.Transaction{
		Amount:   core.Money{Cents: cents},
		Type:     core.TransactionType(req.Type),
		Category: sanitizeInput(req.Category),
	}
	if req.Date != "" {
		d, err := time.Parse(jsonDateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date '"+req.Date+"': expected YYYY-MM-DD")
			return core.Transaction{}, false
		}
		tx.Date = d
	}
	return tx, true
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrFutureDate)
}
