package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"spendsmart/internal/core"
)

type budgetRequest struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Amount string `json:"amount"`
}

type budgetResponse struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Amount  string `json:"amount"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getBudget(w, r)
	case http.MethodPut:
		s.setBudget(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := s.budgets.Status(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget status failed",
			"year", year, "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load budget")
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "no budget set for this period")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		budgetResponse
		Status budgetStatusResponse `json:"status"`
	}{
		budgetResponse: budgetResponse{
			Year:   status.Budget.Year,
			Month:  status.Budget.Month,
			Amount: status.Budget.Amount.String(),
		},
		Status: budgetStatusResponse{
			Amount:       status.Budget.Amount.String(),
			Actual:       status.Actual.String(),
			WithinBudget: status.Comparison.WithinBudget,
			Delta:        status.Comparison.Delta.String(),
			DeltaCents:   status.Comparison.Delta.Cents,
		},
	})
}

func (s *Server) setBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount '"+req.Amount+"'")
		return
	}

	budget, created, err := s.budgets.Set(r.Context(), req.Year, req.Month, core.Money{Cents: cents})
	if err != nil {
		if errors.Is(err, core.ErrInvalidMonth) || errors.Is(err, core.ErrInvalidYear) || errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Set budget failed",
			"year", req.Year, "month", req.Month, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}

	s.overviewCache.Purge()

	message := "Budget updated successfully!"
	status := http.StatusOK
	if created {
		message = "Budget set successfully!"
		status = http.StatusCreated
	}
	writeJSON(w, status, budgetResponse{
		Year:    budget.Year,
		Month:   budget.Month,
		Amount:  budget.Amount.String(),
		Message: message,
	})
}
