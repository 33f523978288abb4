package http

import (
	"log/slog"
	"net/http"

	"spendsmart/internal/cache"
)

type categoryAmountResponse struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
}

type budgetStatusResponse struct {
	Amount       string `json:"amount"`
	Actual       string `json:"actual"`
	WithinBudget bool   `json:"within_budget"`
	Delta        string `json:"delta"`
	DeltaCents   int64  `json:"delta_cents"`
}

type overviewResponse struct {
	Year         int                      `json:"year"`
	Month        int                      `json:"month"`
	TotalExpense string                   `json:"total_expense"`
	TotalIncome  string                   `json:"total_income"`
	Net          string                   `json:"net"`
	Categories   []categoryAmountResponse `json:"categories"`
	Budget       *budgetStatusResponse    `json:"budget,omitempty"`
}

type monthGroupResponse struct {
	Year         int                   `json:"year"`
	Month        int                   `json:"month"`
	Label        string                `json:"label"`
	Transactions []transactionResponse `json:"transactions"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.PeriodKey("overview", year, month)
	ov, found := s.overviewCache.Get(key)
	if !found {
		ov, err = s.overview.MonthOverview(r.Context(), year, month)
		if err != nil {
			slog.ErrorContext(r.Context(), "Month overview failed",
				"year", year, "month", month, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to compute overview")
			return
		}
		s.overviewCache.Set(key, ov)
	}

	resp := overviewResponse{
		Year:         ov.Year,
		Month:        ov.Month,
		TotalExpense: ov.TotalExpense.String(),
		TotalIncome:  ov.TotalIncome.String(),
		Net:          ov.Net.String(),
		Categories:   make([]categoryAmountResponse, 0, len(ov.Categories)),
	}
	for _, c := range ov.Categories {
		resp.Categories = append(resp.Categories, categoryAmountResponse{
			Name:        c.Name,
			Amount:      c.Amount.String(),
			AmountCents: c.Amount.Cents,
		})
	}
	if ov.Budget != nil {
		resp.Budget = &budgetStatusResponse{
			Amount:       ov.Budget.Budget.Amount.String(),
			Actual:       ov.Budget.Actual.String(),
			WithinBudget: ov.Budget.Comparison.WithinBudget,
			Delta:        ov.Budget.Comparison.Delta.String(),
			DeltaCents:   ov.Budget.Comparison.Delta.Cents,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	groups, err := s.overview.MonthHistory(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Month history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	out := make([]monthGroupResponse, 0, len(groups))
	for _, g := range groups {
		mg := monthGroupResponse{
			Year:         g.Year,
			Month:        g.Month,
			Label:        g.Label(),
			Transactions: make([]transactionResponse, 0, len(g.Transactions)),
		}
		for _, tx := range g.Transactions {
			mg.Transactions = append(mg.Transactions, toTransactionResponse(tx))
		}
		out = append(out, mg)
	}
	writeJSON(w, http.StatusOK, out)
}
