package services

import (
	"context"
	"fmt"

	"spendsmart/internal/core"
	"spendsmart/internal/storage"
)

// BudgetService manages the single monthly budget per period.
type BudgetService struct {
	storage *storage.SQLiteRepository
}

func NewBudgetService(storage *storage.SQLiteRepository) *BudgetService {
	return &BudgetService{storage: storage}
}

// Set stores the budget amount for a period, replacing any previous value.
// The created flag distinguishes a first-time set from an update so callers
// can word their confirmation accordingly.
func (s *BudgetService) Set(ctx context.Context, year, month int, amount core.Money) (core.Budget, bool, error) {
	return s.storage.UpsertBudget(ctx, year, month, amount)
}

// Get returns the budget for a period, or nil when none is set.
func (s *BudgetService) Get(ctx context.Context, year, month int) (*core.Budget, error) {
	return s.storage.GetBudget(ctx, year, month)
}

// Status measures actual expense for the period against its budget. It
// returns nil when no budget is set.
func (s *BudgetService) Status(ctx context.Context, year, month int) (*BudgetStatus, error) {
	budget, err := s.storage.GetBudget(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	if budget == nil {
		return nil, nil
	}

	start, end := core.MonthBounds(year, month)
	txs, err := s.storage.ListTransactions(ctx, storage.Filter{Type: core.Expense, From: start, To: end})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	actual := core.SumInPeriod(txs, core.Expense, start, end)

	return &BudgetStatus{
		Budget:     *budget,
		Actual:     actual,
		Comparison: core.CompareBudget(*budget, actual),
	}, nil
}
