package services

import (
	"context"
	"fmt"

	"spendsmart/internal/core"
	"spendsmart/internal/storage"
)

// Overview is the monthly dashboard: totals, per-category spending and the
// budget position for one period.
type Overview struct {
	Year         int
	Month        int
	TotalExpense core.Money
	TotalIncome  core.Money
	Net          core.Money
	Categories   []core.CategoryAmount
	Budget       *BudgetStatus
}

// BudgetStatus pairs a budget with actual spending for its period.
type BudgetStatus struct {
	Budget     core.Budget
	Actual     core.Money
	Comparison core.BudgetComparison
}

// OverviewService reads the ledger and computes period aggregates.
type OverviewService struct {
	storage *storage.SQLiteRepository
}

func NewOverviewService(storage *storage.SQLiteRepository) *OverviewService {
	return &OverviewService{storage: storage}
}

// MonthOverview computes the dashboard for one month. Budget is nil when no
// budget is set for the period.
func (s *OverviewService) MonthOverview(ctx context.Context, year, month int) (Overview, error) {
	start, end := core.MonthBounds(year, month)
	txs, err := s.storage.ListTransactions(ctx, storage.Filter{From: start, To: end})
	if err != nil {
		return Overview{}, fmt.Errorf("list transactions: %w", err)
	}

	expense := core.SumInPeriod(txs, core.Expense, start, end)
	income := core.SumInPeriod(txs, core.Income, start, end)

	var expenses []core.Transaction
	for _, tx := range txs {
		if tx.Type == core.Expense {
			expenses = append(expenses, tx)
		}
	}

	ov := Overview{
		Year:         year,
		Month:        month,
		TotalExpense: expense,
		TotalIncome:  income,
		Net:          core.Money{Cents: income.Cents - expense.Cents},
		Categories:   core.CategoryBreakdown(expenses),
	}

	budget, err := s.storage.GetBudget(ctx, year, month)
	if err != nil {
		return Overview{}, fmt.Errorf("get budget: %w", err)
	}
	if budget != nil {
		ov.Budget = &BudgetStatus{
			Budget:     *budget,
			Actual:     expense,
			Comparison: core.CompareBudget(*budget, expense),
		}
	}

	return ov, nil
}

// MonthHistory groups all dated transactions by month, most recent first.
func (s *OverviewService) MonthHistory(ctx context.Context) ([]core.MonthGroup, error) {
	txs, err := s.storage.ListTransactions(ctx, storage.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.GroupByMonth(txs), nil
}

// TotalExpense returns the expense total for a month.
func (s *OverviewService) TotalExpense(ctx context.Context, year, month int) (core.Money, error) {
	return s.totalByType(ctx, core.Expense, year, month)
}

// TotalIncome returns the income total for a month.
func (s *OverviewService) TotalIncome(ctx context.Context, year, month int) (core.Money, error) {
	return s.totalByType(ctx, core.Income, year, month)
}

// BudgetAmount returns the budget for a month; ok is false when none is set.
func (s *OverviewService) BudgetAmount(ctx context.Context, year, month int) (core.Money, bool, error) {
	budget, err := s.storage.GetBudget(ctx, year, month)
	if err != nil {
		return core.Money{}, false, err
	}
	if budget == nil {
		return core.Money{}, false, nil
	}
	return budget.Amount, true, nil
}

func (s *OverviewService) totalByType(ctx context.Context, t core.TransactionType, year, month int) (core.Money, error) {
	start, end := core.MonthBounds(year, month)
	txs, err := s.storage.ListTransactions(ctx, storage.Filter{Type: t, From: start, To: end})
	if err != nil {
		return core.Money{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.SumInPeriod(txs, t, start, end), nil
}
