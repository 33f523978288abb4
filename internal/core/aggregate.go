package core

import (
	"fmt"
	"sort"
	"time"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthGroup is one calendar month worth of transactions.
type MonthGroup struct {
	Year         int
	Month        int // 1-12
	Transactions []Transaction
}

// Label returns the group header in "January 2024" form.
func (g MonthGroup) Label() string {
	return fmt.Sprintf("%s %d", time.Month(g.Month), g.Year)
}

// BudgetComparison is the outcome of measuring actual spend against a budget.
// Delta is actual minus budget: positive means over budget.
type BudgetComparison struct {
	WithinBudget bool
	Delta        Money
}

// SumInPeriod sums the amounts of transactions of the given type whose date
// falls in [start, end] inclusive. Transactions without a date are excluded.
// An empty input yields zero. Summation happens in cents, so there is no
// intermediate rounding to compound.
func SumInPeriod(txs []Transaction, t TransactionType, start, end time.Time) Money {
	var cents int64
	for _, tx := range txs {
		if tx.Type != t || !tx.HasDate() {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		cents += tx.Amount.Cents
	}
	return Money{Cents: cents}
}

// SumByType sums all transactions of the given type regardless of date.
func SumByType(txs []Transaction, t TransactionType) Money {
	var cents int64
	for _, tx := range txs {
		if tx.Type == t {
			cents += tx.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// MonthBounds returns the inclusive [first day, last day] range of a month.
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// GroupByMonth partitions transactions by calendar month and year, ordered
// most-recent-period-first. Transactions without a date belong to no group
// and are dropped.
func GroupByMonth(txs []Transaction) []MonthGroup {
	type key struct{ year, month int }
	groups := make(map[key][]Transaction)
	for _, tx := range txs {
		if !tx.HasDate() {
			continue
		}
		k := key{tx.Date.Year(), int(tx.Date.Month())}
		groups[k] = append(groups[k], tx)
	}

	out := make([]MonthGroup, 0, len(groups))
	for k, list := range groups {
		out = append(out, MonthGroup{Year: k.year, Month: k.month, Transactions: list})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}

// SumByCategory sums amounts per category label. Transactions without a
// category are bucketed under "Other".
func SumByCategory(txs []Transaction) map[string]Money {
	sums := make(map[string]Money)
	for _, tx := range txs {
		cat := tx.Category
		if cat == "" {
			cat = "Other"
		}
		sums[cat] = Money{Cents: sums[cat].Cents + tx.Amount.Cents}
	}
	return sums
}

// CategoryBreakdown returns per-category sums as a list ordered by amount
// descending, ties broken by name, for stable presentation.
func CategoryBreakdown(txs []Transaction) []CategoryAmount {
	sums := SumByCategory(txs)
	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CompareBudget measures actual expense against a budget for its period.
func CompareBudget(b Budget, actual Money) BudgetComparison {
	delta := actual.Cents - b.Amount.Cents
	return BudgetComparison{
		WithinBudget: delta <= 0,
		Delta:        Money{Cents: delta},
	}
}
