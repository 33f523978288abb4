package core

import (
	"strings"
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func tx(t TransactionType, cents int64, cat string, when time.Time) Transaction {
	return Transaction{Amount: Money{Cents: cents}, Type: t, Category: cat, Date: when}
}

func TestSumInPeriod(t *testing.T) {
	start, end := MonthBounds(2024, 3)
	txs := []Transaction{
		tx(Income, 10000, "Salary", date(2024, 3, 1)),
		tx(Income, 5000, "Gifts", date(2024, 3, 31)),
		tx(Income, 9999, "Salary", date(2024, 2, 29)), // outside period
		tx(Expense, 450, "Food", date(2024, 3, 14)),
		{Amount: Money{Cents: 777}, Type: Income, Category: "Other"}, // dateless, excluded
	}

	if got := SumInPeriod(txs, Income, start, end); got.Cents != 15000 {
		t.Fatalf("income sum: got %d, want 15000", got.Cents)
	}
	if got := SumInPeriod(txs, Expense, start, end); got.Cents != 450 {
		t.Fatalf("expense sum: got %d, want 450", got.Cents)
	}
	if got := SumInPeriod(nil, Expense, start, end); got.Cents != 0 {
		t.Fatalf("empty input: got %d, want 0", got.Cents)
	}
}

func TestSumInPeriodIncludesBounds(t *testing.T) {
	start, end := MonthBounds(2024, 1)
	txs := []Transaction{
		tx(Expense, 100, "Bills", start),
		tx(Expense, 200, "Bills", date(2024, 1, 31)),
	}
	if got := SumInPeriod(txs, Expense, start, end); got.Cents != 300 {
		t.Fatalf("bounds not inclusive: got %d, want 300", got.Cents)
	}
}

func TestSumAdditivity(t *testing.T) {
	start, end := MonthBounds(2024, 3)
	txs := []Transaction{
		tx(Expense, 450, "Food", date(2024, 3, 2)),
		tx(Expense, 1200, "Bills", date(2024, 3, 10)),
		tx(Income, 10000, "Salary", date(2024, 3, 1)),
	}
	expense := SumInPeriod(txs, Expense, start, end)
	income := SumInPeriod(txs, Income, start, end)
	var both int64
	for _, x := range txs {
		both += x.Amount.Cents
	}
	if expense.Cents+income.Cents != both {
		t.Fatalf("additivity broken: %d + %d != %d", expense.Cents, income.Cents, both)
	}
}

func TestGroupByMonthOrdering(t *testing.T) {
	txs := []Transaction{
		tx(Expense, 100, "Food", date(2024, 1, 5)),
		tx(Expense, 200, "Food", date(2024, 3, 5)),
		tx(Expense, 300, "Food", date(2024, 3, 20)),
		tx(Expense, 400, "Food", date(2023, 12, 31)),
		{Amount: Money{Cents: 500}, Type: Expense, Category: "Food"}, // dateless
	}

	groups := GroupByMonth(txs)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	// Most recent first: March 2024, January 2024, December 2023.
	if groups[0].Year != 2024 || groups[0].Month != 3 {
		t.Fatalf("first group: got %d/%d", groups[0].Month, groups[0].Year)
	}
	if groups[1].Year != 2024 || groups[1].Month != 1 {
		t.Fatalf("second group: got %d/%d", groups[1].Month, groups[1].Year)
	}
	if groups[2].Year != 2023 || groups[2].Month != 12 {
		t.Fatalf("third group: got %d/%d", groups[2].Month, groups[2].Year)
	}
	if len(groups[0].Transactions) != 2 {
		t.Fatalf("march group size: got %d, want 2", len(groups[0].Transactions))
	}
	if groups[0].Label() != "March 2024" {
		t.Fatalf("label: got %q", groups[0].Label())
	}
	// The dateless record must land in no group.
	total := 0
	for _, g := range groups {
		total += len(g.Transactions)
	}
	if total != 4 {
		t.Fatalf("dateless record was grouped: %d records grouped", total)
	}
}

func TestSumByCategory(t *testing.T) {
	txs := []Transaction{
		tx(Expense, 450, "Food", date(2024, 3, 1)),
		tx(Expense, 550, "Food", date(2024, 3, 2)),
		tx(Expense, 300, "", date(2024, 3, 3)), // bucketed as Other
	}
	sums := SumByCategory(txs)
	if sums["Food"].Cents != 1000 {
		t.Fatalf("Food: got %d, want 1000", sums["Food"].Cents)
	}
	if sums["Other"].Cents != 300 {
		t.Fatalf("Other: got %d, want 300", sums["Other"].Cents)
	}
}

func TestCategoryBreakdownOrdering(t *testing.T) {
	txs := []Transaction{
		tx(Expense, 100, "Bills", date(2024, 3, 1)),
		tx(Expense, 900, "Food", date(2024, 3, 1)),
		tx(Expense, 100, "Travel", date(2024, 3, 1)),
	}
	got := CategoryBreakdown(txs)
	if got[0].Name != "Food" {
		t.Fatalf("largest category first: got %q", got[0].Name)
	}
	// Equal amounts break ties by name.
	if got[1].Name != "Bills" || got[2].Name != "Travel" {
		t.Fatalf("tie break by name: got %q, %q", got[1].Name, got[2].Name)
	}
}

func TestCompareBudget(t *testing.T) {
	b := Budget{Amount: Money{Cents: 10000}, Year: 2024, Month: 3}

	over := CompareBudget(b, Money{Cents: 12500})
	if over.WithinBudget || over.Delta.Cents != 2500 {
		t.Fatalf("over budget: got %+v", over)
	}

	within := CompareBudget(b, Money{Cents: 8000})
	if !within.WithinBudget || within.Delta.Cents != -2000 {
		t.Fatalf("within budget: got %+v", within)
	}

	exact := CompareBudget(b, Money{Cents: 10000})
	if !exact.WithinBudget || exact.Delta.Cents != 0 {
		t.Fatalf("exact budget: got %+v", exact)
	}
}

func TestWriteCSV(t *testing.T) {
	txs := []Transaction{
		tx(Expense, 486, "Food", date(2024, 3, 14)),
		{Amount: Money{Cents: 10000}, Type: Income, Category: "Salary"},
	}
	var sb strings.Builder
	if err := WriteCSV(&sb, txs); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	want := "Date,Amount,Type,Category\n" +
		"03/14/2024,4.86,Expense,Food\n" +
		"Date not available,100.00,Income,Salary\n"
	if sb.String() != want {
		t.Fatalf("csv mismatch:\ngot  %q\nwant %q", sb.String(), want)
	}
}
