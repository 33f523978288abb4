package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionTypeValidate(t *testing.T) {
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := TransactionType("Transfer").Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:   Money{Cents: 450},
		Type:     Expense,
		Category: "Food",
		Date:     time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		tx   Transaction
		want error
	}{
		{"negative amount", Transaction{Amount: Money{Cents: -1}, Type: Expense, Category: "Food"}, ErrInvalidAmount},
		{"bad type", Transaction{Amount: Money{Cents: 100}, Type: "Transfer", Category: "Food"}, ErrInvalidType},
		{"empty category", Transaction{Amount: Money{Cents: 100}, Type: Expense, Category: ""}, ErrInvalidCategory},
		{"sentinel category", Transaction{Amount: Money{Cents: 100}, Type: Expense, Category: CategorySentinel}, ErrInvalidCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransactionValidateEntryRejectsFutureDate(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	tx := Transaction{
		Amount:   Money{Cents: 100},
		Type:     Expense,
		Category: "Food",
		Date:     now.AddDate(0, 0, 1),
	}
	if err := tx.ValidateEntry(now); !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
	tx.Date = now.AddDate(0, 0, -1)
	if err := tx.ValidateEntry(now); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Dateless entry is fine; the date check only applies when one is set.
	tx.Date = time.Time{}
	if err := tx.ValidateEntry(now); err != nil {
		t.Fatalf("expected ok for dateless entry, got %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Amount: Money{Cents: 10000}, Year: 2024, Month: 3}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		b    Budget
		want error
	}{
		{"month zero", Budget{Amount: Money{Cents: 1}, Year: 2024, Month: 0}, ErrInvalidMonth},
		{"month thirteen", Budget{Amount: Money{Cents: 1}, Year: 2024, Month: 13}, ErrInvalidMonth},
		{"three digit year", Budget{Amount: Money{Cents: 1}, Year: 999, Month: 1}, ErrInvalidYear},
		{"negative amount", Budget{Amount: Money{Cents: -1}, Year: 2024, Month: 1}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.b.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCategoriesPerType(t *testing.T) {
	if len(Expense.Categories()) == 0 || len(Income.Categories()) == 0 {
		t.Fatal("category vocabularies must not be empty")
	}
	// The two vocabularies are distinct lists.
	if Expense.Categories()[0] == Income.Categories()[0] {
		t.Fatal("expense and income categories must be separate vocabularies")
	}
}
