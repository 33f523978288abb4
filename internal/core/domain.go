package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "Expense"
	Income  TransactionType = "Income"
)

// CategorySentinel is the placeholder offered before a category is chosen.
// It must never survive into a persisted record.
const CategorySentinel = "Select"

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID       string
		Amount   Money
		Type     TransactionType
		Category string
		// Date is optional; the zero time means "no date recorded".
		Date time.Time
	}

	Budget struct {
		ID     string
		Amount Money
		Year   int
		Month  int // 1-12
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidYear     = errors.New("invalid year")
	ErrFutureDate      = errors.New("date cannot be in the future")
)

// ExpenseCategories and IncomeCategories are the fixed vocabularies offered
// by the entry and dialogue flows. They are data, not types: the closed set
// is TransactionType, the labels are configurable lists.
var (
	ExpenseCategories = []string{
		"Food",
		"Groceries",
		"Transport",
		"Shopping",
		"Entertainment",
		"Bills",
		"Health",
		"Travel",
		"Other",
	}

	IncomeCategories = []string{
		"Salary",
		"Business",
		"Investments",
		"Rental",
		"Gifts",
		"Other",
	}
)

func (t TransactionType) Validate() error {
	switch t {
	case Expense, Income:
		return nil
	}
	return ErrInvalidType
}

// Categories returns the vocabulary for the type.
func (t TransactionType) Categories() []string {
	if t == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// HasDate reports whether the transaction carries a calendar date.
func (tx Transaction) HasDate() bool {
	return !tx.Date.IsZero()
}

// Validate checks the invariants required to persist a transaction.
// The category sentinel counts as "not chosen" and is rejected here.
func (tx Transaction) Validate() error {
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	cat := strings.TrimSpace(tx.Category)
	if cat == "" || cat == CategorySentinel {
		return ErrInvalidCategory
	}
	return nil
}

// ValidateEntry applies the interactive-entry rules on top of Validate:
// entry forms never accept a future date.
func (tx Transaction) ValidateEntry(now time.Time) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if tx.HasDate() && tx.Date.After(now) {
		return ErrFutureDate
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1000 || b.Year > 9999 {
		return ErrInvalidYear
	}
	return nil
}
