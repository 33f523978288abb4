package chat

import (
	"context"
	"strings"
	"testing"

	"spendsmart/internal/core"
)

type fakeLedger struct {
	expense map[[2]int]int64
	income  map[[2]int]int64
	budget  map[[2]int]int64
}

func (f *fakeLedger) TotalExpense(_ context.Context, year, month int) (core.Money, error) {
	return core.Money{Cents: f.expense[[2]int{year, month}]}, nil
}

func (f *fakeLedger) TotalIncome(_ context.Context, year, month int) (core.Money, error) {
	return core.Money{Cents: f.income[[2]int{year, month}]}, nil
}

func (f *fakeLedger) BudgetAmount(_ context.Context, year, month int) (core.Money, bool, error) {
	cents, ok := f.budget[[2]int{year, month}]
	return core.Money{Cents: cents}, ok, nil
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		expense: map[[2]int]int64{},
		income:  map[[2]int]int64{},
		budget:  map[[2]int]int64{},
	}
}

func TestMenuFromInitial(t *testing.T) {
	e := NewEngine(newFakeLedger())

	replies := e.Handle(context.Background(), "menu")
	if e.State() != StateChoosingOption {
		t.Fatalf("state: got %v, want StateChoosingOption", e.State())
	}
	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(replies))
	}
	for _, want := range []string{"1. Expense", "2. Income", "3. Budget"} {
		if !strings.Contains(replies[0], want) {
			t.Fatalf("menu missing %q:\n%s", want, replies[0])
		}
	}
}

func TestInitialIgnoresOtherInput(t *testing.T) {
	e := NewEngine(newFakeLedger())

	replies := e.Handle(context.Background(), "hello there")
	if e.State() != StateInitial {
		t.Fatalf("state: got %v, want StateInitial", e.State())
	}
	if !strings.Contains(replies[0], "Type 'menu'") {
		t.Fatalf("unexpected reply: %q", replies[0])
	}
}

func TestMenuTokenIsCaseInsensitive(t *testing.T) {
	e := NewEngine(newFakeLedger())
	e.Handle(context.Background(), "show me the MENU please")
	if e.State() != StateChoosingOption {
		t.Fatalf("state: got %v, want StateChoosingOption", e.State())
	}
}

func TestOptionSelection(t *testing.T) {
	e := NewEngine(newFakeLedger())
	e.Handle(context.Background(), "menu")

	replies := e.Handle(context.Background(), "2")
	if e.State() != StateEnteringIncomeDate {
		t.Fatalf("state: got %v, want StateEnteringIncomeDate", e.State())
	}
	if !strings.Contains(replies[0], "MM/YYYY") {
		t.Fatalf("expected a period prompt, got %q", replies[0])
	}
}

func TestInvalidOptionStaysInChoosing(t *testing.T) {
	e := NewEngine(newFakeLedger())
	e.Handle(context.Background(), "menu")

	for _, input := range []string{"not-a-number", "0", "4", "-1"} {
		replies := e.Handle(context.Background(), input)
		if e.State() != StateChoosingOption {
			t.Fatalf("input %q: state %v, want StateChoosingOption", input, e.State())
		}
		if !strings.Contains(replies[0], "Invalid option") {
			t.Fatalf("input %q: unexpected reply %q", input, replies[0])
		}
	}
}

func TestIncomeQueryFlow(t *testing.T) {
	ledger := newFakeLedger()
	ledger.income[[2]int{2024, 3}] = 15000 // $100 + $50 in March 2024

	e := NewEngine(ledger)
	e.Handle(context.Background(), "menu")
	e.Handle(context.Background(), "2")

	replies := e.Handle(context.Background(), "03/2024")
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want answer + menu", len(replies))
	}
	if !strings.Contains(replies[0], "$150.00") {
		t.Fatalf("expected $150.00 in %q", replies[0])
	}
	if e.State() != StateChoosingOption {
		t.Fatalf("state after answer: got %v, want StateChoosingOption", e.State())
	}
	if !strings.Contains(replies[1], "1. Expense") {
		t.Fatalf("expected the menu to be re-emitted, got %q", replies[1])
	}
}

func TestInvalidDateStaysInDateEntry(t *testing.T) {
	e := NewEngine(newFakeLedger())
	e.Handle(context.Background(), "menu")
	e.Handle(context.Background(), "1")

	for _, input := range []string{"march 2024", "13/2024", "03/24", "03-2024", "3/202"} {
		replies := e.Handle(context.Background(), input)
		if e.State() != StateEnteringExpenseDate {
			t.Fatalf("input %q: state %v, want StateEnteringExpenseDate", input, e.State())
		}
		if !strings.Contains(replies[0], "Invalid date format") {
			t.Fatalf("input %q: unexpected reply %q", input, replies[0])
		}
	}
}

func TestBudgetQueryWhenUnset(t *testing.T) {
	e := NewEngine(newFakeLedger())
	e.Handle(context.Background(), "menu")
	e.Handle(context.Background(), "3")

	replies := e.Handle(context.Background(), "01/2024")
	if !strings.Contains(replies[0], "$0.00") {
		t.Fatalf("unset budget should answer $0.00, got %q", replies[0])
	}
}

func TestBudgetQueryWhenSet(t *testing.T) {
	ledger := newFakeLedger()
	ledger.budget[[2]int{2024, 1}] = 50000

	e := NewEngine(ledger)
	e.Handle(context.Background(), "menu")
	e.Handle(context.Background(), "3")

	replies := e.Handle(context.Background(), "01/2024")
	if !strings.Contains(replies[0], "$500.00") {
		t.Fatalf("expected $500.00, got %q", replies[0])
	}
}

func TestExpenseQueryFormatsPeriod(t *testing.T) {
	ledger := newFakeLedger()
	ledger.expense[[2]int{2024, 3}] = 486

	e := NewEngine(ledger)
	e.Handle(context.Background(), "menu")
	e.Handle(context.Background(), "1")

	replies := e.Handle(context.Background(), "03/2024")
	if !strings.Contains(replies[0], "for 3/2024 is $4.86") {
		t.Fatalf("unexpected answer: %q", replies[0])
	}
}
