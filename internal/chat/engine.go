// Package chat implements the guided conversational query flow over the
// ledger: a small finite-state machine that walks the user from a menu of
// topics to a month/year period and answers with an aggregate total.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"spendsmart/internal/core"
)

// State identifies where a dialogue session currently is.
type State int

const (
	StateInitial State = iota
	StateChoosingOption
	StateEnteringExpenseDate
	StateEnteringIncomeDate
	StateEnteringBudgetDate
)

// Querier is the aggregation contract the engine resolves queries against.
// BudgetAmount reports ok=false when no budget is set for the period; that
// is a normal state, not an error.
type Querier interface {
	TotalExpense(ctx context.Context, year, month int) (core.Money, error)
	TotalIncome(ctx context.Context, year, month int) (core.Money, error)
	BudgetAmount(ctx context.Context, year, month int) (core.Money, bool, error)
}

// Option is one entry of the numbered menu. Each option carries its own
// prompt and target state, so selection never relies on positional lookups
// into a parallel table.
type Option struct {
	Type      core.TransactionType // empty for the budget option
	Label     string
	Prompt    string
	DateState State
}

var menuOptions = []Option{
	{
		Type:      core.Expense,
		Label:     "Expense",
		Prompt:    "Please enter the month and year (MM/YYYY) for which you want to see expenses.",
		DateState: StateEnteringExpenseDate,
	},
	{
		Type:      core.Income,
		Label:     "Income",
		Prompt:    "Please enter the month and year (MM/YYYY) for which you want to see income.",
		DateState: StateEnteringIncomeDate,
	},
	{
		Label:     "Budget",
		Prompt:    "Please enter the month and year (MM/YYYY) for which you want to see the budget.",
		DateState: StateEnteringBudgetDate,
	},
}

// Engine holds one dialogue session. Its entire mutable state is the
// current state plus the pending menu option; it is not safe for concurrent
// use, so a hosting service must serialize turns per session.
type Engine struct {
	state   State
	pending *Option
	ledger  Querier
}

func NewEngine(ledger Querier) *Engine {
	return &Engine{state: StateInitial, ledger: ledger}
}

// State exposes the current state, mainly for tests and diagnostics.
func (e *Engine) State() State {
	return e.state
}

// Handle processes one user utterance and returns the bot replies for it.
func (e *Engine) Handle(ctx context.Context, utterance string) []string {
	msg := strings.TrimSpace(utterance)

	switch e.state {
	case StateInitial:
		if strings.Contains(strings.ToLower(msg), "menu") {
			return []string{e.showMenu()}
		}
		return []string{"I'm not sure how to process that. Type 'menu' to see the options."}

	case StateChoosingOption:
		return e.handleOptionSelection(msg)

	case StateEnteringExpenseDate, StateEnteringIncomeDate, StateEnteringBudgetDate:
		return e.handleDateEntry(ctx, msg)

	default:
		// Catch-all: unknown state resets the session.
		e.state = StateInitial
		e.pending = nil
		return []string{"I'm not sure how to process that."}
	}
}

func (e *Engine) showMenu() string {
	var sb strings.Builder
	sb.WriteString("Please choose an option by typing its number:\n")
	for i, opt := range menuOptions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, opt.Label)
	}
	e.state = StateChoosingOption
	return sb.String()
}

func (e *Engine) handleOptionSelection(msg string) []string {
	choice, err := strconv.Atoi(msg)
	if err != nil || choice < 1 || choice > len(menuOptions) {
		// Stay in ChoosingOption; the menu context is not lost.
		return []string{"Invalid option. Please choose a number from the list."}
	}
	opt := menuOptions[choice-1]
	e.pending = &opt
	e.state = opt.DateState
	return []string{opt.Prompt}
}

func (e *Engine) handleDateEntry(ctx context.Context, msg string) []string {
	month, year, ok := parseMonthYear(msg)
	if !ok {
		// Stay in the same date-entry state; no context is lost on a retry.
		return []string{"Invalid date format. Please enter the month and year in MM/YYYY format."}
	}
	if e.pending == nil {
		// Date-entry state without a pending option is unreachable through
		// normal transitions; treat it as the generic catch-all.
		e.state = StateInitial
		return []string{"I'm not sure how to process that."}
	}

	answer := e.answerQuery(ctx, *e.pending, year, month)
	e.pending = nil
	return []string{answer, e.showMenu()}
}

func (e *Engine) answerQuery(ctx context.Context, opt Option, year, month int) string {
	period := fmt.Sprintf("%d/%d", month, year)

	switch opt.Type {
	case core.Expense:
		total, err := e.ledger.TotalExpense(ctx, year, month)
		if err != nil {
			return "Sorry, I couldn't look that up right now."
		}
		return fmt.Sprintf("Your total expense for %s is %s", period, total)
	case core.Income:
		total, err := e.ledger.TotalIncome(ctx, year, month)
		if err != nil {
			return "Sorry, I couldn't look that up right now."
		}
		return fmt.Sprintf("Your total income for %s is %s", period, total)
	default:
		amount, ok, err := e.ledger.BudgetAmount(ctx, year, month)
		if err != nil {
			return "Sorry, I couldn't look that up right now."
		}
		if !ok {
			amount = core.Money{}
		}
		return fmt.Sprintf("Your budget for %s is %s", period, amount)
	}
}

// parseMonthYear parses an MM/YYYY utterance into a valid calendar period.
func parseMonthYear(s string) (month, year int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if m < 1 || m > 12 || len(parts[1]) != 4 || y < 1000 {
		return 0, 0, false
	}
	return m, y, true
}
