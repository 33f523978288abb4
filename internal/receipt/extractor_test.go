package receipt

import (
	"testing"
	"time"
)

func TestExtractAmountAndDate(t *testing.T) {
	lines := []string{
		"Coffee $4.50",
		"Tax $0.36",
		"Total $4.86",
		"Visit again! 03/14/2024",
	}

	got := Extract(lines)

	if got.Amount == nil {
		t.Fatal("expected an amount")
	}
	if got.Amount.Cents != 486 {
		t.Fatalf("amount: got %d cents, want 486 (the maximum match)", got.Amount.Cents)
	}
	if got.Date == nil {
		t.Fatal("expected a date")
	}
	want := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("date: got %v, want %v", got.Date, want)
	}
}

func TestExtractNoAmountPattern(t *testing.T) {
	got := Extract([]string{"thanks for shopping", "no prices here"})
	if got.Amount != nil {
		t.Fatalf("expected absent amount, got %v", got.Amount)
	}
	if got.Date != nil {
		t.Fatalf("expected absent date, got %v", got.Date)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	got := Extract(nil)
	if got.Amount != nil || got.Date != nil {
		t.Fatalf("expected no fields, got %+v", got)
	}
}

func TestExtractAmountWithoutDecimals(t *testing.T) {
	got := Extract([]string{"Total $12"})
	if got.Amount == nil || got.Amount.Cents != 1200 {
		t.Fatalf("got %+v, want 1200 cents", got.Amount)
	}
}

func TestExtractDateFirstMatchWins(t *testing.T) {
	got := Extract([]string{"Printed 01/05/2024", "Due 02/20/2024"})
	if got.Date == nil {
		t.Fatal("expected a date")
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("got %v, want the first match %v", got.Date, want)
	}
}

func TestExtractInvalidFirstDateAbortsField(t *testing.T) {
	// The first match is calendar-invalid; the later valid date is not tried.
	got := Extract([]string{"Ref 13/45/2024", "Paid 03/14/2024"})
	if got.Date != nil {
		t.Fatalf("expected absent date, got %v", got.Date)
	}
}

func TestExtractIgnoresUnparseableAmounts(t *testing.T) {
	got := Extract([]string{"Item $3.99", "weird $ sign alone", "Total $10.50"})
	if got.Amount == nil || got.Amount.Cents != 1050 {
		t.Fatalf("got %+v, want 1050 cents", got.Amount)
	}
}
