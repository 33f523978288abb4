// Package receipt turns recognized receipt text into candidate
// transaction fields.
//
// The input is the ordered list of text lines an external recognition
// service produced for a photographed receipt. Extraction is best-effort:
// a field that cannot be found is simply absent, never an error.
package receipt

import (
	"regexp"
	"strings"
	"time"

	"spendsmart/internal/core"
)

var (
	// A dollar sign followed by digits, optionally with one or two decimals.
	amountRe = regexp.MustCompile(`\$\d+(?:\.\d{1,2})?`)

	// MM/DD/YYYY, US convention.
	dateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
)

const dateLayout = "1/2/2006"

// Fields holds the candidate values recognized on a receipt. Either field
// may be nil when nothing usable was found.
type Fields struct {
	Amount *core.Money
	Date   *time.Time
}

// Extract scans the recognized lines for a total amount and a purchase date.
//
// Amount: every $-prefixed value on the receipt is collected and the maximum
// wins. Receipts list per-item prices plus a grand total, and on a
// well-formed receipt the total is the largest value present.
//
// Date: the first MM/DD/YYYY match in line order is parsed; if that match is
// calendar-invalid the date field stays absent. A later, valid date is not
// tried: first match wins, parse failure aborts the field.
func Extract(lines []string) Fields {
	text := strings.Join(lines, "\n")
	return Fields{
		Amount: extractAmount(text),
		Date:   extractDate(text),
	}
}

func extractAmount(text string) *core.Money {
	var best *core.Money
	for _, match := range amountRe.FindAllString(text, -1) {
		cents, err := core.ParseDecimalToCents(strings.TrimPrefix(match, "$"))
		if err != nil {
			continue
		}
		if best == nil || cents > best.Cents {
			best = &core.Money{Cents: cents}
		}
	}
	return best
}

func extractDate(text string) *time.Time {
	match := dateRe.FindString(text)
	if match == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, match)
	if err != nil {
		return nil
	}
	return &parsed
}
