package core

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvDateLayout is the exported date format (MM/dd/yyyy).
const csvDateLayout = "01/02/2006"

// csvHeader is the fixed export header row.
var csvHeader = []string{"Date", "Amount", "Type", "Category"}

// WriteCSV writes the transactions as comma-separated rows with the fixed
// header Date,Amount,Type,Category. Dateless rows carry a literal
// "Date not available" in the date column.
func WriteCSV(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		date := "Date not available"
		if tx.HasDate() {
			date = tx.Date.Format(csvDateLayout)
		}
		row := []string{date, tx.Amount.Decimal(), string(tx.Type), tx.Category}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
