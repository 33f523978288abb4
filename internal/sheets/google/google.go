// Package google mirrors the ledger into a Google Sheets spreadsheet.
//
// Each transaction becomes one row of Date, Amount, Type, Category plus the
// transaction ID in the last column; the ID column is how delete events find
// their row again.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"spendsmart/internal/core"
	ports "spendsmart/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const rowDateLayout = "01/02/2006"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var (
	_ ports.LedgerWriter  = (*Client)(nil)
	_ ports.LedgerDeleter = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "Transactions"),
// GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE for auth
// (falls back to application default credentials).
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	var opts []goption.ClientOption
	switch {
	case serviceAccountJSON != "":
		opts = append(opts, goption.WithCredentialsJSON([]byte(serviceAccountJSON)))
	case serviceAccountFile != "":
		opts = append(opts, goption.WithCredentialsFile(serviceAccountFile))
	default:
		slog.InfoContext(ctx, "No service account configured, using application default credentials")
	}
	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// Append writes the transaction as a new row at the bottom of the sheet.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	date := ""
	if tx.HasDate() {
		date = tx.Date.Format(rowDateLayout)
	}

	vr := &gsheet.ValueRange{
		Values: [][]interface{}{
			{date, tx.Amount.Decimal(), string(tx.Type), tx.Category, tx.ID},
		},
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:E", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Transaction appended to sheet",
		"id", tx.ID,
		"range", ref,
		"sheet", c.sheetName)
	return ref, nil
}

// DeleteRow clears the row whose ID column matches the transaction ID.
// A missing row is not an error; the mirror is best-effort.
func (c *Client) DeleteRow(ctx context.Context, transactionID string) error {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!E:E").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read id column: %w", err)
	}

	rowIndex := -1
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == transactionID {
			rowIndex = i
			break
		}
	}
	if rowIndex == -1 {
		slog.WarnContext(ctx, "Transaction row not found in sheet, nothing to delete",
			"id", transactionID)
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:E%d", c.sheetName, rowIndex+1, rowIndex+1)
	_, err = c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear row: %w", err)
	}

	slog.InfoContext(ctx, "Transaction row cleared in sheet",
		"id", transactionID,
		"range", rng)
	return nil
}
