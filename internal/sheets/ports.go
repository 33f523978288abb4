package sheets

import (
	"context"

	"spendsmart/internal/core"
)

// Ports for the outbound ledger mirror.
type (
	// LedgerWriter appends one transaction row to the external sheet and
	// returns an opaque row reference.
	LedgerWriter interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// LedgerDeleter removes the row previously appended for a transaction ID.
	LedgerDeleter interface {
		DeleteRow(ctx context.Context, transactionID string) error
	}
)
