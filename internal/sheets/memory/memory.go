// Package memory provides an in-memory ledger mirror used in tests and when
// no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"spendsmart/internal/core"
)

type Mirror struct {
	mu   sync.Mutex
	rows map[string]core.Transaction
	next int
}

func New() *Mirror {
	return &Mirror{rows: make(map[string]core.Transaction)}
}

func (m *Mirror) Append(ctx context.Context, tx core.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[tx.ID] = tx
	m.next++
	return fmt.Sprintf("row-%d", m.next), nil
}

func (m *Mirror) DeleteRow(ctx context.Context, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, transactionID)
	return nil
}

// Rows returns a snapshot of the mirrored transactions keyed by ID.
func (m *Mirror) Rows() map[string]core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]core.Transaction, len(m.rows))
	for id, tx := range m.rows {
		out[id] = tx
	}
	return out
}
