package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	KindTransactionSync   = "transaction.sync"
	KindTransactionDelete = "transaction.delete"
)

// Envelope wraps every queued message with its kind so one queue can carry
// both sync and delete events.
type Envelope struct {
	Kind      string          `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// TransactionSyncMessage asks the worker to mirror one transaction to the
// external sheet. It carries only the ID; the worker fetches the current
// record from the database.
type TransactionSyncMessage struct {
	ID string `json:"id"`
}

// TransactionDeleteMessage asks the worker to remove a transaction row from
// the external sheet. The record is already gone from the database, so the
// message carries the row data needed to locate it.
type TransactionDeleteMessage struct {
	ID       string `json:"id"`
	Date     string `json:"date,omitempty"` // MM/dd/yyyy, empty when the record had no date
	Amount   string `json:"amount"`         // two-decimal string
	Type     string `json:"type"`
	Category string `json:"category"`
}

func encodeEnvelope(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{
		Kind:      kind,
		Timestamp: time.Now(),
		Payload:   raw,
	})
}

// DecodeEnvelope parses a raw queue delivery into its envelope.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}
