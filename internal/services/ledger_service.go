// Package services orchestrates ledger operations across SQLite, AMQP and
// the aggregation code.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"spendsmart/internal/amqp"
	"spendsmart/internal/core"
	"spendsmart/internal/storage"
)

const deleteDateLayout = "01/02/2006"

// LedgerService owns transaction writes. Every change lands in SQLite first,
// then a sync message is published so the worker mirrors it; publish failures
// never fail the request.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateTransaction validates, saves and schedules a sync for a new
// transaction. Dated entries must not be in the future.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.ValidateEntry(time.Now()); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.storage.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishSync(ctx, saved.ID)
	return saved, nil
}

// UpdateTransaction changes the mutable fields of an existing transaction
// and schedules a re-sync.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, amount core.Money, category string, date time.Time) error {
	if amount.Cents < 0 {
		return core.ErrInvalidAmount
	}
	if category == "" || category == core.CategorySentinel {
		return core.ErrInvalidCategory
	}
	if !date.IsZero() && date.After(time.Now()) {
		return core.ErrFutureDate
	}

	if err := s.storage.UpdateTransaction(ctx, id, amount, category, date); err != nil {
		return err
	}

	s.publishSync(ctx, id)
	return nil
}

// DeleteTransaction removes the transaction and tells the worker to drop its
// spreadsheet row. The row data rides in the message because the local record
// is gone by the time the worker runs.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	msg := amqp.TransactionDeleteMessage{
		ID:       tx.ID,
		Amount:   tx.Amount.Decimal(),
		Type:     string(tx.Type),
		Category: tx.Category,
	}
	if tx.HasDate() {
		msg.Date = tx.Date.Format(deleteDateLayout)
	}
	s.publishDelete(ctx, msg)
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context, f storage.Filter) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, f)
}

// ExportCSV streams all transactions matching the filter as CSV.
func (s *LedgerService) ExportCSV(ctx context.Context, w io.Writer, f storage.Filter) error {
	txs, err := s.storage.ListTransactions(ctx, f)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	if err := core.WriteCSV(w, txs); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func (s *LedgerService) publishSync(ctx context.Context, id string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return
	}
	if err := s.amqpClient.PublishTransactionSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}

func (s *LedgerService) publishDelete(ctx context.Context, msg amqp.TransactionDeleteMessage) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return
	}
	if err := s.amqpClient.PublishTransactionDelete(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", msg.ID, "error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
