package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendsmart/internal/amqp"
	"spendsmart/internal/core"
	"spendsmart/internal/sheets"
	"spendsmart/internal/storage"
)

// SyncWorker mirrors ledger changes from SQLite into the configured
// spreadsheet. AMQP messages are the primary trigger; a periodic scan of
// pending rows backstops any lost messages.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.LedgerWriter
	deleter   sheets.LedgerDeleter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, writer sheets.LedgerWriter, deleter sheets.LedgerDeleter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		writer:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the sync message was consumed. Nothing to mirror.
		slog.WarnContext(ctx, "Transaction no longer exists, skipping sync", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.syncTransaction(ctx, tx.ID, tx); err != nil {
		return fmt.Errorf("sync transaction to sheet: %w", err)
	}
	return nil
}

// HandleDeleteMessage processes a single transaction delete message from AMQP.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.TransactionDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if w.deleter == nil {
		slog.WarnContext(ctx, "No ledger deleter configured, skipping sheet deletion",
			"id", msg.ID)
		return nil
	}

	if err := w.deleter.DeleteRow(ctx, msg.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to delete transaction row from sheet",
			"id", msg.ID,
			"error", err)
		return fmt.Errorf("delete transaction row: %w", err)
	}

	slog.InfoContext(ctx, "Transaction row deleted from sheet", "id", msg.ID)
	return nil
}

// ProcessPendingTransactions mirrors any transactions that have not been
// synced yet. This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		tx, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.syncTransaction(ctx, p.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog with a larger batch at worker
// startup, recovering from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		tx, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.syncTransaction(ctx, p.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction on startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync check complete",
		"synced", successCount,
		"errors", errorCount)
	return nil
}

func (w *SyncWorker) syncTransaction(ctx context.Context, id string, tx core.Transaction) error {
	if w.writer == nil {
		slog.WarnContext(ctx, "No ledger writer configured, skipping sheet sync", "id", id)
		return nil
	}

	rowRef, err := w.writer.Append(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced to sheet", "id", id, "row", rowRef)
	return nil
}
