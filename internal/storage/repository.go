package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"spendsmart/internal/core"

	_ "modernc.org/sqlite"
)

// dateLayout is how transaction dates are stored; lexical order matches
// chronological order so range predicates work directly in SQL.
const dateLayout = "2006-01-02"

// ErrNotFound is returned when a requested record does not exist.
// A missing budget is NOT reported through this error; see GetBudget.
var ErrNotFound = errors.New("record not found")

// Filter narrows ListTransactions. Zero fields are ignored; the store only
// ever filters by type and by inclusive date range.
type Filter struct {
	Type core.TransactionType
	From time.Time
	To   time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction persists a new transaction and returns it with its
// assigned ID.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, amount_cents, type, category, date) VALUES (?, ?, ?, ?, ?)`,
		tx.ID, tx.Amount.Cents, string(tx.Type), tx.Category, nullableDate(tx.Date))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	return tx, nil
}

// UpdateTransaction overwrites the mutable fields of an existing
// transaction: amount, category and date. Type and ID never change after
// creation.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id string, amount core.Money, category string, date time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount_cents = ?, category = ?, date = ?, sync_status = 'pending', updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		amount.Cents, category, nullableDate(date), id)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "amount_cents", amount.Cents)
	return nil
}

// DeleteTransaction removes the transaction permanently. Deletion is
// immediate; there is no soft-delete.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, type, category, date FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns transactions matching the filter, newest dated
// first with dateless records last.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f Filter) ([]core.Transaction, error) {
	query := `SELECT id, amount_cents, type, category, date FROM transactions WHERE 1=1`
	var args []any
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, f.To.Format(dateLayout))
	}
	query += ` ORDER BY date IS NULL, date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// GetBudget returns the budget for the period, or nil when none is set.
// "No budget set" is a normal state, not an error.
func (r *SQLiteRepository) GetBudget(ctx context.Context, year, month int) (*core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, year, month FROM budgets WHERE year = ? AND month = ?`, year, month)

	var b core.Budget
	err := row.Scan(&b.ID, &b.Amount.Cents, &b.Year, &b.Month)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return &b, nil
}

// UpsertBudget sets the budget amount for a period. At most one budget row
// exists per (year, month): an existing row is overwritten, otherwise a new
// one is created. The created flag tells callers which path was taken, since
// the two paths carry different success messaging.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, year, month int, amount core.Money) (core.Budget, bool, error) {
	b := core.Budget{Amount: amount, Year: year, Month: month}
	if err := b.Validate(); err != nil {
		return core.Budget{}, false, fmt.Errorf("validate budget: %w", err)
	}

	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Budget{}, false, fmt.Errorf("begin tx: %w", err)
	}
	defer dbtx.Rollback()

	row := dbtx.QueryRowContext(ctx,
		`SELECT id FROM budgets WHERE year = ? AND month = ?`, year, month)

	var existingID string
	err = row.Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		b.ID = uuid.NewString()
		_, err = dbtx.ExecContext(ctx,
			`INSERT INTO budgets (id, amount_cents, year, month) VALUES (?, ?, ?, ?)`,
			b.ID, amount.Cents, year, month)
		if err != nil {
			return core.Budget{}, false, fmt.Errorf("insert budget: %w", err)
		}
		if err := dbtx.Commit(); err != nil {
			return core.Budget{}, false, fmt.Errorf("commit: %w", err)
		}
		slog.InfoContext(ctx, "Budget created", "year", year, "month", month, "amount_cents", amount.Cents)
		return b, true, nil

	case err != nil:
		return core.Budget{}, false, fmt.Errorf("lookup budget: %w", err)

	default:
		b.ID = existingID
		_, err = dbtx.ExecContext(ctx,
			`UPDATE budgets SET amount_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			amount.Cents, existingID)
		if err != nil {
			return core.Budget{}, false, fmt.Errorf("update budget: %w", err)
		}
		if err := dbtx.Commit(); err != nil {
			return core.Budget{}, false, fmt.Errorf("commit: %w", err)
		}
		slog.InfoContext(ctx, "Budget updated", "year", year, "month", month, "amount_cents", amount.Cents)
		return b, false, nil
	}
}

// PendingSyncTransaction carries the minimal data needed to queue a
// spreadsheet sync for a transaction.
type PendingSyncTransaction struct {
	ID string
}

// GetPendingSyncTransactions returns transactions not yet mirrored to the
// spreadsheet, oldest first.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM transactions WHERE sync_status = 'pending' ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending transactions: %w", err)
	}
	return out, nil
}

// MarkSynced records a successful spreadsheet sync for the transaction.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// MarkSyncError flags the transaction so a later pass can retry it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		typ     string
		dateStr sql.NullString
	)
	if err := row.Scan(&tx.ID, &tx.Amount.Cents, &typ, &tx.Category, &dateStr); err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TransactionType(typ)
	if dateStr.Valid && dateStr.String != "" {
		d, err := time.Parse(dateLayout, dateStr.String)
		if err != nil {
			// A malformed stored date degrades to "no date"; aggregation
			// already treats dateless records as outside every period.
			return tx, nil
		}
		tx.Date = d
	}
	return tx, nil
}

func nullableDate(d time.Time) any {
	if d.IsZero() {
		return nil
	}
	return d.Format(dateLayout)
}
