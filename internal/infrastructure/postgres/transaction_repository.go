package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trackd/internal/domain/transaction"
)

// TransactionRepository implements transaction.Repository for PostgreSQL.
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a PostgreSQL transaction repository.
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, account_id, amount, currency, transaction_date, type, source_id, source_name, description, created_at`

func scanTransaction(scanner interface{ Scan(...any) error }) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	var txnType string

	err := scanner.Scan(
		&txn.ID, &txn.UserID, &txn.AccountID, &txn.Amount, &txn.Currency,
		&txn.TransactionDate, &txnType, &txn.SourceID, &txn.SourceName,
		&txn.Description, &txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn.Type = transaction.Type(txnType)
	return &txn, nil
}

// Create records a materialized transaction. The unique index on
// (account_id, source_id, transaction_date) backs the dedup key, so a
// concurrent duplicate insert fails instead of double-recording.
func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO transactions (id, user_id, account_id, amount, currency, transaction_date, type, source_id, source_name, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns

	txn, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.AccountID, params.Amount, params.Currency,
		params.TransactionDate, string(params.Type), params.SourceID, params.SourceName, params.Description,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

// GetByID retrieves a transaction by its ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListByAccountID retrieves an account's transactions within [from, to],
// ordered ascending by date. Zero bounds leave that side open.
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID string, from, to time.Time) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1`
	args := []any{accountID}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(` AND transaction_date >= $%d`, len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(` AND transaction_date <= $%d`, len(args))
	}
	query += ` ORDER BY transaction_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByUserID retrieves a page of a user's transactions, newest first.
func (r *TransactionRepository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY transaction_date DESC, created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]*transaction.Transaction, error) {
	var txns []*transaction.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}
