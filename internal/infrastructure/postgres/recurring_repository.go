package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"trackd/internal/domain/recurrence"
	"trackd/internal/domain/recurring"
)

// RecurringRepository implements recurring.Repository for PostgreSQL.
type RecurringRepository struct {
	db *DB
}

// NewRecurringRepository creates a PostgreSQL recurring item repository.
func NewRecurringRepository(db *DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

const itemColumns = `id, user_id, name, amount, currency, kind, period, anchor_date, account_id, created_at, updated_at`

func scanItem(scanner interface{ Scan(...any) error }) (*recurring.Item, error) {
	var item recurring.Item
	var period string
	var anchor sql.NullTime
	var accountID sql.NullString

	err := scanner.Scan(
		&item.ID, &item.UserID, &item.Name, &item.Amount, &item.Currency,
		&item.Kind, &period, &anchor, &accountID,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Period = recurrence.Period(period)
	if anchor.Valid {
		t := anchor.Time
		item.AnchorDate = &t
	}
	if accountID.Valid {
		s := accountID.String
		item.AccountID = &s
	}
	return &item, nil
}

// Create creates a new recurring item.
func (r *RecurringRepository) Create(ctx context.Context, params recurring.CreateParams) (*recurring.Item, error) {
	query := `
		INSERT INTO recurring_items (id, user_id, name, amount, currency, kind, period, anchor_date, account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + itemColumns

	item, err := scanItem(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.Name, params.Amount, params.Currency,
		string(params.Kind), string(params.Period), nullTimePtr(params.AnchorDate), nullStringPtr(params.AccountID),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create recurring item: %w", err)
	}
	return item, nil
}

// GetByID retrieves an item by its ID.
func (r *RecurringRepository) GetByID(ctx context.Context, id string) (*recurring.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM recurring_items WHERE id = $1`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, recurring.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring item: %w", err)
	}
	return item, nil
}

// ListByUserID retrieves a user's items, optionally filtered to one kind.
func (r *RecurringRepository) ListByUserID(ctx context.Context, userID int64, kind recurring.Kind) ([]*recurring.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM recurring_items WHERE user_id = $1`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListByAccountID retrieves all items linked to an account.
func (r *RecurringRepository) ListByAccountID(ctx context.Context, accountID string) ([]*recurring.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM recurring_items WHERE account_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring items by account: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]*recurring.Item, error) {
	var items []*recurring.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring items: %w", err)
	}
	return items, nil
}

// Update applies non-nil fields to an item.
func (r *RecurringRepository) Update(ctx context.Context, id string, params recurring.UpdateParams) (*recurring.Item, error) {
	var period sql.NullString
	if params.Period != nil {
		period = sql.NullString{String: string(*params.Period), Valid: true}
	}

	query := `
		UPDATE recurring_items
		SET name = COALESCE($2, name),
		    amount = COALESCE($3, amount),
		    currency = COALESCE($4, currency),
		    period = COALESCE($5, period),
		    anchor_date = COALESCE($6, anchor_date),
		    account_id = COALESCE($7, account_id),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + itemColumns

	item, err := scanItem(r.db.QueryRowContext(
		ctx, query, id,
		nullStringPtr(params.Name), nullFloat64Ptr(params.Amount), nullStringPtr(params.Currency),
		period, nullTimePtr(params.AnchorDate), nullStringPtr(params.AccountID),
	))
	if err == sql.ErrNoRows {
		return nil, recurring.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update recurring item: %w", err)
	}
	return item, nil
}

// Delete removes an item.
func (r *RecurringRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recurring_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurring item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return recurring.ErrItemNotFound
	}
	return nil
}
