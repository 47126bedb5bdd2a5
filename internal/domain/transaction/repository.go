package transaction

import (
	"context"
	"time"
)

// Repository defines the interface for transaction data access.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	// ListByAccountID returns the account's transactions with dates in
	// [from, to], ordered by transaction date ascending. Zero bounds are
	// open on that side.
	ListByAccountID(ctx context.Context, accountID string, from, to time.Time) ([]*Transaction, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Transaction, error)
	Delete(ctx context.Context, id string) error
}
