package recurring

import "context"

// Repository defines the interface for recurring item data access.
// An empty kind in list calls means both kinds.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByUserID(ctx context.Context, userID int64, kind Kind) ([]*Item, error)
	ListByAccountID(ctx context.Context, accountID string) ([]*Item, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Item, error)
	Delete(ctx context.Context, id string) error
}
