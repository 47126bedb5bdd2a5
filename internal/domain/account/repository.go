package account

import (
	"context"
	"time"
)

// Repository defines the interface for account data access. It is implemented
// by both the postgres store and the local in-memory store; the engines never
// care which one they are talking to.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Account, error)
	ListAll(ctx context.Context) ([]*Account, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Account, error)
	Delete(ctx context.Context, id string) error
	// ApplyCatchUp adjusts the balance by delta and advances the watermark
	// after a catch-up pass. Implementations must keep LastProcessedAt
	// monotonically non-decreasing: a processedAt earlier than the stored
	// watermark is a no-op for the watermark.
	ApplyCatchUp(ctx context.Context, id string, delta float64, processedAt time.Time) (*Account, error)
}
