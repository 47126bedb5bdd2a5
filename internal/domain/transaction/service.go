package transaction

import (
	"context"
	"time"
)

// Service contains the business logic for transaction queries. Writes go
// through the catch-up engine, not through this service.
type Service struct {
	repo Repository
}

// NewService creates a transaction service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetTransaction retrieves a transaction by ID and verifies user ownership.
func (s *Service) GetTransaction(ctx context.Context, id string, userID int64) (*Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if txn.UserID != userID {
		return nil, ErrForbidden
	}
	return txn, nil
}

// ListByAccount returns an account's transactions within the date range.
func (s *Service) ListByAccount(ctx context.Context, accountID string, from, to time.Time) ([]*Transaction, error) {
	return s.repo.ListByAccountID(ctx, accountID, from, to)
}

// ListByUser returns a page of the user's transactions.
func (s *Service) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

// DeleteTransaction deletes a transaction after verifying ownership.
func (s *Service) DeleteTransaction(ctx context.Context, id string, userID int64) error {
	if _, err := s.GetTransaction(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
