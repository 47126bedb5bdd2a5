package recurring

import (
	"context"
	"errors"
	"time"

	"trackd/internal/domain/recurrence"
)

// Service contains the business logic for recurring item operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a recurring item service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceWithClock creates a recurring item service with an injected clock.
func NewServiceWithClock(repo Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// CreateItem creates a recurring item with business validation.
func (s *Service) CreateItem(ctx context.Context, params CreateParams) (*Item, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.AnchorDate != nil {
		normalized := recurrence.StartOfDay(*params.AnchorDate)
		params.AnchorDate = &normalized
	}
	return s.repo.Create(ctx, params)
}

// GetItem retrieves an item by ID and verifies user ownership.
func (s *Service) GetItem(ctx context.Context, itemID string, userID int64) (*Item, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}
	return item, nil
}

// ListByUser retrieves all items of a kind for a user. One-time revenues past
// their visibility window (the month after they occurred) are filtered out.
func (s *Service) ListByUser(ctx context.Context, userID int64, kind Kind) ([]*Item, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}

	items, err := s.repo.ListByUserID(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	now := s.now()
	visible := items[:0]
	for _, item := range items {
		if item.Period == recurrence.Once && item.AnchorDate != nil &&
			recurrence.SuppressCompletedOneTime(*item.AnchorDate, now) {
			continue
		}
		visible = append(visible, item)
	}
	return visible, nil
}

// ListByAccount retrieves all items linked to an account. Ownership of the
// account is the caller's responsibility.
func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]*Item, error) {
	if accountID == "" {
		return nil, errors.New("account ID is required")
	}
	return s.repo.ListByAccountID(ctx, accountID)
}

// UpdateItem updates an item after verifying ownership.
func (s *Service) UpdateItem(ctx context.Context, itemID string, userID int64, params UpdateParams) (*Item, error) {
	if _, err := s.GetItem(ctx, itemID, userID); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.AnchorDate != nil {
		normalized := recurrence.StartOfDay(*params.AnchorDate)
		params.AnchorDate = &normalized
	}
	return s.repo.Update(ctx, itemID, params)
}

// DeleteItem deletes an item after verifying ownership.
func (s *Service) DeleteItem(ctx context.Context, itemID string, userID int64) error {
	if _, err := s.GetItem(ctx, itemID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, itemID)
}

// NextPaymentLabel returns the item's next occurrence and its display label
// ("Today", "Tomorrow", "In 3 days", "Jan 2"). The boolean is false when the
// item has no upcoming occurrence.
func (s *Service) NextPaymentLabel(item *Item) (time.Time, string, bool) {
	if item.AnchorDate == nil {
		return time.Time{}, "", false
	}
	now := s.now()
	next, ok := recurrence.NextOccurrence(*item.AnchorDate, item.Period, now)
	if !ok {
		return time.Time{}, "", false
	}
	return next, recurrence.FormatRelative(next, now), true
}
