package local

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"trackd/internal/domain/recurring"
)

// RecurringRepository implements recurring.Repository over the in-memory
// store.
type RecurringRepository struct {
	store *Store
}

func (r *RecurringRepository) Create(ctx context.Context, params recurring.CreateParams) (*recurring.Item, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	item := recurring.Item{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		Name:      params.Name,
		Amount:    params.Amount,
		Currency:  params.Currency,
		Kind:      params.Kind,
		Period:    params.Period,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if params.AnchorDate != nil {
		t := *params.AnchorDate
		item.AnchorDate = &t
	}
	if params.AccountID != nil {
		id := *params.AccountID
		item.AccountID = &id
	}
	s.items[item.ID] = item

	out := copyItem(item)
	return &out, nil
}

func (r *RecurringRepository) GetByID(ctx context.Context, id string) (*recurring.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, recurring.ErrItemNotFound
	}
	out := copyItem(item)
	return &out, nil
}

func (r *RecurringRepository) ListByUserID(ctx context.Context, userID int64, kind recurring.Kind) ([]*recurring.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*recurring.Item
	for _, item := range s.items {
		if item.UserID != userID {
			continue
		}
		if kind != "" && item.Kind != kind {
			continue
		}
		out := copyItem(item)
		items = append(items, &out)
	}
	sortItems(items)
	return items, nil
}

func (r *RecurringRepository) ListByAccountID(ctx context.Context, accountID string) ([]*recurring.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*recurring.Item
	for _, item := range s.items {
		if !item.LinkedTo(accountID) {
			continue
		}
		out := copyItem(item)
		items = append(items, &out)
	}
	sortItems(items)
	return items, nil
}

func (r *RecurringRepository) Update(ctx context.Context, id string, params recurring.UpdateParams) (*recurring.Item, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, recurring.ErrItemNotFound
	}
	if params.Name != nil {
		item.Name = *params.Name
	}
	if params.Amount != nil {
		item.Amount = *params.Amount
	}
	if params.Currency != nil {
		item.Currency = *params.Currency
	}
	if params.Period != nil {
		item.Period = *params.Period
	}
	if params.AnchorDate != nil {
		t := *params.AnchorDate
		item.AnchorDate = &t
	}
	if params.AccountID != nil {
		accountID := *params.AccountID
		item.AccountID = &accountID
	}
	item.UpdatedAt = s.now()
	s.items[id] = item

	out := copyItem(item)
	return &out, nil
}

func (r *RecurringRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return recurring.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

// copyItem deep-copies an item so the store's pointers never escape.
func copyItem(item recurring.Item) recurring.Item {
	if item.AnchorDate != nil {
		t := *item.AnchorDate
		item.AnchorDate = &t
	}
	if item.AccountID != nil {
		id := *item.AccountID
		item.AccountID = &id
	}
	return item
}

func sortItems(items []*recurring.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
