package local

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"trackd/internal/domain/account"
)

// AccountRepository implements account.Repository over the in-memory store.
type AccountRepository struct {
	store *Store
}

func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	acc := account.Account{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		Name:      params.Name,
		Amount:    params.Amount,
		Currency:  params.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[acc.ID] = acc

	out := copyAccount(acc)
	return &out, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	out := copyAccount(acc)
	return &out, nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var accounts []*account.Account
	for _, acc := range s.accounts {
		if acc.UserID != userID {
			continue
		}
		out := copyAccount(acc)
		accounts = append(accounts, &out)
	}
	sortAccounts(accounts)
	return accounts, nil
}

func (r *AccountRepository) ListAll(ctx context.Context) ([]*account.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*account.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out := copyAccount(acc)
		accounts = append(accounts, &out)
	}
	sortAccounts(accounts)
	return accounts, nil
}

func sortAccounts(accounts []*account.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
}

func (r *AccountRepository) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	if params.Name != nil {
		acc.Name = *params.Name
	}
	if params.Amount != nil {
		acc.Amount = *params.Amount
	}
	if params.Currency != nil {
		acc.Currency = *params.Currency
	}
	acc.UpdatedAt = s.now()
	s.accounts[id] = acc

	out := copyAccount(acc)
	return &out, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return account.ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

// ApplyCatchUp adjusts the balance by delta and advances the watermark,
// keeping it monotonically non-decreasing.
func (r *AccountRepository) ApplyCatchUp(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	acc.Amount += delta
	if acc.LastProcessedAt == nil || processedAt.After(*acc.LastProcessedAt) {
		t := processedAt
		acc.LastProcessedAt = &t
	}
	acc.UpdatedAt = s.now()
	s.accounts[id] = acc

	out := copyAccount(acc)
	return &out, nil
}

// copyAccount deep-copies an account so the store's pointers never escape.
func copyAccount(acc account.Account) account.Account {
	if acc.LastProcessedAt != nil {
		t := *acc.LastProcessedAt
		acc.LastProcessedAt = &t
	}
	return acc
}
