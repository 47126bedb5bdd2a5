package local

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"trackd/internal/domain/transaction"
)

// TransactionRepository implements transaction.Repository over the in-memory
// store.
type TransactionRepository struct {
	store *Store
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	txn := transaction.Transaction{
		ID:              uuid.NewString(),
		UserID:          params.UserID,
		AccountID:       params.AccountID,
		Amount:          params.Amount,
		Currency:        params.Currency,
		TransactionDate: params.TransactionDate,
		Type:            params.Type,
		SourceID:        params.SourceID,
		SourceName:      params.SourceName,
		Description:     params.Description,
		CreatedAt:       s.now(),
	}
	s.transactions[txn.ID] = txn

	out := txn
	return &out, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	out := txn
	return &out, nil
}

func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID string, from, to time.Time) ([]*transaction.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txns []*transaction.Transaction
	for _, txn := range s.transactions {
		if txn.AccountID != accountID {
			continue
		}
		if !from.IsZero() && txn.TransactionDate.Before(from) {
			continue
		}
		if !to.IsZero() && txn.TransactionDate.After(to) {
			continue
		}
		out := txn
		txns = append(txns, &out)
	}
	sort.Slice(txns, func(i, j int) bool {
		return txns[i].TransactionDate.Before(txns[j].TransactionDate)
	})
	return txns, nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*transaction.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txns []*transaction.Transaction
	for _, txn := range s.transactions {
		if txn.UserID != userID {
			continue
		}
		out := txn
		txns = append(txns, &out)
	}
	sort.Slice(txns, func(i, j int) bool {
		return txns[i].TransactionDate.After(txns[j].TransactionDate)
	})

	if offset >= len(txns) {
		return nil, nil
	}
	txns = txns[offset:]
	if limit > 0 && limit < len(txns) {
		txns = txns[:limit]
	}
	return txns, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return transaction.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	return nil
}
