// Package local is the in-process storage backend. It implements the same
// repository interfaces as the postgres package so the engines can run
// against either, selected by configuration.
package local

import (
	"sync"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/notification"
	"trackd/internal/domain/recurring"
	"trackd/internal/domain/transaction"
	"trackd/internal/domain/user"
)

// Store holds all in-memory state behind one mutex. Records are copied on the
// way in and out so callers never share memory with the store.
type Store struct {
	mu sync.RWMutex

	now func() time.Time

	nextUserID   int64
	users        map[int64]user.User
	accounts     map[string]account.Account
	items        map[string]recurring.Item
	transactions map[string]transaction.Transaction
	deviceTokens map[string]notification.DeviceToken
	preferences  map[int64]notification.Preference
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates a store with an injected clock, so tests control
// the created/updated timestamps.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:          now,
		nextUserID:   1,
		users:        map[int64]user.User{},
		accounts:     map[string]account.Account{},
		items:        map[string]recurring.Item{},
		transactions: map[string]transaction.Transaction{},
		deviceTokens: map[string]notification.DeviceToken{},
		preferences:  map[int64]notification.Preference{},
	}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{store: s} }

// Items returns the recurring item repository view of the store.
func (s *Store) Items() *RecurringRepository { return &RecurringRepository{store: s} }

// Transactions returns the transaction repository view of the store.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{store: s} }

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// Notifications returns the notification repository view of the store.
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{store: s} }
