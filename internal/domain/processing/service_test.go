package processing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/recurrence"
	"trackd/internal/domain/recurring"
	"trackd/internal/domain/transaction"
)

// MockAccountRepo implements account.Repository for testing.
type MockAccountRepo struct {
	GetByIDFunc      func(ctx context.Context, id string) (*account.Account, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*account.Account, error)
	ListAllFunc      func(ctx context.Context) ([]*account.Account, error)
	ApplyCatchUpFunc func(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error)
}

func (m *MockAccountRepo) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAccountRepo) ListAll(ctx context.Context) ([]*account.Account, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockAccountRepo) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	return nil, nil
}

func (m *MockAccountRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *MockAccountRepo) ApplyCatchUp(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error) {
	if m.ApplyCatchUpFunc != nil {
		return m.ApplyCatchUpFunc(ctx, id, delta, processedAt)
	}
	return nil, nil
}

// MockItemRepo implements recurring.Repository for testing.
type MockItemRepo struct {
	ListByAccountIDFunc func(ctx context.Context, accountID string) ([]*recurring.Item, error)
}

func (m *MockItemRepo) Create(ctx context.Context, params recurring.CreateParams) (*recurring.Item, error) {
	return nil, nil
}

func (m *MockItemRepo) GetByID(ctx context.Context, id string) (*recurring.Item, error) {
	return nil, nil
}

func (m *MockItemRepo) ListByUserID(ctx context.Context, userID int64, kind recurring.Kind) ([]*recurring.Item, error) {
	return nil, nil
}

func (m *MockItemRepo) ListByAccountID(ctx context.Context, accountID string) ([]*recurring.Item, error) {
	if m.ListByAccountIDFunc != nil {
		return m.ListByAccountIDFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *MockItemRepo) Update(ctx context.Context, id string, params recurring.UpdateParams) (*recurring.Item, error) {
	return nil, nil
}

func (m *MockItemRepo) Delete(ctx context.Context, id string) error { return nil }

// MockTransactionRepo implements transaction.Repository and records what was
// created so repeated catch-up runs see earlier output. Safe for the
// concurrent workers of CatchUpAll.
type MockTransactionRepo struct {
	mu      sync.Mutex
	Created []*transaction.Transaction
}

func (m *MockTransactionRepo) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn := &transaction.Transaction{
		ID:              fmt.Sprintf("txn-%d", len(m.Created)+1),
		UserID:          params.UserID,
		AccountID:       params.AccountID,
		Amount:          params.Amount,
		Currency:        params.Currency,
		TransactionDate: params.TransactionDate,
		Type:            params.Type,
		SourceID:        params.SourceID,
		SourceName:      params.SourceName,
		Description:     params.Description,
	}
	m.Created = append(m.Created, txn)
	return txn, nil
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	return nil, nil
}

func (m *MockTransactionRepo) ListByAccountID(ctx context.Context, accountID string, from, to time.Time) ([]*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*transaction.Transaction
	for _, txn := range m.Created {
		if txn.AccountID != accountID {
			continue
		}
		if txn.TransactionDate.Before(from) || txn.TransactionDate.After(to) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (m *MockTransactionRepo) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (m *MockTransactionRepo) Delete(ctx context.Context, id string) error { return nil }

func dayPtr(y int, mo time.Month, d int) *time.Time {
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

// catchUpFixture wires a single stateful account through the mocks so
// ApplyCatchUp is observable across runs.
type catchUpFixture struct {
	acct     *account.Account
	accounts *MockAccountRepo
	items    *MockItemRepo
	txns     *MockTransactionRepo
}

func newCatchUpFixture(acct *account.Account, items []*recurring.Item) *catchUpFixture {
	f := &catchUpFixture{acct: acct, txns: &MockTransactionRepo{}}
	f.accounts = &MockAccountRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			if id != acct.ID {
				return nil, nil
			}
			copied := *f.acct
			return &copied, nil
		},
		ApplyCatchUpFunc: func(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error) {
			f.acct.Amount += delta
			if f.acct.LastProcessedAt == nil || processedAt.After(*f.acct.LastProcessedAt) {
				t := processedAt
				f.acct.LastProcessedAt = &t
			}
			copied := *f.acct
			return &copied, nil
		},
	}
	f.items = &MockItemRepo{
		ListByAccountIDFunc: func(ctx context.Context, accountID string) ([]*recurring.Item, error) {
			return items, nil
		},
	}
	return f
}

func TestCatchUpAccount_MaterializesDueOccurrences(t *testing.T) {
	now := time.Date(2025, time.March, 20, 14, 0, 0, 0, time.UTC)
	created := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	acct := &account.Account{
		ID:        "acc-1",
		UserID:    1,
		Name:      "Checking",
		Amount:    1000,
		Currency:  "USD",
		CreatedAt: created,
		// Watermark just before three monthly occurrences.
		LastProcessedAt: dayPtr(2025, time.January, 10),
	}
	items := []*recurring.Item{{
		ID:         "sub-1",
		UserID:     1,
		Name:       "Gym",
		Amount:     50,
		Currency:   "USD",
		Kind:       recurring.KindSubscription,
		Period:     recurrence.Monthly,
		AnchorDate: dayPtr(2025, time.January, 15),
		AccountID:  strPtr("acc-1"),
	}}

	f := newCatchUpFixture(acct, items)
	svc := NewServiceWithClock(f.accounts, f.items, f.txns, nil, func() time.Time { return now })

	res, err := svc.CatchUpAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("CatchUpAccount() error: %v", err)
	}

	// Jan 15, Feb 15, Mar 15 are due.
	if res.TransactionsCreated != 3 {
		t.Errorf("created = %d, want 3", res.TransactionsCreated)
	}
	if res.TotalChange != -150.0 {
		t.Errorf("total change = %v, want -150", res.TotalChange)
	}
	if res.NewBalance != 850.0 {
		t.Errorf("new balance = %v, want 850", res.NewBalance)
	}
	// The watermark advances to the processing time itself, not to midnight.
	if !res.ProcessedThrough.Equal(now) {
		t.Errorf("processed through = %v, want %v", res.ProcessedThrough, now)
	}
	if acct.LastProcessedAt == nil || !acct.LastProcessedAt.Equal(now) {
		t.Errorf("watermark = %v, want %v", acct.LastProcessedAt, now)
	}
	for _, txn := range f.txns.Created {
		if txn.Amount != -50.0 {
			t.Errorf("transaction amount = %v, want -50", txn.Amount)
		}
		if txn.Type != transaction.TypeSubscription {
			t.Errorf("transaction type = %q, want subscription", txn.Type)
		}
	}
}

func TestCatchUpAccount_Idempotent(t *testing.T) {
	now := time.Date(2025, time.March, 20, 14, 0, 0, 0, time.UTC)
	acct := &account.Account{
		ID:              "acc-1",
		UserID:          1,
		Amount:          1000,
		Currency:        "USD",
		CreatedAt:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		LastProcessedAt: dayPtr(2025, time.January, 10),
	}
	items := []*recurring.Item{{
		ID:         "sub-1",
		UserID:     1,
		Name:       "Gym",
		Amount:     50,
		Currency:   "USD",
		Kind:       recurring.KindSubscription,
		Period:     recurrence.Monthly,
		AnchorDate: dayPtr(2025, time.January, 15),
	}}

	f := newCatchUpFixture(acct, items)
	svc := NewServiceWithClock(f.accounts, f.items, f.txns, nil, func() time.Time { return now })

	first, err := svc.CatchUpAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}

	// Roll the watermark back as if the advance was lost after the
	// transactions were written. The rerun must find them and record nothing.
	f.acct.LastProcessedAt = dayPtr(2025, time.January, 10)

	second, err := svc.CatchUpAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}

	if first.TransactionsCreated != 3 {
		t.Errorf("first run created = %d, want 3", first.TransactionsCreated)
	}
	if second.TransactionsCreated != 0 {
		t.Errorf("second run created = %d, want 0", second.TransactionsCreated)
	}
	if second.NewBalance != 850.0 {
		t.Errorf("balance after second run = %v, want 850", second.NewBalance)
	}
	if len(f.txns.Created) != 3 {
		t.Errorf("stored transactions = %d, want 3", len(f.txns.Created))
	}
}

func TestCatchUpAccount_UpToDateSkipsStorage(t *testing.T) {
	now := time.Date(2025, time.March, 20, 14, 0, 0, 0, time.UTC)
	watermark := time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)
	acct := &account.Account{
		ID:              "acc-1",
		UserID:          1,
		Amount:          1000,
		Currency:        "USD",
		CreatedAt:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		LastProcessedAt: &watermark,
	}
	items := []*recurring.Item{{
		ID:         "sub-1",
		UserID:     1,
		Name:       "Gym",
		Amount:     50,
		Currency:   "USD",
		Kind:       recurring.KindSubscription,
		Period:     recurrence.Monthly,
		AnchorDate: dayPtr(2025, time.March, 20),
	}}

	f := newCatchUpFixture(acct, items)
	applyCalls := 0
	inner := f.accounts.ApplyCatchUpFunc
	f.accounts.ApplyCatchUpFunc = func(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error) {
		applyCalls++
		return inner(ctx, id, delta, processedAt)
	}
	svc := NewServiceWithClock(f.accounts, f.items, f.txns, nil, func() time.Time { return now })

	res, err := svc.CatchUpAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("CatchUpAccount() error: %v", err)
	}

	if !res.UpToDate {
		t.Error("result not flagged up to date for a watermark within today")
	}
	if applyCalls != 0 {
		t.Errorf("ApplyCatchUp calls = %d, want 0 for an up-to-date account", applyCalls)
	}
	if res.TransactionsCreated != 0 || len(f.txns.Created) != 0 {
		t.Errorf("created = %d (stored %d), want nothing recorded", res.TransactionsCreated, len(f.txns.Created))
	}
	if !res.ProcessedThrough.Equal(watermark) {
		t.Errorf("processed through = %v, want the untouched watermark %v", res.ProcessedThrough, watermark)
	}
}

func TestCatchUpUser_ExcludesUpToDateAccounts(t *testing.T) {
	now := time.Date(2025, time.March, 20, 14, 0, 0, 0, time.UTC)
	fresh := time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)
	accts := []*account.Account{
		{ID: "acc-behind", UserID: 1, Amount: 1000, Currency: "USD", LastProcessedAt: dayPtr(2025, time.March, 1)},
		{ID: "acc-fresh", UserID: 1, Amount: 500, Currency: "USD", LastProcessedAt: &fresh},
	}

	accountRepo := &MockAccountRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			for _, a := range accts {
				if a.ID == id {
					copied := *a
					return &copied, nil
				}
			}
			return nil, nil
		},
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*account.Account, error) {
			return accts, nil
		},
		ApplyCatchUpFunc: func(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error) {
			for _, a := range accts {
				if a.ID == id {
					a.Amount += delta
					t := processedAt
					a.LastProcessedAt = &t
					copied := *a
					return &copied, nil
				}
			}
			return nil, nil
		},
	}
	itemRepo := &MockItemRepo{
		ListByAccountIDFunc: func(ctx context.Context, accountID string) ([]*recurring.Item, error) {
			return nil, nil
		},
	}

	svc := NewServiceWithClock(accountRepo, itemRepo, &MockTransactionRepo{}, nil, func() time.Time { return now })

	res, err := svc.CatchUpUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("CatchUpUser() error: %v", err)
	}
	if res.AccountsProcessed != 1 {
		t.Errorf("processed = %d, want 1 (up-to-date account excluded)", res.AccountsProcessed)
	}
	if !accts[1].LastProcessedAt.Equal(fresh) {
		t.Errorf("fresh account watermark = %v, want untouched %v", accts[1].LastProcessedAt, fresh)
	}
}

func TestCatchUpAccount_MissingAnchorYieldsNothing(t *testing.T) {
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	acct := &account.Account{
		ID:              "acc-1",
		UserID:          1,
		Amount:          1000,
		Currency:        "USD",
		LastProcessedAt: dayPtr(2025, time.January, 1),
	}
	items := []*recurring.Item{{
		ID:       "rev-1",
		UserID:   1,
		Name:     "Someday bonus",
		Amount:   500,
		Currency: "USD",
		Kind:     recurring.KindRevenue,
		Period:   recurrence.Once,
	}}

	f := newCatchUpFixture(acct, items)
	svc := NewServiceWithClock(f.accounts, f.items, f.txns, nil, func() time.Time { return now })

	res, err := svc.CatchUpAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("CatchUpAccount() error: %v", err)
	}
	if res.TransactionsCreated != 0 {
		t.Errorf("created = %d, want 0 for item without anchor", res.TransactionsCreated)
	}
	if res.NewBalance != 1000.0 {
		t.Errorf("balance = %v, want unchanged 1000", res.NewBalance)
	}
	// The watermark still advances on an empty run.
	if acct.LastProcessedAt == nil || !acct.LastProcessedAt.Equal(now) {
		t.Errorf("watermark = %v, want %v", acct.LastProcessedAt, now)
	}
}

func TestCatchUpAccount_OnceRevenueInWindow(t *testing.T) {
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	acct := &account.Account{
		ID:              "acc-1",
		UserID:          1,
		Amount:          100,
		Currency:        "USD",
		LastProcessedAt: dayPtr(2025, time.March, 1),
	}
	items := []*recurring.Item{{
		ID:         "rev-1",
		UserID:     1,
		Name:       "Tax refund",
		Amount:     300,
		Currency:   "USD",
		Kind:       recurring.KindRevenue,
		Period:     recurrence.Once,
		AnchorDate: dayPtr(2025, time.March, 10),
	}}

	f := newCatchUpFixture(acct, items)
	svc := NewServiceWithClock(f.accounts, f.items, f.txns, nil, func() time.Time { return now })

	res, err := svc.CatchUpAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("CatchUpAccount() error: %v", err)
	}
	if res.TransactionsCreated != 1 {
		t.Errorf("created = %d, want 1", res.TransactionsCreated)
	}
	if res.NewBalance != 400.0 {
		t.Errorf("balance = %v, want 400", res.NewBalance)
	}
	if len(f.txns.Created) == 1 && f.txns.Created[0].Type != transaction.TypeRevenue {
		t.Errorf("type = %q, want revenue", f.txns.Created[0].Type)
	}
}

// Catch-up sums item amounts in their native currency and applies the sum to
// the account balance without conversion. An EUR subscription against a USD
// account therefore moves the balance by the raw EUR figure. This pins the
// current behavior so a future conversion step shows up as a test change.
func TestCatchUpAccount_MixedCurrencySumsNativeAmounts(t *testing.T) {
	now := time.Date(2025, time.March, 20, 14, 0, 0, 0, time.UTC)
	acct := &account.Account{
		ID:              "acc-1",
		UserID:          1,
		Amount:          1000,
		Currency:        "USD",
		CreatedAt:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		LastProcessedAt: dayPtr(2025, time.March, 1),
	}
	items := []*recurring.Item{{
		ID:         "sub-eur",
		UserID:     1,
		Name:       "Hosting",
		Amount:     20,
		Currency:   "EUR",
		Kind:       recurring.KindSubscription,
		Period:     recurrence.Monthly,
		AnchorDate: dayPtr(2025, time.January, 10),
		AccountID:  strPtr("acc-1"),
	}}

	f := newCatchUpFixture(acct, items)
	svc := NewServiceWithClock(f.accounts, f.items, f.txns, nil, func() time.Time { return now })

	res, err := svc.CatchUpAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("CatchUpAccount() error: %v", err)
	}

	if res.TotalChange != -20.0 {
		t.Errorf("total change = %v, want -20 (native EUR amount)", res.TotalChange)
	}
	if res.NewBalance != 980.0 {
		t.Errorf("new balance = %v, want 980", res.NewBalance)
	}
	if len(f.txns.Created) != 1 || f.txns.Created[0].Currency != "EUR" {
		t.Errorf("transaction should carry the item currency EUR, got %+v", f.txns.Created)
	}
}

func TestCatchUpAccount_NotFound(t *testing.T) {
	f := newCatchUpFixture(&account.Account{ID: "acc-1", UserID: 1}, nil)
	svc := NewServiceWithClock(f.accounts, f.items, f.txns, nil, time.Now)

	_, err := svc.CatchUpAccount(context.Background(), "missing")
	if !errors.Is(err, account.ErrAccountNotFound) {
		t.Errorf("error = %v, want ErrAccountNotFound", err)
	}
}

type recordingNotifier struct {
	calls int
	count int
}

func (n *recordingNotifier) NotifyTransactionsCreated(ctx context.Context, userID int64, accountName string, created int, totalChange float64, currency string) error {
	n.calls++
	n.count = created
	return nil
}

func TestCatchUpAccount_NotifiesOnlyWhenCreated(t *testing.T) {
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	acct := &account.Account{
		ID:              "acc-1",
		UserID:          1,
		Amount:          1000,
		Currency:        "USD",
		LastProcessedAt: dayPtr(2025, time.March, 1),
	}
	items := []*recurring.Item{{
		ID:         "sub-1",
		UserID:     1,
		Name:       "Hosting",
		Amount:     10,
		Currency:   "USD",
		Kind:       recurring.KindSubscription,
		Period:     recurrence.Monthly,
		AnchorDate: dayPtr(2025, time.March, 5),
	}}

	f := newCatchUpFixture(acct, items)
	notifier := &recordingNotifier{}
	svc := NewServiceWithClock(f.accounts, f.items, f.txns, notifier, func() time.Time { return now })

	if _, err := svc.CatchUpAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if notifier.calls != 1 || notifier.count != 1 {
		t.Errorf("notifier calls = %d (count %d), want 1 call for 1 transaction", notifier.calls, notifier.count)
	}

	if _, err := svc.CatchUpAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want no notification on an empty run", notifier.calls)
	}
}

func TestCatchUpAll_SweepsAllAccounts(t *testing.T) {
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	accts := map[string]*account.Account{
		"acc-1": {ID: "acc-1", UserID: 1, Amount: 1000, Currency: "USD", LastProcessedAt: dayPtr(2025, time.March, 1)},
		"acc-2": {ID: "acc-2", UserID: 2, Amount: 500, Currency: "USD", LastProcessedAt: dayPtr(2025, time.March, 1)},
	}
	itemsByAcct := map[string][]*recurring.Item{
		"acc-1": {{
			ID: "sub-1", UserID: 1, Name: "Gym", Amount: 50, Currency: "USD",
			Kind: recurring.KindSubscription, Period: recurrence.Monthly,
			AnchorDate: dayPtr(2025, time.March, 15),
		}},
		"acc-2": {{
			ID: "rev-1", UserID: 2, Name: "Salary", Amount: 2000, Currency: "USD",
			Kind: recurring.KindRevenue, Period: recurrence.Monthly,
			AnchorDate: dayPtr(2025, time.March, 10),
		}},
	}

	txns := &MockTransactionRepo{}
	var mu sync.Mutex
	accountRepo := &MockAccountRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			mu.Lock()
			defer mu.Unlock()
			if a, ok := accts[id]; ok {
				copied := *a
				return &copied, nil
			}
			return nil, nil
		},
		ListAllFunc: func(ctx context.Context) ([]*account.Account, error) {
			mu.Lock()
			defer mu.Unlock()
			return []*account.Account{accts["acc-1"], accts["acc-2"]}, nil
		},
		ApplyCatchUpFunc: func(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error) {
			mu.Lock()
			defer mu.Unlock()
			a := accts[id]
			a.Amount += delta
			t := processedAt
			a.LastProcessedAt = &t
			copied := *a
			return &copied, nil
		},
	}
	items := &MockItemRepo{
		ListByAccountIDFunc: func(ctx context.Context, accountID string) ([]*recurring.Item, error) {
			return itemsByAcct[accountID], nil
		},
	}

	svc := NewServiceWithClock(accountRepo, items, txns, nil, func() time.Time { return now })
	svc.SetWorkerCount(2)

	res, err := svc.CatchUpAll(context.Background())
	if err != nil {
		t.Fatalf("CatchUpAll() error: %v", err)
	}
	if res.AccountsProcessed != 2 {
		t.Errorf("processed = %d, want 2", res.AccountsProcessed)
	}
	if res.TransactionsCreated != 2 {
		t.Errorf("created = %d, want 2", res.TransactionsCreated)
	}
	if len(res.Errors) != 0 {
		t.Errorf("errors = %v, want none", res.Errors)
	}
	if accts["acc-1"].Amount != 950.0 {
		t.Errorf("acc-1 balance = %v, want 950", accts["acc-1"].Amount)
	}
	if accts["acc-2"].Amount != 2500.0 {
		t.Errorf("acc-2 balance = %v, want 2500", accts["acc-2"].Amount)
	}
}
