// Package processing materializes recurring items into transactions and
// advances each account's balance and watermark. Catch-up is idempotent: an
// occurrence is identified by its source item and calendar day, and is never
// recorded twice.
package processing

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/recurrence"
	"trackd/internal/domain/recurring"
	"trackd/internal/domain/transaction"
)

// DefaultWorkerCount is the number of concurrent workers for CatchUpAll.
const DefaultWorkerCount = 4

// Notifier receives a push when catch-up records new transactions for an
// account. A nil Notifier disables notifications.
type Notifier interface {
	NotifyTransactionsCreated(ctx context.Context, userID int64, accountName string, created int, totalChange float64, currency string) error
}

// CatchUpResult summarizes one account's catch-up run.
type CatchUpResult struct {
	AccountID           string    `json:"accountId"`
	TransactionsCreated int       `json:"transactionsCreated"`
	TotalChange         float64   `json:"totalChange"`
	NewBalance          float64   `json:"newBalance"`
	ProcessedThrough    time.Time `json:"processedThrough"`
	UpToDate            bool      `json:"upToDate"`
}

// CatchUpAllResult aggregates a full catch-up sweep.
type CatchUpAllResult struct {
	AccountsProcessed   int      `json:"accountsProcessed"`
	TransactionsCreated int      `json:"transactionsCreated"`
	Errors              []string `json:"errors"`
}

// Service runs catch-up processing over accounts.
type Service struct {
	accounts     account.Repository
	items        recurring.Repository
	transactions transaction.Repository
	notifier     Notifier
	now          func() time.Time
	workerCount  int
}

// NewService creates a processing service. notifier may be nil.
func NewService(accounts account.Repository, items recurring.Repository, transactions transaction.Repository, notifier Notifier) *Service {
	return &Service{
		accounts:     accounts,
		items:        items,
		transactions: transactions,
		notifier:     notifier,
		now:          time.Now,
		workerCount:  DefaultWorkerCount,
	}
}

// NewServiceWithClock creates a processing service with an injected clock.
func NewServiceWithClock(accounts account.Repository, items recurring.Repository, transactions transaction.Repository, notifier Notifier, now func() time.Time) *Service {
	s := NewService(accounts, items, transactions, notifier)
	s.now = now
	return s
}

// SetWorkerCount overrides the CatchUpAll concurrency. Values <= 0 are ignored.
func (s *Service) SetWorkerCount(n int) {
	if n > 0 {
		s.workerCount = n
	}
}

// upToDate reports whether the account's watermark already falls within
// today, meaning the last catch-up ran today and there is nothing new due.
func upToDate(acct *account.Account, now time.Time) bool {
	return acct.LastProcessedAt != nil && !acct.LastProcessedAt.Before(recurrence.StartOfDay(now))
}

// windowStart picks the day catch-up resumes from: the account's watermark,
// falling back to its creation date, falling back to now.
func (s *Service) windowStart(acct *account.Account, now time.Time) time.Time {
	switch {
	case acct.LastProcessedAt != nil:
		return recurrence.StartOfDay(*acct.LastProcessedAt)
	case !acct.CreatedAt.IsZero():
		return recurrence.StartOfDay(acct.CreatedAt)
	default:
		return recurrence.StartOfDay(now)
	}
}

// CatchUpAccount processes all due occurrences for one account: every
// occurrence of its linked items between the watermark and today is recorded
// as a transaction, the balance is adjusted by the sum of new signed amounts
// in the account's currency, and the watermark advances to now. An account
// whose watermark is already within today is up to date and is skipped
// without touching storage. Occurrences already recorded are skipped, so
// repeated runs are no-ops.
func (s *Service) CatchUpAccount(ctx context.Context, accountID string) (*CatchUpResult, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("loading account %s: %w", accountID, err)
	}
	if acct == nil {
		return nil, account.ErrAccountNotFound
	}

	now := s.now()
	if upToDate(acct, now) {
		return &CatchUpResult{
			AccountID:        acct.ID,
			NewBalance:       acct.Amount,
			ProcessedThrough: *acct.LastProcessedAt,
			UpToDate:         true,
		}, nil
	}

	from := s.windowStart(acct, now)
	to := recurrence.StartOfDay(now)

	existing, err := s.transactions.ListByAccountID(ctx, acct.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading existing transactions for %s: %w", acct.ID, err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, txn := range existing {
		seen[txn.DedupKey()] = struct{}{}
	}

	items, err := s.items.ListByAccountID(ctx, acct.ID)
	if err != nil {
		return nil, fmt.Errorf("loading items for %s: %w", acct.ID, err)
	}

	var pending []transaction.CreateParams
	var totalChange float64
	for _, item := range items {
		if item.AnchorDate == nil {
			continue
		}
		for _, due := range recurrence.OccurrencesBetween(*item.AnchorDate, item.Period, from, to) {
			key := transaction.DedupKey(item.ID, due)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pending = append(pending, transaction.CreateParams{
				UserID:          acct.UserID,
				AccountID:       acct.ID,
				Amount:          item.SignedAmount(),
				Currency:        item.Currency,
				TransactionDate: due,
				Type:            transaction.Type(item.Kind),
				SourceID:        item.ID,
				SourceName:      item.Name,
				Description:     item.Name,
			})
			totalChange += item.SignedAmount()
		}
	}

	if len(pending) == 0 {
		if _, err := s.accounts.ApplyCatchUp(ctx, acct.ID, 0, now); err != nil {
			return nil, fmt.Errorf("advancing watermark for %s: %w", acct.ID, err)
		}
		return &CatchUpResult{AccountID: acct.ID, NewBalance: acct.Amount, ProcessedThrough: now}, nil
	}

	for _, params := range pending {
		if _, err := s.transactions.Create(ctx, params); err != nil {
			return nil, fmt.Errorf("recording transaction for item %s: %w", params.SourceID, err)
		}
	}

	updated, err := s.accounts.ApplyCatchUp(ctx, acct.ID, totalChange, now)
	if err != nil {
		return nil, fmt.Errorf("applying balance change for %s: %w", acct.ID, err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyTransactionsCreated(ctx, acct.UserID, acct.Name, len(pending), totalChange, acct.Currency); err != nil {
			log.Printf("Failed to notify user %d about %d new transactions: %v", acct.UserID, len(pending), err)
		}
	}

	return &CatchUpResult{
		AccountID:           acct.ID,
		TransactionsCreated: len(pending),
		TotalChange:         totalChange,
		NewBalance:          updated.Amount,
		ProcessedThrough:    now,
	}, nil
}

// CatchUpUser runs catch-up over all of one user's accounts sequentially.
func (s *Service) CatchUpUser(ctx context.Context, userID int64) (*CatchUpAllResult, error) {
	accounts, err := s.accounts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts for user %d: %w", userID, err)
	}
	result := &CatchUpAllResult{Errors: []string{}}
	for _, acct := range accounts {
		res, err := s.CatchUpAccount(ctx, acct.ID)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if res.UpToDate {
			continue
		}
		result.AccountsProcessed++
		result.TransactionsCreated += res.TransactionsCreated
	}
	return result, nil
}

// CatchUpAll sweeps every account with a bounded worker pool. Per-account
// failures are collected, not fatal: one broken account must not stall the
// rest of the sweep.
func (s *Service) CatchUpAll(ctx context.Context) (*CatchUpAllResult, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	result := &CatchUpAllResult{Errors: []string{}}
	if len(accounts) == 0 {
		return result, nil
	}

	jobs := make(chan string, len(accounts))
	results := make(chan catchUpJobResult, len(accounts))

	var wg sync.WaitGroup
	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go s.catchUpWorker(ctx, jobs, results, &wg)
	}

	for _, acct := range accounts {
		jobs <- acct.ID
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for jr := range results {
		if jr.err != nil {
			result.Errors = append(result.Errors, jr.err.Error())
			continue
		}
		if jr.skipped {
			continue
		}
		result.AccountsProcessed++
		result.TransactionsCreated += jr.created
	}

	log.Printf("Catch-up sweep completed: accounts=%d, created=%d, errors=%d",
		result.AccountsProcessed, result.TransactionsCreated, len(result.Errors))

	return result, nil
}

type catchUpJobResult struct {
	created int
	skipped bool
	err     error
}

func (s *Service) catchUpWorker(ctx context.Context, jobs <-chan string, results chan<- catchUpJobResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for accountID := range jobs {
		select {
		case <-ctx.Done():
			results <- catchUpJobResult{err: ctx.Err()}
			return
		default:
			res, err := s.CatchUpAccount(ctx, accountID)
			if err != nil {
				results <- catchUpJobResult{err: fmt.Errorf("account %s: %w", accountID, err)}
				continue
			}
			results <- catchUpJobResult{created: res.TransactionsCreated, skipped: res.UpToDate}
		}
	}
}
