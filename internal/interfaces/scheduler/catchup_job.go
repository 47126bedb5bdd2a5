package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/processing"
	"trackd/internal/domain/recurrence"
)

// CatchUpJob materializes due recurring transactions for one account.
type CatchUpJob struct {
	accountID  string
	processing *processing.Service
}

// NewCatchUpJob creates a catch-up job for the given account.
func NewCatchUpJob(accountID string, processingService *processing.Service) *CatchUpJob {
	return &CatchUpJob{accountID: accountID, processing: processingService}
}

func (j *CatchUpJob) Execute(ctx context.Context) error {
	result, err := j.processing.CatchUpAccount(ctx, j.accountID)
	if err != nil {
		return fmt.Errorf("catch-up for account %s: %w", j.accountID, err)
	}
	if result.TransactionsCreated > 0 {
		log.Printf("Catch-up: account %s gained %d transactions (change %.2f)",
			j.accountID, result.TransactionsCreated, result.TotalChange)
	}
	return nil
}

func (j *CatchUpJob) AccountID() string {
	return j.accountID
}

func (j *CatchUpJob) Description() string {
	return "recurring catch-up"
}

// CatchUpJobProvider builds one catch-up job per account that is behind.
// Accounts whose watermark already falls within today are up to date and
// never reach the queue. Wired as the scheduler's job provider.
func CatchUpJobProvider(accounts account.Repository, processingService *processing.Service) func(context.Context) ([]Job, error) {
	return catchUpJobProvider(accounts, processingService, time.Now)
}

func catchUpJobProvider(accounts account.Repository, processingService *processing.Service, now func() time.Time) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		all, err := accounts.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing accounts for catch-up: %w", err)
		}

		startOfToday := recurrence.StartOfDay(now())
		jobs := make([]Job, 0, len(all))
		for _, acct := range all {
			if acct.LastProcessedAt != nil && !acct.LastProcessedAt.Before(startOfToday) {
				continue
			}
			jobs = append(jobs, NewCatchUpJob(acct.ID, processingService))
		}
		return jobs, nil
	}
}
