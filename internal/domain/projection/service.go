package projection

import (
	"context"
	"sort"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/recurrence"
	"trackd/internal/domain/recurring"
	"trackd/internal/domain/transaction"
)

// Converter turns native-currency amounts into best-effort USD. Satisfied by
// the currency service.
type Converter interface {
	ToUSDWithFallback(ctx context.Context, amount float64, code string) (float64, bool)
}

// Service computes projected and historical balances.
type Service struct {
	converter Converter
	now       func() time.Time
}

// NewService creates a projection service.
func NewService(converter Converter) *Service {
	return &Service{converter: converter, now: time.Now}
}

// NewServiceWithClock creates a projection service with an injected clock.
func NewServiceWithClock(converter Converter, now func() time.Time) *Service {
	return &Service{converter: converter, now: now}
}

// ProjectedTransactions expands recurring items into synthetic transactions
// from asOf through end, sorted ascending by date. Occurrences before the
// start of asOf's day are dropped, and one-time revenues past their
// visibility month are suppressed.
func (s *Service) ProjectedTransactions(items []*recurring.Item, asOf, end time.Time) []TransactionModel {
	floor := recurrence.StartOfDay(asOf)

	var models []TransactionModel
	for _, item := range items {
		if item.AnchorDate == nil {
			continue
		}
		if item.Period == recurrence.Once && recurrence.SuppressCompletedOneTime(*item.AnchorDate, asOf) {
			continue
		}
		var accountID string
		if item.AccountID != nil {
			accountID = *item.AccountID
		}
		for _, due := range recurrence.OccurrencesBetween(*item.AnchorDate, item.Period, floor, end) {
			models = append(models, TransactionModel{
				AccountID:  accountID,
				Amount:     item.SignedAmount(),
				Currency:   item.Currency,
				Date:       due,
				Type:       transaction.Type(item.Kind),
				SourceID:   item.ID,
				SourceName: item.Name,
			})
		}
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].Date.Before(models[j].Date)
	})
	return models
}

// BalanceAt replays synthetic transactions forward: the account's USD
// balance plus every model on this account dated on or before target.
// The boolean is true when any conversion along the way was approximate.
func (s *Service) BalanceAt(ctx context.Context, acct *account.Account, models []TransactionModel, target time.Time) (float64, bool) {
	day := recurrence.StartOfDay(target)

	balance, approx := s.converter.ToUSDWithFallback(ctx, acct.Amount, acct.Currency)
	for _, m := range models {
		if m.AccountID != acct.ID {
			continue
		}
		if recurrence.StartOfDay(m.Date).After(day) {
			continue
		}
		usd, a := s.converter.ToUSDWithFallback(ctx, m.Amount, m.Currency)
		balance += usd
		approx = approx || a
	}
	return balance, approx
}

// HistoricalBalanceAt reconstructs a past balance by walking backward from
// the stored current balance: every real transaction dated strictly after
// target is subtracted (USD-converted). target must be on or before now.
func (s *Service) HistoricalBalanceAt(ctx context.Context, acct *account.Account, txns []*transaction.Transaction, target time.Time) (float64, bool) {
	day := recurrence.StartOfDay(target)

	balance, approx := s.converter.ToUSDWithFallback(ctx, acct.Amount, acct.Currency)
	for _, txn := range txns {
		if txn.AccountID != acct.ID {
			continue
		}
		if !recurrence.StartOfDay(txn.TransactionDate).After(day) {
			continue
		}
		usd, a := s.converter.ToUSDWithFallback(ctx, txn.Amount, txn.Currency)
		balance -= usd
		approx = approx || a
	}
	return balance, approx
}

// PortfolioBalanceAt sums BalanceAt over all accounts.
func (s *Service) PortfolioBalanceAt(ctx context.Context, accounts []*account.Account, models []TransactionModel, target time.Time) (float64, bool) {
	var total float64
	var approx bool
	for _, acct := range accounts {
		balance, a := s.BalanceAt(ctx, acct, models, target)
		total += balance
		approx = approx || a
	}
	return total, approx
}

// BalanceOn routes a balance query by date: on or before today it
// reconstructs from real transactions, strictly after today it replays
// synthetic projections. Mixing the two paths drops or double counts
// today's transactions.
func (s *Service) BalanceOn(ctx context.Context, acct *account.Account, txns []*transaction.Transaction, items []*recurring.Item, target time.Time) (float64, bool) {
	now := s.now()
	if !recurrence.StartOfDay(target).After(recurrence.StartOfDay(now)) {
		return s.HistoricalBalanceAt(ctx, acct, txns, target)
	}
	models := s.ProjectedTransactions(items, now.AddDate(0, 0, 1), target)
	return s.BalanceAt(ctx, acct, models, target)
}

// MonthlyRecurringTotal normalizes items of one kind to a USD
// monthly-equivalent rate: weekly amounts scale by 4.33, yearly divide by 12.
// One-time items are excluded.
func (s *Service) MonthlyRecurringTotal(ctx context.Context, items []*recurring.Item, kind recurring.Kind) (float64, bool) {
	var total float64
	var approx bool
	for _, item := range items {
		if item.Kind != kind {
			continue
		}
		var factor float64
		switch item.Period {
		case recurrence.Weekly:
			factor = MonthlyWeeklyFactor
		case recurrence.Monthly:
			factor = 1
		case recurrence.Yearly:
			factor = 1.0 / 12.0
		default:
			continue
		}
		usd, a := s.converter.ToUSDWithFallback(ctx, item.Amount, item.Currency)
		total += usd * factor
		approx = approx || a
	}
	return total, approx
}

// TwelveMonthProjection computes the portfolio's end-of-month balance for the
// next twelve months. One projected-transaction set covers the whole horizon.
func (s *Service) TwelveMonthProjection(ctx context.Context, accounts []*account.Account, items []*recurring.Item) []ProjectionPoint {
	now := s.now()
	horizonEnd := endOfMonth(now.AddDate(0, 11, 0))

	models := s.ProjectedTransactions(items, now, horizonEnd)

	points := make([]ProjectionPoint, 0, 12)
	for offset := 0; offset < 12; offset++ {
		monthDate := now.AddDate(0, offset, 0)
		balance, approx := s.PortfolioBalanceAt(ctx, accounts, models, endOfMonth(monthDate))
		points = append(points, ProjectionPoint{
			MonthStart:  startOfMonth(monthDate),
			BalanceUSD:  balance,
			Approximate: approx,
		})
	}
	return points
}

func startOfMonth(t time.Time) time.Time {
	day := recurrence.StartOfDay(t)
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0).AddDate(0, 0, -1)
}
