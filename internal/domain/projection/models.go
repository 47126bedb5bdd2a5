// Package projection answers "what is the balance at date D": forward replay
// of synthetic future transactions, or backward reconstruction from the
// stored current balance for past dates.
package projection

import (
	"time"

	"trackd/internal/domain/transaction"
)

// TransactionModel is a synthetic future occurrence. It has the shape of a
// transaction but is generated on the fly and never persisted, and it is
// never deduplicated against real records because it only covers dates
// beyond now.
type TransactionModel struct {
	AccountID  string           `json:"accountId"`
	Amount     float64          `json:"amount"`
	Currency   string           `json:"currency"`
	Date       time.Time        `json:"date"`
	Type       transaction.Type `json:"type"`
	SourceID   string           `json:"sourceId"`
	SourceName string           `json:"sourceName"`
}

// ProjectionPoint is one month's projected balance.
type ProjectionPoint struct {
	MonthStart  time.Time `json:"monthStart"`
	BalanceUSD  float64   `json:"balanceUsd"`
	Approximate bool      `json:"approximate"`
}

// MonthlyWeeklyFactor converts a weekly amount to its monthly equivalent.
const MonthlyWeeklyFactor = 4.33
