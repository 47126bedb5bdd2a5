// Package transaction holds the materialized transaction records produced by
// the catch-up engine, plus the dedup key that keeps materialization
// idempotent.
package transaction

import (
	"errors"
	"fmt"
	"time"

	"trackd/internal/domain/recurrence"
)

// Type mirrors the item kind that produced the transaction.
type Type string

const (
	TypeSubscription Type = "subscription"
	TypeRevenue      Type = "revenue"
)

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("access forbidden")
)

// Transaction is one materialized occurrence of a recurring item. Amount is
// signed: negative for subscriptions, positive for revenues.
// TransactionDate is always normalized to UTC midnight.
type Transaction struct {
	ID              string    `json:"id"`
	UserID          int64     `json:"userId"`
	AccountID       string    `json:"accountId"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	TransactionDate time.Time `json:"transactionDate"`
	Type            Type      `json:"type"`
	SourceID        string    `json:"sourceId"`
	SourceName      string    `json:"sourceName"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
}

// DedupKey identifies an occurrence of a source item on a calendar day.
// Two transactions with the same key are the same occurrence.
func (t *Transaction) DedupKey() string {
	return DedupKey(t.SourceID, t.TransactionDate)
}

// DedupKey builds the occurrence identity for a source item on a day. The
// date is normalized to UTC midnight first, so any timestamp within the day
// maps to the same key.
func DedupKey(sourceID string, date time.Time) string {
	return fmt.Sprintf("%s:%d", sourceID, recurrence.StartOfDay(date).Unix())
}

// CreateParams contains parameters for recording a materialized transaction.
type CreateParams struct {
	UserID          int64
	AccountID       string
	Amount          float64
	Currency        string
	TransactionDate time.Time
	Type            Type
	SourceID        string
	SourceName      string
	Description     string
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.AccountID == "" {
		return errors.New("account ID is required")
	}
	if p.SourceID == "" {
		return errors.New("source item ID is required")
	}
	if p.Type != TypeSubscription && p.Type != TypeRevenue {
		return fmt.Errorf("invalid transaction type %q", p.Type)
	}
	if p.TransactionDate.IsZero() {
		return errors.New("transaction date is required")
	}
	return nil
}
