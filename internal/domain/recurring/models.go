// Package recurring holds subscription and revenue definitions: the recurring
// (or one-off) items that the processing engine expands into transactions.
package recurring

import (
	"errors"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/recurrence"
)

// Kind distinguishes the two item flavors. Subscriptions are always debits,
// revenues always credits; amounts are stored as positive magnitudes and the
// sign is applied by SignedAmount.
type Kind string

const (
	KindSubscription Kind = "subscription"
	KindRevenue      Kind = "revenue"
)

// Domain errors
var (
	ErrItemNotFound     = errors.New("recurring item not found")
	ErrForbidden        = errors.New("access forbidden")
	ErrInvalidKind      = errors.New("invalid item kind")
	ErrInvalidPeriod    = errors.New("invalid repetition period")
	ErrAnchorRequired   = errors.New("repetition date is required")
	ErrOnceSubscription = errors.New("subscriptions cannot be one-time")
)

// Item is a recurring subscription or revenue definition. AnchorDate is the
// date occurrences are stepped from; it is optional only for one-time
// revenues ("no date" variant). An item without an anchor yields zero
// occurrences rather than an error.
type Item struct {
	ID         string            `json:"id"`
	UserID     int64             `json:"userId"`
	Name       string            `json:"name"`
	Amount     float64           `json:"amount"`
	Currency   string            `json:"currency"`
	Kind       Kind              `json:"kind"`
	Period     recurrence.Period `json:"period"`
	AnchorDate *time.Time        `json:"repetitionDate,omitempty"`
	AccountID  *string           `json:"accountId,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// SignedAmount returns the amount with the sign its transactions carry:
// negative for subscriptions, positive for revenues.
func (i *Item) SignedAmount() float64 {
	if i.Kind == KindSubscription {
		return -i.Amount
	}
	return i.Amount
}

// LinkedTo reports whether the item is linked to the given account.
func (i *Item) LinkedTo(accountID string) bool {
	return i.AccountID != nil && *i.AccountID == accountID
}

// CreateParams contains parameters for creating a recurring item.
type CreateParams struct {
	UserID     int64
	Name       string
	Amount     float64
	Currency   string
	Kind       Kind
	Period     recurrence.Period
	AnchorDate *time.Time
	AccountID  *string
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("item name is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !account.IsValidCurrency(p.Currency) {
		return account.ErrInvalidCurrency
	}
	if p.Kind != KindSubscription && p.Kind != KindRevenue {
		return ErrInvalidKind
	}
	if !p.Period.Valid() {
		return ErrInvalidPeriod
	}
	if p.Kind == KindSubscription && p.Period == recurrence.Once {
		return ErrOnceSubscription
	}
	// Only a one-time revenue may omit its date.
	if p.AnchorDate == nil && !(p.Kind == KindRevenue && p.Period == recurrence.Once) {
		return ErrAnchorRequired
	}
	return nil
}

// UpdateParams contains parameters for updating a recurring item. Nil fields
// are left unchanged.
type UpdateParams struct {
	Name       *string
	Amount     *float64
	Currency   *string
	Period     *recurrence.Period
	AnchorDate *time.Time
	AccountID  *string
}

// Validate validates the update parameters.
func (p UpdateParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("item name cannot be empty")
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if p.Currency != nil && !account.IsValidCurrency(*p.Currency) {
		return account.ErrInvalidCurrency
	}
	if p.Period != nil && !p.Period.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}
