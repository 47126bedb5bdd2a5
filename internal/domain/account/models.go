package account

import (
	"errors"
	"time"
)

// Common ISO 4217 currency codes accepted for accounts and recurring items.
var validCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "UAH": {}, "JPY": {},
	"CHF": {}, "CAD": {}, "AUD": {}, "NZD": {}, "CNY": {},
	"INR": {}, "MXN": {}, "ZAR": {}, "SEK": {}, "NOK": {},
	"DKK": {}, "PLN": {}, "TRY": {}, "RUB": {}, "KRW": {},
	"SGD": {}, "HKD": {}, "BRL": {}, "CZK": {}, "ILS": {},
}

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidCurrency = errors.New("valid ISO 4217 currency is required")
	ErrInvalidInput    = errors.New("invalid input")
)

// Account is a financial account. Amount is the current balance in the
// account's own currency. LastProcessedAt is the watermark up to which
// recurring items have been materialized into transactions; it only moves
// forward.
type Account struct {
	ID              string     `json:"id"`
	UserID          int64      `json:"userId"`
	Name            string     `json:"name"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	LastProcessedAt *time.Time `json:"lastProcessedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new account.
type CreateParams struct {
	UserID   int64
	Name     string
	Amount   float64
	Currency string
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("account name is required")
	}
	if p.Currency == "" || !IsValidCurrency(p.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// UpdateParams contains parameters for updating an account. Nil fields are
// left unchanged. Balance edits here are direct user resets; the catch-up
// engine goes through ApplyCatchUp instead.
type UpdateParams struct {
	Name     *string
	Amount   *float64
	Currency *string
}

// Validate validates the update parameters.
func (p UpdateParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("account name cannot be empty")
	}
	if p.Currency != nil && !IsValidCurrency(*p.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// IsValidCurrency checks if the provided currency is a valid ISO 4217 code.
func IsValidCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	_, ok := validCurrencies[c]
	return ok
}
