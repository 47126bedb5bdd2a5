package currency

import (
	"errors"
	"time"
)

// CacheTTL is how long a fetched exchange rate stays valid.
const CacheTTL = 6 * time.Hour

// Domain errors
var (
	ErrFetchFailed     = errors.New("exchange rate fetch failed")
	ErrInvalidCurrency = errors.New("currency code is required")
)

// RateQuote is a single exchange rate quote from the rate-fetch collaborator,
// expressed as units of the quoted currency per 1 USD.
type RateQuote struct {
	Currency  string
	Rate      float64
	Timestamp time.Time
}

// CachedRate is a rate held in the in-memory cache.
type CachedRate struct {
	Currency  string
	Rate      float64
	FetchedAt time.Time
}

// fallbackRates are the static last-resort rates (units per USD) used when the
// external rate API is unreachable. Conversions through these are flagged as
// approximate.
var fallbackRates = map[string]float64{
	"UAH": 41.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.0,
	"CNY": 7.24,
	"CAD": 1.36,
	"AUD": 1.52,
	"CHF": 0.88,
	"RUB": 92.0,
	"INR": 83.0,
}

// FallbackRate returns the static fallback rate for a currency, if one exists.
func FallbackRate(code string) (float64, bool) {
	rate, ok := fallbackRates[code]
	return rate, ok
}
