package currency

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// RateFetcher fetches a live exchange rate for a currency. Implemented by the
// HTTP rates client in the infrastructure layer.
type RateFetcher interface {
	FetchRate(ctx context.Context, currency string) (*RateQuote, error)
}

// Service converts amounts to USD with a time-bounded rate cache and a static
// fallback policy. Conversion through ToUSDWithFallback never fails: callers
// always get a best-effort USD value plus an approximation flag they must
// surface to the user.
type Service struct {
	fetcher RateFetcher
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]CachedRate
}

// NewService creates a currency service backed by the given rate fetcher.
func NewService(fetcher RateFetcher) *Service {
	return NewServiceWithClock(fetcher, time.Now)
}

// NewServiceWithClock creates a currency service with an injected clock.
func NewServiceWithClock(fetcher RateFetcher, now func() time.Time) *Service {
	return &Service{
		fetcher: fetcher,
		now:     now,
		cache:   make(map[string]CachedRate),
	}
}

// Rate returns the exchange rate for a currency (units per USD), serving from
// cache when the entry is younger than CacheTTL. On a miss it fetches from the
// rate API and overwrites the cached entry. Fetch failures propagate; the
// fallback table is not consulted at this layer.
func (s *Service) Rate(ctx context.Context, code string) (float64, error) {
	if code == "" {
		return 0, ErrInvalidCurrency
	}

	if rate, ok := s.cachedRate(code); ok {
		return rate, nil
	}

	quote, err := s.fetcher.FetchRate(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrFetchFailed, code, err)
	}

	s.mu.Lock()
	s.cache[code] = CachedRate{Currency: code, Rate: quote.Rate, FetchedAt: s.now()}
	s.mu.Unlock()

	return quote.Rate, nil
}

// ToUSD converts an amount to USD using a live (or cached) rate. USD amounts
// pass through without any fetch.
func (s *Service) ToUSD(ctx context.Context, amount float64, code string) (float64, error) {
	if code == "USD" {
		return amount, nil
	}
	rate, err := s.Rate(ctx, code)
	if err != nil {
		return 0, err
	}
	return amount / rate, nil
}

// ToUSDWithFallback converts an amount to USD, falling back to the static rate
// table when the live fetch fails. The second return value is true when the
// result is approximate. A currency missing from the fallback table returns
// the amount unchanged and flagged approximate.
func (s *Service) ToUSDWithFallback(ctx context.Context, amount float64, code string) (float64, bool) {
	if code == "USD" {
		return amount, false
	}

	usd, err := s.ToUSD(ctx, amount, code)
	if err == nil {
		return usd, false
	}

	if fallback, ok := FallbackRate(code); ok {
		return amount / fallback, true
	}

	log.Printf("No fallback rate for %s, passing amount through as USD", code)
	return amount, true
}

// cachedRate returns a still-valid cached rate for the currency.
func (s *Service) cachedRate(code string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached, ok := s.cache[code]
	if !ok {
		return 0, false
	}
	if s.now().Sub(cached.FetchedAt) > CacheTTL {
		return 0, false
	}
	return cached.Rate, true
}
