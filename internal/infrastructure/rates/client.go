// Package rates is the HTTP client for the exchange-rate API. It implements
// the currency service's fetcher contract; all caching and fallback policy
// lives in the currency service, not here.
package rates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"trackd/internal/domain/currency"
)

const defaultTimeout = 10 * time.Second

// Client fetches exchange rates from the rate API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ currency.RateFetcher = (*Client)(nil)

// NewClient creates a rate API client. timeout <= 0 uses the default.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type rateRequest struct {
	Currency string `json:"currency"`
}

type rateResponse struct {
	Currency  string  `json:"currency"`
	Rate      float64 `json:"rate"`
	Timestamp string  `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FetchRate requests the current rate for a currency, expressed as units of
// that currency per 1 USD.
func (c *Client) FetchRate(ctx context.Context, code string) (*currency.RateQuote, error) {
	payload, err := json.Marshal(rateRequest{Currency: code})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("rate API failed with status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("rate API error (status %d): %s - %s", resp.StatusCode, errResp.Error, errResp.Message)
	}

	var rateResp rateResponse
	if err := json.Unmarshal(body, &rateResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if rateResp.Rate <= 0 {
		return nil, fmt.Errorf("rate API returned invalid rate %v for %s", rateResp.Rate, code)
	}

	quote := &currency.RateQuote{Currency: rateResp.Currency, Rate: rateResp.Rate}
	if rateResp.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, rateResp.Timestamp); err == nil {
			quote.Timestamp = ts
		}
	}
	return quote, nil
}
