package rates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchRate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer test-key")
		}

		var req rateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Currency != "UAH" {
			t.Errorf("request currency = %q, want %q", req.Currency, "UAH")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rateResponse{
			Currency:  "UAH",
			Rate:      41.25,
			Timestamp: "2026-08-28T12:00:00Z",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 0)
	quote, err := client.FetchRate(context.Background(), "UAH")
	if err != nil {
		t.Fatalf("FetchRate failed: %v", err)
	}

	if quote.Currency != "UAH" {
		t.Errorf("quote currency = %q, want %q", quote.Currency, "UAH")
	}
	if quote.Rate != 41.25 {
		t.Errorf("quote rate = %v, want 41.25", quote.Rate)
	}
	want := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	if !quote.Timestamp.Equal(want) {
		t.Errorf("quote timestamp = %v, want %v", quote.Timestamp, want)
	}
}

func TestFetchRate_NoAPIKeyOmitsHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty", got)
		}
		json.NewEncoder(w).Encode(rateResponse{Currency: "EUR", Rate: 0.92})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 0)
	if _, err := client.FetchRate(context.Background(), "EUR"); err != nil {
		t.Fatalf("FetchRate failed: %v", err)
	}
}

func TestFetchRate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(errorResponse{Error: "upstream_unavailable", Message: "NBU feed down"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 0)
	if _, err := client.FetchRate(context.Background(), "UAH"); err == nil {
		t.Fatal("expected error for non-200 response, got nil")
	}
}

func TestFetchRate_InvalidRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rateResponse{Currency: "UAH", Rate: 0})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 0)
	if _, err := client.FetchRate(context.Background(), "UAH"); err == nil {
		t.Fatal("expected error for zero rate, got nil")
	}
}

func TestFetchRate_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 0)
	if _, err := client.FetchRate(context.Background(), "UAH"); err == nil {
		t.Fatal("expected error for malformed body, got nil")
	}
}

func TestFetchRate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(rateResponse{Currency: "UAH", Rate: 41.0})
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "key", time.Second)
	if _, err := client.FetchRate(ctx, "UAH"); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
