package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/shared/middleware"
)

// MockAccountRepo implements account.Repository for testing
type MockAccountRepo struct {
	CreateFunc       func(ctx context.Context, params account.CreateParams) (*account.Account, error)
	GetByIDFunc      func(ctx context.Context, id string) (*account.Account, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*account.Account, error)
	ListAllFunc      func(ctx context.Context) ([]*account.Account, error)
	UpdateFunc       func(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error)
	DeleteFunc       func(ctx context.Context, id string) error
	ApplyCatchUpFunc func(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error)
}

func (m *MockAccountRepo) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAccountRepo) ListAll(ctx context.Context) ([]*account.Account, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockAccountRepo) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockAccountRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockAccountRepo) ApplyCatchUp(ctx context.Context, id string, delta float64, processedAt time.Time) (*account.Account, error) {
	if m.ApplyCatchUpFunc != nil {
		return m.ApplyCatchUpFunc(ctx, id, delta, processedAt)
	}
	return nil, nil
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, int64(1))
	return req.WithContext(ctx)
}

func TestHandleAccounts_List(t *testing.T) {
	repo := &MockAccountRepo{
		ListByUserIDFunc: func(ctx context.Context, userID int64) ([]*account.Account, error) {
			if userID != 1 {
				t.Errorf("userID = %d, want 1", userID)
			}
			return []*account.Account{
				{ID: "acc-1", UserID: 1, Name: "Checking", Amount: 850, Currency: "USD"},
				{ID: "acc-2", UserID: 1, Name: "Savings", Amount: 12000, Currency: "EUR"},
			}, nil
		},
	}
	handler := NewAccountHandler(account.NewService(repo), nil)

	rr := httptest.NewRecorder()
	handler.HandleAccounts(rr, authedRequest(http.MethodGet, "/api/accounts", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var got []AccountResponse
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d accounts, want 2", len(got))
	}
	if got[0].Name != "Checking" || got[0].Amount != 850 {
		t.Errorf("first account = %+v", got[0])
	}
}

func TestHandleAccounts_Create(t *testing.T) {
	repo := &MockAccountRepo{
		CreateFunc: func(ctx context.Context, params account.CreateParams) (*account.Account, error) {
			return &account.Account{
				ID:       "acc-new",
				UserID:   params.UserID,
				Name:     params.Name,
				Amount:   params.Amount,
				Currency: params.Currency,
			}, nil
		},
	}
	handler := NewAccountHandler(account.NewService(repo), nil)

	rr := httptest.NewRecorder()
	body := `{"name":"Wallet","amount":100,"currency":"UAH"}`
	handler.HandleAccounts(rr, authedRequest(http.MethodPost, "/api/accounts", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var got AccountResponse
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.ID != "acc-new" || got.Currency != "UAH" {
		t.Errorf("created account = %+v", got)
	}
}

func TestHandleAccounts_CreateInvalidCurrency(t *testing.T) {
	handler := NewAccountHandler(account.NewService(&MockAccountRepo{}), nil)

	rr := httptest.NewRecorder()
	body := `{"name":"Wallet","amount":100,"currency":"DOGE"}`
	handler.HandleAccounts(rr, authedRequest(http.MethodPost, "/api/accounts", body))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHandleAccounts_Unauthenticated(t *testing.T) {
	handler := NewAccountHandler(account.NewService(&MockAccountRepo{}), nil)

	rr := httptest.NewRecorder()
	handler.HandleAccounts(rr, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestHandleAccountByID_ForbiddenForOtherUser(t *testing.T) {
	repo := &MockAccountRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			return &account.Account{ID: id, UserID: 99, Name: "Other"}, nil
		},
	}
	handler := NewAccountHandler(account.NewService(repo), nil)

	req := authedRequest(http.MethodGet, "/api/accounts/acc-1", "")
	req.SetPathValue("id", "acc-1")
	rr := httptest.NewRecorder()
	handler.HandleAccountByID(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

func TestHandleAccountByID_NotFound(t *testing.T) {
	repo := &MockAccountRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			return nil, nil
		},
	}
	handler := NewAccountHandler(account.NewService(repo), nil)

	req := authedRequest(http.MethodDelete, "/api/accounts/missing", "")
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()
	handler.HandleAccountByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
