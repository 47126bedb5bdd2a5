package account

import (
	"context"
	"errors"
	"testing"
	"time"
)

// MockRepo implements Repository for testing.
type MockRepo struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (*Account, error)
	GetByIDFunc      func(ctx context.Context, id string) (*Account, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*Account, error)
	ListAllFunc      func(ctx context.Context) ([]*Account, error)
	UpdateFunc       func(ctx context.Context, id string, params UpdateParams) (*Account, error)
	DeleteFunc       func(ctx context.Context, id string) error
	ApplyCatchUpFunc func(ctx context.Context, id string, amount float64, processedAt time.Time) (*Account, error)
}

func (m *MockRepo) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepo) GetByID(ctx context.Context, id string) (*Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepo) ListByUserID(ctx context.Context, userID int64) ([]*Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepo) ListAll(ctx context.Context) ([]*Account, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepo) Update(ctx context.Context, id string, params UpdateParams) (*Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRepo) ApplyCatchUp(ctx context.Context, id string, amount float64, processedAt time.Time) (*Account, error) {
	if m.ApplyCatchUpFunc != nil {
		return m.ApplyCatchUpFunc(ctx, id, amount, processedAt)
	}
	return nil, nil
}

func TestCreateAccount_DefaultsCurrencyToUSD(t *testing.T) {
	var gotParams CreateParams
	repo := &MockRepo{
		CreateFunc: func(ctx context.Context, params CreateParams) (*Account, error) {
			gotParams = params
			return &Account{ID: "acc-1", UserID: params.UserID, Currency: params.Currency}, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.CreateAccount(context.Background(), CreateParams{UserID: 1, Name: "Main"})
	if err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}
	if gotParams.Currency != "USD" {
		t.Errorf("currency = %q, want USD default", gotParams.Currency)
	}
}

func TestCreateAccount_ValidationFailure(t *testing.T) {
	svc := NewService(&MockRepo{})

	_, err := svc.CreateAccount(context.Background(), CreateParams{UserID: 1, Currency: "USD"})
	if err == nil {
		t.Error("expected validation error for missing name")
	}
}

func TestGetAccount_OwnershipEnforced(t *testing.T) {
	repo := &MockRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
			return &Account{ID: id, UserID: 42}, nil
		},
	}
	svc := NewService(repo)

	if _, err := svc.GetAccount(context.Background(), "acc-1", 42); err != nil {
		t.Errorf("owner access failed: %v", err)
	}
	if _, err := svc.GetAccount(context.Background(), "acc-1", 7); !errors.Is(err, ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	repo := &MockRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
			return nil, nil
		},
	}
	svc := NewService(repo)

	if _, err := svc.GetAccount(context.Background(), "missing", 1); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("error = %v, want ErrAccountNotFound", err)
	}
}

func TestDeleteAccount_RequiresOwnership(t *testing.T) {
	deleted := false
	repo := &MockRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
			return &Account{ID: id, UserID: 42}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(repo)

	if err := svc.DeleteAccount(context.Background(), "acc-1", 7); !errors.Is(err, ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
	if deleted {
		t.Error("Delete must not be called for a non-owner")
	}

	if err := svc.DeleteAccount(context.Background(), "acc-1", 42); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
	if !deleted {
		t.Error("Delete was not called for the owner")
	}
}
