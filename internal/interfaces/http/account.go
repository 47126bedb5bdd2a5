package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/processing"
	"trackd/internal/shared/middleware"
)

// AccountHandler serves account CRUD and the per-account catch-up trigger.
type AccountHandler struct {
	accountService    *account.Service
	processingService *processing.Service
}

func NewAccountHandler(accountService *account.Service, processingService *processing.Service) *AccountHandler {
	return &AccountHandler{accountService: accountService, processingService: processingService}
}

type CreateAccountRequest struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type UpdateAccountRequest struct {
	Name     *string  `json:"name"`
	Amount   *float64 `json:"amount"`
	Currency *string  `json:"currency"`
}

type AccountResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	LastProcessedAt *string `json:"lastProcessedAt"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

type CatchUpResponse struct {
	AccountID           string  `json:"accountId"`
	TransactionsCreated int     `json:"transactionsCreated"`
	TotalChange         float64 `json:"totalChange"`
	NewBalance          float64 `json:"newBalance"`
	ProcessedThrough    string  `json:"processedThrough"`
	UpToDate            bool    `json:"upToDate"`
}

// HandleAccounts handles the account collection (GET list, POST create).
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListAccounts(w, r, userID)
	case http.MethodPost:
		h.handleCreateAccount(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleListAccounts(w http.ResponseWriter, r *http.Request, userID int64) {
	accounts, err := h.accountService.ListAccountsByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userID, err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		response = append(response, toAccountResponse(acc))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *AccountHandler) handleCreateAccount(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.accountService.CreateAccount(r.Context(), account.CreateParams{
		UserID:   userID,
		Name:     req.Name,
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toAccountResponse(acc))
}

// HandleAccountByID handles a single account (GET, PATCH, DELETE).
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetAccount(w, r, userID, accountID)
	case http.MethodPatch, http.MethodPut:
		h.handleUpdateAccount(w, r, userID, accountID)
	case http.MethodDelete:
		h.handleDeleteAccount(w, r, userID, accountID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleGetAccount(w http.ResponseWriter, r *http.Request, userID int64, accountID string) {
	acc, err := h.accountService.GetAccount(r.Context(), accountID, userID)
	if err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAccountResponse(acc))
}

func (h *AccountHandler) handleUpdateAccount(w http.ResponseWriter, r *http.Request, userID int64, accountID string) {
	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.accountService.UpdateAccount(r.Context(), accountID, userID, account.UpdateParams{
		Name:     req.Name,
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAccountResponse(acc))
}

func (h *AccountHandler) handleDeleteAccount(w http.ResponseWriter, r *http.Request, userID int64, accountID string) {
	if err := h.accountService.DeleteAccount(r.Context(), accountID, userID); err != nil {
		writeAccountError(w, accountID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCatchUp materializes due recurring transactions for one account.
func (h *AccountHandler) HandleCatchUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	// Ownership check before touching the catch-up engine.
	if _, err := h.accountService.GetAccount(r.Context(), accountID, userID); err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	result, err := h.processingService.CatchUpAccount(r.Context(), accountID)
	if err != nil {
		log.Printf("Error catching up account %s: %v", accountID, err)
		http.Error(w, "Failed to process account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CatchUpResponse{
		AccountID:           result.AccountID,
		TransactionsCreated: result.TransactionsCreated,
		TotalChange:         result.TotalChange,
		NewBalance:          result.NewBalance,
		ProcessedThrough:    result.ProcessedThrough.Format(time.RFC3339),
		UpToDate:            result.UpToDate,
	})
}

func writeAccountError(w http.ResponseWriter, accountID string, err error) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, account.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, account.ErrInvalidCurrency):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Account %s error: %v", accountID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func toAccountResponse(acc *account.Account) AccountResponse {
	var processedAt *string
	if acc.LastProcessedAt != nil {
		formatted := acc.LastProcessedAt.Format(time.RFC3339)
		processedAt = &formatted
	}

	return AccountResponse{
		ID:              acc.ID,
		Name:            acc.Name,
		Amount:          acc.Amount,
		Currency:        acc.Currency,
		LastProcessedAt: processedAt,
		CreatedAt:       acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       acc.UpdatedAt.Format(time.RFC3339),
	}
}
