package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/transaction"
	"trackd/internal/shared/middleware"
)

// TransactionHandler serves read and delete endpoints for materialized
// transactions. Transactions are created by the catch-up engine only.
type TransactionHandler struct {
	transactionService *transaction.Service
	accountService     *account.Service
}

func NewTransactionHandler(transactionService *transaction.Service, accountService *account.Service) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, accountService: accountService}
}

type TransactionResponse struct {
	ID              string  `json:"id"`
	AccountID       string  `json:"accountId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	TransactionDate string  `json:"transactionDate"`
	Type            string  `json:"type"`
	SourceID        string  `json:"sourceId"`
	SourceName      string  `json:"sourceName"`
	Description     string  `json:"description"`
	CreatedAt       string  `json:"createdAt"`
}

// HandleListTransactions returns the user's transactions, newest first.
// Supports limit and offset query parameters.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.transactionService.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("Error listing transactions for user %d: %v", userID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	writeTransactionList(w, txns)
}

// HandleAccountTransactions returns an account's transactions, optionally
// bounded by from and to query parameters (YYYY-MM-DD, inclusive).
func (h *TransactionHandler) HandleAccountTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
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

	if _, err := h.accountService.GetAccount(r.Context(), accountID, userID); err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	from, err := parseDateQuery(r, "from")
	if err != nil {
		http.Error(w, "Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		http.Error(w, "Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	txns, err := h.transactionService.ListByAccount(r.Context(), accountID, from, to)
	if err != nil {
		log.Printf("Error listing transactions for account %s: %v", accountID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	writeTransactionList(w, txns)
}

// HandleTransactionByID handles a single transaction (GET, DELETE).
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		txn, err := h.transactionService.GetTransaction(r.Context(), id, userID)
		if err != nil {
			writeTransactionError(w, id, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toTransactionResponse(txn))
	case http.MethodDelete:
		if err := h.transactionService.DeleteTransaction(r.Context(), id, userID); err != nil {
			writeTransactionError(w, id, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeTransactionError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, transaction.ErrTransactionNotFound):
		http.Error(w, "Transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.Printf("Transaction %s error: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeTransactionList(w http.ResponseWriter, txns []*transaction.Transaction) {
	response := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		response = append(response, toTransactionResponse(txn))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func toTransactionResponse(txn *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              txn.ID,
		AccountID:       txn.AccountID,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
		TransactionDate: txn.TransactionDate.Format(dateLayout),
		Type:            string(txn.Type),
		SourceID:        txn.SourceID,
		SourceName:      txn.SourceName,
		Description:     txn.Description,
		CreatedAt:       txn.CreatedAt.Format(time.RFC3339),
	}
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func parseDateQuery(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}
