package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/recurrence"
	"trackd/internal/domain/recurring"
	"trackd/internal/shared/middleware"
)

const dateLayout = "2006-01-02"

// RecurringHandler serves subscription and revenue endpoints. Both kinds go
// through the same handler; the kind comes from the mounted route.
type RecurringHandler struct {
	recurringService *recurring.Service
	kind             recurring.Kind
}

func NewSubscriptionHandler(recurringService *recurring.Service) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, kind: recurring.KindSubscription}
}

func NewRevenueHandler(recurringService *recurring.Service) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, kind: recurring.KindRevenue}
}

type CreateItemRequest struct {
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Period         string  `json:"period"`
	RepetitionDate *string `json:"repetitionDate"`
	AccountID      *string `json:"accountId"`
}

type UpdateItemRequest struct {
	Name           *string  `json:"name"`
	Amount         *float64 `json:"amount"`
	Currency       *string  `json:"currency"`
	Period         *string  `json:"period"`
	RepetitionDate *string  `json:"repetitionDate"`
	AccountID      *string  `json:"accountId"`
}

type ItemResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Kind           string  `json:"kind"`
	Period         string  `json:"period"`
	RepetitionDate *string `json:"repetitionDate"`
	AccountID      *string `json:"accountId"`
	NextPayment    *string `json:"nextPayment"`
	NextPaymentAt  *string `json:"nextPaymentAt"`
	CreatedAt      string  `json:"createdAt"`
}

// HandleItems handles the item collection (GET list, POST create).
func (h *RecurringHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListItems(w, r, userID)
	case http.MethodPost:
		h.handleCreateItem(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RecurringHandler) handleListItems(w http.ResponseWriter, r *http.Request, userID int64) {
	items, err := h.recurringService.ListByUser(r.Context(), userID, h.kind)
	if err != nil {
		log.Printf("Error listing %s items for user %d: %v", h.kind, userID, err)
		http.Error(w, "Failed to list items", http.StatusInternalServerError)
		return
	}

	response := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, h.toItemResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *RecurringHandler) handleCreateItem(w http.ResponseWriter, r *http.Request, userID int64) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	anchor, err := parseOptionalDate(req.RepetitionDate)
	if err != nil {
		http.Error(w, "Invalid repetitionDate, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	item, err := h.recurringService.CreateItem(r.Context(), recurring.CreateParams{
		UserID:     userID,
		Name:       req.Name,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Kind:       h.kind,
		Period:     recurrence.Period(req.Period),
		AnchorDate: anchor,
		AccountID:  req.AccountID,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(h.toItemResponse(item))
}

// HandleItemByID handles a single item (GET, PATCH, DELETE).
func (h *RecurringHandler) HandleItemByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID := r.PathValue("id")
	if itemID == "" {
		http.Error(w, "Item ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetItem(w, r, userID, itemID)
	case http.MethodPatch, http.MethodPut:
		h.handleUpdateItem(w, r, userID, itemID)
	case http.MethodDelete:
		h.handleDeleteItem(w, r, userID, itemID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RecurringHandler) handleGetItem(w http.ResponseWriter, r *http.Request, userID int64, itemID string) {
	item, err := h.recurringService.GetItem(r.Context(), itemID, userID)
	if err != nil {
		writeItemError(w, itemID, err)
		return
	}
	if item.Kind != h.kind {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.toItemResponse(item))
}

func (h *RecurringHandler) handleUpdateItem(w http.ResponseWriter, r *http.Request, userID int64, itemID string) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	anchor, err := parseOptionalDate(req.RepetitionDate)
	if err != nil {
		http.Error(w, "Invalid repetitionDate, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	var period *recurrence.Period
	if req.Period != nil {
		p := recurrence.Period(*req.Period)
		period = &p
	}

	item, err := h.recurringService.UpdateItem(r.Context(), itemID, userID, recurring.UpdateParams{
		Name:       req.Name,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Period:     period,
		AnchorDate: anchor,
		AccountID:  req.AccountID,
	})
	if err != nil {
		writeItemError(w, itemID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.toItemResponse(item))
}

func (h *RecurringHandler) handleDeleteItem(w http.ResponseWriter, r *http.Request, userID int64, itemID string) {
	if err := h.recurringService.DeleteItem(r.Context(), itemID, userID); err != nil {
		writeItemError(w, itemID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeItemError(w http.ResponseWriter, itemID string, err error) {
	switch {
	case errors.Is(err, recurring.ErrItemNotFound):
		http.Error(w, "Item not found", http.StatusNotFound)
	case errors.Is(err, recurring.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, recurring.ErrInvalidPeriod),
		errors.Is(err, recurring.ErrInvalidKind),
		errors.Is(err, recurring.ErrAnchorRequired),
		errors.Is(err, recurring.ErrOnceSubscription),
		errors.Is(err, account.ErrInvalidCurrency):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("Item %s error: %v", itemID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *RecurringHandler) toItemResponse(item *recurring.Item) ItemResponse {
	resp := ItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Amount:    item.Amount,
		Currency:  item.Currency,
		Kind:      string(item.Kind),
		Period:    string(item.Period),
		AccountID: item.AccountID,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	}

	if item.AnchorDate != nil {
		formatted := item.AnchorDate.Format(dateLayout)
		resp.RepetitionDate = &formatted
	}

	if next, label, ok := h.recurringService.NextPaymentLabel(item); ok {
		nextAt := next.Format(dateLayout)
		resp.NextPayment = &label
		resp.NextPaymentAt = &nextAt
	}

	return resp
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
