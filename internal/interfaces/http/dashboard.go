package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/projection"
	"trackd/internal/domain/recurring"
	"trackd/internal/domain/transaction"
	"trackd/internal/shared/middleware"
)

// DashboardHandler serves aggregate balance and projection endpoints.
type DashboardHandler struct {
	accountService     *account.Service
	recurringService   *recurring.Service
	transactionService *transaction.Service
	projectionService  *projection.Service
}

func NewDashboardHandler(
	accountService *account.Service,
	recurringService *recurring.Service,
	transactionService *transaction.Service,
	projectionService *projection.Service,
) *DashboardHandler {
	return &DashboardHandler{
		accountService:     accountService,
		recurringService:   recurringService,
		transactionService: transactionService,
		projectionService:  projectionService,
	}
}

type BalanceResponse struct {
	Date        string  `json:"date"`
	BalanceUSD  float64 `json:"balanceUsd"`
	Approximate bool    `json:"approximate"`
}

type SummaryResponse struct {
	BalanceUSD           float64 `json:"balanceUsd"`
	MonthlySubscriptions float64 `json:"monthlySubscriptions"`
	MonthlyRevenues      float64 `json:"monthlyRevenues"`
	Approximate          bool    `json:"approximate"`
}

type ProjectionPointResponse struct {
	Month       string  `json:"month"`
	BalanceUSD  float64 `json:"balanceUsd"`
	Approximate bool    `json:"approximate"`
}

// HandleAccountBalance returns one account's USD balance on an arbitrary
// date. Past dates reconstruct from stored transactions, future dates replay
// projected occurrences; date defaults to today.
func (h *DashboardHandler) HandleAccountBalance(w http.ResponseWriter, r *http.Request) {
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

	acct, err := h.accountService.GetAccount(r.Context(), accountID, userID)
	if err != nil {
		writeAccountError(w, accountID, err)
		return
	}

	target, err := parseDateQuery(r, "date")
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if target.IsZero() {
		target = time.Now()
	}

	txns, err := h.transactionService.ListByAccount(r.Context(), accountID, time.Time{}, time.Time{})
	if err != nil {
		log.Printf("Error loading transactions for account %s: %v", accountID, err)
		http.Error(w, "Failed to compute balance", http.StatusInternalServerError)
		return
	}

	items, err := h.recurringService.ListByAccount(r.Context(), accountID)
	if err != nil {
		log.Printf("Error loading items for account %s: %v", accountID, err)
		http.Error(w, "Failed to compute balance", http.StatusInternalServerError)
		return
	}

	balance, approx := h.projectionService.BalanceOn(r.Context(), acct, txns, items, target)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BalanceResponse{
		Date:        target.Format(dateLayout),
		BalanceUSD:  balance,
		Approximate: approx,
	})
}

// HandleSummary returns the portfolio balance in USD plus monthly-equivalent
// subscription and revenue totals.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.accountService.ListAccountsByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userID, err)
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	items, err := h.recurringService.ListByUser(r.Context(), userID, "")
	if err != nil {
		log.Printf("Error listing items for user %d: %v", userID, err)
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	balance, balanceApprox := h.projectionService.PortfolioBalanceAt(r.Context(), accounts, nil, time.Now())
	subs, subsApprox := h.projectionService.MonthlyRecurringTotal(r.Context(), items, recurring.KindSubscription)
	revs, revsApprox := h.projectionService.MonthlyRecurringTotal(r.Context(), items, recurring.KindRevenue)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SummaryResponse{
		BalanceUSD:           balance,
		MonthlySubscriptions: subs,
		MonthlyRevenues:      revs,
		Approximate:          balanceApprox || subsApprox || revsApprox,
	})
}

// HandleProjection returns the twelve-month end-of-month portfolio balances.
func (h *DashboardHandler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.accountService.ListAccountsByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userID, err)
		http.Error(w, "Failed to build projection", http.StatusInternalServerError)
		return
	}

	items, err := h.recurringService.ListByUser(r.Context(), userID, "")
	if err != nil {
		log.Printf("Error listing items for user %d: %v", userID, err)
		http.Error(w, "Failed to build projection", http.StatusInternalServerError)
		return
	}

	points := h.projectionService.TwelveMonthProjection(r.Context(), accounts, items)

	response := make([]ProjectionPointResponse, 0, len(points))
	for _, p := range points {
		response = append(response, ProjectionPointResponse{
			Month:       p.MonthStart.Format("2006-01"),
			BalanceUSD:  p.BalanceUSD,
			Approximate: p.Approximate,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
