package main

import (
	"log"
	"net/http"

	"trackd/internal/shared/config"
	"trackd/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with
// middleware applied.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", handleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.AuthHandler.HandleMe)))

	mux.Handle("/api/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccounts)))
	mux.Handle("/api/accounts/{id}", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccountByID)))
	mux.Handle("/api/accounts/{id}/catchup", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleCatchUp)))
	mux.Handle("/api/accounts/{id}/balance", authMiddleware(http.HandlerFunc(deps.DashboardHandler.HandleAccountBalance)))
	mux.Handle("/api/accounts/{id}/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleAccountTransactions)))

	mux.Handle("/api/subscriptions", authMiddleware(http.HandlerFunc(deps.SubscriptionHandler.HandleItems)))
	mux.Handle("/api/subscriptions/{id}", authMiddleware(http.HandlerFunc(deps.SubscriptionHandler.HandleItemByID)))
	mux.Handle("/api/revenues", authMiddleware(http.HandlerFunc(deps.RevenueHandler.HandleItems)))
	mux.Handle("/api/revenues/{id}", authMiddleware(http.HandlerFunc(deps.RevenueHandler.HandleItemByID)))

	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleListTransactions)))
	mux.Handle("/api/transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))

	mux.Handle("/api/dashboard/summary", authMiddleware(http.HandlerFunc(deps.DashboardHandler.HandleSummary)))
	mux.Handle("/api/dashboard/projection", authMiddleware(http.HandlerFunc(deps.DashboardHandler.HandleProjection)))

	if deps.NotificationHandler != nil {
		mux.Handle("/api/notifications/register-device", authMiddleware(http.HandlerFunc(deps.NotificationHandler.HandleRegisterDevice)))
		mux.Handle("/api/notifications/preferences", authMiddleware(http.HandlerFunc(deps.NotificationHandler.HandlePreferences)))
	}

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
