package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"trackd/internal/domain/account"
	"trackd/internal/domain/currency"
	"trackd/internal/domain/notification"
	"trackd/internal/domain/processing"
	"trackd/internal/domain/projection"
	"trackd/internal/domain/recurring"
	"trackd/internal/domain/transaction"
	"trackd/internal/domain/user"
	"trackd/internal/infrastructure/firebase"
	"trackd/internal/infrastructure/local"
	"trackd/internal/infrastructure/postgres"
	"trackd/internal/infrastructure/rates"
	httphandlers "trackd/internal/interfaces/http"
	"trackd/internal/shared/auth"
	"trackd/internal/shared/config"
)

// Repositories groups the storage layer behind the domain interfaces, so the
// rest of the wiring is identical for postgres and the local store.
type Repositories struct {
	Users         user.Repository
	Accounts      account.Repository
	Items         recurring.Repository
	Transactions  transaction.Repository
	Notifications notification.Repository
}

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	AccountHandler      *httphandlers.AccountHandler
	SubscriptionHandler *httphandlers.RecurringHandler
	RevenueHandler      *httphandlers.RecurringHandler
	TransactionHandler  *httphandlers.TransactionHandler
	DashboardHandler    *httphandlers.DashboardHandler
	NotificationHandler *httphandlers.NotificationHandler

	// Auth
	JWT *auth.JWT

	// Engines (for the scheduler and admin trigger)
	ProcessingService *processing.Service
	AccountRepo       account.Repository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	repos, db, err := newRepositories(cfg)
	if err != nil {
		return nil, err
	}

	// Currency conversion: live rate API with cached quotes and a static
	// fallback table behind it.
	rateClient := rates.NewClient(cfg.Rates.BaseURL, cfg.Rates.APIKey, cfg.Rates.Timeout)
	currencyService := currency.NewService(rateClient)

	// Domain services
	userService := user.NewService(repos.Users)
	accountService := account.NewService(repos.Accounts)
	recurringService := recurring.NewService(repos.Items)
	transactionService := transaction.NewService(repos.Transactions)
	projectionService := projection.NewService(currencyService)

	// Push notifications: FCM when credentials are configured, otherwise the
	// notifier stays nil and the catch-up engine skips the digest.
	var notificationService *notification.Service
	var notifier processing.Notifier
	if cfg.Firebase.CredentialsFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		fcmClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, func(ctx context.Context, token string) error {
			return repos.Notifications.DeactivateToken(ctx, token)
		})
		if err != nil {
			return nil, fmt.Errorf("initializing firebase: %w", err)
		}
		notificationService = notification.NewService(repos.Notifications, fcmClient)
		notifier = notificationService
		log.Println("Firebase messaging initialized")
	} else {
		log.Println("Firebase credentials not configured, push notifications disabled")
	}

	processingService := processing.NewService(repos.Accounts, repos.Items, repos.Transactions, notifier)
	processingService.SetWorkerCount(cfg.Scheduler.WorkerCount)

	// Auth
	jwt := auth.NewJWT(cfg.JWT.Secret)

	deps := &Dependencies{
		DB:                  db,
		AuthHandler:         httphandlers.NewAuthHandler(userService, jwt),
		AccountHandler:      httphandlers.NewAccountHandler(accountService, processingService),
		SubscriptionHandler: httphandlers.NewSubscriptionHandler(recurringService),
		RevenueHandler:      httphandlers.NewRevenueHandler(recurringService),
		TransactionHandler:  httphandlers.NewTransactionHandler(transactionService, accountService),
		DashboardHandler:    httphandlers.NewDashboardHandler(accountService, recurringService, transactionService, projectionService),
		JWT:                 jwt,
		ProcessingService:   processingService,
		AccountRepo:         repos.Accounts,
	}
	if notificationService != nil {
		deps.NotificationHandler = httphandlers.NewNotificationHandler(notificationService)
	}
	return deps, nil
}

// newRepositories builds the repository set for the configured storage
// backend. The returned DB is nil for the local backend.
func newRepositories(cfg *config.Config) (*Repositories, *postgres.DB, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := postgres.New(cfg.Database.ConnectionString())
		if err != nil {
			return nil, nil, err
		}
		log.Println("Connected to database")

		return &Repositories{
			Users:         postgres.NewUserRepository(db),
			Accounts:      postgres.NewAccountRepository(db),
			Items:         postgres.NewRecurringRepository(db),
			Transactions:  postgres.NewTransactionRepository(db),
			Notifications: postgres.NewNotificationRepository(db),
		}, db, nil

	case "local":
		store := local.NewStore()
		log.Println("Using in-memory local store")

		return &Repositories{
			Users:         store.Users(),
			Accounts:      store.Accounts(),
			Items:         store.Items(),
			Transactions:  store.Transactions(),
			Notifications: store.Notifications(),
		}, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
