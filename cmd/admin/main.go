package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"trackd/internal/domain/processing"
	"trackd/internal/domain/projection"
	"trackd/internal/infrastructure/postgres"
	"trackd/internal/infrastructure/rates"

	"trackd/internal/domain/currency"
	"trackd/internal/shared/config"
)

const usage = `Trackd Admin CLI - Management commands for the Trackd API

Usage:
  admin <command> [options]

Commands:
  catchup     Materialize due recurring transactions into account balances
  project     Print the twelve-month balance projection for a user

Examples:
  # Catch up specific accounts
  admin catchup --account-id=3f2a...,9c1b...

  # Catch up every account
  admin catchup --all

  # Run with a custom worker count and timeout
  admin catchup --all --workers=8 --timeout=10m

  # Twelve-month projection for user 1
  admin project --user-id=1
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "catchup":
		runCatchUp(os.Args[2:])
	case "project":
		runProject(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runCatchUp(args []string) {
	fs := flag.NewFlagSet("catchup", flag.ExitOnError)

	accountIDStr := fs.String("account-id", "", "Account ID(s) to process (comma-separated for multiple)")
	allAccounts := fs.Bool("all", false, "Process every stored account")
	workers := fs.Int("workers", processing.DefaultWorkerCount, "Number of concurrent workers")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin catchup [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *accountIDStr == "" && !*allAccounts {
		fmt.Println("Error: must specify --account-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	db, processingService := newProcessing(*workers)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()

	if *allAccounts {
		result, err := processingService.CatchUpAll(ctx)
		if err != nil {
			log.Fatalf("Catch-up failed: %v", err)
		}
		fmt.Printf("Accounts processed:    %d\n", result.AccountsProcessed)
		fmt.Printf("Transactions created:  %d\n", result.TransactionsCreated)
		printErrors(result.Errors)
	} else {
		for _, id := range splitIDs(*accountIDStr) {
			result, err := processingService.CatchUpAccount(ctx, id)
			if err != nil {
				log.Printf("Account %s failed: %v", id, err)
				continue
			}
			fmt.Printf("\n=== Account %s ===\n", id)
			fmt.Printf("  Transactions created: %d\n", result.TransactionsCreated)
			fmt.Printf("  Balance change:       %.2f\n", result.TotalChange)
			fmt.Printf("  New balance:          %.2f\n", result.NewBalance)
			fmt.Printf("  Processed through:    %s\n", result.ProcessedThrough.Format("2006-01-02"))
		}
	}

	log.Printf("Catch-up completed in %v", time.Since(startTime))
}

func runProject(args []string) {
	fs := flag.NewFlagSet("project", flag.ExitOnError)

	userID := fs.Int64("user-id", 0, "User to project")
	timeoutStr := fs.String("timeout", "5m", "Timeout for the operation")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *userID <= 0 {
		fmt.Println("Error: must specify --user-id")
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	cfg := loadConfig()
	db := connect(cfg)
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	itemRepo := postgres.NewRecurringRepository(db)

	rateClient := rates.NewClient(cfg.Rates.BaseURL, cfg.Rates.APIKey, cfg.Rates.Timeout)
	projectionService := projection.NewService(currency.NewService(rateClient))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	accounts, err := accountRepo.ListByUserID(ctx, *userID)
	if err != nil {
		log.Fatalf("Failed to list accounts: %v", err)
	}
	items, err := itemRepo.ListByUserID(ctx, *userID, "")
	if err != nil {
		log.Fatalf("Failed to list recurring items: %v", err)
	}

	points := projectionService.TwelveMonthProjection(ctx, accounts, items)

	fmt.Printf("Twelve-month projection for user %d:\n", *userID)
	for _, p := range points {
		marker := ""
		if p.Approximate {
			marker = " (approx)"
		}
		fmt.Printf("  %s  %12.2f USD%s\n", p.MonthStart.Format("2006-01"), p.BalanceUSD, marker)
	}
}

func newProcessing(workers int) (*postgres.DB, *processing.Service) {
	cfg := loadConfig()
	db := connect(cfg)

	accountRepo := postgres.NewAccountRepository(db)
	itemRepo := postgres.NewRecurringRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// No notifier: admin runs report to the terminal, not to devices.
	service := processing.NewService(accountRepo, itemRepo, transactionRepo, nil)
	service.SetWorkerCount(workers)
	return db, service
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func connect(cfg *config.Config) *postgres.DB {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")
	return db
}

func splitIDs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printErrors(errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Printf("Errors:                %d\n", len(errs))
	for i, e := range errs {
		if i >= 5 {
			fmt.Printf("  ... and %d more errors\n", len(errs)-5)
			break
		}
		fmt.Printf("  - %s\n", e)
	}
}
