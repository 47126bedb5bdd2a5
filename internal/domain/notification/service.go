package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"trackd/internal/domain/currency"
)

// Service contains the business logic for notification operations.
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a notification service. messenger may be nil, in which
// case pushes are dropped but preference and token management still work.
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice registers a device token for the authenticated user.
// Creates default preferences if none exist yet.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	token, err := s.repo.UpsertDeviceToken(ctx, params)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPreferences(ctx, params.UserID); err != nil {
		if _, err := s.repo.UpsertPreferences(ctx, params.UserID, UpdatePreferenceParams{}); err != nil {
			log.Printf("Warning: failed to create default notification preferences for user %d: %v", params.UserID, err)
		}
	}

	return token, nil
}

// GetPreferences returns the notification preferences for a user, defaulting
// to all-enabled when none have been stored yet.
func (s *Service) GetPreferences(ctx context.Context, userID int64) (*Preference, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return &Preference{
			UserID:              userID,
			GeneralEnabled:      true,
			TransactionsEnabled: true,
			ProjectionsEnabled:  true,
		}, nil
	}
	return prefs, nil
}

// UpdatePreferences updates notification preferences for a user.
func (s *Service) UpdatePreferences(ctx context.Context, userID int64, params UpdatePreferenceParams) (*Preference, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.UpsertPreferences(ctx, userID, params)
}

// SendToUser sends a push to all of a user's active devices, honoring the
// user's category preferences. A disabled category or a user with no devices
// is a silent no-op.
func (s *Service) SendToUser(ctx context.Context, userID int64, title, body, category string, data map[string]string) error {
	if !IsValidCategory(category) {
		return ErrInvalidCategory
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return err
	}
	if !prefs.IsCategoryEnabled(category) {
		log.Printf("Notification skipped for user %d: category %q disabled", userID, category)
		return nil
	}

	tokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	if data == nil {
		data = make(map[string]string)
	}
	if _, ok := data["route"]; !ok {
		data["route"] = category
	}

	if s.messenger == nil {
		return nil
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}
	return s.messenger.SendMulticast(ctx, tokenStrings, title, body, data)
}

// NotifyTransactionsCreated pushes a catch-up digest: how many transactions
// were recorded and the net balance change for the account. Satisfies the
// processing engine's notifier contract.
func (s *Service) NotifyTransactionsCreated(ctx context.Context, userID int64, accountName string, created int, totalChange float64, code string) error {
	noun := "transactions"
	if created == 1 {
		noun = "transaction"
	}
	body := fmt.Sprintf("%d new %s on %s (%s)", created, noun, accountName, currency.Format(totalChange, code))

	return s.SendToUser(ctx, userID, "Account updated", body, CategoryTransactions, map[string]string{
		"account": accountName,
	})
}
