package local

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"trackd/internal/domain/notification"
)

// NotificationRepository implements notification.Repository over the
// in-memory store.
type NotificationRepository struct {
	store *Store
}

func (r *NotificationRepository) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	token, ok := s.deviceTokens[params.Token]
	if !ok {
		token = notification.DeviceToken{
			ID:        uuid.NewString(),
			Token:     params.Token,
			CreatedAt: now,
		}
	}
	token.UserID = params.UserID
	token.DeviceType = params.DeviceType
	token.IsActive = true
	token.LastUsed = now
	s.deviceTokens[params.Token] = token

	out := token
	return &out, nil
}

func (r *NotificationRepository) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*notification.DeviceToken, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*notification.DeviceToken
	for _, token := range s.deviceTokens {
		if token.UserID != userID || !token.IsActive {
			continue
		}
		t := token
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepository) DeactivateToken(ctx context.Context, token string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.deviceTokens[token]
	if !ok {
		return notification.ErrDeviceTokenNotFound
	}
	t.IsActive = false
	s.deviceTokens[token] = t
	return nil
}

func (r *NotificationRepository) GetPreferences(ctx context.Context, userID int64) (*notification.Preference, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.preferences[userID]
	if !ok {
		return nil, nil
	}
	out := prefs
	return &out, nil
}

func (r *NotificationRepository) UpsertPreferences(ctx context.Context, userID int64, params notification.UpdatePreferenceParams) (*notification.Preference, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, ok := s.preferences[userID]
	if !ok {
		// New rows default to everything enabled.
		prefs = notification.Preference{
			ID:                  uuid.NewString(),
			UserID:              userID,
			GeneralEnabled:      true,
			TransactionsEnabled: true,
			ProjectionsEnabled:  true,
		}
	}
	if params.GeneralEnabled != nil {
		prefs.GeneralEnabled = *params.GeneralEnabled
	}
	if params.TransactionsEnabled != nil {
		prefs.TransactionsEnabled = *params.TransactionsEnabled
	}
	if params.ProjectionsEnabled != nil {
		prefs.ProjectionsEnabled = *params.ProjectionsEnabled
	}
	prefs.UpdatedAt = s.now()
	s.preferences[userID] = prefs

	out := prefs
	return &out, nil
}
