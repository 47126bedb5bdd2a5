package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"trackd/internal/domain/notification"
)

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a PostgreSQL notification repository.
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// UpsertDeviceToken registers a device token, reactivating and reassigning it
// if it was seen before.
func (r *NotificationRepository) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (id, user_id, token, device_type, is_active, last_used)
		VALUES ($1, $2, $3, $4, TRUE, CURRENT_TIMESTAMP)
		ON CONFLICT (token)
		DO UPDATE SET
			user_id = EXCLUDED.user_id,
			device_type = EXCLUDED.device_type,
			is_active = TRUE,
			last_used = CURRENT_TIMESTAMP
		RETURNING id, user_id, token, device_type, is_active, created_at, last_used
	`

	var t notification.DeviceToken
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.Token, params.DeviceType,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.DeviceType, &t.IsActive, &t.CreatedAt, &t.LastUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device token: %w", err)
	}
	return &t, nil
}

// GetActiveTokensByUserID lists a user's active device tokens.
func (r *NotificationRepository) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*notification.DeviceToken, error) {
	query := `
		SELECT id, user_id, token, device_type, is_active, created_at, last_used
		FROM device_tokens
		WHERE user_id = $1 AND is_active = TRUE
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.DeviceType, &t.IsActive, &t.CreatedAt, &t.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating device tokens: %w", err)
	}
	return tokens, nil
}

// DeactivateToken marks a token inactive. Called when FCM reports the token
// as unregistered.
func (r *NotificationRepository) DeactivateToken(ctx context.Context, token string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE device_tokens SET is_active = FALSE WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to deactivate token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notification.ErrDeviceTokenNotFound
	}
	return nil
}

// GetPreferences retrieves a user's notification preferences.
func (r *NotificationRepository) GetPreferences(ctx context.Context, userID int64) (*notification.Preference, error) {
	query := `
		SELECT id, user_id, general_enabled, transactions_enabled, projections_enabled, updated_at
		FROM notification_preferences
		WHERE user_id = $1
	`

	var p notification.Preference
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.GeneralEnabled, &p.TransactionsEnabled, &p.ProjectionsEnabled, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no preferences for user %d", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &p, nil
}

// UpsertPreferences creates or updates preferences. Absent fields default to
// enabled on first insert and stay unchanged on update.
func (r *NotificationRepository) UpsertPreferences(ctx context.Context, userID int64, params notification.UpdatePreferenceParams) (*notification.Preference, error) {
	query := `
		INSERT INTO notification_preferences (id, user_id, general_enabled, transactions_enabled, projections_enabled)
		VALUES ($1, $2, COALESCE($3, TRUE), COALESCE($4, TRUE), COALESCE($5, TRUE))
		ON CONFLICT (user_id)
		DO UPDATE SET
			general_enabled = COALESCE($3, notification_preferences.general_enabled),
			transactions_enabled = COALESCE($4, notification_preferences.transactions_enabled),
			projections_enabled = COALESCE($5, notification_preferences.projections_enabled),
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, user_id, general_enabled, transactions_enabled, projections_enabled, updated_at
	`

	var p notification.Preference
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), userID,
		nullBoolPtr(params.GeneralEnabled), nullBoolPtr(params.TransactionsEnabled), nullBoolPtr(params.ProjectionsEnabled),
	).Scan(&p.ID, &p.UserID, &p.GeneralEnabled, &p.TransactionsEnabled, &p.ProjectionsEnabled, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return &p, nil
}

func nullBoolPtr(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
