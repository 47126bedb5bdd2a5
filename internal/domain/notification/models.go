// Package notification handles push notifications: device token registry,
// per-category preferences, and the catch-up digest sent when new
// transactions are recorded.
package notification

import (
	"errors"
	"time"
)

// Notification categories
const (
	CategoryGeneral      = "general"
	CategoryTransactions = "transactions"
	CategoryProjections  = "projections"
)

var validCategories = map[string]struct{}{
	CategoryGeneral:      {},
	CategoryTransactions: {},
	CategoryProjections:  {},
}

var validDeviceTypes = map[string]struct{}{
	"ios":     {},
	"android": {},
}

// Domain errors
var (
	ErrDeviceTokenNotFound = errors.New("device token not found")
	ErrInvalidCategory     = errors.New("invalid notification category")
	ErrInvalidDeviceType   = errors.New("device type must be 'ios' or 'android'")
	ErrInvalidToken        = errors.New("device token is required")
)

// DeviceToken represents a registered FCM device token.
type DeviceToken struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"userId"`
	Token      string    `json:"token"`
	DeviceType string    `json:"deviceType"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsed   time.Time `json:"lastUsed"`
}

// Preference stores per-category notification toggles for a user.
type Preference struct {
	ID                  string    `json:"id"`
	UserID              int64     `json:"-"`
	GeneralEnabled      bool      `json:"general_enabled"`
	TransactionsEnabled bool      `json:"transactions_enabled"`
	ProjectionsEnabled  bool      `json:"projections_enabled"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// IsCategoryEnabled checks whether a category is enabled in the preferences.
func (p *Preference) IsCategoryEnabled(category string) bool {
	switch category {
	case CategoryGeneral:
		return p.GeneralEnabled
	case CategoryTransactions:
		return p.TransactionsEnabled
	case CategoryProjections:
		return p.ProjectionsEnabled
	default:
		return false
	}
}

// CreateDeviceTokenParams contains parameters for registering a device.
type CreateDeviceTokenParams struct {
	UserID     int64
	Token      string
	DeviceType string
}

func (p CreateDeviceTokenParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Token == "" {
		return ErrInvalidToken
	}
	if !IsValidDeviceType(p.DeviceType) {
		return ErrInvalidDeviceType
	}
	return nil
}

// UpdatePreferenceParams contains fields for updating preferences. Nil fields
// are left unchanged.
type UpdatePreferenceParams struct {
	GeneralEnabled      *bool
	TransactionsEnabled *bool
	ProjectionsEnabled  *bool
}

func IsValidCategory(c string) bool {
	_, ok := validCategories[c]
	return ok
}

func IsValidDeviceType(dt string) bool {
	_, ok := validDeviceTypes[dt]
	return ok
}
