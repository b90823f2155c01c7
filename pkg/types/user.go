package types

import (
	"time"

	"github.com/corepath-impact/storefront-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// User is the identity record attached to a session. ID and Email are set at
// login and never mutated locally; profile fields merge via profile updates.
type User struct {
	ID         int64          `json:"id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Phone      string         `json:"phone,omitempty"`
	Role       enums.UserRole `json:"role"`
	IsActive   bool           `json:"is_active"`
	IsVerified bool           `json:"is_verified"`
	CreatedAt  time.Time      `json:"created_at"`
	LastLogin  *time.Time     `json:"last_login,omitempty"`
}

// UserProfile is the full profile surface behind /users/profile.
type UserProfile struct {
	ID                   int64           `json:"id"`
	Email                string          `json:"email"`
	FirstName            string          `json:"first_name"`
	LastName             string          `json:"last_name"`
	Phone                string          `json:"phone,omitempty"`
	Role                 enums.UserRole  `json:"role"`
	IsActive             bool            `json:"is_active"`
	IsVerified           bool            `json:"is_verified"`
	Bio                  string          `json:"bio,omitempty"`
	AddressLine1         string          `json:"address_line_1,omitempty"`
	AddressLine2         string          `json:"address_line_2,omitempty"`
	City                 string          `json:"city,omitempty"`
	State                string          `json:"state,omitempty"`
	PostalCode           string          `json:"postal_code,omitempty"`
	Country              string          `json:"country,omitempty"`
	NewsletterSubscribed bool            `json:"newsletter_subscribed"`
	EmailNotifications   bool            `json:"email_notifications"`
	SMSNotifications     bool            `json:"sms_notifications"`
	CurrentPointsBalance int             `json:"current_points_balance"`
	TotalPointsEarned    int             `json:"total_points_earned"`
	TotalPointsSpent     int             `json:"total_points_spent"`
	TotalOrders          int             `json:"total_orders"`
	TotalSpent           decimal.Decimal `json:"total_spent"`
}

// ProfileUpdate carries the mutable profile fields; nil fields are untouched.
type ProfileUpdate struct {
	FirstName            *string `json:"first_name,omitempty"`
	LastName             *string `json:"last_name,omitempty"`
	Phone                *string `json:"phone,omitempty"`
	Bio                  *string `json:"bio,omitempty"`
	AddressLine1         *string `json:"address_line_1,omitempty"`
	AddressLine2         *string `json:"address_line_2,omitempty"`
	City                 *string `json:"city,omitempty"`
	State                *string `json:"state,omitempty"`
	PostalCode           *string `json:"postal_code,omitempty"`
	Country              *string `json:"country,omitempty"`
	NewsletterSubscribed *bool   `json:"newsletter_subscribed,omitempty"`
	EmailNotifications   *bool   `json:"email_notifications,omitempty"`
	SMSNotifications     *bool   `json:"sms_notifications,omitempty"`
}

// UserPoints is the loyalty balance behind /users/points.
type UserPoints struct {
	CurrentBalance         int `json:"current_balance"`
	TotalEarned            int `json:"total_earned"`
	TotalSpent             int `json:"total_spent"`
	AvailableForRedemption int `json:"available_for_redemption"`
}
