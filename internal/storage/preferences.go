package storage

import (
	"context"
	"sync"

	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

// Preferences are the fully durable shopper settings.
type Preferences struct {
	Currency     string `json:"currency"`
	Language     string `json:"language"`
	ItemsPerPage int    `json:"items_per_page"`

	EmailNotifications bool `json:"email_notifications"`
	PushNotifications  bool `json:"push_notifications"`
	MarketingEmails    bool `json:"marketing_emails"`

	DefaultShippingAddress *types.Address `json:"default_shipping_address,omitempty"`
	DefaultBillingAddress  *types.Address `json:"default_billing_address,omitempty"`
	PreferredPaymentMethod string         `json:"preferred_payment_method"`

	AnalyticsEnabled bool `json:"analytics_enabled"`
	CookiesAccepted  bool `json:"cookies_accepted"`
}

func defaultPreferences() Preferences {
	return Preferences{
		Currency:               "KES",
		Language:               "en",
		ItemsPerPage:           12,
		EmailNotifications:     true,
		PushNotifications:      true,
		MarketingEmails:        false,
		PreferredPaymentMethod: "card",
		AnalyticsEnabled:       true,
		CookiesAccepted:        false,
	}
}

// PreferencesStore persists shopper settings in full.
type PreferencesStore struct {
	mu     sync.RWMutex
	medium Medium
	log    *logger.Logger

	prefs Preferences
}

func NewPreferencesStore(ctx context.Context, medium Medium, log *logger.Logger) (*PreferencesStore, error) {
	s := &PreferencesStore{medium: medium, log: log, prefs: defaultPreferences()}
	var snap Preferences
	found, err := load(ctx, medium, log, preferencesKey, &snap)
	if found {
		s.prefs = snap
	}
	return s, err
}

func (s *PreferencesStore) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Update applies a partial change atomically and persists the result.
func (s *PreferencesStore) Update(ctx context.Context, apply func(*Preferences)) {
	s.mu.Lock()
	apply(&s.prefs)
	snap := s.prefs
	s.mu.Unlock()
	persist(ctx, s.medium, s.log, preferencesKey, snap)
}

// Reset restores the shipped defaults.
func (s *PreferencesStore) Reset(ctx context.Context) {
	s.mu.Lock()
	s.prefs = defaultPreferences()
	snap := s.prefs
	s.mu.Unlock()
	persist(ctx, s.medium, s.log, preferencesKey, snap)
}
