package storage

import (
	"context"
	"sync"

	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

// CheckoutDraft is the in-progress checkout form.
type CheckoutDraft struct {
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
	ShippingMethod  string         `json:"shipping_method,omitempty"`
	PaymentMethod   string         `json:"payment_method,omitempty"`
	UsePoints       int            `json:"use_points"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	IsGift          bool           `json:"is_gift"`
	GiftMessage     string         `json:"gift_message,omitempty"`
}

type formsSnapshot struct {
	CheckoutStep        int            `json:"checkout_step"`
	Checkout            CheckoutDraft  `json:"checkout"`
	MerchantApplication map[string]any `json:"merchant_application,omitempty"`
	ReturnTo            string         `json:"return_to,omitempty"`
}

// FormStore persists multi-step form drafts so an interrupted checkout or
// merchant application resumes where it left off.
type FormStore struct {
	mu     sync.RWMutex
	medium Medium
	log    *logger.Logger

	state formsSnapshot
}

func NewFormStore(ctx context.Context, medium Medium, log *logger.Logger) (*FormStore, error) {
	s := &FormStore{medium: medium, log: log, state: formsSnapshot{CheckoutStep: 1}}
	var snap formsSnapshot
	found, err := load(ctx, medium, log, formsKey, &snap)
	if found {
		if snap.CheckoutStep < 1 {
			snap.CheckoutStep = 1
		}
		s.state = snap
	}
	return s, err
}

func (s *FormStore) CheckoutStep() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CheckoutStep
}

func (s *FormStore) SetCheckoutStep(ctx context.Context, step int) {
	if step < 1 {
		step = 1
	}
	s.mu.Lock()
	s.state.CheckoutStep = step
	s.mu.Unlock()
	s.persistForms(ctx)
}

func (s *FormStore) Checkout() CheckoutDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Checkout
}

func (s *FormStore) UpdateCheckout(ctx context.Context, apply func(*CheckoutDraft)) {
	s.mu.Lock()
	apply(&s.state.Checkout)
	s.mu.Unlock()
	s.persistForms(ctx)
}

// ClearCheckout resets the draft and returns the flow to the first step.
func (s *FormStore) ClearCheckout(ctx context.Context) {
	s.mu.Lock()
	s.state.Checkout = CheckoutDraft{}
	s.state.CheckoutStep = 1
	s.mu.Unlock()
	s.persistForms(ctx)
}

func (s *FormStore) MerchantApplication() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.state.MerchantApplication))
	for k, v := range s.state.MerchantApplication {
		out[k] = v
	}
	return out
}

func (s *FormStore) UpdateMerchantApplication(ctx context.Context, fields map[string]any) {
	s.mu.Lock()
	if s.state.MerchantApplication == nil {
		s.state.MerchantApplication = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		s.state.MerchantApplication[k] = v
	}
	s.mu.Unlock()
	s.persistForms(ctx)
}

func (s *FormStore) ClearMerchantApplication(ctx context.Context) {
	s.mu.Lock()
	s.state.MerchantApplication = nil
	s.mu.Unlock()
	s.persistForms(ctx)
}

// SetReturnTo records the destination to resume after authentication.
func (s *FormStore) SetReturnTo(ctx context.Context, destination string) {
	s.mu.Lock()
	s.state.ReturnTo = destination
	s.mu.Unlock()
	s.persistForms(ctx)
}

// TakeReturnTo reads and clears the recorded destination in one step.
func (s *FormStore) TakeReturnTo(ctx context.Context) string {
	s.mu.Lock()
	destination := s.state.ReturnTo
	s.state.ReturnTo = ""
	s.mu.Unlock()
	if destination != "" {
		s.persistForms(ctx)
	}
	return destination
}

func (s *FormStore) persistForms(ctx context.Context) {
	s.mu.RLock()
	snap := s.state
	s.mu.RUnlock()
	persist(ctx, s.medium, s.log, formsKey, snap)
}
