package auth

import (
	"context"
	"fmt"
	"net/url"

	"github.com/corepath-impact/storefront-client/internal/api"
	"github.com/corepath-impact/storefront-client/internal/notify"
	"github.com/corepath-impact/storefront-client/internal/storage"
	"github.com/corepath-impact/storefront-client/pkg/enums"
	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/types"
	"github.com/corepath-impact/storefront-client/pkg/validate"
)

// Well-known destinations handed to the Navigator after auth flows.
const (
	RouteHome        = "/"
	RouteLogin       = "/auth/login"
	RouteVerifyEmail = "/auth/verify-email"
)

// Outcome messages shown to the shopper.
const (
	msgLoginSuccess    = "Successfully logged in!"
	msgRegisterSuccess = "Account created successfully!"
	msgLogoutSuccess   = "Successfully logged out!"
	msgProfileUpdated  = "Profile updated successfully!"
	msgPasswordChanged = "Password changed successfully!"
	msgEmailVerified   = "Email verified successfully!"
)

const notifyTitle = "Account"

type client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Navigator receives the navigation side effects of auth flows. A nil
// Navigator is valid for headless embedders.
type Navigator interface {
	Navigate(ctx context.Context, destination string)
}

// Service exposes the account operations.
type Service interface {
	Login(ctx context.Context, payload types.LoginRequest) (*types.User, error)
	Register(ctx context.Context, payload types.RegisterRequest) (*types.User, error)
	Logout(ctx context.Context)
	Me(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, payload types.ProfileUpdate) (*types.UserProfile, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, payload types.PasswordResetConfirm) error
	ChangePassword(ctx context.Context, payload types.ChangePasswordRequest) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	CheckEmail(ctx context.Context, email string) (*types.EmailCheckResult, error)
	Points(ctx context.Context) (*types.UserPoints, error)
	DeactivateAccount(ctx context.Context) error

	Authorize(ctx context.Context, currentPath string, required enums.UserRole) Decision
	CurrentUser() *types.User
	IsAuthenticated() bool
	HasRole(role enums.UserRole) bool
}

type service struct {
	api      client
	session  *storage.SessionStore
	cart     *storage.CartStore
	forms    *storage.FormStore
	notifier notify.Notifier
	nav      Navigator
	log      *logger.Logger
}

type Params struct {
	API       client
	Session   *storage.SessionStore
	Cart      *storage.CartStore
	Forms     *storage.FormStore
	Notifier  notify.Notifier
	Navigator Navigator
	Logger    *logger.Logger
}

// NewService builds the auth service backed by the provided stack.
func NewService(params Params) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Forms == nil {
		return nil, fmt.Errorf("form store required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		api:      params.API,
		session:  params.Session,
		cart:     params.Cart,
		forms:    params.Forms,
		notifier: params.Notifier,
		nav:      params.Navigator,
		log:      params.Logger,
	}, nil
}

func (s *service) Login(ctx context.Context, payload types.LoginRequest) (*types.User, error) {
	if err := validate.Struct(payload); err != nil {
		return nil, s.fail(ctx, err)
	}
	s.session.SetLoading(true)
	defer s.session.SetLoading(false)

	var tokens types.TokenResponse
	if err := s.api.Post(ctx, api.EndpointAuthLogin, payload, &tokens); err != nil {
		return nil, s.fail(ctx, err)
	}

	s.session.SetSession(ctx, tokens.User, tokens.AccessToken, tokens.RefreshToken)
	s.notifier.Success(ctx, notifyTitle, msgLoginSuccess)

	destination := s.forms.TakeReturnTo(ctx)
	if destination == "" {
		destination = RouteHome
	}
	s.navigate(ctx, destination)

	user := tokens.User
	return &user, nil
}

func (s *service) Register(ctx context.Context, payload types.RegisterRequest) (*types.User, error) {
	if err := validate.Struct(payload); err != nil {
		return nil, s.fail(ctx, err)
	}
	s.session.SetLoading(true)
	defer s.session.SetLoading(false)

	var tokens types.TokenResponse
	if err := s.api.Post(ctx, api.EndpointAuthRegister, payload, &tokens); err != nil {
		return nil, s.fail(ctx, err)
	}

	s.session.SetSession(ctx, tokens.User, tokens.AccessToken, tokens.RefreshToken)
	s.notifier.Success(ctx, notifyTitle, msgRegisterSuccess)
	// New accounts always land on verification, never a recorded destination.
	s.navigate(ctx, RouteVerifyEmail)

	user := tokens.User
	return &user, nil
}

// Logout is best effort: the server call may fail, the local session is
// cleared and the shopper navigated home regardless.
func (s *service) Logout(ctx context.Context) {
	s.session.SetLoading(true)
	defer s.session.SetLoading(false)

	err := s.api.Post(ctx, api.EndpointAuthLogout, nil, nil)
	s.session.Clear(ctx)
	s.cart.Clear(ctx)
	if err != nil {
		if s.log != nil {
			s.log.WarnErr(ctx, "server logout failed, session cleared locally", err)
		}
	} else {
		s.notifier.Success(ctx, notifyTitle, msgLogoutSuccess)
	}
	s.navigate(ctx, RouteHome)
}

func (s *service) Me(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := s.api.Get(ctx, api.EndpointAuthMe, nil, &user); err != nil {
		return nil, err
	}
	s.session.UpdateUser(ctx, func(current *types.User) { *current = user })
	return &user, nil
}

func (s *service) UpdateProfile(ctx context.Context, payload types.ProfileUpdate) (*types.UserProfile, error) {
	var profile types.UserProfile
	if err := s.api.Put(ctx, api.EndpointUsersProfile, payload, &profile); err != nil {
		return nil, s.fail(ctx, err)
	}
	s.session.UpdateUser(ctx, func(user *types.User) {
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
		user.Phone = profile.Phone
	})
	s.notifier.Success(ctx, notifyTitle, msgProfileUpdated)
	return &profile, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	payload := types.PasswordResetRequest{Email: email}
	if err := validate.Struct(payload); err != nil {
		return s.fail(ctx, err)
	}
	var out types.MessageResponse
	if err := s.api.Post(ctx, api.EndpointAuthForgotPassword, payload, &out); err != nil {
		return s.fail(ctx, err)
	}
	s.notifier.Success(ctx, notifyTitle, out.Message)
	s.navigate(ctx, RouteLogin)
	return nil
}

func (s *service) ResetPassword(ctx context.Context, payload types.PasswordResetConfirm) error {
	if err := validate.Struct(payload); err != nil {
		return s.fail(ctx, err)
	}
	var out types.MessageResponse
	if err := s.api.Post(ctx, api.EndpointAuthResetPassword, payload, &out); err != nil {
		return s.fail(ctx, err)
	}
	s.notifier.Success(ctx, notifyTitle, out.Message)
	s.navigate(ctx, RouteLogin)
	return nil
}

func (s *service) ChangePassword(ctx context.Context, payload types.ChangePasswordRequest) error {
	if err := validate.Struct(payload); err != nil {
		return s.fail(ctx, err)
	}
	if err := s.api.Post(ctx, api.EndpointAuthChangePassword, payload, nil); err != nil {
		return s.fail(ctx, err)
	}
	s.notifier.Success(ctx, notifyTitle, msgPasswordChanged)
	return nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	payload := types.EmailVerificationRequest{Token: token}
	if err := validate.Struct(payload); err != nil {
		return s.fail(ctx, err)
	}
	if err := s.api.Post(ctx, api.EndpointAuthVerifyEmail, payload, nil); err != nil {
		return s.fail(ctx, err)
	}
	s.session.UpdateUser(ctx, func(user *types.User) { user.IsVerified = true })
	s.notifier.Success(ctx, notifyTitle, msgEmailVerified)
	return nil
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	payload := types.ResendVerificationRequest{Email: email}
	if err := validate.Struct(payload); err != nil {
		return s.fail(ctx, err)
	}
	var out types.MessageResponse
	if err := s.api.Post(ctx, api.EndpointAuthResendVerification, payload, &out); err != nil {
		return s.fail(ctx, err)
	}
	s.notifier.Success(ctx, notifyTitle, out.Message)
	return nil
}

// CheckEmail is a silent availability probe used by registration forms.
func (s *service) CheckEmail(ctx context.Context, email string) (*types.EmailCheckResult, error) {
	payload := types.PasswordResetRequest{Email: email}
	if err := validate.Struct(payload); err != nil {
		return nil, err
	}
	var result types.EmailCheckResult
	if err := s.api.Post(ctx, api.EndpointAuthCheckEmail, map[string]string{"email": email}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) Points(ctx context.Context) (*types.UserPoints, error) {
	if !s.session.IsAuthenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized,
			pkgerrors.MetadataFor(pkgerrors.CodeUnauthorized).PublicMessage)
	}
	var points types.UserPoints
	if err := s.api.Get(ctx, api.EndpointUsersPoints, nil, &points); err != nil {
		return nil, err
	}
	return &points, nil
}

func (s *service) DeactivateAccount(ctx context.Context) error {
	var out types.MessageResponse
	if err := s.api.Delete(ctx, api.EndpointUsersDeactivate, &out); err != nil {
		return s.fail(ctx, err)
	}
	s.session.Clear(ctx)
	s.cart.Clear(ctx)
	s.notifier.Success(ctx, notifyTitle, out.Message)
	s.navigate(ctx, RouteHome)
	return nil
}

func (s *service) CurrentUser() *types.User { return s.session.User() }

func (s *service) IsAuthenticated() bool { return s.session.IsAuthenticated() }

func (s *service) HasRole(role enums.UserRole) bool {
	user := s.session.User()
	return user != nil && user.Role == role
}

// fail surfaces exactly one error notification and passes the error through.
func (s *service) fail(ctx context.Context, err error) error {
	s.notifier.Error(ctx, notifyTitle, pkgerrors.UserMessage(err))
	return err
}

func (s *service) navigate(ctx context.Context, destination string) {
	if s.nav != nil {
		s.nav.Navigate(ctx, destination)
	}
}
