package auth

import (
	"context"

	"github.com/corepath-impact/storefront-client/pkg/enums"
)

// Decision is the outcome of an access check. The guard never navigates or
// notifies; the caller owns the side effects of each outcome.
type Decision int

const (
	// DecisionAllowed lets the caller proceed.
	DecisionAllowed Decision = iota
	// DecisionLoginRequired means no authenticated session exists. The
	// current location has been recorded so login can return to it.
	DecisionLoginRequired
	// DecisionForbidden means the session lacks the required role.
	DecisionForbidden
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionLoginRequired:
		return "login_required"
	case DecisionForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Authorize checks the current session against an optional required role.
// An empty role only requires authentication. Role checks are exact; an
// admin does not implicitly pass a merchant gate.
func (s *service) Authorize(ctx context.Context, currentPath string, required enums.UserRole) Decision {
	if !s.session.IsAuthenticated() {
		if currentPath != "" {
			s.forms.SetReturnTo(ctx, currentPath)
		}
		return DecisionLoginRequired
	}
	if required == "" {
		return DecisionAllowed
	}
	user := s.session.User()
	if user == nil || user.Role != required {
		return DecisionForbidden
	}
	return DecisionAllowed
}
