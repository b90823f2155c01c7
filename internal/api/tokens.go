package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySlack is how close to expiry an access token may get before the
// client refreshes it ahead of a request.
const expirySlack = 30 * time.Second

// tokenNearExpiry reports whether a JWT access token expires within the
// slack window. Opaque tokens that do not parse as JWTs are never considered
// near expiry; the 401 path handles them.
func tokenNearExpiry(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Time.Before(now.Add(expirySlack))
}
