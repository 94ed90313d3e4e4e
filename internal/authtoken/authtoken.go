// Package authtoken inspects cached access tokens on the client side.
//
// The portal never holds the server's signing key, so claims are read
// without signature verification. They only decide whether a cached token
// is worth sending; the server still verifies every request.
package authtoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/crowdops/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned by Inspect for strings that are not JWTs.
var ErrMalformedToken = fmt.Errorf("%w: malformed", common.ErrInvalidToken)

// TokenSource yields the cached access token, if any. *session.Store
// satisfies it.
type TokenSource interface {
	RetrieveToken(ctx context.Context) (string, bool)
}

// Claims is the subset of registered claims the portal cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero when the token has no exp claim
	IssuedAt  time.Time
}

// Expired reports whether the token is past its expiry at now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Inspect decodes the claims of a JWT without checking its signature.
func Inspect(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	return c, nil
}

// Guard returns the cached token when it is present and, for JWTs, not yet
// expired. Opaque tokens are passed through. It returns common.ErrNoSession
// when nothing usable is cached and common.ErrSessionExpired for an expired
// JWT.
func Guard(ctx context.Context, src TokenSource, now func() time.Time) (string, error) {
	token, ok := src.RetrieveToken(ctx)
	if !ok || token == "" {
		return "", common.ErrNoSession
	}

	claims, err := Inspect(token)
	if errors.Is(err, ErrMalformedToken) {
		return token, nil
	}
	if claims.Expired(now()) {
		return "", common.ErrSessionExpired
	}
	return token, nil
}
