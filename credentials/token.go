// Package credentials inspects the cached access token the identity API
// clients authenticate with. The health checker reports token expiry as
// part of its connectivity diagnostics, so an about-to-expire credential
// shows up before it starts failing calls.
//
// Parsing is deliberately unverified: this module is a client of the
// identity provider, not a verifier of its tokens. Claims are read for
// diagnostics only and never used to make authorization decisions.
package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken indicates the raw token is not a parseable JWT.
var ErrMalformedToken = errors.New("credentials: malformed access token")

// TokenInfo holds the diagnostic claims of an access token.
type TokenInfo struct {
	Subject   string
	Issuer    string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Parse reads the claims of a raw JWT without verifying its signature.
func Parse(raw string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedToken, err)
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iss, err := claims.GetIssuer(); err == nil {
		info.Issuer = iss
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, nil
}

// Expired reports whether the token expiry has passed. Tokens without an
// expiry claim never report expired.
func (t *TokenInfo) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

// TTL returns the remaining lifetime, zero when expired or when the token
// has no expiry claim.
func (t *TokenInfo) TTL(now time.Time) time.Duration {
	if t.ExpiresAt == nil {
		return 0
	}
	ttl := t.ExpiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Describe renders a one-line diagnostic suitable for a connectivity
// status message.
func (t *TokenInfo) Describe(now time.Time) string {
	if t.ExpiresAt == nil {
		return "access token has no expiry"
	}
	if t.Expired(now) {
		return fmt.Sprintf("access token expired %s ago", now.Sub(*t.ExpiresAt).Round(time.Second))
	}
	return fmt.Sprintf("access token expires in %s", t.TTL(now).Round(time.Second))
}
