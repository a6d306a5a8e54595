package credentials

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return raw
}

func TestParse(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	expires := time.Now().Add(time.Hour)
	raw := signedToken(t, jwt.MapClaims{
		"sub": "alice",
		"iss": "https://identity.example.com",
		"iat": issued.Unix(),
		"exp": expires.Unix(),
	})

	info, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if info.Subject != "alice" {
		t.Errorf("Subject = %q, want alice", info.Subject)
	}
	if info.Issuer != "https://identity.example.com" {
		t.Errorf("Issuer = %q", info.Issuer)
	}
	if info.ExpiresAt == nil || info.ExpiresAt.Unix() != expires.Unix() {
		t.Errorf("ExpiresAt = %v, want %v", info.ExpiresAt, expires)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse("not-a-jwt"); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("Parse() error = %v, want %v", err, ErrMalformedToken)
	}
}

func TestExpiredAndTTL(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(10 * time.Minute)

	expired := &TokenInfo{ExpiresAt: &past}
	if !expired.Expired(now) {
		t.Error("Expired() = false for a past expiry")
	}
	if expired.TTL(now) != 0 {
		t.Errorf("TTL() = %v for an expired token, want 0", expired.TTL(now))
	}

	live := &TokenInfo{ExpiresAt: &future}
	if live.Expired(now) {
		t.Error("Expired() = true for a future expiry")
	}
	if live.TTL(now) != 10*time.Minute {
		t.Errorf("TTL() = %v, want 10m", live.TTL(now))
	}

	noExpiry := &TokenInfo{}
	if noExpiry.Expired(now) {
		t.Error("a token without an expiry claim never expires")
	}
}

func TestDescribe(t *testing.T) {
	now := time.Now()
	future := now.Add(30 * time.Minute)
	past := now.Add(-5 * time.Minute)

	if got := (&TokenInfo{ExpiresAt: &future}).Describe(now); !strings.Contains(got, "expires in 30m") {
		t.Errorf("Describe() = %q, want remaining lifetime", got)
	}
	if got := (&TokenInfo{ExpiresAt: &past}).Describe(now); !strings.Contains(got, "expired") {
		t.Errorf("Describe() = %q, want expiry notice", got)
	}
	if got := (&TokenInfo{}).Describe(now); got != "access token has no expiry" {
		t.Errorf("Describe() = %q", got)
	}
}
