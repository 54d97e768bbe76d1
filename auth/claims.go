// Package auth provides token inspection helpers for the XRPL.Sale SDK.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims encodes the JWT claims embedded in platform-issued bearer tokens.
//
// This is a DTO matching the server's access token contract; the SDK does
// not mint or validate tokens itself.
type Claims struct {
	WalletAddress string `json:"wallet"`
	TokenType     string `json:"typ,omitempty"`
	Tier          string `json:"tier,omitempty"`

	jwt.RegisteredClaims
}

// ParseUnverified decodes a token's claims without checking its signature.
// Use it for expiry inspection only; the platform is the sole authority on
// token validity.
func ParseUnverified(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("auth: empty token")
	}
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresWithin reports whether the token expires within d of now. Tokens
// without an exp claim never report as expiring.
func (c *Claims) ExpiresWithin(d time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Until(c.ExpiresAt.Time) <= d
}

// Expired reports whether the token's exp claim is in the past.
func (c *Claims) Expired() bool {
	return c.ExpiresWithin(0)
}
