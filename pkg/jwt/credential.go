// Package jwt reads the console credential issued by the remote auth service.
//
// Credentials the console stored itself at login are decoded without a signature
// check (DecodeAt). Tokens presented by callers go through Verify, which
// requires the shared signing key.
package jwt

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims is the payload of a console credential
type Claims struct {
	jwt.RegisteredClaims
	AdminID  interface{} `json:"id"`
	Username string      `json:"username"`
	Role     string      `json:"role"`
}

// GetID returns the admin id as a string whether the token carries a number or a string
func (c *Claims) GetID() string {
	switch v := c.AdminID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return ""
	}
}

// DecodeAt parses a credential and checks its expiry against now. A token without
// an exp claim decodes with a nil ExpiresAt; callers pick their own lifetime.
func DecodeAt(token string, now time.Time) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Username == "" {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}

// Verify parses a credential, checks its HMAC signature against secret and
// requires an unexpired exp claim
func Verify(token string, secret []byte, now time.Time) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(secret) == 0 {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpiredToken
	}
	if err != nil || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
