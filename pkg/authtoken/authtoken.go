// Package authtoken checks bearer tokens before they are sent to the
// storefront backend.
//
// Tokens are not verified here (the backend owns the signing key); only
// presence and the exp claim are inspected so an expired login can be
// turned into a re-authentication request without a network round trip.
package authtoken

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissing = errors.New("auth token missing")
	ErrExpired = errors.New("auth token expired")
)

// FromHeader extracts the token from an Authorization header value.
// Both "Bearer <token>" and a raw token are accepted.
func FromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Validate returns ErrMissing for an empty token and ErrExpired for a JWT
// whose exp claim is before now. Opaque (non-JWT) tokens are accepted.
func Validate(token string, now time.Time) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissing
	}
	if strings.Count(token, ".") != 2 {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !exp.After(now) {
		return ErrExpired
	}
	return nil
}

// Fingerprint identifies the holder of a token without keeping the token
// itself. Two header values carrying the same token share a fingerprint;
// an empty token has none.
func Fingerprint(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
