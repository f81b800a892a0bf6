// Package token issues and verifies session bearer tokens. A token is a
// short-lived signed assertion of identity plus a trust-score snapshot taken
// at issue time; trust changes are not reflected until re-authentication.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kuu-app/kuu-backend/internal/domain"
)

// SessionClaims is the fixed claim set. Subject, IssuedAt and ExpiresAt come
// from RegisteredClaims; Trust is the snapshot embedded at issue time.
type SessionClaims struct {
	jwt.RegisteredClaims
	Trust int `json:"trust"`
}

type Issuer struct {
	key []byte
	ttl time.Duration
}

func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	return &Issuer{key: key, ttl: ttl}
}

// Issue signs a session token for the user with their current trust score.
func (i *Issuer) Issue(userID string, trust int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Trust: trust,
	})

	signed, err := t.SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a bearer token, returning its claims.
func (i *Issuer) Verify(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	})
	if err != nil || !t.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
