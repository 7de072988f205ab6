package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken reports a token that failed verification: bad signature,
// malformed, expired, or missing its subject.
var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies HS256-signed bearer tokens bound to a user ID.
// Tokens are self-contained; nothing is stored server-side.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service signing with the given process-wide
// secret. Tokens expire after ttl.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user identifier as its subject, expiring
// ttl from now. It returns the compact token and its expiry time.
func (s *Service) Issue(userID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks the signature and expiry of a compact token and returns the
// user identifier it was issued for.
func (s *Service) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// TTL reports the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
