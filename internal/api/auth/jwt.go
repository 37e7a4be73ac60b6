// Package auth issues and validates the bearer tokens that guard the
// admin API's mutating routes (cancel).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidSecretLength = errors.New("jwt secret must be at least 32 characters")
)

// Claims is the JWT payload for an admin API caller. There is no user
// database behind the admin API — one shared secret authenticates every
// operator, distinguished only by the Subject recorded for audit
// logging.
type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and validates admin API tokens.
type Service struct {
	secret   string
	issuer   string
	lifetime time.Duration
}

// NewService builds a token service. secret must be at least 32 bytes.
func NewService(secret, issuer string, lifetime time.Duration) (*Service, error) {
	if len(secret) < 32 {
		return nil, ErrInvalidSecretLength
	}
	if issuer == "" {
		issuer = "pricc"
	}
	if lifetime == 0 {
		lifetime = time.Hour
	}
	return &Service{secret: secret, issuer: issuer, lifetime: lifetime}, nil
}

// IssueToken mints a token for the named operator.
func (s *Service) IssueToken(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
