// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/handloom-labs/handloom/internal/models"
)

// MinSecretLength is the minimum accepted signing secret length.
// Anything shorter is brute-forceable and rejected at startup.
const MinSecretLength = 32

// Claims are the token payload: the subject identity plus the
// registered time claims.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens. Verification
// is stateless: no database round-trip, which means a deleted account
// keeps a working token until its natural expiry.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenManager creates a token manager. The secret must be at least
// MinSecretLength bytes.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters, got %d", MinSecretLength, len(secret))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "handloom",
	}, nil
}

// Generate issues a signed token for the subject.
func (m *TokenManager) Generate(userID string, role models.Role, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the token's signature and time claims and returns
// its claims. Only HMAC-signed tokens are accepted: a token whose
// header names any other algorithm fails regardless of content.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredCredentials, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// Subject builds the request identity from verified claims. An
// unparseable role claim resolves to the unset role, which no policy
// rule can satisfy.
func (c *Claims) Subject() *Subject {
	role, err := models.ParseRole(c.Role)
	if err != nil {
		role = models.RoleUnset
	}
	return &Subject{
		ID:    c.UserID,
		Role:  role,
		Email: c.Email,
	}
}
