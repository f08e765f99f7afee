// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/handloom-labs/handloom/internal/models"
)

const testSecret = "test-secret-that-is-long-enough-for-hmac"

func newTestTokenManager(t *testing.T, ttl time.Duration) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, ttl)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return m
}

func TestNewTokenManager_ShortSecret(t *testing.T) {
	if _, err := NewTokenManager("short", time.Hour); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestTokenManager(t, time.Hour)

	token, err := m.Generate("u1", models.RoleArtisan, "weaver@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if claims.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", claims.UserID)
	}
	if claims.Role != "artisan" {
		t.Errorf("Role = %q, want artisan", claims.Role)
	}
	if claims.Email != "weaver@example.com" {
		t.Errorf("Email = %q, want weaver@example.com", claims.Email)
	}

	subject := claims.Subject()
	if subject.Role != models.RoleArtisan {
		t.Errorf("Subject.Role = %q, want artisan", subject.Role)
	}
}

func TestValidate_Expired(t *testing.T) {
	m := newTestTokenManager(t, time.Hour)

	// Issue a token that expired an hour ago.
	now := time.Now()
	claims := &Claims{
		UserID: "u1",
		Role:   "buyer",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = m.Validate(token)
	if !errors.Is(err, ErrExpiredCredentials) {
		t.Errorf("expected ErrExpiredCredentials, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	m := newTestTokenManager(t, time.Hour)

	other, err := NewTokenManager("another-secret-also-long-enough-here!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, err := other.Generate("u1", models.RoleBuyer, "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	_, err = m.Validate(token)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidate_RejectsNonHMAC(t *testing.T) {
	m := newTestTokenManager(t, time.Hour)

	// alg=none style token must be rejected by the method check.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = m.Validate(signed)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for alg=none, got %v", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	m := newTestTokenManager(t, time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b.c", strings.Repeat("x", 500)} {
		if _, err := m.Validate(input); err == nil {
			t.Errorf("Validate(%q) expected error", input)
		}
	}
}

func TestClaims_UnknownRoleBecomesUnset(t *testing.T) {
	claims := &Claims{UserID: "u1", Role: "superuser"}
	subject := claims.Subject()
	if !subject.Role.IsUnset() {
		t.Errorf("unknown role claim resolved to %q, want unset", subject.Role)
	}
}
