// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package auth provides stateless bearer-token authentication: token
// issuance and verification, the per-request Subject identity, and the
// middleware that turns an Authorization header into a Subject in the
// request context.
package auth

import (
	"context"
	"errors"

	"github.com/handloom-labs/handloom/internal/models"
)

// Sentinel errors for authentication failures. Handlers map these to
// the client-facing 401 contract; the underlying cause stays in logs.
var (
	// ErrNoCredentials indicates the Authorization header was absent
	// or did not contain a bearer token.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates the token failed verification.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates the token is past its expiry.
	ErrExpiredCredentials = errors.New("expired credentials")
)

// Subject is the identity resolved from a verified token. It lives for
// one request, attached to the context by the Authenticate middleware,
// and is never mutated.
type Subject struct {
	ID    string
	Role  models.Role
	Email string
}

type contextKey string

const subjectContextKey contextKey = "auth_subject"

// ContextWithSubject attaches the subject to the context.
func ContextWithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// SubjectFromContext retrieves the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (*Subject, bool) {
	subject, ok := ctx.Value(subjectContextKey).(*Subject)
	return subject, ok && subject != nil
}
