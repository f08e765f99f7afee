// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package api holds the HTTP handlers, the ownership checks guarding
// resource mutations, and the router wiring the authentication and
// policy middleware around them.
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/handloom-labs/handloom/internal/audit"
	"github.com/handloom-labs/handloom/internal/auth"
	"github.com/handloom-labs/handloom/internal/models"
	"github.com/handloom-labs/handloom/internal/objstore"
	"github.com/handloom-labs/handloom/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// UserStore is the account persistence the handlers depend on.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProductStore is the product persistence the handlers depend on.
// Tests substitute counting fakes to observe write behavior.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Product, error)
}

// ProfileStore is the profile persistence the handlers depend on.
type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
	List(ctx context.Context) ([]*models.Profile, error)
}

// PolicyReader exposes the loaded rule table for the admin surface.
type PolicyReader interface {
	Policy() [][]string
}

// Handler carries the dependencies of every HTTP handler.
type Handler struct {
	users    UserStore
	products ProductStore
	profiles ProfileStore
	tokens   *auth.TokenManager
	media    objstore.Store
	recorder audit.Recorder
}

// NewHandler wires the handler set. media may be nil when object
// storage is disabled; recorder defaults to a no-op.
func NewHandler(users UserStore, products ProductStore, profiles ProfileStore, tokens *auth.TokenManager, media objstore.Store, recorder audit.Recorder) *Handler {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Handler{
		users:    users,
		products: products,
		profiles: profiles,
		tokens:   tokens,
		media:    media,
		recorder: recorder,
	}
}

// decodeAndValidate reads the request body into dst and runs payload
// validation. On failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Request body too large or unreadable")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		writeMessage(w, http.StatusBadRequest, verr.Error())
		return false
	}
	return true
}

// mustSubject returns the authenticated subject or answers 401. The
// authenticator runs ahead of every protected route, so a miss here is
// a wiring fault and is treated fail-closed.
func mustSubject(w http.ResponseWriter, r *http.Request) (*auth.Subject, bool) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return nil, false
	}
	return subject, true
}
