// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/handloom-labs/handloom/internal/audit"
	"github.com/handloom-labs/handloom/internal/auth"
	"github.com/handloom-labs/handloom/internal/logging"
	"github.com/handloom-labs/handloom/internal/models"
	"github.com/handloom-labs/handloom/internal/store"
)

// RegisterInput is the account-creation payload. Role is optional:
// accounts registered without one start Unset and cannot pass any
// policy rule until onboarding assigns a role.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer artisan ngo_partner"`
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the successful auth response.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}
	// Admin accounts are provisioned out of band, never self-registered.
	if role == models.RoleAdmin {
		writeMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("Password hashing failed")
		writeInternalError(w)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			writeMessage(w, http.StatusConflict, "Email already registered")
			return
		}
		logging.CtxErr(r.Context(), err).Msg("User create failed")
		writeInternalError(w)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Role, user.Email)
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("Token generation failed")
		writeInternalError(w)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", user.ID).
		Str("role", user.Role.String()).
		Msg("Account registered")
	writeJSON(w, http.StatusCreated, TokenResponse{Token: token, User: user.Public()})
}

// Login handles POST /api/auth/login. Unknown email and wrong password
// produce the same response so the endpoint cannot be used to probe
// for registered addresses.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	user, err := h.users.FindByEmail(r.Context(), in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.recorder.Record(r.Context(), audit.AuthFailure(r, "unknown email"))
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		logging.CtxErr(r.Context(), err).Msg("User lookup failed")
		writeInternalError(w)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		h.recorder.Record(r.Context(), audit.AuthFailure(r, "wrong password"))
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Role, user.Email)
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("Token generation failed")
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token, User: user.Public()})
}
