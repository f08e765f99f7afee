// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/handloom-labs/handloom/internal/logging"
	"github.com/handloom-labs/handloom/internal/models"
	"github.com/handloom-labs/handloom/internal/store"
)

// ProfileSelf handles GET /api/profile, the subject's own storefront.
func (h *Handler) ProfileSelf(w http.ResponseWriter, r *http.Request) {
	subject, ok := mustSubject(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.FindByUserID(r.Context(), subject.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w, "Profile")
			return
		}
		logging.CtxErr(r.Context(), err).Msg("Profile lookup failed")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ProfileUpsert handles POST /api/profile. Like product creation this
// is a self-service route admitted by the gate's bypass table. The
// profile is keyed by the subject, so it can only ever write the
// caller's own page.
func (h *Handler) ProfileUpsert(w http.ResponseWriter, r *http.Request) {
	subject, ok := mustSubject(w, r)
	if !ok {
		return
	}

	var in models.ProfileInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	now := time.Now().UTC()
	profile, err := h.profiles.FindByUserID(r.Context(), subject.ID)
	status := http.StatusOK
	switch {
	case errors.Is(err, store.ErrNotFound):
		profile = &models.Profile{UserID: subject.ID, CreatedAt: now}
		status = http.StatusCreated
	case err != nil:
		logging.CtxErr(r.Context(), err).Msg("Profile lookup failed")
		writeInternalError(w)
		return
	}

	profile.Apply(&in)
	profile.UpdatedAt = now
	if err := h.profiles.Save(r.Context(), profile); err != nil {
		logging.CtxErr(r.Context(), err).Msg("Profile save failed")
		writeInternalError(w)
		return
	}
	writeJSON(w, status, profile)
}

// ProfileGet handles GET /api/profiles/{userID}, the public storefront
// view readable by any role the policy table admits.
func (h *Handler) ProfileGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.FindByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w, "Profile")
			return
		}
		logging.CtxErr(r.Context(), err).Msg("Profile lookup failed")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ProfileUpdate handles PUT /api/profiles/{userID}. The gate is coarse
// here; the ownership check is what keeps one seller off another's
// page. Resolution precedes the comparison.
func (h *Handler) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	subject, ok := mustSubject(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.FindByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w, "Profile")
			return
		}
		logging.CtxErr(r.Context(), err).Msg("Profile lookup failed")
		writeInternalError(w)
		return
	}

	if !h.authorizeOwner(w, r, subject, profile.UserID, "profile", profile.UserID) {
		return
	}

	var in models.ProfileInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	profile.Apply(&in)
	profile.UpdatedAt = time.Now().UTC()
	if err := h.profiles.Save(r.Context(), profile); err != nil {
		logging.CtxErr(r.Context(), err).Msg("Profile save failed")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
