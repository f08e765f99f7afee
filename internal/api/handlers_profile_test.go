// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/handloom-labs/handloom/internal/auth"
	"github.com/handloom-labs/handloom/internal/models"
	"github.com/handloom-labs/handloom/internal/store"
)

func setupProfileHandler(t *testing.T) (*Handler, *store.Store) {
	t.Helper()
	st, err := store.Open(store.Options{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewHandler(st.Users, st.Products, st.Profiles, nil, nil, nil), st
}

func serveProfile(h *Handler, subject *auth.Subject, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/profile", h.ProfileSelf)
	r.Post("/api/profile", h.ProfileUpsert)
	r.Get("/api/profiles/{userID}", h.ProfileGet)
	r.Put("/api/profiles/{userID}", h.ProfileUpdate)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if subject != nil {
		req = req.WithContext(auth.ContextWithSubject(req.Context(), subject))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProfileUpsert_KeyedBySubject(t *testing.T) {
	h, st := setupProfileHandler(t)
	subject := &auth.Subject{ID: "artisan-1", Role: models.RoleArtisan, Email: "maker@example.com"}

	w := serveProfile(h, subject, "POST", "/api/profile", `{"display_name":"Meera Weaves","craft":"ikat"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	profile, err := st.Profiles.FindByUserID(t.Context(), "artisan-1")
	if err != nil {
		t.Fatalf("find profile: %v", err)
	}
	if profile.DisplayName != "Meera Weaves" {
		t.Errorf("display name = %q", profile.DisplayName)
	}

	// Second post updates in place.
	w = serveProfile(h, subject, "POST", "/api/profile", `{"display_name":"Meera Handlooms","craft":"ikat"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert status = %d, want 200", w.Code)
	}
}

func TestProfileUpdate_NonOwnerDenied(t *testing.T) {
	h, st := setupProfileHandler(t)

	now := time.Now().UTC()
	if err := st.Profiles.Save(t.Context(), &models.Profile{
		UserID: "artisan-1", DisplayName: "Meera Weaves", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	subject := &auth.Subject{ID: "artisan-2", Role: models.RoleArtisan, Email: "other@example.com"}
	w := serveProfile(h, subject, "PUT", "/api/profiles/artisan-1", `{"display_name":"Hijacked"}`)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	want := `{"message":"Access denied. You can only update your own profile."}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}

	kept, err := st.Profiles.FindByUserID(t.Context(), "artisan-1")
	if err != nil {
		t.Fatalf("find profile: %v", err)
	}
	if kept.DisplayName != "Meera Weaves" {
		t.Errorf("denied update wrote: display name = %q", kept.DisplayName)
	}
}

func TestProfileUpdate_MissingBeforeOwnership(t *testing.T) {
	h, _ := setupProfileHandler(t)

	subject := &auth.Subject{ID: "artisan-2", Role: models.RoleArtisan, Email: "other@example.com"}
	w := serveProfile(h, subject, "PUT", "/api/profiles/ghost", `{"display_name":"X"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	want := `{"message":"Profile not found"}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}
