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
	"github.com/google/uuid"

	"github.com/handloom-labs/handloom/internal/audit"
	"github.com/handloom-labs/handloom/internal/auth"
	"github.com/handloom-labs/handloom/internal/logging"
	"github.com/handloom-labs/handloom/internal/metrics"
	"github.com/handloom-labs/handloom/internal/models"
	"github.com/handloom-labs/handloom/internal/store"
)

// authorizeOwner applies the ownership rule shared by every resource
// mutation: the subject must own the resource, admins are exempt. The
// caller resolves the resource first; a miss is answered 404 before
// ownership is ever compared, so a non-owner cannot distinguish
// someone else's resource from a nonexistent one.
func (h *Handler) authorizeOwner(w http.ResponseWriter, r *http.Request, subject *auth.Subject, ownerID, resource, resourceID string) bool {
	if subject.Role == models.RoleAdmin {
		return true
	}
	if ownerID != subject.ID {
		logging.Ctx(r.Context()).Warn().
			Str("subject_id", subject.ID).
			Str("owner_id", ownerID).
			Str("resource", resource).
			Str("resource_id", resourceID).
			Msg("Ownership check failed")
		h.recorder.Record(r.Context(), audit.OwnershipDenied(r, subject.ID, subject.Role.String(), resource, resourceID))
		metrics.OwnershipDenialsTotal.Inc()
		writeOwnershipDenied(w, resource)
		return false
	}
	return true
}

// ProductList handles GET /api/products. An owner query parameter
// narrows the listing to one seller's storefront.
func (h *Handler) ProductList(w http.ResponseWriter, r *http.Request) {
	var (
		products []*models.Product
		err      error
	)
	if owner := r.URL.Query().Get("owner"); owner != "" {
		products, err = h.products.ListByOwner(r.Context(), owner)
	} else {
		products, err = h.products.List(r.Context())
	}
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("Product list failed")
		writeInternalError(w)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// ProductGet handles GET /api/products/{id}.
func (h *Handler) ProductGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w, "Product")
			return
		}
		logging.CtxErr(r.Context(), err).Msg("Product lookup failed")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ProductCreate handles POST /api/products. This is a self-service
// route: sellers reach it through the gate's bypass table, so no
// policy row names it. The owner is always the authenticated subject,
// never client input.
func (h *Handler) ProductCreate(w http.ResponseWriter, r *http.Request) {
	subject, ok := mustSubject(w, r)
	if !ok {
		return
	}

	var in models.ProductInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:        uuid.NewString(),
		OwnerID:   subject.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.Apply(&in)

	if err := h.products.Create(r.Context(), product); err != nil {
		logging.CtxErr(r.Context(), err).Msg("Product create failed")
		writeInternalError(w)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("product_id", product.ID).
		Str("owner_id", product.OwnerID).
		Msg("Product created")
	writeJSON(w, http.StatusCreated, product)
}

// ProductUpdate handles PUT /api/products/{id}. Resolution precedes
// the ownership comparison, and a failed comparison writes nothing.
func (h *Handler) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	subject, ok := mustSubject(w, r)
	if !ok {
		return
	}

	product, err := h.products.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w, "Product")
			return
		}
		logging.CtxErr(r.Context(), err).Msg("Product lookup failed")
		writeInternalError(w)
		return
	}

	if !h.authorizeOwner(w, r, subject, product.OwnerID, "product", product.ID) {
		return
	}

	var in models.ProductInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	product.Apply(&in)
	product.UpdatedAt = time.Now().UTC()
	if err := h.products.Save(r.Context(), product); err != nil {
		logging.CtxErr(r.Context(), err).Msg("Product save failed")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ProductDelete handles DELETE /api/products/{id}. Same resolution and
// ownership ordering as updates.
func (h *Handler) ProductDelete(w http.ResponseWriter, r *http.Request) {
	subject, ok := mustSubject(w, r)
	if !ok {
		return
	}

	product, err := h.products.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w, "Product")
			return
		}
		logging.CtxErr(r.Context(), err).Msg("Product lookup failed")
		writeInternalError(w)
		return
	}

	if !h.authorizeOwner(w, r, subject, product.OwnerID, "product", product.ID) {
		return
	}

	if err := h.products.Delete(r.Context(), product.ID); err != nil {
		logging.CtxErr(r.Context(), err).Msg("Product delete failed")
		writeInternalError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
