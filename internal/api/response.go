// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/handloom-labs/handloom/internal/logging"
)

// MessageBody is the error shape the resource handlers answer with.
// The gating middleware answers with an "error" key instead; the two
// shapes are part of the client contract and must not be unified.
type MessageBody struct {
	Message string `json:"message"`
}

// writeJSON serializes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeMessage writes the handlers' "message"-keyed error body.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageBody{Message: msg})
}

// writeNotFound answers 404 for a missing resource. resource is the
// display name, e.g. "Product".
func writeNotFound(w http.ResponseWriter, resource string) {
	writeMessage(w, http.StatusNotFound, resource+" not found")
}

// writeOwnershipDenied answers 403 for a mutation on a resource the
// subject does not own. resource is the lowercase noun, e.g. "product".
func writeOwnershipDenied(w http.ResponseWriter, resource string) {
	writeMessage(w, http.StatusForbidden, "Access denied. You can only update your own "+resource+".")
}

// writeInternalError answers 500 without leaking the cause.
func writeInternalError(w http.ResponseWriter) {
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}
