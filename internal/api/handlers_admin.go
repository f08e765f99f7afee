// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package api

import (
	"net/http"
	"time"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// Health handles GET /api/health. Public, no auth.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Time: time.Now().UTC()})
}

// PolicyRow is one rule of the loaded policy table.
type PolicyRow struct {
	Role   string `json:"role"`
	Path   string `json:"path"`
	Action string `json:"action"`
}

// AdminPolicies returns a handler for GET /api/admin/policies exposing
// the loaded rule table. The route sits behind the gate, so only roles
// the table itself admits to /api/admin/* can read it.
func AdminPolicies(policies PolicyReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := policies.Policy()
		rows := make([]PolicyRow, 0, len(raw))
		for _, p := range raw {
			if len(p) < 3 {
				continue
			}
			rows = append(rows, PolicyRow{Role: p[0], Path: p[1], Action: p[2]})
		}
		writeJSON(w, http.StatusOK, rows)
	}
}
