// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/handloom-labs/handloom/internal/audit"
	"github.com/handloom-labs/handloom/internal/auth"
	"github.com/handloom-labs/handloom/internal/logging"
	"github.com/handloom-labs/handloom/internal/metrics"
	"github.com/handloom-labs/handloom/internal/models"
)

// PolicyDecider is the decision interface the gate depends on. The
// concrete Enforcer satisfies it; tests inject counting fakes to prove
// bypassed routes never reach the decision point.
type PolicyDecider interface {
	Enforce(role models.Role, path, action string) (bool, error)
}

// ActionRead is the action the gate submits for route-level checks.
// Finer-grained mutation rights are decided by ownership checks in the
// resource handlers, not by the policy table.
const ActionRead = "read"

// BypassKey identifies a self-service route excused from the policy
// check. For these exact (role, path) pairs authentication alone
// admits the request: an artisan creating their own product needs no
// table row saying so. The decision point itself has no knowledge of
// bypasses; they exist only in this gate.
type BypassKey struct {
	Role models.Role
	Path string
}

// DefaultBypasses returns the self-service create routes shipped with
// the marketplace.
func DefaultBypasses() map[BypassKey]struct{} {
	return map[BypassKey]struct{}{
		{Role: models.RoleArtisan, Path: "/api/products"}:    {},
		{Role: models.RoleNGOPartner, Path: "/api/products"}: {},
		{Role: models.RoleArtisan, Path: "/api/profile"}:     {},
		{Role: models.RoleNGOPartner, Path: "/api/profile"}:  {},
	}
}

// Guard is the request gate between authentication and the resource
// handlers. It reads the Subject attached by the authenticator and
// either admits the request via a bypass or submits it to the decider.
type Guard struct {
	decider  PolicyDecider
	bypasses map[BypassKey]struct{}
	recorder audit.Recorder
}

// NewGuard creates the gating middleware.
func NewGuard(decider PolicyDecider, bypasses map[BypassKey]struct{}, recorder audit.Recorder) *Guard {
	if bypasses == nil {
		bypasses = map[BypassKey]struct{}{}
	}
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Guard{decider: decider, bypasses: bypasses, recorder: recorder}
}

// Middleware enforces the policy table on every request that passed
// authentication. Denials are audited and answered 403; a decider
// failure is a server fault, never treated as a deny.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			// The authenticator runs ahead of the gate. Reaching here
			// without a subject is a wiring bug, fail closed.
			logging.Ctx(r.Context()).Error().
				Str("path", r.URL.Path).
				Msg("Guard reached without authenticated subject")
			writeGuardError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		if _, bypassed := g.bypasses[BypassKey{Role: subject.Role, Path: r.URL.Path}]; bypassed {
			metrics.PolicyDecisionsTotal.WithLabelValues("bypass").Inc()
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := g.decider.Enforce(subject.Role, r.URL.Path, ActionRead)
		if err != nil {
			metrics.PolicyDecisionsTotal.WithLabelValues("error").Inc()
			logging.Ctx(r.Context()).Error().
				Err(err).
				Str("path", r.URL.Path).
				Str("role", subject.Role.String()).
				Msg("Policy decision failed")
			writeGuardError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if !allowed {
			metrics.PolicyDecisionsTotal.WithLabelValues("deny").Inc()
			logging.Ctx(r.Context()).Warn().
				Str("email", subject.Email).
				Str("role", subject.Role.String()).
				Str("path", r.URL.Path).
				Msg("Access denied by policy")
			g.recorder.Record(r.Context(), audit.AuthzDenied(r, subject.ID, subject.Role.String()))
			writeGuardError(w, http.StatusForbidden, "Access denied for your role")
			return
		}

		metrics.PolicyDecisionsTotal.WithLabelValues("allow").Inc()
		next.ServeHTTP(w, r)
	})
}

// writeGuardError writes the gate's error contract: an "error" key.
// Handlers deeper in the stack answer with a "message" key instead;
// both shapes are load-bearing for existing clients.
func writeGuardError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing to do if the client is gone
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
