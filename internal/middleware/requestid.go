// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package middleware holds HTTP middleware shared across the router:
// request IDs and Prometheus instrumentation. Authentication and
// policy gating live in their own packages.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/handloom-labs/handloom/internal/logging"
)

// RequestID tags each request with a unique ID, reusing an upstream
// proxy's X-Request-ID when present. The ID lands in the response
// header, the request context, and every log line written through
// logging.Ctx.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
