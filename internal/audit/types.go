// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package audit records security-relevant access control events:
// authentication failures, authorization denials, and ownership
// violations. Events carry enough context to reconstruct who tried
// what, from where, and why it was refused.
package audit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// EventType classifies an audit event.
type EventType string

const (
	// EventTypeAuthSuccess records a successful authentication.
	EventTypeAuthSuccess EventType = "auth.success"

	// EventTypeAuthFailure records a missing or invalid credential.
	EventTypeAuthFailure EventType = "auth.failure"

	// EventTypeAuthzDenied records a role-based policy denial.
	EventTypeAuthzDenied EventType = "authz.denied"

	// EventTypeOwnershipDenied records an attempt to modify a resource
	// owned by someone else.
	EventTypeOwnershipDenied EventType = "authz.ownership_denied"
)

// Outcome is the result of the audited operation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Actor identifies who performed the audited action. For failed
// authentication the identity may be unknown and ID left empty.
type Actor struct {
	ID   string `json:"id,omitempty"`
	Role string `json:"role,omitempty"`
}

// Source describes where the request came from.
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Event is a single audit record.
type Event struct {
	Timestamp   time.Time       `json:"timestamp"`
	Type        EventType       `json:"type"`
	Outcome     Outcome         `json:"outcome"`
	Actor       Actor           `json:"actor"`
	Source      Source          `json:"source"`
	Path        string          `json:"path"`
	Method      string          `json:"method"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
}

// SourceFromRequest builds a Source from an HTTP request. Behind a
// reverse proxy the first X-Forwarded-For entry is the client.
func SourceFromRequest(r *http.Request) Source {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		ip = strings.TrimSpace(first)
	}

	return Source{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}
