// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/handloom-labs/handloom/internal/logging"
)

// Recorder receives audit events. Middleware and handlers depend on
// this interface so tests can capture events in memory.
type Recorder interface {
	Record(ctx context.Context, event *Event)
}

// LogRecorder writes audit events to the structured log as a single
// JSON object per event, tagged with the audit component.
type LogRecorder struct {
	logger zerolog.Logger
}

// NewLogRecorder creates a log-backed recorder.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{logger: logging.WithComponent("audit")}
}

// Record serializes the event into the structured log. Events that fail
// to marshal are still logged with their type and path so no denial goes
// unrecorded.
func (r *LogRecorder) Record(ctx context.Context, event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = logging.RequestIDFromContext(ctx)
	}

	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("type", string(event.Type)).
			Str("path", event.Path).
			Msg("Failed to marshal audit event")
		return
	}

	r.logger.Warn().
		RawJSON("audit", data).
		Msg("Security event")
}

// NopRecorder discards all events. Used where auditing is disabled.
type NopRecorder struct{}

// Record discards the event.
func (NopRecorder) Record(ctx context.Context, event *Event) {}

// AuthFailure builds an authentication failure event. The reason stays
// in the audit trail only, never in the client response.
func AuthFailure(r *http.Request, reason string) *Event {
	return &Event{
		Timestamp:   time.Now().UTC(),
		Type:        EventTypeAuthFailure,
		Outcome:     OutcomeFailure,
		Source:      SourceFromRequest(r),
		Path:        r.URL.Path,
		Method:      r.Method,
		Description: "Authentication failed: " + reason,
	}
}

// AuthzDenied builds a policy denial event for the given subject.
func AuthzDenied(r *http.Request, subjectID, role string) *Event {
	return &Event{
		Timestamp:   time.Now().UTC(),
		Type:        EventTypeAuthzDenied,
		Outcome:     OutcomeFailure,
		Actor:       Actor{ID: subjectID, Role: role},
		Source:      SourceFromRequest(r),
		Path:        r.URL.Path,
		Method:      r.Method,
		Description: "Role not permitted for this route",
	}
}

// OwnershipDenied builds an event for an attempt to modify a resource
// owned by another account.
func OwnershipDenied(r *http.Request, subjectID, role, resourceType, resourceID string) *Event {
	meta, _ := json.Marshal(map[string]string{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
	return &Event{
		Timestamp:   time.Now().UTC(),
		Type:        EventTypeOwnershipDenied,
		Outcome:     OutcomeFailure,
		Actor:       Actor{ID: subjectID, Role: role},
		Source:      SourceFromRequest(r),
		Path:        r.URL.Path,
		Method:      r.Method,
		Description: "Subject does not own the target " + resourceType,
		Metadata:    meta,
	}
}
