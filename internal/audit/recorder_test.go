// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package audit

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/handloom-labs/handloom/internal/logging"
)

func TestSourceFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		wantIP  string
	}{
		{
			name:   "remote addr with port",
			remote: "192.168.1.10:54321",
			wantIP: "192.168.1.10",
		},
		{
			name:    "single forwarded-for",
			remote:  "10.0.0.1:1234",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5"},
			wantIP:  "203.0.113.5",
		},
		{
			name:    "forwarded-for chain takes first hop",
			remote:  "10.0.0.1:1234",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2, 10.0.0.3"},
			wantIP:  "203.0.113.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/products", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			src := SourceFromRequest(r)
			if src.IPAddress != tt.wantIP {
				t.Errorf("IPAddress = %q, want %q", src.IPAddress, tt.wantIP)
			}
		})
	}
}

func TestAuthFailureEvent(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/users", nil)
	r.RemoteAddr = "192.0.2.1:9999"

	ev := AuthFailure(r, "token expired")

	if ev.Type != EventTypeAuthFailure {
		t.Errorf("Type = %q, want %q", ev.Type, EventTypeAuthFailure)
	}
	if ev.Outcome != OutcomeFailure {
		t.Errorf("Outcome = %q, want %q", ev.Outcome, OutcomeFailure)
	}
	if ev.Path != "/api/admin/users" {
		t.Errorf("Path = %q, want /api/admin/users", ev.Path)
	}
	if ev.Timestamp.IsZero() {
		t.Error("Timestamp must be set")
	}
	if ev.Source.IPAddress != "192.0.2.1" {
		t.Errorf("IPAddress = %q, want 192.0.2.1", ev.Source.IPAddress)
	}
}

func TestAuthzDeniedEvent(t *testing.T) {
	r := httptest.NewRequest("DELETE", "/api/admin/users/42", nil)

	ev := AuthzDenied(r, "user-7", "buyer")

	if ev.Type != EventTypeAuthzDenied {
		t.Errorf("Type = %q, want %q", ev.Type, EventTypeAuthzDenied)
	}
	if ev.Actor.ID != "user-7" || ev.Actor.Role != "buyer" {
		t.Errorf("Actor = %+v, want ID user-7 role buyer", ev.Actor)
	}
	if ev.Method != "DELETE" {
		t.Errorf("Method = %q, want DELETE", ev.Method)
	}
}

func TestOwnershipDeniedEvent(t *testing.T) {
	r := httptest.NewRequest("PUT", "/api/products/p1", nil)

	ev := OwnershipDenied(r, "user-7", "artisan", "product", "p1")

	if ev.Type != EventTypeOwnershipDenied {
		t.Errorf("Type = %q, want %q", ev.Type, EventTypeOwnershipDenied)
	}
	if len(ev.Metadata) == 0 {
		t.Error("Metadata must carry the resource reference")
	}
}

func TestNopRecorder(t *testing.T) {
	// Must not panic on nil-ish events.
	NopRecorder{}.Record(context.Background(), &Event{})
}

func TestLogRecorder_EmitsEvent(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.SetLogger(prev) })

	r := httptest.NewRequest("GET", "/api/products", nil)
	rec := NewLogRecorder()
	rec.Record(context.Background(), AuthFailure(r, "token expired"))

	out := buf.String()
	if !strings.Contains(out, `"component":"audit"`) {
		t.Errorf("output missing audit component tag: %s", out)
	}
	if !strings.Contains(out, string(EventTypeAuthFailure)) {
		t.Errorf("output missing event type: %s", out)
	}
	if !strings.Contains(out, "/api/products") {
		t.Errorf("output missing path: %s", out)
	}
}
