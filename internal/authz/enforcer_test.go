// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package authz

import (
	"testing"

	"github.com/handloom-labs/handloom/internal/models"
)

const testPolicy = `
p, buyer, /api/other, read
p, buyer, /api/products, read
p, artisan, /api/products/*, read
p, admin, /api/*, read
`

func newTestEnforcer(t *testing.T, policy string) *Enforcer {
	t.Helper()
	e, err := NewEnforcerFromStrings(embeddedModel, policy)
	if err != nil {
		t.Fatalf("NewEnforcerFromStrings failed: %v", err)
	}
	return e
}

func TestEnforce(t *testing.T) {
	e := newTestEnforcer(t, testPolicy)

	tests := []struct {
		name   string
		role   models.Role
		path   string
		action string
		want   bool
	}{
		{name: "exact rule match", role: models.RoleBuyer, path: "/api/other", action: "read", want: true},
		{name: "buyer products", role: models.RoleBuyer, path: "/api/products", action: "read", want: true},
		{name: "no rule for path", role: models.RoleBuyer, path: "/api/admin", action: "read", want: false},
		{name: "role mismatch", role: models.RoleNGOPartner, path: "/api/other", action: "read", want: false},
		{name: "wildcard suffix match", role: models.RoleArtisan, path: "/api/products/p42", action: "read", want: true},
		{name: "wildcard does not match bare prefix", role: models.RoleArtisan, path: "/api/orders", action: "read", want: false},
		{name: "admin wildcard", role: models.RoleAdmin, path: "/api/admin/users", action: "read", want: true},
		{name: "action mismatch", role: models.RoleBuyer, path: "/api/other", action: "write", want: false},
		{name: "unset role never matches", role: models.RoleUnset, path: "/api/other", action: "read", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.path, tt.action)
			if err != nil {
				t.Fatalf("Enforce failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.path, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforce_AllTableRows(t *testing.T) {
	e := newTestEnforcer(t, testPolicy)

	// Every loaded (role, path, action) row must enforce true for itself.
	for _, row := range e.Policy() {
		role, err := models.ParseRole(row[0])
		if err != nil {
			t.Fatalf("policy row carries unknown role %q", row[0])
		}
		// keyMatch wildcards enforce against a concrete sub-path.
		path := row[1]
		if last := len(path) - 1; path[last] == '*' {
			path = path[:last] + "x"
		}
		allowed, err := e.Enforce(role, path, row[2])
		if err != nil {
			t.Fatalf("Enforce(%v) failed: %v", row, err)
		}
		if !allowed {
			t.Errorf("loaded row %v does not satisfy itself", row)
		}
	}
}

func TestEmbeddedDefaultsLoad(t *testing.T) {
	e, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer with embedded defaults failed: %v", err)
	}
	if len(e.Policy()) == 0 {
		t.Error("embedded policy table is empty")
	}

	allowed, err := e.Enforce(models.RoleAdmin, "/api/admin/users", "read")
	if err != nil {
		t.Fatalf("Enforce failed: %v", err)
	}
	if !allowed {
		t.Error("admin must reach /api/admin/users under the shipped table")
	}
}

func TestNewEnforcer_BadOverrides(t *testing.T) {
	_, err := NewEnforcer(&Config{PolicyPath: "/nonexistent/policy.csv"})
	if err == nil {
		t.Error("expected error for unreadable policy override")
	}

	_, err = NewEnforcer(&Config{ModelPath: "/nonexistent/model.conf"})
	if err == nil {
		t.Error("expected error for unreadable model override")
	}
}

func TestLoadPolicyRows_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		policy string
	}{
		{name: "wrong row type", policy: "g, buyer, admin"},
		{name: "too few fields", policy: "p, buyer, /api/other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEnforcerFromStrings(embeddedModel, tt.policy); err == nil {
				t.Errorf("expected parse error for %q", tt.policy)
			}
		})
	}
}
