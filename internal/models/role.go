// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package models defines the core domain types shared across the
// Handloom backend: roles, users, artisan profiles, and products.
package models

import "fmt"

// Role is the closed set of roles a marketplace account can hold.
// Roles align with the Casbin policy definitions in internal/authz/policy.csv.
//
// RoleUnset is the state of an account that has registered but not completed
// onboarding. It is deliberately the empty string: an unset role can never
// match a policy rule, so such accounts are authenticated but authorized for
// nothing until a role is assigned.
type Role string

const (
	// RoleBuyer purchases products.
	RoleBuyer Role = "buyer"

	// RoleArtisan lists and manages their own products.
	RoleArtisan Role = "artisan"

	// RoleNGOPartner represents an NGO/education partner account.
	RoleNGOPartner Role = "ngo_partner"

	// RoleAdmin has full access including user management.
	RoleAdmin Role = "admin"

	// RoleUnset is an account that has not completed onboarding.
	RoleUnset Role = ""
)

// ValidRoles contains all assignable role names for validation.
// RoleUnset is intentionally excluded: it is a state, not an assignable role.
var ValidRoles = []Role{RoleBuyer, RoleArtisan, RoleNGOPartner, RoleAdmin}

// ParseRole converts a string to a Role. The empty string parses to
// RoleUnset; any other unknown value is an error.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBuyer, RoleArtisan, RoleNGOPartner, RoleAdmin:
		return Role(s), nil
	case RoleUnset:
		return RoleUnset, nil
	default:
		return RoleUnset, fmt.Errorf("invalid role: %q", s)
	}
}

// IsValid reports whether the role is one of the assignable roles.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// IsUnset reports whether the account has not completed onboarding.
func (r Role) IsUnset() bool {
	return r == RoleUnset
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
