// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package authz is the policy decision point. It evaluates
// (role, path, action) requests against a static Casbin RBAC table
// loaded once per process. The package decides; it knows nothing about
// HTTP responses or route bypasses, which live in the Guard middleware.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/handloom-labs/handloom/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Config selects the policy artifacts. Empty paths use the embedded
// defaults compiled into the binary.
type Config struct {
	// ModelPath overrides the embedded Casbin model definition.
	ModelPath string `koanf:"model_path"`

	// PolicyPath overrides the embedded rule table.
	PolicyPath string `koanf:"policy_path"`
}

// Enforcer evaluates role-based access rules. The loaded table is
// read-only after construction and safe for concurrent use.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer from the configured artifacts. A
// configured override that exists but cannot be read or parsed is an
// error; the process must not serve without a loaded policy.
func NewEnforcer(cfg *Config) (*Enforcer, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	modelText := embeddedModel
	if cfg.ModelPath != "" {
		data, err := os.ReadFile(cfg.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("read model override %s: %w", cfg.ModelPath, err)
		}
		modelText = string(data)
	}

	policyText := embeddedPolicy
	if cfg.PolicyPath != "" {
		data, err := os.ReadFile(cfg.PolicyPath)
		if err != nil {
			return nil, fmt.Errorf("read policy override %s: %w", cfg.PolicyPath, err)
		}
		policyText = string(data)
	}

	return NewEnforcerFromStrings(modelText, policyText)
}

// NewEnforcerFromStrings builds an enforcer from in-memory policy
// artifacts. Tests use it to assemble ad hoc rule tables.
func NewEnforcerFromStrings(modelText, policyText string) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if err := loadPolicyRows(enforcer, policyText); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// loadPolicyRows parses CSV-style rule rows into the enforcer.
// Rows are `p, role, path, action`; blank lines and # comments skip.
func loadPolicyRows(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		if parts[0] != "p" || len(parts) < 4 {
			return fmt.Errorf("malformed policy row: %q", line)
		}

		if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
			return fmt.Errorf("add policy %v: %w", parts[1:], err)
		}
	}
	return nil
}

// Enforce reports whether the role may perform the action on the path.
// The unset role never satisfies a rule; the policy table cannot grant
// access to accounts that have not completed onboarding.
func (e *Enforcer) Enforce(role models.Role, path, action string) (bool, error) {
	if role.IsUnset() {
		return false, nil
	}

	allowed, err := e.enforcer.Enforce(role.String(), path, action)
	if err != nil {
		return false, fmt.Errorf("enforce (%s, %s, %s): %w", role, path, action, err)
	}
	return allowed, nil
}

// Policy returns the loaded rule rows, used by the admin policy
// inspection endpoint.
func (e *Enforcer) Policy() [][]string {
	rows, _ := e.enforcer.GetPolicy()
	return rows
}
