// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package authz

import "sync"

// Provider is the memoized accessor for the process-wide enforcer.
// Concurrent first calls perform exactly one load; every caller then
// observes the same fully-populated table. A load failure is also
// memoized: the policy table is a startup precondition, not something
// to retry per request.
//
// Tests construct fresh providers with counting loaders instead of
// resetting shared state.
type Provider struct {
	once   sync.Once
	loader func() (*Enforcer, error)

	enforcer *Enforcer
	err      error
}

// NewProvider creates a provider around the given loader. The loader
// runs at most once, on the first Get.
func NewProvider(loader func() (*Enforcer, error)) *Provider {
	return &Provider{loader: loader}
}

// DefaultProvider returns a provider that loads the enforcer from the
// given config on first use.
func DefaultProvider(cfg *Config) *Provider {
	return NewProvider(func() (*Enforcer, error) {
		return NewEnforcer(cfg)
	})
}

// Get returns the singleton enforcer, loading it on first call.
func (p *Provider) Get() (*Enforcer, error) {
	p.once.Do(func() {
		p.enforcer, p.err = p.loader()
	})
	return p.enforcer, p.err
}
