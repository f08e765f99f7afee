// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

// Package store provides BadgerDB-backed persistence for marketplace
// entities. All stores share one badger.DB handle and partition the
// keyspace with per-entity prefixes.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a requested record does not exist.
// Callers must distinguish it from infrastructure failures: a missing
// record is a client-facing 404, anything else is a server fault.
var ErrNotFound = errors.New("record not found")

// Store bundles the entity stores backed by a single BadgerDB instance.
type Store struct {
	db *badger.DB

	Users    *UserStore
	Products *ProductStore
	Profiles *ProfileStore
}

// Options configures the backing database.
type Options struct {
	// Path is the on-disk database directory. Empty with InMemory set
	// runs fully in memory, used by tests.
	Path     string
	InMemory bool
}

// Open opens the BadgerDB database and wires the entity stores.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	badgerOpts.Logger = nil // badger's own logger is too chatty, we log at the store layer

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	return &Store{
		db:       db,
		Users:    &UserStore{db: db},
		Products: &ProductStore{db: db},
		Profiles: &ProfileStore{db: db},
	}, nil
}

// Close closes the backing database.
func (s *Store) Close() error {
	return s.db.Close()
}

// getJSON reads the value at key into dst via the provided unmarshal
// function, mapping badger's missing-key error to ErrNotFound.
func getJSON(db *badger.DB, key []byte, unmarshal func([]byte) error) error {
	return db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(unmarshal)
	})
}
