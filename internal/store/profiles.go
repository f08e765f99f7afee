// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/handloom-labs/handloom/internal/models"
)

const profileKeyPrefix = "profile:"

// ProfileStore persists artisan and NGO partner storefront profiles,
// keyed by the owning user's ID.
type ProfileStore struct {
	db *badger.DB
}

// Create stores a new profile.
func (s *ProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+profile.UserID), data)
	})
}

// FindByUserID retrieves the profile owned by the given user.
// Returns ErrNotFound if absent.
func (s *ProfileStore) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := getJSON(s.db, []byte(profileKeyPrefix+userID), func(val []byte) error {
		return json.Unmarshal(val, &profile)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save overwrites an existing profile. Returns ErrNotFound if the
// profile does not exist.
func (s *ProfileStore) Save(ctx context.Context, profile *models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(profileKeyPrefix + profile.UserID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return txn.Set(key, data)
	})
}

// Delete removes a profile. Deleting a missing profile is a no-op.
func (s *ProfileStore) Delete(ctx context.Context, userID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(profileKeyPrefix + userID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete profile: %w", err)
		}
		return nil
	})
}

// List returns all profiles ordered by key.
func (s *ProfileStore) List(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(profileKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var profile models.Profile
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &profile)
			})
			if err != nil {
				return fmt.Errorf("unmarshal profile: %w", err)
			}
			profiles = append(profiles, &profile)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, nil
}
