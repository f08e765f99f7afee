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

// Key prefixes for user records and the email uniqueness index.
const (
	userKeyPrefix      = "user:"
	userEmailKeyPrefix = "user_email:"
)

// ErrEmailTaken is returned by Create when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// UserStore persists marketplace accounts.
type UserStore struct {
	db *badger.DB
}

// Create stores a new user and its email index entry. It fails with
// ErrEmailTaken if another account already owns the email.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte(userEmailKeyPrefix + user.Email)
		_, err := txn.Get(emailKey)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email index: %w", err)
		}

		if err := txn.Set([]byte(userKeyPrefix+user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a user by ID. Returns ErrNotFound if absent.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := getJSON(s.db, []byte(userKeyPrefix+id), func(val []byte) error {
		return json.Unmarshal(val, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves a user via the email index. Returns ErrNotFound
// if no account owns the email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var id string
	err := getJSON(s.db, []byte(userEmailKeyPrefix+email), func(val []byte) error {
		id = string(val)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// Save overwrites an existing user record. Returns ErrNotFound if the
// user does not exist.
func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(userKeyPrefix + user.ID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return txn.Set(key, data)
	})
}

// Delete removes a user and its email index entry. Deleting a missing
// user is a no-op.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	user, err := s.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(userKeyPrefix + id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete user: %w", err)
		}
		if err := txn.Delete([]byte(userEmailKeyPrefix + user.Email)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete email index: %w", err)
		}
		return nil
	})
}

// List returns all users ordered by key.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(userKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user models.User
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			})
			if err != nil {
				return fmt.Errorf("unmarshal user: %w", err)
			}
			users = append(users, &user)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
