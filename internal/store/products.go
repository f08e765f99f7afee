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

// Key prefixes for product records and the owner index.
const (
	productKeyPrefix      = "product:"
	productOwnerKeyPrefix = "product_owner:"
)

// ProductStore persists marketplace listings.
type ProductStore struct {
	db *badger.DB
}

// Create stores a new product and its owner index entry.
func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(productKeyPrefix+product.ID), data); err != nil {
			return fmt.Errorf("set product: %w", err)
		}
		ownerKey := []byte(productOwnerKeyPrefix + product.OwnerID + ":" + product.ID)
		if err := txn.Set(ownerKey, []byte(product.ID)); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a product by ID. Returns ErrNotFound if absent.
func (s *ProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := getJSON(s.db, []byte(productKeyPrefix+id), func(val []byte) error {
		return json.Unmarshal(val, &product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Save overwrites an existing product record. Returns ErrNotFound if the
// product does not exist.
func (s *ProductStore) Save(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(productKeyPrefix + product.ID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		return txn.Set(key, data)
	})
}

// Delete removes a product and its owner index entry. Deleting a missing
// product is a no-op.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	product, err := s.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(productKeyPrefix + id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete product: %w", err)
		}
		ownerKey := []byte(productOwnerKeyPrefix + product.OwnerID + ":" + id)
		if err := txn.Delete(ownerKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete owner index: %w", err)
		}
		return nil
	})
}

// List returns all products ordered by key.
func (s *ProductStore) List(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(productKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var product models.Product
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &product)
			})
			if err != nil {
				return fmt.Errorf("unmarshal product: %w", err)
			}
			products = append(products, &product)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// ListByOwner returns all products owned by the given user.
func (s *ProductStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Product, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(productOwnerKeyPrefix + ownerID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list owner products: %w", err)
	}

	products := make([]*models.Product, 0, len(ids))
	for _, id := range ids {
		product, err := s.FindByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue // index entry may outlive a concurrently deleted product
		}
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}
