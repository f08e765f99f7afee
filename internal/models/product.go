// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package models

import "time"

// Product is a marketplace listing. OwnerID is assigned once at creation
// from the authenticated subject and is never read from client input.
type Product struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name" validate:"required,min=1,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Price       int64     `json:"price" validate:"required,gt=0"`
	Currency    string    `json:"currency" validate:"required,len=3"`
	Category    string    `json:"category" validate:"max=100"`
	ImageKeys   []string  `json:"image_keys,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput carries the client-mutable fields of a product. Ownership
// and identity fields are deliberately absent.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	Currency    string   `json:"currency" validate:"required,len=3"`
	Category    string   `json:"category" validate:"max=100"`
	ImageKeys   []string `json:"image_keys,omitempty"`
}

// Apply copies the mutable fields of in onto p.
func (p *Product) Apply(in *ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Currency = in.Currency
	p.Category = in.Category
	p.ImageKeys = in.ImageKeys
}
