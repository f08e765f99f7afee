// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package models

import "time"

// Profile is the public storefront page of an artisan or NGO partner.
// UserID is both the primary key and the owner reference.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name" validate:"required,min=1,max=200"`
	Bio         string    `json:"bio" validate:"max=2000"`
	Location    string    `json:"location" validate:"max=200"`
	Craft       string    `json:"craft" validate:"max=100"`
	AvatarKey   string    `json:"avatar_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileInput carries the client-mutable fields of a profile.
type ProfileInput struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=200"`
	Bio         string `json:"bio" validate:"max=2000"`
	Location    string `json:"location" validate:"max=200"`
	Craft       string `json:"craft" validate:"max=100"`
	AvatarKey   string `json:"avatar_key,omitempty"`
}

// Apply copies the mutable fields of in onto p.
func (p *Profile) Apply(in *ProfileInput) {
	p.DisplayName = in.DisplayName
	p.Bio = in.Bio
	p.Location = in.Location
	p.Craft = in.Craft
	p.AvatarKey = in.AvatarKey
}
