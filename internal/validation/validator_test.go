// Handloom - Artisan Marketplace Platform
// Copyright 2026 Handloom Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/handloom-labs/handloom

package validation

import (
	"strings"
	"testing"
)

type samplePayload struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required,min=1,max=10"`
	Price int64  `validate:"required,gt=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		payload   samplePayload
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid",
			payload: samplePayload{Email: "a@example.com", Name: "Scarf", Price: 100},
		},
		{
			name:      "missing email",
			payload:   samplePayload{Name: "Scarf", Price: 100},
			wantErr:   true,
			wantField: "Email",
		},
		{
			name:      "bad email",
			payload:   samplePayload{Email: "nope", Name: "Scarf", Price: 100},
			wantErr:   true,
			wantField: "Email",
		},
		{
			name:      "name too long",
			payload:   samplePayload{Email: "a@example.com", Name: "a very long product name", Price: 100},
			wantErr:   true,
			wantField: "Name",
		},
		{
			name:      "zero price",
			payload:   samplePayload{Email: "a@example.com", Name: "Scarf"},
			wantErr:   true,
			wantField: "Price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.payload)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			found := false
			for _, f := range err.Fields {
				if f.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("want failure on field %s, got %v", tt.wantField, err.Fields)
			}
		})
	}
}

func TestValidateStruct_MessageStyle(t *testing.T) {
	err := ValidateStruct(&samplePayload{Name: "Scarf", Price: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Email is required") {
		t.Errorf("message = %q, want human-readable", err.Error())
	}
}

func TestValidatorSingleton(t *testing.T) {
	if Validator() != Validator() {
		t.Error("Validator must return the same instance")
	}
}
