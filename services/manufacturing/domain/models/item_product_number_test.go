package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
)

func TestParseItemProductNumber(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		input  string
		detail string
	}{
		{"canonical", id.String(), ""},
		{"surrounding space", "  " + id.String() + " ", ""},
		{"blank", "   ", "Item product number is required"},
		{"malformed", "not-a-uuid", "Invalid item product number format: not-a-uuid"},
		{"nil uuid", uuid.Nil.String(), "Item product number cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pn, err := ParseItemProductNumber(tt.input)
			if tt.detail == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if pn.UUID() != id {
					t.Fatalf("expected %s, got %s", id, pn)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidProductNumber) {
				t.Fatalf("expected ErrInvalidProductNumber, got %v", err)
			}
			if got := domainerr.Detail(err); got != tt.detail {
				t.Fatalf("expected %q, got %q", tt.detail, got)
			}
			if !pn.IsZero() {
				t.Fatal("expected zero value on error")
			}
		})
	}
}
