package models

import (
	"errors"
	"testing"

	"github.com/ghuser/mrpcapacity/services/inventory/domain"
)

func TestParseProductType(t *testing.T) {
	tests := []struct {
		code string
		want ProductType
		name string
	}{
		{"BTP", BuildToPrint, "BuildToPrint"},
		{"BTS", BuildToSpecification, "BuildToSpecification"},
		{"MTS", MadeToStock, "MadeToStock"},
		{"mto", MadeToOrder, "MadeToOrder"},
		{" MTA ", MadeToAssemble, "MadeToAssemble"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ParseProductType(tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if got.String() != tt.name {
				t.Fatalf("String() = %q, want %q", got.String(), tt.name)
			}
			if got.Description() == "" {
				t.Fatal("expected a description")
			}
		})
	}

	t.Run("unknown code", func(t *testing.T) {
		_, err := ParseProductType("XYZ")
		if !errors.Is(err, domain.ErrInvalidProductType) {
			t.Fatalf("expected ErrInvalidProductType, got %v", err)
		}
	})
}

func TestProductType_CodeRoundTrip(t *testing.T) {
	for v := 0; v <= 4; v++ {
		pt, err := ProductTypeFromInt(v)
		if err != nil {
			t.Fatalf("unexpected error for %d: %v", v, err)
		}
		back, err := ParseProductType(pt.Code())
		if err != nil || back != pt {
			t.Fatalf("code %q did not round-trip: %v %v", pt.Code(), back, err)
		}
	}
	if _, err := ProductTypeFromInt(5); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}
