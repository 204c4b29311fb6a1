package models

import (
	"strings"
	"testing"
)

func TestNewProductName(t *testing.T) {
	t.Run("valid 60 characters", func(t *testing.T) {
		s := strings.Repeat("x", 60)
		n, err := NewProductName(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != s {
			t.Fatalf("expected string of length 60, got %d", len(n.String()))
		}
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		s := strings.Repeat("ü", 60)
		if _, err := NewProductName(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("61 characters returns error", func(t *testing.T) {
		_, err := NewProductName(strings.Repeat("x", 61))
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if err.Error() != "product name must not exceed 60 characters" {
			t.Fatalf("unexpected message %q", err.Error())
		}
	})

	t.Run("empty string returns error", func(t *testing.T) {
		if _, err := NewProductName(""); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("whitespace only returns error", func(t *testing.T) {
		if _, err := NewProductName(" \t\n"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("control character returns error", func(t *testing.T) {
		if _, err := NewProductName("Wid\x00get"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestProductName_Key(t *testing.T) {
	if ProductName("Widget").Key() != ProductName("WIDGET").Key() {
		t.Fatal("expected case-insensitive keys to match")
	}
	if ProductName("ÉCROU").Key() != ProductName("écrou").Key() {
		t.Fatal("expected non-ASCII folding")
	}
	if ProductName("Widget").Key() == ProductName("Gadget").Key() {
		t.Fatal("expected distinct names to differ")
	}
}
