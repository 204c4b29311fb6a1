package models

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
)

// ItemProductNumber is the manufacturing context's reference to a product.
// It shares the inventory product number's value but not its type.
type ItemProductNumber struct {
	value uuid.UUID
}

// ParseItemProductNumber parses the canonical UUID string form.
func ParseItemProductNumber(s string) (ItemProductNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ItemProductNumber{}, domainerr.Violation(domain.ErrInvalidProductNumber, "Item product number is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return ItemProductNumber{}, domainerr.Violation(domain.ErrInvalidProductNumber, "Invalid item product number format: %s", s)
	}
	return ItemProductNumberFromUUID(id)
}

// ItemProductNumberFromUUID rejects the nil UUID.
func ItemProductNumberFromUUID(id uuid.UUID) (ItemProductNumber, error) {
	if id == uuid.Nil {
		return ItemProductNumber{}, domainerr.Violation(domain.ErrInvalidProductNumber, "Item product number cannot be empty")
	}
	return ItemProductNumber{value: id}, nil
}

func (n ItemProductNumber) UUID() uuid.UUID {
	return n.value
}

func (n ItemProductNumber) IsZero() bool {
	return n.value == uuid.Nil
}

func (n ItemProductNumber) String() string {
	return n.value.String()
}
