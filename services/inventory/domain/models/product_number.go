package models

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/inventory/domain"
)

// ProductNumber is the globally unique, immutable business identifier of a
// product. The zero value is not a valid number.
type ProductNumber struct {
	value uuid.UUID
}

// NewProductNumber generates a fresh random product number.
func NewProductNumber() ProductNumber {
	return ProductNumber{value: uuid.New()}
}

// ParseProductNumber parses the canonical string form of a product number.
func ParseProductNumber(s string) (ProductNumber, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ProductNumber{}, domainerr.Violation(domain.ErrInvalidProductNumber,
			"product number %q is not a valid UUID", s)
	}
	return ProductNumberFromUUID(id)
}

// ProductNumberFromUUID wraps an existing UUID. The nil UUID is rejected.
func ProductNumberFromUUID(id uuid.UUID) (ProductNumber, error) {
	if id == uuid.Nil {
		return ProductNumber{}, domainerr.Violation(domain.ErrInvalidProductNumber,
			"product number cannot be empty")
	}
	return ProductNumber{value: id}, nil
}

// UUID returns the underlying identifier.
func (n ProductNumber) UUID() uuid.UUID {
	return n.value
}

// IsZero reports whether n was never assigned.
func (n ProductNumber) IsZero() bool {
	return n.value == uuid.Nil
}

func (n ProductNumber) String() string {
	return n.value.String()
}

// GoString keeps %#v output readable in test failures.
func (n ProductNumber) GoString() string {
	return fmt.Sprintf("ProductNumber(%s)", n.value)
}
