// Package acl declares what the manufacturing context may know about
// products. Implementations translate to the inventory context; nothing in
// manufacturing imports inventory types.
package acl

import (
	"context"

	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
)

// ProductLookup is the only channel through which manufacturing reads or
// mutates product state. Query methods return an error only for system
// faults; an unknown product is a normal answer.
type ProductLookup interface {
	// Exists reports whether a product with the number exists.
	Exists(ctx context.Context, pn models.ItemProductNumber) (bool, error)

	// CurrentAllocated returns 0 for an unknown product.
	CurrentAllocated(ctx context.Context, pn models.ItemProductNumber) (int, error)

	// MaxCapacity returns 0 for an unknown product.
	MaxCapacity(ctx context.Context, pn models.ItemProductNumber) (int, error)

	// WouldExceedCapacity is true when the product is unknown, or when
	// allocating quantity more units would overshoot its ceiling.
	WouldExceedCapacity(ctx context.Context, pn models.ItemProductNumber, quantity int) (bool, error)

	// ApplyAllocation atomically reserves quantity units. It reports false
	// when the product is unknown, the reservation would break the capacity
	// bound, or persistence fails; it never returns an error.
	ApplyAllocation(ctx context.Context, pn models.ItemProductNumber, quantity int) bool
}
