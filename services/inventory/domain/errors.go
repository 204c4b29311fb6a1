package domain

import "github.com/ghuser/mrpcapacity/pkg/domainerr"

// Sentinel errors for the inventory domain. Use errors.Is() to check these,
// or domainerr.KindOf to branch on the error kind.
var (
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = domainerr.New(domainerr.KindNotFound, "product not found")

	// ErrProductNameTaken indicates another product already uses the name.
	ErrProductNameTaken = domainerr.New(domainerr.KindConflict, "product name already exists")

	// ErrProductNumberTaken indicates a product number collision on insert.
	ErrProductNumberTaken = domainerr.New(domainerr.KindConflict, "product number already exists")

	ErrInvalidProductName   = domainerr.New(domainerr.KindInvalidArgument, "invalid product name")
	ErrInvalidProductType   = domainerr.New(domainerr.KindInvalidArgument, "invalid product type")
	ErrInvalidProductNumber = domainerr.New(domainerr.KindInvalidArgument, "invalid product number")
	ErrInvalidCapacity      = domainerr.New(domainerr.KindInvalidArgument, "invalid max production capacity")

	// ErrConcurrentUpdate is returned when a product row changed between read
	// and write. The optimistic version no longer matches.
	ErrConcurrentUpdate = domainerr.New(domainerr.KindAllocationFailed, "product was modified concurrently")
)
