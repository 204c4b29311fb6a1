package domain

import "github.com/ghuser/mrpcapacity/pkg/domainerr"

// Sentinel errors for the manufacturing domain. Violations created with
// domainerr.Violation unwrap to these, so errors.Is works on both the
// sentinel and its kind.
var (
	ErrInvalidBillOfMaterialsItem = domainerr.New(domainerr.KindInvalidArgument, "invalid bill of materials item")
	ErrInvalidProductNumber       = domainerr.New(domainerr.KindInvalidArgument, "invalid item product number")

	// ErrProductNotFound: the referenced product is unknown to the inventory context.
	ErrProductNotFound = domainerr.New(domainerr.KindNotFound, "product does not exist")

	// ErrBillOfMaterialsItemExists: the (product number, batch, BOM) triple is taken.
	ErrBillOfMaterialsItemExists = domainerr.New(domainerr.KindConflict, "bill of materials item already exists")

	ErrCapacityExceeded = domainerr.New(domainerr.KindCapacityExceeded, "production capacity exceeded")

	// ErrAllocationFailed: the reservation itself could not be applied, even
	// though the pre-check passed. Usually a lost race.
	ErrAllocationFailed = domainerr.New(domainerr.KindAllocationFailed, "Failed to update product production quantity")

	// ErrUnitOfWorkCompleted is returned by a unit of work used after
	// Complete or Rollback. It is a programming error and carries no kind.
	ErrUnitOfWorkCompleted = domainerr.New(domainerr.KindUnknown, "unit of work already completed")
)
