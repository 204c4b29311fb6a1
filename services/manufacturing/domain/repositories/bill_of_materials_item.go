package repositories

import (
	"context"

	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/acl"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
)

// BillOfMaterialsItemRepository is the persistence interface for BOM items.
type BillOfMaterialsItemRepository interface {
	// Add stages item for insertion and assigns item.ID. Returns
	// ErrBillOfMaterialsItemExists if the combination is already taken.
	Add(ctx context.Context, item *models.BillOfMaterialsItem) error

	ExistsByCombination(ctx context.Context, pn models.ItemProductNumber, batchID, bomID int64) (bool, error)

	// FindByBillOfMaterialsID returns the items of one BOM ordered by id.
	FindByBillOfMaterialsID(ctx context.Context, bomID int64) ([]*models.BillOfMaterialsItem, error)
}

// UnitOfWork groups an item insertion and a capacity reservation into one
// atomic commit. Items and Products operate inside the unit; nothing they do
// is visible to other units until Complete succeeds.
type UnitOfWork interface {
	Items() BillOfMaterialsItemRepository
	Products() acl.ProductLookup

	// Complete commits and returns the number of persisted changes. It may be
	// called once.
	Complete(ctx context.Context) (int, error)

	// Rollback discards staged changes. It is a no-op after Complete, so
	// callers may defer it.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory opens units of work.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
