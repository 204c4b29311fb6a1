package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/mrpcapacity/pkg/auth"
	"github.com/ghuser/mrpcapacity/pkg/database"
	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/pkg/events"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
	domainevents "github.com/ghuser/mrpcapacity/services/manufacturing/domain/events"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/repositories"
	"github.com/ghuser/mrpcapacity/services/manufacturing/infrastructure/persistence/postgres/db"
)

const constraintCombination = "uq_bill_of_materials_items_combination"

var _ repositories.BillOfMaterialsItemRepository = (*BillOfMaterialsItemRepository)(nil)

// BillOfMaterialsItemRepository stores items in manufacturing.bill_of_materials_items.
// Like the inventory repository it is either pool-bound or bound to a unit of
// work.
type BillOfMaterialsItemRepository struct {
	db     *database.Database
	uow    *database.UnitOfWork
	outbox events.Outbox
}

func NewBillOfMaterialsItemRepository(database *database.Database, outbox events.Outbox) *BillOfMaterialsItemRepository {
	return &BillOfMaterialsItemRepository{db: database, outbox: outbox}
}

func NewBillOfMaterialsItemRepositoryInUnitOfWork(uow *database.UnitOfWork, outbox events.Outbox) *BillOfMaterialsItemRepository {
	return &BillOfMaterialsItemRepository{uow: uow, outbox: outbox}
}

// Add inserts item and publishes BillOfMaterialsItemCreatedEvent on the same
// transaction. A concurrent insert of the same combination surfaces as
// ErrBillOfMaterialsItemExists through the unique index.
func (r *BillOfMaterialsItemRepository) Add(ctx context.Context, item *models.BillOfMaterialsItem) error {
	if r.uow != nil {
		if err := r.insert(ctx, r.uow.Tx(), item); err != nil {
			return err
		}
		r.uow.Track(1)
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return r.insert(ctx, tx, item)
	})
}

func (r *BillOfMaterialsItemRepository) insert(ctx context.Context, tx *sql.Tx, item *models.BillOfMaterialsItem) error {
	id, err := db.New(tx).InsertBillOfMaterialsItem(ctx, db.InsertBillOfMaterialsItemParams{
		BillOfMaterialsID: item.BillOfMaterialsID,
		ProductNumber:     item.ProductNumber.UUID(),
		BatchID:           item.BatchID,
		RequiredQuantity:  int32(item.RequiredQuantity),
		ScheduledStartAt:  item.ScheduledStartAt,
		RequiredAt:        item.RequiredAt,
		CreatedAt:         item.CreatedAt,
	})
	if err != nil {
		if database.IsUniqueViolation(err, constraintCombination) {
			return domainerr.Violation(domain.ErrBillOfMaterialsItemExists,
				"A Bill of Materials Item with the same combination of product number %s, batch ID %d, and Bill of Materials ID %d already exists",
				item.ProductNumber, item.BatchID, item.BillOfMaterialsID)
		}
		return fmt.Errorf("insert bill of materials item: %w", err)
	}
	item.ID = id

	if r.outbox != nil {
		evt := domainevents.BillOfMaterialsItemCreatedEvent{
			EventID:           uuid.New(),
			Version:           1,
			ItemID:            item.ID,
			BillOfMaterialsID: item.BillOfMaterialsID,
			ProductNumber:     item.ProductNumber.UUID(),
			BatchID:           item.BatchID,
			RequiredQuantity:  item.RequiredQuantity,
			ScheduledStartAt:  item.ScheduledStartAt,
			RequiredAt:        item.RequiredAt,
			CreatedBy:         auth.OperatorIDOrEmpty(ctx),
			OccurredAt:        item.CreatedAt,
		}
		if err := r.outbox.PublishTx(ctx, tx, domainevents.TopicBillOfMaterialsItemCreated, evt.EventID, evt.Version, evt); err != nil {
			return fmt.Errorf("publish bill of materials item created: %w", err)
		}
	}
	return nil
}

func (r *BillOfMaterialsItemRepository) ExistsByCombination(ctx context.Context, pn models.ItemProductNumber, batchID, bomID int64) (bool, error) {
	exists, err := r.queries().BillOfMaterialsItemExists(ctx, db.BillOfMaterialsItemExistsParams{
		ProductNumber:     pn.UUID(),
		BatchID:           batchID,
		BillOfMaterialsID: bomID,
	})
	if err != nil {
		return false, fmt.Errorf("check item combination: %w", err)
	}
	return exists, nil
}

func (r *BillOfMaterialsItemRepository) FindByBillOfMaterialsID(ctx context.Context, bomID int64) ([]*models.BillOfMaterialsItem, error) {
	rows, err := r.queries().ListBillOfMaterialsItems(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("query bill of materials items: %w", err)
	}
	items := make([]*models.BillOfMaterialsItem, 0, len(rows))
	for _, row := range rows {
		item, err := rowToItem(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *BillOfMaterialsItemRepository) queries() *db.Queries {
	if r.uow != nil {
		return db.New(r.uow.Tx())
	}
	return db.New(r.db.DB())
}

func rowToItem(row db.ManufacturingBillOfMaterialsItem) (*models.BillOfMaterialsItem, error) {
	pn, err := models.ItemProductNumberFromUUID(row.ProductNumber)
	if err != nil {
		return nil, fmt.Errorf("bill of materials item %d: %w", row.ID, err)
	}
	return models.RehydrateBillOfMaterialsItem(models.BillOfMaterialsItem{
		ID:                row.ID,
		BillOfMaterialsID: row.BillOfMaterialsID,
		ProductNumber:     pn,
		BatchID:           row.BatchID,
		RequiredQuantity:  int(row.RequiredQuantity),
		ScheduledStartAt:  row.ScheduledStartAt,
		RequiredAt:        row.RequiredAt,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}), nil
}
