package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const insertBillOfMaterialsItem = `-- name: InsertBillOfMaterialsItem :one
INSERT INTO manufacturing.bill_of_materials_items (
    bill_of_materials_id, product_number, batch_id, required_quantity,
    scheduled_start_at, required_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING id
`

type InsertBillOfMaterialsItemParams struct {
	BillOfMaterialsID int64
	ProductNumber     uuid.UUID
	BatchID           int64
	RequiredQuantity  int32
	ScheduledStartAt  time.Time
	RequiredAt        time.Time
	CreatedAt         time.Time
}

func (q *Queries) InsertBillOfMaterialsItem(ctx context.Context, arg InsertBillOfMaterialsItemParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertBillOfMaterialsItem,
		arg.BillOfMaterialsID,
		arg.ProductNumber,
		arg.BatchID,
		arg.RequiredQuantity,
		arg.ScheduledStartAt,
		arg.RequiredAt,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const billOfMaterialsItemExists = `-- name: BillOfMaterialsItemExists :one
SELECT EXISTS (
    SELECT 1 FROM manufacturing.bill_of_materials_items
    WHERE product_number = $1 AND batch_id = $2 AND bill_of_materials_id = $3
)
`

type BillOfMaterialsItemExistsParams struct {
	ProductNumber     uuid.UUID
	BatchID           int64
	BillOfMaterialsID int64
}

func (q *Queries) BillOfMaterialsItemExists(ctx context.Context, arg BillOfMaterialsItemExistsParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, billOfMaterialsItemExists, arg.ProductNumber, arg.BatchID, arg.BillOfMaterialsID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listBillOfMaterialsItems = `-- name: ListBillOfMaterialsItems :many
SELECT id, bill_of_materials_id, product_number, batch_id, required_quantity,
       scheduled_start_at, required_at, created_at, updated_at
FROM manufacturing.bill_of_materials_items
WHERE bill_of_materials_id = $1
ORDER BY id
`

func (q *Queries) ListBillOfMaterialsItems(ctx context.Context, billOfMaterialsID int64) ([]ManufacturingBillOfMaterialsItem, error) {
	rows, err := q.db.QueryContext(ctx, listBillOfMaterialsItems, billOfMaterialsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ManufacturingBillOfMaterialsItem
	for rows.Next() {
		var i ManufacturingBillOfMaterialsItem
		if err := rows.Scan(
			&i.ID,
			&i.BillOfMaterialsID,
			&i.ProductNumber,
			&i.BatchID,
			&i.RequiredQuantity,
			&i.ScheduledStartAt,
			&i.RequiredAt,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
