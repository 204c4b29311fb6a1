package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const productColumns = `id, product_number, name, product_type, current_production_quantity, max_production_capacity, version, created_at, updated_at`

const insertProduct = `-- name: InsertProduct :one
INSERT INTO inventory.products (
    product_number, name, product_type, current_production_quantity,
    max_production_capacity, version, created_at, updated_at
) VALUES ($1, $2, $3, 0, $4, 0, $5, $5)
RETURNING id
`

type InsertProductParams struct {
	ProductNumber         uuid.UUID
	Name                  string
	ProductType           int16
	MaxProductionCapacity int32
	CreatedAt             time.Time
}

func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertProduct,
		arg.ProductNumber,
		arg.Name,
		arg.ProductType,
		arg.MaxProductionCapacity,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getProductByID = `-- name: GetProductByID :one
SELECT ` + productColumns + `
FROM inventory.products
WHERE id = $1
`

func (q *Queries) GetProductByID(ctx context.Context, id int64) (InventoryProduct, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProductByID, id))
}

const getProductByNumber = `-- name: GetProductByNumber :one
SELECT ` + productColumns + `
FROM inventory.products
WHERE product_number = $1
`

func (q *Queries) GetProductByNumber(ctx context.Context, productNumber uuid.UUID) (InventoryProduct, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProductByNumber, productNumber))
}

const getProductByNumberForUpdate = `-- name: GetProductByNumberForUpdate :one
SELECT ` + productColumns + `
FROM inventory.products
WHERE product_number = $1
FOR UPDATE
`

func (q *Queries) GetProductByNumberForUpdate(ctx context.Context, productNumber uuid.UUID) (InventoryProduct, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProductByNumberForUpdate, productNumber))
}

const productNameExists = `-- name: ProductNameExists :one
SELECT EXISTS (
    SELECT 1 FROM inventory.products WHERE lower(name) = lower($1)
)
`

func (q *Queries) ProductNameExists(ctx context.Context, name string) (bool, error) {
	row := q.db.QueryRowContext(ctx, productNameExists, name)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const productNumberExists = `-- name: ProductNumberExists :one
SELECT EXISTS (
    SELECT 1 FROM inventory.products WHERE product_number = $1
)
`

func (q *Queries) ProductNumberExists(ctx context.Context, productNumber uuid.UUID) (bool, error) {
	row := q.db.QueryRowContext(ctx, productNumberExists, productNumber)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const updateProductAllocation = `-- name: UpdateProductAllocation :execrows
UPDATE inventory.products
SET current_production_quantity = $1,
    updated_at = $2,
    version = version + 1
WHERE id = $3 AND version = $4
`

type UpdateProductAllocationParams struct {
	CurrentProductionQuantity int32
	UpdatedAt                 time.Time
	ID                        int64
	Version                   int32
}

func (q *Queries) UpdateProductAllocation(ctx context.Context, arg UpdateProductAllocationParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateProductAllocation,
		arg.CurrentProductionQuantity,
		arg.UpdatedAt,
		arg.ID,
		arg.Version,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + `
FROM inventory.products
ORDER BY id
LIMIT $1 OFFSET $2
`

type ListProductsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]InventoryProduct, error) {
	rows, err := q.db.QueryContext(ctx, listProducts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryProduct
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
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

const countProducts = `-- name: CountProducts :one
SELECT count(*) FROM inventory.products
`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countProducts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(s scanner) (InventoryProduct, error) {
	var i InventoryProduct
	err := s.Scan(
		&i.ID,
		&i.ProductNumber,
		&i.Name,
		&i.ProductType,
		&i.CurrentProductionQuantity,
		&i.MaxProductionCapacity,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
