package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
)

// BillOfMaterialsItemResponse is the JSON representation of a BOM item.
type BillOfMaterialsItemResponse struct {
	ID                int64     `json:"id"                   example:"1"`
	BillOfMaterialsID int64     `json:"bill_of_materials_id" example:"1"`
	ItemProductNumber uuid.UUID `json:"item_product_number"  example:"123e4567-e89b-12d3-a456-426614174000"`
	BatchID           int64     `json:"batch_id"             example:"1"`
	RequiredQuantity  int       `json:"required_quantity"    example:"50"`
	ScheduledStartAt  time.Time `json:"scheduled_start_at"   example:"2024-02-15T00:00:00Z"`
	RequiredAt        time.Time `json:"required_at"          example:"2024-01-01T00:00:00Z"`
	CreatedAt         time.Time `json:"created_at"           example:"2024-01-15T10:30:00Z"`
	UpdatedAt         time.Time `json:"updated_at"           example:"2024-01-15T10:30:00Z"`
} // @name BillOfMaterialsItemResponse

// ListBillOfMaterialsItemsResponse wraps the items of one BOM.
type ListBillOfMaterialsItemsResponse struct {
	BillOfMaterialsID int64                         `json:"bill_of_materials_id" example:"1"`
	Items             []BillOfMaterialsItemResponse `json:"items"`
} // @name ListBillOfMaterialsItemsResponse

type ErrorResponse struct {
	Error string `json:"error" example:"Adding 500 units would exceed the maximum production capacity for product 123e4567-e89b-12d3-a456-426614174000"`
	Kind  string `json:"kind"  example:"capacity_exceeded"`
} // @name ManufacturingErrorResponse

func toItemResponse(item *models.BillOfMaterialsItem) BillOfMaterialsItemResponse {
	return BillOfMaterialsItemResponse{
		ID:                item.ID,
		BillOfMaterialsID: item.BillOfMaterialsID,
		ItemProductNumber: item.ProductNumber.UUID(),
		BatchID:           item.BatchID,
		RequiredQuantity:  item.RequiredQuantity,
		ScheduledStartAt:  item.ScheduledStartAt,
		RequiredAt:        item.RequiredAt,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}
