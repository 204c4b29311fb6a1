package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mrpcapacity/services/inventory/domain/models"
)

// ProductResponse is the JSON representation of a product.
type ProductResponse struct {
	ID                    int64     `json:"id"                      example:"1"`
	ProductNumber         uuid.UUID `json:"product_number"          example:"123e4567-e89b-12d3-a456-426614174000"`
	Name                  string    `json:"name"                    example:"Widget"`
	ProductType           string    `json:"product_type"            example:"MTS"`
	ProductTypeName       string    `json:"product_type_name"       example:"MadeToStock"`
	OperationMode         string    `json:"operation_mode"          example:"Made for stock"`
	CurrentAllocated      int       `json:"current_allocated"       example:"50"`
	MaxProductionCapacity int       `json:"max_production_capacity" example:"500"`
	RemainingCapacity     int       `json:"remaining_capacity"      example:"450"`
	CreatedAt             time.Time `json:"created_at"              example:"2024-01-15T10:30:00Z"`
	UpdatedAt             time.Time `json:"updated_at"              example:"2024-01-15T10:30:00Z"`
} // @name ProductResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"Product with number 123e4567-e89b-12d3-a456-426614174000 does not exist"`
	Kind  string `json:"kind"  example:"not_found"`
} // @name ErrorResponse

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:                    p.ID,
		ProductNumber:         p.ProductNumber.UUID(),
		Name:                  p.Name.String(),
		ProductType:           p.ProductType.Code(),
		ProductTypeName:       p.ProductType.String(),
		OperationMode:         p.ProductType.Description(),
		CurrentAllocated:      p.CurrentAllocated(),
		MaxProductionCapacity: p.MaxProductionCapacity,
		RemainingCapacity:     p.RemainingCapacity(),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}
