package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/mrpcapacity/pkg/errhttp"
	"github.com/ghuser/mrpcapacity/pkg/httpx"
	appsvcs "github.com/ghuser/mrpcapacity/services/inventory/application/services"
)

// ProductCapacityResponse reports how much of a product's capacity is taken.
type ProductCapacityResponse struct {
	ProductNumber         uuid.UUID       `json:"product_number"          example:"123e4567-e89b-12d3-a456-426614174000"`
	Name                  string          `json:"name"                    example:"Widget"`
	CurrentAllocated      int             `json:"current_allocated"       example:"90"`
	MaxProductionCapacity int             `json:"max_production_capacity" example:"100"`
	RemainingCapacity     int             `json:"remaining_capacity"      example:"10"`
	UtilizationPercent    decimal.Decimal `json:"utilization_percent"     example:"33.33" swaggertype:"string"`
} // @name ProductCapacityResponse

// GetProductCapacityHandler handles GET /v1/products/by-number/{productNumber}/capacity.
type GetProductCapacityHandler struct {
	svc *appsvcs.Services
}

func NewGetProductCapacityHandler(svc *appsvcs.Services) *GetProductCapacityHandler {
	return &GetProductCapacityHandler{svc: svc}
}

// Execute returns the allocation view of a product.
//
//	@Summary	Get product capacity
//	@Tags		products
//	@Produce	json
//	@Param		productNumber	path		string	true	"Product number (UUID)"
//	@Success	200				{object}	ProductCapacityResponse
//	@Failure	404				{object}	ErrorResponse
//	@Failure	422				{object}	ErrorResponse
//	@Router		/v1/products/by-number/{productNumber}/capacity [get]
func (h *GetProductCapacityHandler) Execute(w http.ResponseWriter, r *http.Request) {
	capacity, err := h.svc.Queries.GetCapacity(r.Context(), chi.URLParam(r, "productNumber"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ProductCapacityResponse{
		ProductNumber:         capacity.ProductNumber.UUID(),
		Name:                  capacity.Name.String(),
		CurrentAllocated:      capacity.CurrentAllocated,
		MaxProductionCapacity: capacity.MaxProductionCapacity,
		RemainingCapacity:     capacity.RemainingCapacity,
		UtilizationPercent:    capacity.UtilizationPercent.Round(2),
	})
}
