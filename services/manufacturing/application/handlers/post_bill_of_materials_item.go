package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/mrpcapacity/pkg/errhttp"
	"github.com/ghuser/mrpcapacity/pkg/httpx"
	pkgvalidator "github.com/ghuser/mrpcapacity/pkg/validator"
	appsvcs "github.com/ghuser/mrpcapacity/services/manufacturing/application/services"
	domainsvcs "github.com/ghuser/mrpcapacity/services/manufacturing/domain/services"
)

// CreateBillOfMaterialsItemRequest is the request body for
// POST /v1/bill-of-materials/{bomId}/items. Timestamps are RFC 3339.
// Numeric rules are enforced by the domain so their messages match the
// workflow's.
type CreateBillOfMaterialsItemRequest struct {
	ItemProductNumber string    `json:"item_product_number" validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	BatchID           int64     `json:"batch_id"                                example:"1"`
	RequiredQuantity  int       `json:"required_quantity"                       example:"50"`
	ScheduledStartAt  time.Time `json:"scheduled_start_at"  validate:"required" example:"2024-02-15T00:00:00Z"`
	RequiredAt        time.Time `json:"required_at"         validate:"required" example:"2024-01-01T00:00:00Z"`
} // @name CreateBillOfMaterialsItemRequest

// PostBillOfMaterialsItemHandler handles POST /v1/bill-of-materials/{bomId}/items.
type PostBillOfMaterialsItemHandler struct {
	svc *appsvcs.Services
}

func NewPostBillOfMaterialsItemHandler(svc *appsvcs.Services) *PostBillOfMaterialsItemHandler {
	return &PostBillOfMaterialsItemHandler{svc: svc}
}

// Execute creates a BOM item and reserves its product capacity.
//
//	@Summary		Create bill of materials item
//	@Description	Records demand for a product and reserves the capacity atomically. Fails when the product is unknown, the (product, batch, BOM) combination exists, or the product lacks capacity.
//	@Tags			bill-of-materials
//	@Accept			json
//	@Produce		json
//	@Param			bomId	path		int									true	"Bill of materials id"
//	@Param			request	body		CreateBillOfMaterialsItemRequest	true	"Item creation request"
//	@Success		201		{object}	BillOfMaterialsItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/v1/bill-of-materials/{bomId}/items [post]
func (h *PostBillOfMaterialsItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	bomID, err := strconv.ParseInt(chi.URLParam(r, "bomId"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bomId must be an integer")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateBillOfMaterialsItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Commands.Create(r.Context(), domainsvcs.CreateBillOfMaterialsItem{
		BillOfMaterialsID: bomID,
		ProductNumber:     req.ItemProductNumber,
		BatchID:           req.BatchID,
		RequiredQuantity:  req.RequiredQuantity,
		ScheduledStartAt:  req.ScheduledStartAt,
		RequiredAt:        req.RequiredAt,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
