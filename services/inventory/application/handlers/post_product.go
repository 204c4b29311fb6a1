package handlers

import (
	"net/http"

	"github.com/ghuser/mrpcapacity/pkg/errhttp"
	"github.com/ghuser/mrpcapacity/pkg/httpx"
	pkgvalidator "github.com/ghuser/mrpcapacity/pkg/validator"
	appsvcs "github.com/ghuser/mrpcapacity/services/inventory/application/services"
)

// CreateProductRequest is the request body for POST /v1/products.
type CreateProductRequest struct {
	Name                  string `json:"name"                    validate:"required,max=255"        example:"Widget"`
	ProductType           string `json:"product_type"            validate:"required,len=3"          example:"MTS"`
	MaxProductionCapacity int    `json:"max_production_capacity" validate:"required,gt=0"           example:"500"`
} // @name CreateProductRequest

// PostProductHandler handles POST /v1/products.
type PostProductHandler struct {
	svc *appsvcs.Services
}

func NewPostProductHandler(svc *appsvcs.Services) *PostProductHandler {
	return &PostProductHandler{svc: svc}
}

// Execute creates a product.
//
//	@Summary		Create product
//	@Description	Creates a product with nothing allocated. max_production_capacity must lie within the configured thresholds.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateProductRequest	true	"Product creation request"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/v1/products [post]
func (h *PostProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateProductRequest](w, r)
	if !ok {
		return
	}

	product, err := h.svc.Commands.Create(r.Context(), appsvcs.CreateProduct{
		Name:                  req.Name,
		ProductType:           req.ProductType,
		MaxProductionCapacity: req.MaxProductionCapacity,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toProductResponse(product))
}
