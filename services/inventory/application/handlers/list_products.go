package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/mrpcapacity/pkg/errhttp"
	"github.com/ghuser/mrpcapacity/pkg/httpx"
	appsvcs "github.com/ghuser/mrpcapacity/services/inventory/application/services"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ListProductsResponse is one page of products.
type ListProductsResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int               `json:"total"  example:"120"`
	Limit  int               `json:"limit"  example:"50"`
	Offset int               `json:"offset" example:"0"`
} // @name ListProductsResponse

// ListProductsHandler handles GET /v1/products.
type ListProductsHandler struct {
	svc *appsvcs.Services
}

func NewListProductsHandler(svc *appsvcs.Services) *ListProductsHandler {
	return &ListProductsHandler{svc: svc}
}

// Execute lists products ordered by id.
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (max 500)"
//	@Param		offset	query		int	false	"Items to skip"
//	@Success	200		{object}	ListProductsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/v1/products [get]
func (h *ListProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts, ok := parsePage(w, r)
	if !ok {
		return
	}

	products, total, err := h.svc.Queries.List(r.Context(), opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, ListProductsResponse{
		Items:  items,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

func parsePage(w http.ResponseWriter, r *http.Request) (repositories.QueryOpts, bool) {
	opts := repositories.QueryOpts{Limit: defaultPageSize}
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			httpx.JSONError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return opts, false
		}
		opts.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return opts, false
		}
		opts.Offset = offset
	}
	return opts, true
}
