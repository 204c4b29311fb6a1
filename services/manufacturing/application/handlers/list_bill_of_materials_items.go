package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/mrpcapacity/pkg/errhttp"
	"github.com/ghuser/mrpcapacity/pkg/httpx"
	appsvcs "github.com/ghuser/mrpcapacity/services/manufacturing/application/services"
)

type ListBillOfMaterialsItemsHandler struct {
	svc *appsvcs.Services
}

func NewListBillOfMaterialsItemsHandler(svc *appsvcs.Services) *ListBillOfMaterialsItemsHandler {
	return &ListBillOfMaterialsItemsHandler{svc: svc}
}

// Execute lists the items of one BOM.
//
//	@Summary	List bill of materials items
//	@Tags		bill-of-materials
//	@Produce	json
//	@Param		bomId	path		int	true	"Bill of materials id"
//	@Success	200		{object}	ListBillOfMaterialsItemsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/v1/bill-of-materials/{bomId}/items [get]
func (h *ListBillOfMaterialsItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	bomID, err := strconv.ParseInt(chi.URLParam(r, "bomId"), 10, 64)
	if err != nil || bomID <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "bomId must be a positive integer")
		return
	}

	items, err := h.svc.Queries.ListByBillOfMaterialsID(r.Context(), bomID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := ListBillOfMaterialsItemsResponse{
		BillOfMaterialsID: bomID,
		Items:             make([]BillOfMaterialsItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}
	httpx.JSON(w, http.StatusOK, resp)
}
