package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/mrpcapacity/pkg/app"
	"github.com/ghuser/mrpcapacity/services/manufacturing/application/handlers"
	appsvcs "github.com/ghuser/mrpcapacity/services/manufacturing/application/services"
)

// BillOfMaterialsRoutes registers the manufacturing endpoints on r.
func BillOfMaterialsRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

func Mount(r chi.Router, svcs *appsvcs.Services) {
	r.Route("/v1/bill-of-materials/{bomId}/items", func(r chi.Router) {
		r.Post("/", handlers.NewPostBillOfMaterialsItemHandler(svcs).Execute)
		r.Get("/", handlers.NewListBillOfMaterialsItemsHandler(svcs).Execute)
	})
}
