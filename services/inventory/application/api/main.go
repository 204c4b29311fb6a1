package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/mrpcapacity/pkg/app"
	"github.com/ghuser/mrpcapacity/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/mrpcapacity/services/inventory/application/services"
)

// ProductRoutes registers the inventory endpoints on r.
func ProductRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

// Mount registers the inventory endpoints backed by svcs.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	r.Route("/v1/products", func(r chi.Router) {
		r.Post("/", handlers.NewPostProductHandler(svcs).Execute)
		r.Get("/", handlers.NewListProductsHandler(svcs).Execute)
		r.Get("/{id}", handlers.NewGetProductHandler(svcs).Execute)
		r.Get("/by-number/{productNumber}/capacity", handlers.NewGetProductCapacityHandler(svcs).Execute)
	})
}
