package services

import (
	"github.com/ghuser/mrpcapacity/pkg/app"
	"github.com/ghuser/mrpcapacity/pkg/cache"
	"github.com/ghuser/mrpcapacity/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the inventory
// context. It wires domain services with their infrastructure implementations.
type Services struct {
	Commands *ProductCommandService
	Queries  *ProductQueryService
}

// New wires the inventory application services from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewProductRepository(a.DB, a.EventBus)

	var productCache ProductCache
	if a.Redis != nil {
		productCache = cache.NewProductCache(a.Redis)
	}

	log := a.Logger.With("context", "inventory")
	return &Services{
		Commands: NewProductCommandService(repo, a.Config.CapacityThresholds(), log),
		Queries:  NewProductQueryService(repo, productCache, log),
	}
}
