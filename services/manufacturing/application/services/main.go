package services

import (
	"github.com/ghuser/mrpcapacity/pkg/app"
	"github.com/ghuser/mrpcapacity/pkg/telemetry"
	domainsvcs "github.com/ghuser/mrpcapacity/services/manufacturing/domain/services"
	"github.com/ghuser/mrpcapacity/services/manufacturing/infrastructure/acl"
	"github.com/ghuser/mrpcapacity/services/manufacturing/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the manufacturing
// context.
type Services struct {
	Commands *BillOfMaterialsItemCommandService
	Queries  *BillOfMaterialsItemQueryService
}

// New wires the manufacturing services. Each allocation runs in one
// PostgreSQL transaction that also locks and updates the inventory row.
func New(a *app.Application) *Services {
	log := a.Logger.With("context", "manufacturing")

	units := postgres.NewUnitOfWorkFactory(a.DB, a.EventBus, acl.PostgresLookup(a.EventBus, log))
	allocation := domainsvcs.NewCapacityAllocationService(units, log,
		domainsvcs.WithMeter(telemetry.Meter()))

	return &Services{
		Commands: NewBillOfMaterialsItemCommandService(allocation, log),
		Queries:  NewBillOfMaterialsItemQueryService(postgres.NewBillOfMaterialsItemRepository(a.DB, a.EventBus)),
	}
}
