package services_test

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	invmodels "github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	invrepos "github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
	invmemory "github.com/ghuser/mrpcapacity/services/inventory/infrastructure/persistence/memory"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/acl"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/repositories"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/services"
	infraacl "github.com/ghuser/mrpcapacity/services/manufacturing/infrastructure/acl"
	"github.com/ghuser/mrpcapacity/services/manufacturing/infrastructure/persistence/memory"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	products *invmemory.ProductRepository
	items    *memory.BillOfMaterialsItemRepository
	factory  *memory.UnitOfWorkFactory
	log      logger.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		products: invmemory.NewProductRepository(),
		items:    memory.NewBillOfMaterialsItemRepository(),
		log:      logger.NewWithWriter(io.Discard, "error"),
	}
	f.factory = memory.NewUnitOfWorkFactory(f.items, f.products, func(p invrepos.ProductRepository) acl.ProductLookup {
		return infraacl.NewInventoriesContext(p, f.log)
	})
	return f
}

func (f *fixture) service(opts ...services.Option) *services.CapacityAllocationService {
	opts = append([]services.Option{services.WithClock(func() time.Time { return testNow })}, opts...)
	return services.NewCapacityAllocationService(f.factory, f.log, opts...)
}

// product stores a product with the given allocation already reserved.
func (f *fixture) product(t *testing.T, name string, maxCapacity, allocated int) *invmodels.Product {
	t.Helper()
	p, err := invmodels.NewProduct(name, invmodels.MadeToStock, maxCapacity,
		invmodels.CapacityThresholds{Min: 1, Max: 10000}, testNow)
	require.NoError(t, err)
	s := p.Snapshot()
	s.CurrentAllocated = allocated
	p = invmodels.RehydrateProduct(s)
	require.NoError(t, f.products.Add(context.Background(), p))
	return p
}

func (f *fixture) allocated(t *testing.T, p *invmodels.Product) int {
	t.Helper()
	got, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	return got.CurrentAllocated()
}

func command(p *invmodels.Product, quantity int) services.CreateBillOfMaterialsItem {
	return services.CreateBillOfMaterialsItem{
		BillOfMaterialsID: 1,
		ProductNumber:     p.ProductNumber.String(),
		BatchID:           1,
		RequiredQuantity:  quantity,
		RequiredAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ScheduledStartAt:  time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateBillOfMaterialsItem_WidgetScenarios(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service()
	widget := f.product(t, "Widget", 500, 0)
	require.Equal(t, 0, widget.CurrentAllocated())

	t.Run("allocates capacity", func(t *testing.T) {
		item, err := svc.CreateBillOfMaterialsItem(ctx, command(widget, 50))
		require.NoError(t, err)
		assert.NotZero(t, item.ID)
		assert.Equal(t, 50, f.allocated(t, widget))

		stored, err := f.items.FindByBillOfMaterialsID(ctx, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, item.ID, stored[0].ID)
	})

	t.Run("duplicate combination is a conflict", func(t *testing.T) {
		_, err := svc.CreateBillOfMaterialsItem(ctx, command(widget, 50))
		assert.ErrorIs(t, err, domain.ErrBillOfMaterialsItemExists)
		assert.Equal(t, domainerr.KindConflict, domainerr.KindOf(err))
		assert.Equal(t, 50, f.allocated(t, widget))
	})

	t.Run("over capacity is rejected", func(t *testing.T) {
		cmd := command(widget, 500)
		cmd.BatchID = 2
		_, err := svc.CreateBillOfMaterialsItem(ctx, cmd)
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
		assert.Equal(t, "Adding 500 units would exceed the maximum production capacity for product "+widget.ProductNumber.String(),
			domainerr.Detail(err))
		assert.Equal(t, 50, f.allocated(t, widget))
	})

	t.Run("rejection is repeatable", func(t *testing.T) {
		cmd := command(widget, 500)
		cmd.BatchID = 2
		_, first := svc.CreateBillOfMaterialsItem(ctx, cmd)
		_, second := svc.CreateBillOfMaterialsItem(ctx, cmd)
		assert.Equal(t, domainerr.KindOf(first), domainerr.KindOf(second))
		assert.Equal(t, 50, f.allocated(t, widget))
	})

	t.Run("unknown product", func(t *testing.T) {
		cmd := command(widget, 5)
		cmd.ProductNumber = "5c1a3f0e-8d2b-4e7a-b6c9-0f1e2d3c4b5a"
		_, err := svc.CreateBillOfMaterialsItem(ctx, cmd)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Equal(t, "Product with number 5c1a3f0e-8d2b-4e7a-b6c9-0f1e2d3c4b5a does not exist", domainerr.Detail(err))
	})

	t.Run("malformed product number", func(t *testing.T) {
		cmd := command(widget, 5)
		cmd.ProductNumber = "widget"
		_, err := svc.CreateBillOfMaterialsItem(ctx, cmd)
		assert.ErrorIs(t, err, domain.ErrInvalidProductNumber)
	})
}

// unreachableFactory fails the test if the workflow reaches persistence.
type unreachableFactory struct{ t *testing.T }

func (p unreachableFactory) Begin(context.Context) (repositories.UnitOfWork, error) {
	p.t.Fatal("unit of work opened for an invalid command")
	return nil, errors.New("unreachable")
}

func TestCreateBillOfMaterialsItem_ShapeErrorsSkipPersistence(t *testing.T) {
	svc := services.NewCapacityAllocationService(unreachableFactory{t}, logger.NewWithWriter(io.Discard, "error"),
		services.WithClock(func() time.Time { return testNow }))

	required := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateBillOfMaterialsItem(context.Background(), services.CreateBillOfMaterialsItem{
		BillOfMaterialsID: 1,
		ProductNumber:     "5c1a3f0e-8d2b-4e7a-b6c9-0f1e2d3c4b5a",
		BatchID:           1,
		RequiredQuantity:  5,
		RequiredAt:        required,
		ScheduledStartAt:  required.AddDate(0, 0, 10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBillOfMaterialsItem)
	assert.Equal(t, "Scheduled start date must be at least 30 days after required date (2024-01-31)", domainerr.Detail(err))
}

func TestCreateBillOfMaterialsItem_ConcurrentRequestsNeverOvershoot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service()
	p := f.product(t, "Bracket", 100, 90)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := command(p, 8)
			cmd.BatchID = int64(i + 1)
			_, errs[i] = svc.CreateBillOfMaterialsItem(ctx, cmd)
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch domainerr.KindOf(err) {
		case domainerr.KindUnknown:
			require.NoError(t, err)
			ok++
		case domainerr.KindCapacityExceeded, domainerr.KindAllocationFailed:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 98, f.allocated(t, p))

	items, err := f.items.FindByBillOfMaterialsID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

// refusingUnits wraps real units but refuses every reservation, as if a
// concurrent writer won the row between the pre-check and the write.
type refusingUnits struct{ repositories.UnitOfWorkFactory }

func (r refusingUnits) Begin(ctx context.Context) (repositories.UnitOfWork, error) {
	uow, err := r.UnitOfWorkFactory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return refusingUnit{uow}, nil
}

type refusingUnit struct{ repositories.UnitOfWork }

func (u refusingUnit) Products() acl.ProductLookup { return refusingLookup{u.UnitOfWork.Products()} }

type refusingLookup struct{ acl.ProductLookup }

func (refusingLookup) ApplyAllocation(context.Context, models.ItemProductNumber, int) bool { return false }

func TestCreateBillOfMaterialsItem_FailedReservationLeavesNoItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Sprocket", 100, 10)
	svc := services.NewCapacityAllocationService(refusingUnits{f.factory}, f.log,
		services.WithClock(func() time.Time { return testNow }))

	_, err := svc.CreateBillOfMaterialsItem(ctx, command(p, 5))
	assert.ErrorIs(t, err, domain.ErrAllocationFailed)
	assert.Equal(t, "Failed to update product production quantity for product "+p.ProductNumber.String(), domainerr.Detail(err))

	items, err := f.items.FindByBillOfMaterialsID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 10, f.allocated(t, p))

	// The unit was released, so the next request is served.
	_, err = f.service().CreateBillOfMaterialsItem(ctx, command(p, 5))
	require.NoError(t, err)
	assert.Equal(t, 15, f.allocated(t, p))
}

func TestCreateBillOfMaterialsItem_RecordsOutcomes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	svc := f.service(services.WithMeter(provider.Meter("test")))
	p := f.product(t, "Axle", 100, 0)

	_, err := svc.CreateBillOfMaterialsItem(ctx, command(p, 40))
	require.NoError(t, err)
	_, err = svc.CreateBillOfMaterialsItem(ctx, command(p, 40))
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	outcomes := map[string]int64{}
	var histogramCount uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					v, _ := dp.Attributes.Value("outcome")
					outcomes[v.AsString()] += dp.Value
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					histogramCount += dp.Count
				}
			}
		}
	}
	assert.Equal(t, map[string]int64{"allocated": 1, "conflict": 1}, outcomes)
	assert.Equal(t, uint64(1), histogramCount)
}

func TestCreateBillOfMaterialsItem_HugeQuantityIsCapacityExceeded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	widget := f.product(t, "Widget", 500, 50)

	_, err := f.service().CreateBillOfMaterialsItem(ctx, command(widget, math.MaxInt))
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Equal(t, domainerr.KindCapacityExceeded, domainerr.KindOf(err))
	assert.Equal(t, 50, f.allocated(t, widget))

	stored, err := f.items.FindByBillOfMaterialsID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
