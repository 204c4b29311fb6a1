// Package services holds the capacity allocation workflow: the rules that
// decide whether a bill of materials item may reserve product capacity, and
// the transaction that records both.
package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/repositories"
)

const scope = "github.com/ghuser/mrpcapacity/services/manufacturing"

// CreateBillOfMaterialsItem is the inbound command. ProductNumber is the
// external string form and is parsed before anything else happens.
type CreateBillOfMaterialsItem struct {
	BillOfMaterialsID int64
	ProductNumber     string
	BatchID           int64
	RequiredQuantity  int
	ScheduledStartAt  time.Time
	RequiredAt        time.Time
}

// CapacityAllocationService creates bill of materials items and reserves the
// product capacity they consume, all or nothing.
type CapacityAllocationService struct {
	units  repositories.UnitOfWorkFactory
	log    logger.Logger
	now    func() time.Time
	tracer trace.Tracer

	allocations metric.Int64Counter
	quantities  metric.Int64Histogram
}

// Option configures a CapacityAllocationService.
type Option func(*CapacityAllocationService)

// WithClock replaces time.Now as the reference for date rules.
func WithClock(now func() time.Time) Option {
	return func(s *CapacityAllocationService) { s.now = now }
}

// WithMeter records allocation metrics on m instead of the global meter.
func WithMeter(m metric.Meter) Option {
	return func(s *CapacityAllocationService) { s.instrument(m) }
}

func NewCapacityAllocationService(units repositories.UnitOfWorkFactory, log logger.Logger, opts ...Option) *CapacityAllocationService {
	s := &CapacityAllocationService{
		units:  units,
		log:    log,
		now:    time.Now,
		tracer: otel.Tracer(scope),
	}
	s.instrument(otel.Meter(scope))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CapacityAllocationService) instrument(m metric.Meter) {
	var err error
	s.allocations, err = m.Int64Counter("capacity_allocations_total",
		metric.WithDescription("Bill of materials item creations by outcome"))
	if err != nil {
		s.allocations, _ = noop.NewMeterProvider().Meter(scope).Int64Counter("capacity_allocations_total")
	}
	s.quantities, err = m.Int64Histogram("capacity_allocation_quantity",
		metric.WithDescription("Units reserved per committed bill of materials item"),
		metric.WithUnit("{unit}"))
	if err != nil {
		s.quantities, _ = noop.NewMeterProvider().Meter(scope).Int64Histogram("capacity_allocation_quantity")
	}
}

// CreateBillOfMaterialsItem runs the allocation workflow:
//  1. parse the product number and check the item's own shape rules;
//  2. inside one unit of work, check existence, uniqueness and capacity;
//  3. stage the item and reserve the capacity through the product lookup;
//  4. commit.
//
// Shape violations are reported before any repository is touched. Nothing
// is persisted unless every step succeeds.
func (s *CapacityAllocationService) CreateBillOfMaterialsItem(ctx context.Context, cmd CreateBillOfMaterialsItem) (item *models.BillOfMaterialsItem, err error) {
	ctx, span := s.tracer.Start(ctx, "CapacityAllocationService.CreateBillOfMaterialsItem",
		trace.WithAttributes(
			attribute.Int64("bom.id", cmd.BillOfMaterialsID),
			attribute.Int64("bom.batch_id", cmd.BatchID),
			attribute.Int("bom.required_quantity", cmd.RequiredQuantity),
		))
	defer func() {
		s.record(ctx, span, cmd, err)
		span.End()
	}()

	pn, err := models.ParseItemProductNumber(cmd.ProductNumber)
	if err != nil {
		return nil, err
	}
	params := models.BillOfMaterialsItemParams{
		BillOfMaterialsID: cmd.BillOfMaterialsID,
		ProductNumber:     pn,
		BatchID:           cmd.BatchID,
		RequiredQuantity:  cmd.RequiredQuantity,
		ScheduledStartAt:  cmd.ScheduledStartAt,
		RequiredAt:        cmd.RequiredAt,
	}
	now := s.now()
	if err := models.ValidateBillOfMaterialsItem(params, now); err != nil {
		return nil, err
	}

	uow, err := s.units.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			s.log.ErrorContext(ctx, "unit of work rollback failed", "error", rbErr)
		}
	}()

	if err := s.ValidateForCreation(ctx, uow, cmd.BillOfMaterialsID, pn, cmd.BatchID, cmd.RequiredQuantity); err != nil {
		return nil, err
	}

	item, err = models.NewBillOfMaterialsItem(params, now)
	if err != nil {
		return nil, err
	}

	if err := uow.Items().Add(ctx, item); err != nil {
		return nil, fmt.Errorf("stage bill of materials item: %w", err)
	}

	if !uow.Products().ApplyAllocation(ctx, pn, cmd.RequiredQuantity) {
		return nil, domainerr.Violation(domain.ErrAllocationFailed,
			"Failed to update product production quantity for product %s", pn)
	}

	changes, err := uow.Complete(ctx)
	if err != nil {
		return nil, fmt.Errorf("commit bill of materials item: %w", err)
	}

	s.log.InfoContext(ctx, "bill of materials item created",
		"item_id", item.ID,
		"bom_id", item.BillOfMaterialsID,
		"product_number", pn.String(),
		"batch_id", item.BatchID,
		"required_quantity", item.RequiredQuantity,
		"changes", changes,
	)
	return item, nil
}

// ValidateForCreation checks, in order and stopping at the first failure,
// that the product exists, that the (product, batch, BOM) combination is
// unused, and that the product has room for quantity more units. Failures
// are *domainerr.Error values of kind NotFound, Conflict and
// CapacityExceeded respectively; anything else is a system fault.
func (s *CapacityAllocationService) ValidateForCreation(
	ctx context.Context,
	uow repositories.UnitOfWork,
	bomID int64,
	pn models.ItemProductNumber,
	batchID int64,
	quantity int,
) error {
	products := uow.Products()

	exists, err := products.Exists(ctx, pn)
	if err != nil {
		return fmt.Errorf("check product existence: %w", err)
	}
	if !exists {
		return domainerr.Violation(domain.ErrProductNotFound, "Product with number %s does not exist", pn)
	}

	taken, err := uow.Items().ExistsByCombination(ctx, pn, batchID, bomID)
	if err != nil {
		return fmt.Errorf("check item combination: %w", err)
	}
	if taken {
		return domainerr.Violation(domain.ErrBillOfMaterialsItemExists,
			"A Bill of Materials Item with the same combination of product number %s, batch ID %d, and Bill of Materials ID %d already exists",
			pn, batchID, bomID)
	}

	exceeds, err := products.WouldExceedCapacity(ctx, pn, quantity)
	if err != nil {
		return fmt.Errorf("check product capacity: %w", err)
	}
	if exceeds {
		return domainerr.Violation(domain.ErrCapacityExceeded,
			"Adding %d units would exceed the maximum production capacity for product %s", quantity, pn)
	}
	return nil
}

func (s *CapacityAllocationService) record(ctx context.Context, span trace.Span, cmd CreateBillOfMaterialsItem, err error) {
	outcome := "allocated"
	if err != nil {
		kind := domainerr.KindOf(err)
		outcome = kind.String()
		if kind == domainerr.KindUnknown {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, "allocation workflow failed")
			s.log.ErrorContext(ctx, "bill of materials item creation failed", "error", err)
		} else {
			s.log.InfoContext(ctx, "bill of materials item rejected",
				"kind", outcome,
				"reason", domainerr.Detail(err),
				"bom_id", cmd.BillOfMaterialsID,
				"product_number", cmd.ProductNumber,
			)
		}
	}

	span.SetAttributes(attribute.String("allocation.outcome", outcome))
	s.allocations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if err == nil {
		s.quantities.Record(ctx, int64(cmd.RequiredQuantity))
	}
}
