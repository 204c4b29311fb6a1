// Package acl adapts the inventory context to the manufacturing
// ProductLookup port. It is the only manufacturing code that imports
// inventory types.
package acl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/mrpcapacity/pkg/database"
	"github.com/ghuser/mrpcapacity/pkg/events"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/pkg/telemetry"
	invdomain "github.com/ghuser/mrpcapacity/services/inventory/domain"
	invmodels "github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	invrepos "github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
	invpostgres "github.com/ghuser/mrpcapacity/services/inventory/infrastructure/persistence/postgres"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/acl"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
)

var _ acl.ProductLookup = (*InventoriesContext)(nil)

// InventoriesContext answers product questions from an inventory
// ProductRepository. Bind the repository to the same transaction as the
// manufacturing writes so reservations commit with them.
type InventoriesContext struct {
	products invrepos.ProductRepository
	log      logger.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewInventoriesContext(products invrepos.ProductRepository, log logger.Logger) *InventoriesContext {
	return &InventoriesContext{products: products, log: log, tracer: telemetry.Tracer(), now: time.Now}
}

// PostgresLookup returns a constructor that binds an InventoriesContext to a
// database unit of work.
func PostgresLookup(outbox events.Outbox, log logger.Logger) func(*database.UnitOfWork) acl.ProductLookup {
	return func(uow *database.UnitOfWork) acl.ProductLookup {
		return NewInventoriesContext(invpostgres.NewProductRepositoryInUnitOfWork(uow, outbox), log)
	}
}

func (c *InventoriesContext) Exists(ctx context.Context, pn models.ItemProductNumber) (bool, error) {
	number, err := toProductNumber(pn)
	if err != nil {
		return false, nil
	}
	exists, err := c.products.ExistsByProductNumber(ctx, number)
	if err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return exists, nil
}

func (c *InventoriesContext) CurrentAllocated(ctx context.Context, pn models.ItemProductNumber) (int, error) {
	p, err := c.find(ctx, pn)
	if err != nil || p == nil {
		return 0, err
	}
	return p.CurrentAllocated(), nil
}

func (c *InventoriesContext) MaxCapacity(ctx context.Context, pn models.ItemProductNumber) (int, error) {
	p, err := c.find(ctx, pn)
	if err != nil || p == nil {
		return 0, err
	}
	return p.MaxProductionCapacity, nil
}

// WouldExceedCapacity treats an unknown product as full.
func (c *InventoriesContext) WouldExceedCapacity(ctx context.Context, pn models.ItemProductNumber, quantity int) (bool, error) {
	p, err := c.find(ctx, pn)
	if err != nil {
		return true, err
	}
	if p == nil {
		return true, nil
	}
	return p.WouldExceedCapacity(quantity), nil
}

// ApplyAllocation locks the product row, applies the adjustment through the
// aggregate and writes it back with a version check. Every failure is logged
// and reported as false.
func (c *InventoriesContext) ApplyAllocation(ctx context.Context, pn models.ItemProductNumber, quantity int) (ok bool) {
	ctx, span := c.tracer.Start(ctx, "inventory.ApplyAllocation", trace.WithAttributes(
		attribute.String("product_number", pn.String()),
		attribute.Int("quantity", quantity),
	))
	defer func() {
		if !ok {
			span.SetStatus(codes.Error, "allocation rejected")
		}
		span.End()
	}()

	number, err := toProductNumber(pn)
	if err != nil {
		c.log.WarnContext(ctx, "allocation rejected: bad product number", "product_number", pn.String())
		return false
	}

	p, err := c.products.FindByProductNumberForUpdate(ctx, number)
	if err != nil {
		if errors.Is(err, invdomain.ErrProductNotFound) {
			c.log.WarnContext(ctx, "allocation rejected: product vanished", "product_number", pn.String())
		} else {
			c.log.ErrorContext(ctx, "allocation failed: load product", "product_number", pn.String(), "error", err)
		}
		return false
	}

	if !p.AdjustAllocation(quantity, c.now()) {
		c.log.WarnContext(ctx, "allocation rejected: capacity bound",
			"product_number", pn.String(),
			"requested", quantity,
			"current_allocated", p.CurrentAllocated(),
			"max_production_capacity", p.MaxProductionCapacity,
		)
		return false
	}

	if err := c.products.UpdateAllocation(ctx, p, quantity); err != nil {
		if errors.Is(err, invdomain.ErrConcurrentUpdate) {
			c.log.WarnContext(ctx, "allocation rejected: concurrent update", "product_number", pn.String())
		} else {
			c.log.ErrorContext(ctx, "allocation failed: write product", "product_number", pn.String(), "error", err)
		}
		return false
	}
	return true
}

// find returns (nil, nil) for an unknown product.
func (c *InventoriesContext) find(ctx context.Context, pn models.ItemProductNumber) (*invmodels.Product, error) {
	number, err := toProductNumber(pn)
	if err != nil {
		return nil, nil
	}
	p, err := c.products.FindByProductNumber(ctx, number)
	if err != nil {
		if errors.Is(err, invdomain.ErrProductNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func toProductNumber(pn models.ItemProductNumber) (invmodels.ProductNumber, error) {
	return invmodels.ProductNumberFromUUID(pn.UUID())
}
