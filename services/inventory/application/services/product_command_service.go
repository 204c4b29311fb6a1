package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/mrpcapacity/services/inventory/domain/services"
)

// CreateProduct is the command accepted by ProductCommandService.Create.
// ProductType is one of the three-letter codes (BTP, BTS, MTS, MTO, MTA).
type CreateProduct struct {
	Name                  string
	ProductType           string
	MaxProductionCapacity int
}

// ProductCommandService creates products. The repository publishes
// ProductCreatedEvent in the insert transaction.
type ProductCommandService struct {
	products   repositories.ProductRepository
	rules      *domainsvcs.ProductDomainService
	thresholds models.CapacityThresholds
	log        logger.Logger
	now        func() time.Time
}

func NewProductCommandService(
	products repositories.ProductRepository,
	thresholds models.CapacityThresholds,
	log logger.Logger,
) *ProductCommandService {
	return &ProductCommandService{
		products:   products,
		rules:      domainsvcs.NewProductDomainService(products),
		thresholds: thresholds,
		log:        log,
		now:        time.Now,
	}
}

// Create validates cmd and persists a new product with nothing allocated.
// Rule violations come back as *domainerr.Error; storage faults are wrapped.
func (s *ProductCommandService) Create(ctx context.Context, cmd CreateProduct) (*models.Product, error) {
	productType, err := models.ParseProductType(cmd.ProductType)
	if err != nil {
		return nil, err
	}

	product, err := models.NewProduct(cmd.Name, productType, cmd.MaxProductionCapacity, s.thresholds, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.rules.ValidateForCreation(ctx, product.Name); err != nil {
		s.log.InfoContext(ctx, "product rejected", "name", product.Name.String(), "reason", err.Error())
		return nil, err
	}

	if err := s.products.Add(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.log.InfoContext(ctx, "product created",
		"product_id", product.ID,
		"product_number", product.ProductNumber.String(),
		"product_type", product.ProductType.Code(),
		"max_production_capacity", product.MaxProductionCapacity,
	)
	return product, nil
}
