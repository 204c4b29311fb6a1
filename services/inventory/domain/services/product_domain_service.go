// Package services contains domain services for the inventory bounded context.
package services

import (
	"context"
	"fmt"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/inventory/domain"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
)

// ProductDomainService enforces rules that need more than one product.
type ProductDomainService struct {
	products repositories.ProductRepository
}

func NewProductDomainService(products repositories.ProductRepository) *ProductDomainService {
	return &ProductDomainService{products: products}
}

// ValidateForCreation rejects a name already used by another product.
// The unique index on lower(name) remains the guard against concurrent
// creations; this check gives the caller a precise message first.
func (s *ProductDomainService) ValidateForCreation(ctx context.Context, name models.ProductName) error {
	taken, err := s.products.ExistsByName(ctx, name)
	if err != nil {
		return fmt.Errorf("check product name: %w", err)
	}
	if taken {
		return domainerr.Violation(domain.ErrProductNameTaken, "A product named '%s' already exists", name)
	}
	return nil
}
