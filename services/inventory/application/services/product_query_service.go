package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/mrpcapacity/pkg/cache"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
)

// ProductCache is the read-model cache used by ProductQueryService.
// *pkgcache.ProductCache satisfies it.
type ProductCache interface {
	Get(ctx context.Context, id int64) (*pkgcache.CachedProduct, error)
	Set(ctx context.Context, p *pkgcache.CachedProduct) error
}

var hundred = decimal.NewFromInt(100)

// ProductCapacity is the allocation view of one product.
type ProductCapacity struct {
	ProductNumber         models.ProductNumber
	Name                  models.ProductName
	CurrentAllocated      int
	MaxProductionCapacity int
	RemainingCapacity     int
	// UtilizationPercent is CurrentAllocated / MaxProductionCapacity * 100,
	// rounded half-up to two places.
	UtilizationPercent decimal.Decimal
}

// ProductQueryService serves product reads. GetByID is read-through cached;
// capacity reads always go to the repository since they back planning
// decisions.
type ProductQueryService struct {
	products repositories.ProductRepository
	cache    ProductCache
	log      logger.Logger
}

// NewProductQueryService accepts a nil cache.
func NewProductQueryService(products repositories.ProductRepository, cache ProductCache, log logger.Logger) *ProductQueryService {
	return &ProductQueryService{products: products, cache: cache, log: log}
}

// GetByID retrieves a product using a read-through cache:
//  1. Check Redis first.
//  2. On a miss, a cache error or an undecodable entry, query Postgres.
//  3. Warm the cache with the Postgres result in the background.
func (s *ProductQueryService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			p, convErr := fromCached(cached)
			if convErr == nil {
				return p, nil
			}
			s.log.WarnContext(ctx, "discarding corrupt cached product", "product_id", id, "error", convErr)
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "product cache read failed", "product_id", id, "error", err)
		}
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if s.cache != nil {
		go s.warm(context.WithoutCancel(ctx), product)
	}
	return product, nil
}

// List returns a page of products and the total count.
func (s *ProductQueryService) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Product, int, error) {
	products, total, err := s.products.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// GetCapacity returns the allocation view of the product with the given
// number. number must be the canonical UUID form.
func (s *ProductQueryService) GetCapacity(ctx context.Context, number string) (*ProductCapacity, error) {
	pn, err := models.ParseProductNumber(number)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByProductNumber(ctx, pn)
	if err != nil {
		return nil, fmt.Errorf("get product capacity: %w", err)
	}
	return capacityOf(product), nil
}

func capacityOf(p *models.Product) *ProductCapacity {
	utilization := decimal.Zero
	if p.MaxProductionCapacity > 0 {
		utilization = decimal.NewFromInt(int64(p.CurrentAllocated())).
			Div(decimal.NewFromInt(int64(p.MaxProductionCapacity))).
			Mul(hundred).
			Round(2)
	}
	return &ProductCapacity{
		ProductNumber:         p.ProductNumber,
		Name:                  p.Name,
		CurrentAllocated:      p.CurrentAllocated(),
		MaxProductionCapacity: p.MaxProductionCapacity,
		RemainingCapacity:     p.RemainingCapacity(),
		UtilizationPercent:    utilization,
	}
}

func (s *ProductQueryService) warm(ctx context.Context, p *models.Product) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, ToCached(p)); err != nil {
		s.log.WarnContext(ctx, "product cache warm failed", "product_id", p.ID, "error", err)
	}
}

// ToCached converts a product into its cached read model.
func ToCached(p *models.Product) *pkgcache.CachedProduct {
	return &pkgcache.CachedProduct{
		ID:                    p.ID,
		ProductNumber:         p.ProductNumber.UUID(),
		Name:                  p.Name.String(),
		ProductType:           int(p.ProductType),
		CurrentAllocated:      p.CurrentAllocated(),
		MaxProductionCapacity: p.MaxProductionCapacity,
		RowVersion:            p.Version(),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func fromCached(c *pkgcache.CachedProduct) (*models.Product, error) {
	number, err := models.ProductNumberFromUUID(c.ProductNumber)
	if err != nil {
		return nil, err
	}
	productType, err := models.ProductTypeFromInt(c.ProductType)
	if err != nil {
		return nil, err
	}
	return models.RehydrateProduct(models.ProductSnapshot{
		ID:                    c.ID,
		ProductNumber:         number,
		Name:                  models.ProductName(c.Name),
		ProductType:           productType,
		CurrentAllocated:      c.CurrentAllocated,
		MaxProductionCapacity: c.MaxProductionCapacity,
		Version:               c.RowVersion,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}), nil
}
