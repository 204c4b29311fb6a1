package models

import (
	"time"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/inventory/domain"
)

// Product is the aggregate root of the inventory context. It owns a capacity
// ceiling and the quantity currently allocated against it.
//
// Invariant: 0 <= CurrentAllocated() <= MaxProductionCapacity. The allocation
// counter is unexported; AdjustAllocation is its only write path.
type Product struct {
	ID                    int64
	ProductNumber         ProductNumber
	Name                  ProductName
	ProductType           ProductType
	MaxProductionCapacity int
	CreatedAt             time.Time
	UpdatedAt             time.Time

	currentAllocated int
	version          int
}

// ProductSnapshot is the flat persisted form of a Product.
type ProductSnapshot struct {
	ID                    int64
	ProductNumber         ProductNumber
	Name                  ProductName
	ProductType           ProductType
	CurrentAllocated      int
	MaxProductionCapacity int
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewProduct validates its inputs and returns a product with a freshly
// generated product number and nothing allocated. name is trimmed.
func NewProduct(name string, productType ProductType, maxCapacity int, thresholds CapacityThresholds, now time.Time) (*Product, error) {
	productName, err := NewProductName(name)
	if err != nil {
		return nil, err
	}
	if !productType.Valid() {
		return nil, domainerr.Violation(domain.ErrInvalidProductType, "unknown product type %d", int(productType))
	}
	if err := thresholds.check(maxCapacity); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Product{
		ProductNumber:         NewProductNumber(),
		Name:                  productName,
		ProductType:           productType,
		MaxProductionCapacity: maxCapacity,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// RehydrateProduct rebuilds a Product from storage. It trusts its input.
func RehydrateProduct(s ProductSnapshot) *Product {
	return &Product{
		ID:                    s.ID,
		ProductNumber:         s.ProductNumber,
		Name:                  s.Name,
		ProductType:           s.ProductType,
		MaxProductionCapacity: s.MaxProductionCapacity,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
		currentAllocated:      s.CurrentAllocated,
		version:               s.Version,
	}
}

// AdjustAllocation adds delta (negative to release) to the allocated quantity.
// It returns false and leaves the product untouched when the result would fall
// outside [0, MaxProductionCapacity].
func (p *Product) AdjustAllocation(delta int, now time.Time) bool {
	if delta > p.RemainingCapacity() || delta < -p.currentAllocated {
		return false
	}
	p.currentAllocated += delta
	p.UpdatedAt = now.UTC()
	return true
}

// CurrentAllocated returns the quantity reserved by BOM items.
func (p *Product) CurrentAllocated() int {
	return p.currentAllocated
}

// RemainingCapacity is the quantity still available for allocation.
func (p *Product) RemainingCapacity() int {
	return p.MaxProductionCapacity - p.currentAllocated
}

// WouldExceedCapacity reports whether allocating quantity more units would
// overshoot the ceiling.
func (p *Product) WouldExceedCapacity(quantity int) bool {
	return quantity > p.RemainingCapacity()
}

// Version is the optimistic concurrency token read from storage.
func (p *Product) Version() int {
	return p.version
}

// Snapshot returns the flat persisted form of p.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:                    p.ID,
		ProductNumber:         p.ProductNumber,
		Name:                  p.Name,
		ProductType:           p.ProductType,
		CurrentAllocated:      p.currentAllocated,
		MaxProductionCapacity: p.MaxProductionCapacity,
		Version:               p.version,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}
