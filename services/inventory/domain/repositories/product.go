package repositories

import (
	"context"

	"github.com/ghuser/mrpcapacity/services/inventory/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int
	Offset int
}

// ProductRepository is the persistence interface for the Product aggregate.
// Implementations bound to a unit of work run every call inside its
// transaction; pool-bound implementations open their own.
type ProductRepository interface {
	// Add inserts p and assigns p.ID. Returns ErrProductNameTaken when the
	// name collides case-insensitively.
	Add(ctx context.Context, p *models.Product) error

	// FindByID returns ErrProductNotFound when no product has the id.
	FindByID(ctx context.Context, id int64) (*models.Product, error)

	// FindByProductNumber returns ErrProductNotFound when no product matches.
	FindByProductNumber(ctx context.Context, number models.ProductNumber) (*models.Product, error)

	// FindByProductNumberForUpdate is FindByProductNumber that also locks the
	// row until the surrounding transaction ends.
	FindByProductNumberForUpdate(ctx context.Context, number models.ProductNumber) (*models.Product, error)

	// ExistsByName compares names case-insensitively.
	ExistsByName(ctx context.Context, name models.ProductName) (bool, error)

	ExistsByProductNumber(ctx context.Context, number models.ProductNumber) (bool, error)

	// UpdateAllocation writes p's allocated quantity if the stored version
	// still equals p.Version(). Returns ErrConcurrentUpdate otherwise.
	UpdateAllocation(ctx context.Context, p *models.Product, delta int) error

	// List returns a page of products ordered by id and the total count.
	List(ctx context.Context, opts QueryOpts) ([]*models.Product, int, error)
}
