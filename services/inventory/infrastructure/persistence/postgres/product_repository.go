package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/mrpcapacity/pkg/auth"
	"github.com/ghuser/mrpcapacity/pkg/database"
	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/pkg/events"
	"github.com/ghuser/mrpcapacity/services/inventory/domain"
	domainevents "github.com/ghuser/mrpcapacity/services/inventory/domain/events"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
	"github.com/ghuser/mrpcapacity/services/inventory/infrastructure/persistence/postgres/db"
)

const (
	constraintProductName   = "uq_products_name"
	constraintProductNumber = "uq_products_product_number"
)

var _ repositories.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implements repositories.ProductRepository against
// PostgreSQL. A pool-bound repository opens a transaction per write; a
// repository bound to a unit of work runs everything on the unit's
// transaction and reports its writes to it.
type ProductRepository struct {
	db     *database.Database
	uow    *database.UnitOfWork
	outbox events.Outbox
}

// NewProductRepository returns a pool-bound repository. outbox may be nil,
// in which case no events are published.
func NewProductRepository(database *database.Database, outbox events.Outbox) *ProductRepository {
	return &ProductRepository{db: database, outbox: outbox}
}

// NewProductRepositoryInUnitOfWork returns a repository whose statements all
// join uow's transaction.
func NewProductRepositoryInUnitOfWork(uow *database.UnitOfWork, outbox events.Outbox) *ProductRepository {
	return &ProductRepository{uow: uow, outbox: outbox}
}

// Add inserts p and publishes ProductCreatedEvent in the same transaction.
func (r *ProductRepository) Add(ctx context.Context, p *models.Product) error {
	if r.uow != nil {
		if err := r.insert(ctx, r.uow.Tx(), p); err != nil {
			return err
		}
		r.uow.Track(1)
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return r.insert(ctx, tx, p)
	})
}

func (r *ProductRepository) insert(ctx context.Context, tx *sql.Tx, p *models.Product) error {
	id, err := db.New(tx).InsertProduct(ctx, db.InsertProductParams{
		ProductNumber:         p.ProductNumber.UUID(),
		Name:                  p.Name.String(),
		ProductType:           int16(p.ProductType),
		MaxProductionCapacity: int32(p.MaxProductionCapacity),
		CreatedAt:             p.CreatedAt,
	})
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, constraintProductName):
			return domainerr.Violation(domain.ErrProductNameTaken, "A product named '%s' already exists", p.Name)
		case database.IsUniqueViolation(err, constraintProductNumber):
			return domain.ErrProductNumberTaken
		}
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = id

	if r.outbox != nil {
		evt := domainevents.ProductCreatedEvent{
			EventID:               uuid.New(),
			Version:               1,
			ProductID:             p.ID,
			ProductNumber:         p.ProductNumber.UUID(),
			Name:                  p.Name.String(),
			ProductType:           p.ProductType.Code(),
			MaxProductionCapacity: p.MaxProductionCapacity,
			CreatedBy:             auth.OperatorIDOrEmpty(ctx),
			OccurredAt:            p.CreatedAt,
		}
		if err := r.outbox.PublishTx(ctx, tx, domainevents.TopicProductCreated, evt.EventID, evt.Version, evt); err != nil {
			return fmt.Errorf("publish product created: %w", err)
		}
	}
	return nil
}

// FindByID returns ErrProductNotFound if no product has the id.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	row, err := r.queries().GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return rowToProduct(row)
}

func (r *ProductRepository) FindByProductNumber(ctx context.Context, number models.ProductNumber) (*models.Product, error) {
	row, err := r.queries().GetProductByNumber(ctx, number.UUID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product by number: %w", err)
	}
	return rowToProduct(row)
}

// FindByProductNumberForUpdate locks the row until the unit of work ends.
// Outside a unit of work the lock would be released immediately, so it is
// rejected.
func (r *ProductRepository) FindByProductNumberForUpdate(ctx context.Context, number models.ProductNumber) (*models.Product, error) {
	if r.uow == nil {
		return nil, errors.New("find product for update: repository is not bound to a unit of work")
	}
	row, err := r.queries().GetProductByNumberForUpdate(ctx, number.UUID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return rowToProduct(row)
}

func (r *ProductRepository) ExistsByName(ctx context.Context, name models.ProductName) (bool, error) {
	exists, err := r.queries().ProductNameExists(ctx, name.String())
	if err != nil {
		return false, fmt.Errorf("check product name: %w", err)
	}
	return exists, nil
}

func (r *ProductRepository) ExistsByProductNumber(ctx context.Context, number models.ProductNumber) (bool, error) {
	exists, err := r.queries().ProductNumberExists(ctx, number.UUID())
	if err != nil {
		return false, fmt.Errorf("check product number: %w", err)
	}
	return exists, nil
}

// UpdateAllocation performs the compare-and-swap on the version column and
// publishes ProductAllocationChangedEvent in the same transaction.
func (r *ProductRepository) UpdateAllocation(ctx context.Context, p *models.Product, delta int) error {
	write := func(tx *sql.Tx) error {
		n, err := db.New(tx).UpdateProductAllocation(ctx, db.UpdateProductAllocationParams{
			CurrentProductionQuantity: int32(p.CurrentAllocated()),
			UpdatedAt:                 p.UpdatedAt,
			ID:                        p.ID,
			Version:                   int32(p.Version()),
		})
		if err != nil {
			return fmt.Errorf("update product allocation: %w", err)
		}
		if n != 1 {
			return domain.ErrConcurrentUpdate
		}

		if r.outbox != nil {
			evt := domainevents.ProductAllocationChangedEvent{
				EventID:               uuid.New(),
				Version:               1,
				ProductID:             p.ID,
				ProductNumber:         p.ProductNumber.UUID(),
				Delta:                 delta,
				CurrentAllocated:      p.CurrentAllocated(),
				MaxProductionCapacity: p.MaxProductionCapacity,
				RowVersion:            p.Version() + 1,
				OccurredAt:            p.UpdatedAt,
			}
			if err := r.outbox.PublishTx(ctx, tx, domainevents.TopicProductAllocationChanged, evt.EventID, evt.Version, evt); err != nil {
				return fmt.Errorf("publish allocation changed: %w", err)
			}
		}
		return nil
	}

	if r.uow != nil {
		if err := write(r.uow.Tx()); err != nil {
			return err
		}
		r.uow.Track(1)
		return nil
	}
	return r.db.WithTx(ctx, write)
}

// List returns a page of products and the total count.
func (r *ProductRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Product, int, error) {
	q := r.queries()
	rows, err := q.ListProducts(ctx, db.ListProductsParams{
		Limit:  int32(opts.Limit),
		Offset: int32(opts.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}

	total, err := q.CountProducts(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	products := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := rowToProduct(row)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, int(total), nil
}

func (r *ProductRepository) queries() *db.Queries {
	if r.uow != nil {
		return db.New(r.uow.Tx())
	}
	return db.New(r.db.DB())
}

// rowToProduct maps a db.InventoryProduct to a domain models.Product.
func rowToProduct(row db.InventoryProduct) (*models.Product, error) {
	number, err := models.ProductNumberFromUUID(row.ProductNumber)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", row.ID, err)
	}
	productType, err := models.ProductTypeFromInt(int(row.ProductType))
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", row.ID, err)
	}
	return models.RehydrateProduct(models.ProductSnapshot{
		ID:                    row.ID,
		ProductNumber:         number,
		Name:                  models.ProductName(row.Name),
		ProductType:           productType,
		CurrentAllocated:      int(row.CurrentProductionQuantity),
		MaxProductionCapacity: int(row.MaxProductionCapacity),
		Version:               int(row.Version),
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}), nil
}
