// Package memory provides an in-process ProductRepository for tests and local
// runs without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/inventory/domain"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	"github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
)

var _ repositories.ProductRepository = (*ProductRepository)(nil)

// ProductRepository stores snapshots, so callers never share a *Product with
// the store. Row locks are not modelled; FindByProductNumberForUpdate is a
// plain read and UpdateAllocation relies on the version check.
type ProductRepository struct {
	mu       sync.RWMutex
	byID     map[int64]models.ProductSnapshot
	byNumber map[models.ProductNumber]int64
	byName   map[string]int64
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		byID:     make(map[int64]models.ProductSnapshot),
		byNumber: make(map[models.ProductNumber]int64),
		byName:   make(map[string]int64),
	}
}

func (r *ProductRepository) Add(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[p.Name.Key()]; ok {
		return domainerr.Violation(domain.ErrProductNameTaken, "A product named '%s' already exists", p.Name)
	}
	if _, ok := r.byNumber[p.ProductNumber]; ok {
		return domain.ErrProductNumberTaken
	}

	r.nextID++
	p.ID = r.nextID
	s := p.Snapshot()
	r.byID[s.ID] = s
	r.byNumber[s.ProductNumber] = s.ID
	r.byName[s.Name.Key()] = s.ID
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return models.RehydrateProduct(s), nil
}

func (r *ProductRepository) FindByProductNumber(_ context.Context, number models.ProductNumber) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNumber[number]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return models.RehydrateProduct(r.byID[id]), nil
}

func (r *ProductRepository) FindByProductNumberForUpdate(ctx context.Context, number models.ProductNumber) (*models.Product, error) {
	return r.FindByProductNumber(ctx, number)
}

func (r *ProductRepository) ExistsByName(_ context.Context, name models.ProductName) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[name.Key()]
	return ok, nil
}

func (r *ProductRepository) ExistsByProductNumber(_ context.Context, number models.ProductNumber) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byNumber[number]
	return ok, nil
}

func (r *ProductRepository) UpdateAllocation(_ context.Context, p *models.Product, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if stored.Version != p.Version() {
		return domain.ErrConcurrentUpdate
	}

	next := p.Snapshot()
	next.Version = stored.Version + 1
	r.byID[p.ID] = next
	return nil
}

func (r *ProductRepository) List(_ context.Context, opts repositories.QueryOpts) ([]*models.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := len(ids)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}

	out := make([]*models.Product, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, models.RehydrateProduct(r.byID[id]))
	}
	return out, total, nil
}
