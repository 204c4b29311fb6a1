package memory

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	invdomain "github.com/ghuser/mrpcapacity/services/inventory/domain"
	invmodels "github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	invrepos "github.com/ghuser/mrpcapacity/services/inventory/domain/repositories"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/acl"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/repositories"
)

// LookupBinder builds the product lookup a unit of work exposes, over a
// product repository whose writes are staged in that unit.
type LookupBinder func(products invrepos.ProductRepository) acl.ProductLookup

var _ repositories.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

// UnitOfWorkFactory hands out one unit at a time. A second Begin waits until
// the open unit completes or rolls back, or until its context is done.
type UnitOfWorkFactory struct {
	items    *BillOfMaterialsItemRepository
	products invrepos.ProductRepository
	bind     LookupBinder
	sem      *semaphore.Weighted
}

func NewUnitOfWorkFactory(items *BillOfMaterialsItemRepository, products invrepos.ProductRepository, bind LookupBinder) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		items:    items,
		products: products,
		bind:     bind,
		sem:      semaphore.NewWeighted(1),
	}
}

func (f *UnitOfWorkFactory) Begin(ctx context.Context) (repositories.UnitOfWork, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("begin unit of work: %w", err)
	}

	staged := &stagedProducts{ProductRepository: f.products, writes: map[int64]*stagedWrite{}}
	u := &unitOfWork{factory: f, products: staged}
	u.items = &stagedItems{unit: u}
	u.lookup = f.bind(staged)
	return u, nil
}

type unitOfWork struct {
	factory  *UnitOfWorkFactory
	items    *stagedItems
	products *stagedProducts
	lookup   acl.ProductLookup
	done     bool
}

func (u *unitOfWork) Items() repositories.BillOfMaterialsItemRepository { return u.items }
func (u *unitOfWork) Products() acl.ProductLookup                       { return u.lookup }

func (u *unitOfWork) Complete(ctx context.Context) (int, error) {
	if u.done {
		return 0, domain.ErrUnitOfWorkCompleted
	}
	defer u.release()

	store := u.factory.items
	store.mu.Lock()
	defer store.mu.Unlock()

	// Items added to the store directly, outside any unit, can still collide.
	for _, item := range u.items.pending {
		if _, ok := store.byKey[item.CombinationKey()]; ok {
			return 0, duplicate(item.ProductNumber, item.BatchID, item.BillOfMaterialsID)
		}
	}
	for _, w := range u.products.writes {
		s := w.snapshot
		s.Version = w.baseVersion
		if err := u.factory.products.UpdateAllocation(ctx, invmodels.RehydrateProduct(s), w.delta); err != nil {
			return 0, fmt.Errorf("commit product allocation: %w", err)
		}
	}
	for _, item := range u.items.pending {
		if err := store.insertLocked(item); err != nil {
			return 0, err
		}
	}
	return len(u.items.pending) + len(u.products.writes), nil
}

func (u *unitOfWork) Rollback(context.Context) error {
	if !u.done {
		u.release()
	}
	return nil
}

func (u *unitOfWork) release() {
	u.done = true
	u.factory.sem.Release(1)
}

// stagedItems buffers inserts until Complete. Reads see committed and staged
// items.
type stagedItems struct {
	unit    *unitOfWork
	pending []*models.BillOfMaterialsItem
}

func (s *stagedItems) Add(ctx context.Context, item *models.BillOfMaterialsItem) error {
	if s.unit.done {
		return domain.ErrUnitOfWorkCompleted
	}
	taken, err := s.ExistsByCombination(ctx, item.ProductNumber, item.BatchID, item.BillOfMaterialsID)
	if err != nil {
		return err
	}
	if taken {
		return duplicate(item.ProductNumber, item.BatchID, item.BillOfMaterialsID)
	}
	item.ID = s.unit.factory.items.reserveID()
	s.pending = append(s.pending, item)
	return nil
}

func (s *stagedItems) ExistsByCombination(ctx context.Context, pn models.ItemProductNumber, batchID, bomID int64) (bool, error) {
	key := models.CombinationKey(pn, batchID, bomID)
	for _, item := range s.pending {
		if item.CombinationKey() == key {
			return true, nil
		}
	}
	return s.unit.factory.items.ExistsByCombination(ctx, pn, batchID, bomID)
}

func (s *stagedItems) FindByBillOfMaterialsID(ctx context.Context, bomID int64) ([]*models.BillOfMaterialsItem, error) {
	out, err := s.unit.factory.items.FindByBillOfMaterialsID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	for _, item := range s.pending {
		if item.BillOfMaterialsID == bomID {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

type stagedWrite struct {
	snapshot    invmodels.ProductSnapshot
	baseVersion int
	delta       int
}

// stagedProducts buffers allocation writes until Complete. Reads of a
// product written in this unit return the staged state.
type stagedProducts struct {
	invrepos.ProductRepository
	writes map[int64]*stagedWrite
}

func (s *stagedProducts) staged(number invmodels.ProductNumber) (*stagedWrite, bool) {
	for _, w := range s.writes {
		if w.snapshot.ProductNumber == number {
			return w, true
		}
	}
	return nil, false
}

func (s *stagedProducts) FindByID(ctx context.Context, id int64) (*invmodels.Product, error) {
	if w, ok := s.writes[id]; ok {
		return invmodels.RehydrateProduct(w.snapshot), nil
	}
	return s.ProductRepository.FindByID(ctx, id)
}

func (s *stagedProducts) FindByProductNumber(ctx context.Context, number invmodels.ProductNumber) (*invmodels.Product, error) {
	if w, ok := s.staged(number); ok {
		return invmodels.RehydrateProduct(w.snapshot), nil
	}
	return s.ProductRepository.FindByProductNumber(ctx, number)
}

func (s *stagedProducts) FindByProductNumberForUpdate(ctx context.Context, number invmodels.ProductNumber) (*invmodels.Product, error) {
	return s.FindByProductNumber(ctx, number)
}

// UpdateAllocation stages p. The version check runs against the staged
// state when p was already written in this unit.
func (s *stagedProducts) UpdateAllocation(ctx context.Context, p *invmodels.Product, delta int) error {
	current, err := s.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.Version() != p.Version() {
		return invdomain.ErrConcurrentUpdate
	}

	next := p.Snapshot()
	next.Version = p.Version() + 1
	if w, ok := s.writes[p.ID]; ok {
		w.snapshot = next
		w.delta += delta
		return nil
	}
	s.writes[p.ID] = &stagedWrite{snapshot: next, baseVersion: p.Version(), delta: delta}
	return nil
}
