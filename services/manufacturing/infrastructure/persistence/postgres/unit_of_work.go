package postgres

import (
	"context"
	"errors"

	"github.com/ghuser/mrpcapacity/pkg/database"
	"github.com/ghuser/mrpcapacity/pkg/events"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/acl"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/repositories"
)

// LookupBinder builds a product lookup whose statements join uow.
type LookupBinder func(uow *database.UnitOfWork) acl.ProductLookup

var _ repositories.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

// UnitOfWorkFactory opens one database transaction per unit. The item insert
// and the product row lock and update all run on it.
type UnitOfWorkFactory struct {
	db     *database.Database
	outbox events.Outbox
	bind   LookupBinder
}

func NewUnitOfWorkFactory(db *database.Database, outbox events.Outbox, bind LookupBinder) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, outbox: outbox, bind: bind}
}

func (f *UnitOfWorkFactory) Begin(ctx context.Context) (repositories.UnitOfWork, error) {
	uow, err := f.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &unitOfWork{
		uow:      uow,
		items:    NewBillOfMaterialsItemRepositoryInUnitOfWork(uow, f.outbox),
		products: f.bind(uow),
	}, nil
}

type unitOfWork struct {
	uow      *database.UnitOfWork
	items    *BillOfMaterialsItemRepository
	products acl.ProductLookup
}

func (u *unitOfWork) Items() repositories.BillOfMaterialsItemRepository { return u.items }
func (u *unitOfWork) Products() acl.ProductLookup                       { return u.products }

func (u *unitOfWork) Complete(ctx context.Context) (int, error) {
	n, err := u.uow.Complete(ctx)
	if errors.Is(err, database.ErrUnitOfWorkDone) {
		return 0, domain.ErrUnitOfWorkCompleted
	}
	return n, err
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	return u.uow.Rollback(ctx)
}
