// Package memory provides in-process manufacturing persistence: an item
// store and a unit of work that serializes units the way row locks
// serialize them in PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/repositories"
)

var _ repositories.BillOfMaterialsItemRepository = (*BillOfMaterialsItemRepository)(nil)

// BillOfMaterialsItemRepository holds committed items keyed by combination.
type BillOfMaterialsItemRepository struct {
	mu     sync.RWMutex
	byID   map[int64]models.BillOfMaterialsItem
	byKey  map[string]int64
	nextID int64
}

func NewBillOfMaterialsItemRepository() *BillOfMaterialsItemRepository {
	return &BillOfMaterialsItemRepository{
		byID:  make(map[int64]models.BillOfMaterialsItem),
		byKey: make(map[string]int64),
	}
}

// Add stores item immediately. Use a unit of work to stage it instead.
func (r *BillOfMaterialsItemRepository) Add(_ context.Context, item *models.BillOfMaterialsItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(item)
}

func (r *BillOfMaterialsItemRepository) insertLocked(item *models.BillOfMaterialsItem) error {
	key := item.CombinationKey()
	if _, ok := r.byKey[key]; ok {
		return duplicate(item.ProductNumber, item.BatchID, item.BillOfMaterialsID)
	}
	if item.ID == 0 {
		r.nextID++
		item.ID = r.nextID
	}
	r.byID[item.ID] = *item
	r.byKey[key] = item.ID
	return nil
}

func (r *BillOfMaterialsItemRepository) ExistsByCombination(_ context.Context, pn models.ItemProductNumber, batchID, bomID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byKey[models.CombinationKey(pn, batchID, bomID)]
	return ok, nil
}

func (r *BillOfMaterialsItemRepository) FindByBillOfMaterialsID(_ context.Context, bomID int64) ([]*models.BillOfMaterialsItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.BillOfMaterialsItem, 0)
	for _, item := range r.byID {
		if item.BillOfMaterialsID == bomID {
			out = append(out, models.RehydrateBillOfMaterialsItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BillOfMaterialsItemRepository) reserveID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID
}

func duplicate(pn models.ItemProductNumber, batchID, bomID int64) error {
	return domainerr.Violation(domain.ErrBillOfMaterialsItemExists,
		"A Bill of Materials Item with the same combination of product number %s, batch ID %d, and Bill of Materials ID %d already exists",
		pn, batchID, bomID)
}
