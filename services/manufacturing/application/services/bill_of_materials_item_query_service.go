package services

import (
	"context"
	"fmt"

	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/repositories"
)

type BillOfMaterialsItemQueryService struct {
	items repositories.BillOfMaterialsItemRepository
}

func NewBillOfMaterialsItemQueryService(items repositories.BillOfMaterialsItemRepository) *BillOfMaterialsItemQueryService {
	return &BillOfMaterialsItemQueryService{items: items}
}

// ListByBillOfMaterialsID returns the items of one BOM, oldest first. An
// unknown BOM has no items.
func (s *BillOfMaterialsItemQueryService) ListByBillOfMaterialsID(ctx context.Context, bomID int64) ([]*models.BillOfMaterialsItem, error) {
	items, err := s.items.FindByBillOfMaterialsID(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("list bill of materials items: %w", err)
	}
	return items, nil
}
