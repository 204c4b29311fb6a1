package services

import (
	"context"

	"github.com/ghuser/mrpcapacity/pkg/auth"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain/models"
	domainsvcs "github.com/ghuser/mrpcapacity/services/manufacturing/domain/services"
)

// BillOfMaterialsItemCommandService accepts item creation requests and hands
// them to the capacity allocation workflow.
type BillOfMaterialsItemCommandService struct {
	allocation *domainsvcs.CapacityAllocationService
	log        logger.Logger
}

func NewBillOfMaterialsItemCommandService(allocation *domainsvcs.CapacityAllocationService, log logger.Logger) *BillOfMaterialsItemCommandService {
	return &BillOfMaterialsItemCommandService{allocation: allocation, log: log}
}

// Create records a new item and reserves its capacity. Rule violations come
// back as *domainerr.Error.
func (s *BillOfMaterialsItemCommandService) Create(ctx context.Context, cmd domainsvcs.CreateBillOfMaterialsItem) (*models.BillOfMaterialsItem, error) {
	s.log.DebugContext(ctx, "create bill of materials item requested",
		"bom_id", cmd.BillOfMaterialsID,
		"product_number", cmd.ProductNumber,
		"operator_id", auth.OperatorIDOrEmpty(ctx),
	)
	return s.allocation.CreateBillOfMaterialsItem(ctx, cmd)
}
