package models

import (
	"fmt"
	"time"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
)

// MinimumLeadTime is the least time allowed between an item's required date
// and its scheduled start.
const MinimumLeadTime = 30 * 24 * time.Hour

// BillOfMaterialsItemParams are the caller-supplied attributes of a new item.
type BillOfMaterialsItemParams struct {
	BillOfMaterialsID int64
	ProductNumber     ItemProductNumber
	BatchID           int64
	RequiredQuantity  int
	ScheduledStartAt  time.Time
	RequiredAt        time.Time
}

// BillOfMaterialsItem is a demand for RequiredQuantity units of a product
// within a batch of a bill of materials. It is immutable once created.
type BillOfMaterialsItem struct {
	ID                int64
	BillOfMaterialsID int64
	ProductNumber     ItemProductNumber
	BatchID           int64
	RequiredQuantity  int
	ScheduledStartAt  time.Time
	RequiredAt        time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidateBillOfMaterialsItem checks p against the item's shape rules, in
// order, and returns the first violation. now is the reference for the
// "not in the future" rule.
func ValidateBillOfMaterialsItem(p BillOfMaterialsItemParams, now time.Time) error {
	switch {
	case p.BillOfMaterialsID <= 0:
		return invalid("Bill of Materials ID must be greater than 0")
	case p.ProductNumber.IsZero():
		return invalid("Item product number is required")
	case p.BatchID <= 0:
		return invalid("Batch ID must be greater than 0")
	case p.RequiredQuantity <= 0:
		return invalid("Required quantity must be greater than 0")
	case p.RequiredAt.After(now):
		return invalid("Required date cannot be in the future")
	}

	minimumStart := p.RequiredAt.Add(MinimumLeadTime)
	if p.ScheduledStartAt.Before(minimumStart) {
		return invalid(fmt.Sprintf("Scheduled start date must be at least 30 days after required date (%s)",
			minimumStart.Format(time.DateOnly)))
	}
	return nil
}

// NewBillOfMaterialsItem validates p and returns an unsaved item.
func NewBillOfMaterialsItem(p BillOfMaterialsItemParams, now time.Time) (*BillOfMaterialsItem, error) {
	if err := ValidateBillOfMaterialsItem(p, now); err != nil {
		return nil, err
	}
	now = now.UTC()
	return &BillOfMaterialsItem{
		BillOfMaterialsID: p.BillOfMaterialsID,
		ProductNumber:     p.ProductNumber,
		BatchID:           p.BatchID,
		RequiredQuantity:  p.RequiredQuantity,
		ScheduledStartAt:  p.ScheduledStartAt.UTC(),
		RequiredAt:        p.RequiredAt.UTC(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// RehydrateBillOfMaterialsItem rebuilds a stored item. Validation is not
// re-run; the rules are evaluated against the clock at creation time.
func RehydrateBillOfMaterialsItem(item BillOfMaterialsItem) *BillOfMaterialsItem {
	return &item
}

// CombinationKey identifies the item's (product number, batch, BOM) triple.
func (i *BillOfMaterialsItem) CombinationKey() string {
	return CombinationKey(i.ProductNumber, i.BatchID, i.BillOfMaterialsID)
}

// CombinationKey formats "{productNumber}_{batchId}_{bomId}". The product
// number is a fixed-width UUID, so distinct triples never collide.
func CombinationKey(pn ItemProductNumber, batchID, bomID int64) string {
	return fmt.Sprintf("%s_%d_%d", pn, batchID, bomID)
}

func invalid(detail string) error {
	return domainerr.Violation(domain.ErrInvalidBillOfMaterialsItem, "%s", detail)
}
