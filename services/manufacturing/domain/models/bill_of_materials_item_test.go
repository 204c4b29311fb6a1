package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/manufacturing/domain"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func validParams(t *testing.T) BillOfMaterialsItemParams {
	t.Helper()
	pn, err := ItemProductNumberFromUUID(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	required := testNow.AddDate(0, 0, -1)
	return BillOfMaterialsItemParams{
		BillOfMaterialsID: 1,
		ProductNumber:     pn,
		BatchID:           1,
		RequiredQuantity:  8,
		ScheduledStartAt:  required.Add(MinimumLeadTime),
		RequiredAt:        required,
	}
}

func TestValidateBillOfMaterialsItem(t *testing.T) {
	t.Run("exactly thirty days of lead time", func(t *testing.T) {
		if err := ValidateBillOfMaterialsItem(validParams(t), testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("required now", func(t *testing.T) {
		p := validParams(t)
		p.RequiredAt = testNow
		p.ScheduledStartAt = testNow.Add(MinimumLeadTime)
		if err := ValidateBillOfMaterialsItem(p, testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*BillOfMaterialsItemParams)
		detail string
	}{
		{"bom id zero", func(p *BillOfMaterialsItemParams) { p.BillOfMaterialsID = 0 }, "Bill of Materials ID must be greater than 0"},
		{"missing product number", func(p *BillOfMaterialsItemParams) { p.ProductNumber = ItemProductNumber{} }, "Item product number is required"},
		{"negative batch", func(p *BillOfMaterialsItemParams) { p.BatchID = -1 }, "Batch ID must be greater than 0"},
		{"zero quantity", func(p *BillOfMaterialsItemParams) { p.RequiredQuantity = 0 }, "Required quantity must be greater than 0"},
		{"required in the future", func(p *BillOfMaterialsItemParams) {
			p.RequiredAt = testNow.Add(time.Hour)
			p.ScheduledStartAt = p.RequiredAt.Add(MinimumLeadTime)
		}, "Required date cannot be in the future"},
		{"lead time one second short", func(p *BillOfMaterialsItemParams) {
			p.ScheduledStartAt = p.RequiredAt.Add(MinimumLeadTime - time.Second)
		}, "Scheduled start date must be at least 30 days after required date (2024-03-30)"},
		{"first failure wins", func(p *BillOfMaterialsItemParams) {
			p.BillOfMaterialsID = 0
			p.RequiredQuantity = 0
		}, "Bill of Materials ID must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(t)
			tt.mutate(&p)
			err := ValidateBillOfMaterialsItem(p, testNow)
			if !errors.Is(err, domain.ErrInvalidBillOfMaterialsItem) {
				t.Fatalf("expected ErrInvalidBillOfMaterialsItem, got %v", err)
			}
			if !errors.Is(err, domainerr.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument kind, got %v", err)
			}
			if got := domainerr.Detail(err); got != tt.detail {
				t.Fatalf("expected %q, got %q", tt.detail, got)
			}
		})
	}
}

func TestNewBillOfMaterialsItem(t *testing.T) {
	p := validParams(t)
	local := time.FixedZone("CET", 3600)
	p.RequiredAt = p.RequiredAt.In(local)

	item, err := NewBillOfMaterialsItem(p, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != 0 {
		t.Fatalf("expected unsaved item, got id %d", item.ID)
	}
	if item.RequiredAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamps, got %v", item.RequiredAt.Location())
	}
	if !item.CreatedAt.Equal(testNow) || !item.UpdatedAt.Equal(testNow) {
		t.Fatalf("unexpected audit timestamps %v / %v", item.CreatedAt, item.UpdatedAt)
	}

	p.RequiredQuantity = -3
	if _, err := NewBillOfMaterialsItem(p, testNow); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCombinationKey(t *testing.T) {
	id := uuid.MustParse("0b8f5a4e-2c7d-4f6a-9a51-3d2e1c0b9a87")
	pn, _ := ItemProductNumberFromUUID(id)

	if got := CombinationKey(pn, 12, 3); got != "0b8f5a4e-2c7d-4f6a-9a51-3d2e1c0b9a87_12_3" {
		t.Fatalf("unexpected key %q", got)
	}
	if CombinationKey(pn, 1, 23) == CombinationKey(pn, 12, 3) {
		t.Fatal("distinct triples must not share a key")
	}

	item := &BillOfMaterialsItem{ProductNumber: pn, BatchID: 12, BillOfMaterialsID: 3}
	if item.CombinationKey() != CombinationKey(pn, 12, 3) {
		t.Fatal("method and function keys differ")
	}
}
