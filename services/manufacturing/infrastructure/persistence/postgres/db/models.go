package db

import (
	"time"

	"github.com/google/uuid"
)

type ManufacturingBillOfMaterialsItem struct {
	ID                int64
	BillOfMaterialsID int64
	ProductNumber     uuid.UUID
	BatchID           int64
	RequiredQuantity  int32
	ScheduledStartAt  time.Time
	RequiredAt        time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
