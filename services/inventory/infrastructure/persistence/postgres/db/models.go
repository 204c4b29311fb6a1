package db

import (
	"time"

	"github.com/google/uuid"
)

type InventoryProduct struct {
	ID                        int64
	ProductNumber             uuid.UUID
	Name                      string
	ProductType               int16
	CurrentProductionQuantity int32
	MaxProductionCapacity     int32
	Version                   int32
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
