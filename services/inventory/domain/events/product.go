package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicProductCreated is published when a Product is persisted.
	TopicProductCreated = "product.created"

	// TopicProductAllocationChanged is published whenever a product's
	// allocated quantity is written.
	TopicProductAllocationChanged = "product.allocation_changed"
)

// ProductCreatedEvent carries the full initial state of a product.
type ProductCreatedEvent struct {
	EventID               uuid.UUID `json:"event_id"`
	Version               int       `json:"version"`
	ProductID             int64     `json:"product_id"`
	ProductNumber         uuid.UUID `json:"product_number"`
	Name                  string    `json:"name"`
	ProductType           string    `json:"product_type"`
	MaxProductionCapacity int       `json:"max_production_capacity"`
	CreatedBy             string    `json:"created_by,omitempty"`
	OccurredAt            time.Time `json:"occurred_at"`
}

// ProductAllocationChangedEvent reports the allocation after a write. Delta
// is signed; consumers should trust CurrentAllocated over summing deltas.
type ProductAllocationChangedEvent struct {
	EventID               uuid.UUID `json:"event_id"`
	Version               int       `json:"version"`
	ProductID             int64     `json:"product_id"`
	ProductNumber         uuid.UUID `json:"product_number"`
	Delta                 int       `json:"delta"`
	CurrentAllocated      int       `json:"current_allocated"`
	MaxProductionCapacity int       `json:"max_production_capacity"`
	RowVersion            int       `json:"row_version"`
	OccurredAt            time.Time `json:"occurred_at"`
}
