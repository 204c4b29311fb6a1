package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBillOfMaterialsItemCreated is published when an item and its capacity
// reservation commit.
const TopicBillOfMaterialsItemCreated = "bom_item.created"

type BillOfMaterialsItemCreatedEvent struct {
	EventID           uuid.UUID `json:"event_id"`
	Version           int       `json:"version"`
	ItemID            int64     `json:"item_id"`
	BillOfMaterialsID int64     `json:"bill_of_materials_id"`
	ProductNumber     uuid.UUID `json:"product_number"`
	BatchID           int64     `json:"batch_id"`
	RequiredQuantity  int       `json:"required_quantity"`
	ScheduledStartAt  time.Time `json:"scheduled_start_at"`
	RequiredAt        time.Time `json:"required_at"`
	CreatedBy         string    `json:"created_by,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
