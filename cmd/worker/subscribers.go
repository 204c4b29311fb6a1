package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ghuser/mrpcapacity/pkg/cache"
	"github.com/ghuser/mrpcapacity/pkg/events"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	invevents "github.com/ghuser/mrpcapacity/services/inventory/domain/events"
	invmodels "github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	mfgevents "github.com/ghuser/mrpcapacity/services/manufacturing/domain/events"
)

type handlerFunc = events.Handler

type subscriber interface {
	Subscribe(ctx context.Context, topic string, handler handlerFunc) (<-chan error, error)
}

// productCache is the part of cache.ProductCache the handlers write to.
type productCache interface {
	Set(ctx context.Context, p *cache.CachedProduct) error
	ApplyAllocation(ctx context.Context, id int64, allocated, rowVersion int, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, id int64, number uuid.UUID) error
}

// subscriptions maps each topic to its handler.
func subscriptions(products productCache, log logger.Logger) map[string]handlerFunc {
	return map[string]handlerFunc{
		invevents.TopicProductCreated:             handleProductCreated(products, log),
		invevents.TopicProductAllocationChanged:   handleAllocationChanged(products, log),
		mfgevents.TopicBillOfMaterialsItemCreated: handleBillOfMaterialsItemCreated(log),
	}
}

// registerSubscribers subscribes every handler and drains the error channels
// until ctx is done. The returned group finishes when all channels close.
func registerSubscribers(ctx context.Context, bus subscriber, handlers map[string]handlerFunc, log logger.Logger) (*errgroup.Group, error) {
	g, ctx := errgroup.WithContext(ctx)
	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		errCh, err := bus.Subscribe(ctx, topic, handler)
		if err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", topic, err)
		}
		topics = append(topics, topic)

		g.Go(func() error {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
			return nil
		})
	}
	log.Info("event subscribers registered", "topics", topics)
	return g, nil
}

// handleProductCreated warms the product read model. Handlers must be
// idempotent; the bus retries failures up to 3 times and undecodable
// payloads are not retried.
func handleProductCreated(products productCache, log logger.Logger) handlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		var evt invevents.ProductCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return events.Permanent(fmt.Errorf("decode %s: %w", invevents.TopicProductCreated, err))
		}
		productType, err := invmodels.ParseProductType(evt.ProductType)
		if err != nil {
			log.WarnContext(ctx, "dropping product.created with unknown type",
				"product_id", evt.ProductID, "product_type", evt.ProductType)
			return nil
		}

		if err := products.Set(ctx, &cache.CachedProduct{
			ID:                    evt.ProductID,
			ProductNumber:         evt.ProductNumber,
			Name:                  evt.Name,
			ProductType:           int(productType),
			MaxProductionCapacity: evt.MaxProductionCapacity,
			CreatedAt:             evt.OccurredAt,
			UpdatedAt:             evt.OccurredAt,
		}); err != nil {
			log.WarnContext(ctx, "cache warm failed for product.created", "product_id", evt.ProductID, "error", err)
			return nil
		}
		log.InfoContext(ctx, "cache warmed", "product_id", evt.ProductID, "created_by", evt.CreatedBy)
		return nil
	}
}

// handleAllocationChanged moves the cached allocation forward. Events for
// uncached products or older row versions are ignored. When the cache
// cannot be updated the entry is evicted so reads fall through to the
// database.
func handleAllocationChanged(products productCache, log logger.Logger) handlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		var evt invevents.ProductAllocationChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return events.Permanent(fmt.Errorf("decode %s: %w", invevents.TopicProductAllocationChanged, err))
		}

		applied, err := products.ApplyAllocation(ctx, evt.ProductID, evt.CurrentAllocated, evt.RowVersion, evt.OccurredAt)
		if err != nil {
			if delErr := products.Delete(ctx, evt.ProductID, evt.ProductNumber); delErr != nil {
				return fmt.Errorf("update cached allocation: %w", err)
			}
			log.WarnContext(ctx, "cached product evicted", "product_id", evt.ProductID, "error", err)
			return nil
		}
		log.DebugContext(ctx, "allocation changed",
			"product_id", evt.ProductID,
			"delta", evt.Delta,
			"current_allocated", evt.CurrentAllocated,
			"row_version", evt.RowVersion,
			"cache_updated", applied,
		)
		return nil
	}
}

func handleBillOfMaterialsItemCreated(log logger.Logger) handlerFunc {
	return func(ctx context.Context, msg *message.Message) error {
		var evt mfgevents.BillOfMaterialsItemCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return events.Permanent(fmt.Errorf("decode %s: %w", mfgevents.TopicBillOfMaterialsItemCreated, err))
		}
		log.InfoContext(ctx, "capacity reserved",
			"item_id", evt.ItemID,
			"bom_id", evt.BillOfMaterialsID,
			"batch_id", evt.BatchID,
			"product_number", evt.ProductNumber.String(),
			"required_quantity", evt.RequiredQuantity,
			"scheduled_start_at", evt.ScheduledStartAt,
			"created_by", evt.CreatedBy,
		)
		return nil
	}
}
