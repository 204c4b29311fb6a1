package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/mrpcapacity/pkg/cache"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	invevents "github.com/ghuser/mrpcapacity/services/inventory/domain/events"
	invmodels "github.com/ghuser/mrpcapacity/services/inventory/domain/models"
	mfgevents "github.com/ghuser/mrpcapacity/services/manufacturing/domain/events"
)

type fakeCache struct {
	set       []*cache.CachedProduct
	applied   []int
	applyErr  error
	deleted   []int64
	deleteErr error
}

func (f *fakeCache) Set(_ context.Context, p *cache.CachedProduct) error {
	f.set = append(f.set, p)
	return nil
}

func (f *fakeCache) ApplyAllocation(_ context.Context, _ int64, allocated, _ int, _ time.Time) (bool, error) {
	if f.applyErr != nil {
		return false, f.applyErr
	}
	f.applied = append(f.applied, allocated)
	return true, nil
}

func (f *fakeCache) Delete(_ context.Context, id int64, _ uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func discard() logger.Logger { return logger.NewWithWriter(io.Discard, "error") }

func payload(t *testing.T, v any) *message.Message {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return message.NewMessage(uuid.NewString(), data)
}

func TestHandleProductCreated(t *testing.T) {
	c := &fakeCache{}
	h := handleProductCreated(c, discard())
	now := time.Now().UTC()

	err := h(context.Background(), payload(t, invevents.ProductCreatedEvent{
		ProductID:             3,
		ProductNumber:         uuid.New(),
		Name:                  "Widget",
		ProductType:           "MTO",
		MaxProductionCapacity: 500,
		OccurredAt:            now,
	}))
	require.NoError(t, err)
	require.Len(t, c.set, 1)
	assert.Equal(t, int(invmodels.MadeToOrder), c.set[0].ProductType)
	assert.Equal(t, 0, c.set[0].CurrentAllocated)

	err = h(context.Background(), message.NewMessage("x", []byte("{")))
	assert.ErrorContains(t, err, "decode product.created")

	err = h(context.Background(), payload(t, invevents.ProductCreatedEvent{ProductID: 4, ProductType: "ZZZ"}))
	assert.NoError(t, err, "unknown types are dropped")
	assert.Len(t, c.set, 1)
}

func TestHandleAllocationChanged(t *testing.T) {
	evt := invevents.ProductAllocationChangedEvent{
		ProductID:        3,
		ProductNumber:    uuid.New(),
		Delta:            8,
		CurrentAllocated: 98,
		RowVersion:       2,
		OccurredAt:       time.Now(),
	}

	t.Run("updates the cache", func(t *testing.T) {
		c := &fakeCache{}
		require.NoError(t, handleAllocationChanged(c, discard())(context.Background(), payload(t, evt)))
		assert.Equal(t, []int{98}, c.applied)
	})

	t.Run("evicts on cache failure", func(t *testing.T) {
		c := &fakeCache{applyErr: errors.New("NOSCRIPT")}
		require.NoError(t, handleAllocationChanged(c, discard())(context.Background(), payload(t, evt)))
		assert.Equal(t, []int64{3}, c.deleted)
	})

	t.Run("retries when eviction fails too", func(t *testing.T) {
		c := &fakeCache{applyErr: errors.New("timeout"), deleteErr: errors.New("timeout")}
		assert.Error(t, handleAllocationChanged(c, discard())(context.Background(), payload(t, evt)))
	})
}

func TestHandleBillOfMaterialsItemCreated(t *testing.T) {
	h := handleBillOfMaterialsItemCreated(discard())
	assert.NoError(t, h(context.Background(), payload(t, mfgevents.BillOfMaterialsItemCreatedEvent{ItemID: 1})))
	assert.Error(t, h(context.Background(), message.NewMessage("x", []byte("nope"))))
}

type fakeBus struct {
	topics []string
	chans  []chan error
	fail   string
}

func (b *fakeBus) Subscribe(_ context.Context, topic string, _ handlerFunc) (<-chan error, error) {
	if topic == b.fail {
		return nil, errors.New("no table")
	}
	ch := make(chan error, 1)
	b.topics = append(b.topics, topic)
	b.chans = append(b.chans, ch)
	return ch, nil
}

func TestRegisterSubscribers(t *testing.T) {
	handlers := subscriptions(&fakeCache{}, discard())

	t.Run("subscribes every topic", func(t *testing.T) {
		bus := &fakeBus{}
		g, err := registerSubscribers(context.Background(), bus, handlers, discard())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			invevents.TopicProductCreated,
			invevents.TopicProductAllocationChanged,
			mfgevents.TopicBillOfMaterialsItemCreated,
		}, bus.topics)

		bus.chans[0] <- errors.New("handler failed")
		for _, ch := range bus.chans {
			close(ch)
		}
		assert.NoError(t, g.Wait())
	})

	t.Run("stops on subscribe failure", func(t *testing.T) {
		bus := &fakeBus{fail: mfgevents.TopicBillOfMaterialsItemCreated}
		_, err := registerSubscribers(context.Background(), bus, handlers, discard())
		assert.ErrorContains(t, err, mfgevents.TopicBillOfMaterialsItemCreated)
		for _, ch := range bus.chans {
			close(ch)
		}
	})
}
