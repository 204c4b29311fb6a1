// Package events moves domain events from the inventory and manufacturing
// contexts to the worker over Watermill's PostgreSQL transport.
//
// Repositories store events with Outbox.PublishTx on the transaction that
// holds the business write. The API process runs a forwarder that relays
// stored envelopes to their topic tables; the worker consumes the topics
// with Subscribe. Every worker instance joins the same consumer group.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/mrpcapacity/pkg/config"
	"github.com/ghuser/mrpcapacity/pkg/logger"
)

const (
	forwarderTopic   = "_mrp_outbox"
	forwarderGroup   = "mrp-outbox-forwarder"
	drainTimeout     = 30 * time.Second
	defaultAttempts  = 3
	defaultBaseDelay = time.Second
)

// ErrPublishOnly is returned by Subscribe on a bus opened with WithForwarder.
var ErrPublishOnly = errors.New("events: bus is opened for publishing only")

// Option configures NewEventBus.
type Option func(*EventBus)

// WithForwarder routes PublishTx through the outbox envelope topic. The bus
// then has no subscriber and StartForwarder must be called to relay events.
func WithForwarder() Option {
	return func(b *EventBus) { b.forward = true }
}

// WithRetry overrides how often a failing handler is retried.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(b *EventBus) { b.retry = retryPolicy{attempts: attempts, baseDelay: baseDelay} }
}

// EventBus is a PostgreSQL-backed pub/sub built on Watermill's SQL transport.
type EventBus struct {
	db         *sql.DB
	log        logger.Logger
	wlog       watermill.LoggerAdapter
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	forward    bool
	retry      retryPolicy
	wg         sync.WaitGroup
}

// NewEventBus opens its own pool on cfg.DatabaseURL. Topic tables are
// created on first use.
func NewEventBus(cfg *config.Config, log logger.Logger, opts ...Option) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	b := &EventBus{
		db:    db,
		log:   log,
		wlog:  newWatermillLogger(log),
		retry: retryPolicy{attempts: defaultAttempts, baseDelay: defaultBaseDelay},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.forward {
		return b, nil
	}

	b.subscriber, err = watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    cfg.ServiceName + "-worker",
		PollInterval:     cfg.OutboxPollInterval,
	}, b.wlog)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}
	return b, nil
}

// StartForwarder relays envelopes written by PublishTx to their target
// topics until ctx is done. It returns once the relay is running.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.forward {
		return errors.New("events: StartForwarder requires WithForwarder")
	}
	if b.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	envelopes, err := watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    forwarderGroup,
	}, b.wlog)
	if err != nil {
		return fmt.Errorf("events: new forwarder subscriber: %w", err)
	}
	topics, err := watermillsql.NewPublisher(b.db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, b.wlog)
	if err != nil {
		_ = envelopes.Close()
		return fmt.Errorf("events: new forwarder publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(envelopes, topics, b.wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = topics.Close()
		_ = envelopes.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running", "topic", forwarderTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// txPublisher writes on tx. In forwarder mode messages are wrapped in an
// envelope addressed to the forwarder topic.
func (b *EventBus) txPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, watermillsql.PublisherConfig{
		SchemaAdapter: watermillsql.DefaultPostgreSQLSchema{},
	}, b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	if b.forward {
		return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic}), nil
	}
	return pub, nil
}

// Ping satisfies httpx.HealthChecker.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and the forwarder, waits up to 30 s for
// in-flight handlers, then closes the pool.
func (b *EventBus) Close() error {
	var errs []error
	if b.subscriber != nil {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: close subscriber: %w", err))
		}
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: close forwarder: %w", err))
		}
	}

	drained := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		b.log.Error("events: in-flight handlers still running at shutdown")
	}

	if err := b.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close db: %w", err))
	}
	return errors.Join(errs...)
}
