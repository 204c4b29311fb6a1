package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v5"

	"github.com/ghuser/mrpcapacity/pkg/logger"
)

// Handler processes one message. It must be idempotent: a message is
// delivered again after a failed attempt.
type Handler func(ctx context.Context, msg *message.Message) error

// Permanent marks err as not worth retrying, e.g. an undecodable payload.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Subscribe consumes topic until the bus is closed. Each message is handled
// with the publisher's trace context restored; a handler error is retried
// with exponential backoff and the message is Nacked once the attempts run
// out. Those final errors are sent on the returned channel, which callers
// must drain. The channel closes when the subscription ends.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	if b.subscriber == nil {
		return nil, ErrPublishOnly
	}
	msgs, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe %s: %w", topic, err)
	}

	errCh := make(chan error, 100)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range msgs {
			msgCtx := extractTrace(ctx, msg)
			log := b.log.With("topic", topic, MetadataEventID, msg.Metadata.Get(MetadataEventID))

			if err := b.retry.run(msgCtx, log, func() error { return handler(msgCtx, msg) }); err != nil {
				msg.Nack()
				select {
				case errCh <- fmt.Errorf("%s %s: %w", topic, msg.Metadata.Get(MetadataEventID), err):
				default:
					log.ErrorContext(msgCtx, "events: error channel full", "error", err)
				}
				continue
			}
			msg.Ack()
		}
	}()
	return errCh, nil
}

type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
}

// run calls fn until it succeeds, returns a permanent error, or the
// attempts are used up. Delays double from baseDelay without jitter.
func (p retryPolicy) run(ctx context.Context, log logger.Logger, fn func() error) error {
	delays := backoff.NewExponentialBackOff()
	delays.InitialInterval = p.baseDelay
	delays.RandomizationFactor = 0
	delays.Multiplier = 2
	delays.MaxInterval = p.baseDelay << p.attempts
	delays.Reset()

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		return struct{}{}, fn()
	},
		backoff.WithBackOff(delays),
		backoff.WithMaxTries(uint(max(p.attempts, 1))),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.WarnContext(ctx, "events: handler failed, retrying",
				"attempt", attempt, "max_attempts", p.attempts, "next_delay", next, "error", err)
		}),
	)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return fmt.Errorf("handler failed after %d attempts: %w", attempt, err)
}
