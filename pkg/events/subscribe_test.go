package events

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/mrpcapacity/pkg/logger"
)

var quiet = logger.NewWithWriter(io.Discard, "error")

func fastRetry(attempts int) retryPolicy {
	return retryPolicy{attempts: attempts, baseDelay: time.Millisecond}
}

func TestRetryPolicy(t *testing.T) {
	cacheDown := errors.New("redis: connection refused")

	tests := []struct {
		name      string
		failures  int
		permanent bool
		wantCalls int
		wantErr   bool
	}{
		{"first attempt succeeds", 0, false, 1, false},
		{"succeeds on third attempt", 2, false, 3, false},
		{"attempts exhausted", 10, false, 3, true},
		{"permanent failure is not retried", 10, true, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fastRetry(3).run(context.Background(), quiet, func() error {
				calls++
				if calls <= tt.failures {
					if tt.permanent {
						return Permanent(cacheDown)
					}
					return cacheDown
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, cacheDown)
		})
	}
}

func TestRetryPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retryPolicy{attempts: 3, baseDelay: time.Minute}.run(ctx, quiet, func() error {
		calls++
		cancel()
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestTracePropagation(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background()) //nolint:errcheck
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx, span := tp.Tracer("test").Start(context.Background(), "allocate")
	defer span.End()

	msg := message.NewMessage("1", []byte(`{}`))
	injectTrace(ctx, msg)
	require.NotEmpty(t, msg.Metadata.Get("traceparent"))

	got := trace.SpanContextFromContext(extractTrace(context.Background(), msg))
	assert.True(t, got.IsValid())
	assert.Equal(t, span.SpanContext().TraceID(), got.TraceID())
}

func TestSubscribe_PublishOnlyBus(t *testing.T) {
	bus := &EventBus{forward: true, log: quiet}
	_, err := bus.Subscribe(context.Background(), "product.created", func(context.Context, *message.Message) error { return nil })
	assert.ErrorIs(t, err, ErrPublishOnly)
}

func TestStartForwarder_RequiresForwarderMode(t *testing.T) {
	bus := &EventBus{log: quiet}
	assert.Error(t, bus.StartForwarder(context.Background()))
}

func TestOptions(t *testing.T) {
	bus := &EventBus{}
	WithForwarder()(bus)
	WithRetry(5, 10*time.Millisecond)(bus)

	assert.True(t, bus.forward)
	assert.Equal(t, retryPolicy{attempts: 5, baseDelay: 10 * time.Millisecond}, bus.retry)
}
