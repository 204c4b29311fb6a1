package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/mrpcapacity/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:      "mrpcapacity-test",
		ServiceVersion:   "test",
		Environment:      config.EnvTesting,
		TraceSampleRatio: 1,
	}
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(body)
}

func TestSetup_ExposesAllocationHistogram(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	require.NoError(t, err)
	defer shutdown(context.Background()) //nolint:errcheck

	hist, err := Meter().Int64Histogram("capacity_allocation_quantity")
	require.NoError(t, err)
	hist.Record(context.Background(), 50)

	body := scrape(t, handler)
	assert.Contains(t, body, `le="50"`)
	assert.Contains(t, body, `le="10000"`)
	assert.Contains(t, body, "go_goroutines")
}

func TestSetup_IsRepeatable(t *testing.T) {
	for range 2 {
		shutdown, handler, err := Setup(context.Background(), baseConfig())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(scrape(t, handler), "#"))
		require.NoError(t, shutdown(context.Background()))
	}
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	shutdown, _, err := Setup(context.Background(), baseConfig())
	require.NoError(t, err)
	defer shutdown(context.Background()) //nolint:errcheck

	ctx, span := Tracer().Start(context.Background(), "allocate")
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	assert.NotEmpty(t, carrier.Get("traceparent"))
}

func TestScrubSession(t *testing.T) {
	event := &sentry.Event{Request: &sentry.Request{
		Cookies: "mrpcapacity_session=secret",
		Headers: map[string]string{"Cookie": "mrpcapacity_session=secret", "Accept": "application/json"},
	}}

	got := scrubSession(event, nil)
	assert.Empty(t, got.Request.Cookies)
	assert.NotContains(t, got.Request.Headers, "Cookie")
	assert.Equal(t, "application/json", got.Request.Headers["Accept"])
	assert.Nil(t, scrubSession(&sentry.Event{}, nil).Request)
}

func TestSetupSentry_NoDSN(t *testing.T) {
	assert.NoError(t, SetupSentry(baseConfig()))
}
