package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-valid-url")
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "redis://localhost:19999")
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestWithDefaults(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/0?pool_size=40&read_timeout=2s")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	withDefaults(opts)

	if opts.PoolSize != 40 {
		t.Errorf("pool size from url overridden: %d", opts.PoolSize)
	}
	if opts.ReadTimeout != 2*time.Second {
		t.Errorf("read timeout from url overridden: %v", opts.ReadTimeout)
	}
	if opts.WriteTimeout != 500*time.Millisecond {
		t.Errorf("write timeout default not applied: %v", opts.WriteTimeout)
	}
	if opts.ClientName != clientName {
		t.Errorf("client name: %q", opts.ClientName)
	}
}

func TestParseProduct(t *testing.T) {
	number := uuid.New()
	vals := map[string]string{
		"id":                      "12",
		"product_number":          number.String(),
		"name":                    "Widget",
		"product_type":            "2",
		"current_allocated":       "90",
		"max_production_capacity": "100",
		"row_version":             "4",
		"created_at":              "2024-01-02T03:04:05Z",
		"updated_at":              "2024-01-03T03:04:05.5Z",
	}

	p, err := parseProduct(vals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 12 || p.ProductNumber != number || p.CurrentAllocated != 90 || p.RowVersion != 4 {
		t.Fatalf("unexpected product %+v", p)
	}

	t.Run("corrupt field", func(t *testing.T) {
		bad := map[string]string{}
		for k, v := range vals {
			bad[k] = v
		}
		bad["current_allocated"] = "ninety"
		if _, err := parseProduct(bad); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

// Integration tests, skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}
	ctx := context.Background()

	rc, err := NewRedisClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	t.Run("Ping_Success", func(t *testing.T) {
		if err := rc.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("ProductCache_RoundTrip", func(t *testing.T) {
		c := NewProductCache(rc)
		now := time.Now().UTC().Truncate(time.Millisecond)
		p := &CachedProduct{
			ID:                    time.Now().UnixNano(),
			ProductNumber:         uuid.New(),
			Name:                  "Widget",
			ProductType:           2,
			CurrentAllocated:      10,
			MaxProductionCapacity: 100,
			RowVersion:            1,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		t.Cleanup(func() { _ = c.Delete(ctx, p.ID, p.ProductNumber) })

		if err := c.Set(ctx, p); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := c.GetByNumber(ctx, p.ProductNumber)
		if err != nil {
			t.Fatalf("GetByNumber failed: %v", err)
		}
		if got.Name != "Widget" || got.CurrentAllocated != 10 {
			t.Fatalf("unexpected product %+v", got)
		}

		applied, err := c.ApplyAllocation(ctx, p.ID, 18, 2, now)
		if err != nil || !applied {
			t.Fatalf("ApplyAllocation: applied=%v err=%v", applied, err)
		}
		applied, err = c.ApplyAllocation(ctx, p.ID, 12, 2, now)
		if err != nil || applied {
			t.Fatalf("stale ApplyAllocation must be ignored: applied=%v err=%v", applied, err)
		}

		got, err = c.Get(ctx, p.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.CurrentAllocated != 18 {
			t.Fatalf("expected 18 allocated, got %d", got.CurrentAllocated)
		}
	})

	t.Run("ProductCache_Miss", func(t *testing.T) {
		c := NewProductCache(rc)
		if _, err := c.GetByNumber(ctx, uuid.New()); !errors.Is(err, redis.Nil) {
			t.Fatalf("expected redis.Nil, got %v", err)
		}
	})
}
