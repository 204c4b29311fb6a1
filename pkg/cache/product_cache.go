package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ProductCacheTTL bounds how long a product survives without a refresh.
	ProductCacheTTL = 24 * time.Hour

	productKeyPrefix       = "product"
	productNumberKeyPrefix = "product:number"
)

// CachedProduct is the product read model stored as a Redis hash.
type CachedProduct struct {
	ID                    int64     `json:"id"`
	ProductNumber         uuid.UUID `json:"product_number"`
	Name                  string    `json:"name"`
	ProductType           int       `json:"product_type"`
	CurrentAllocated      int       `json:"current_allocated"`
	MaxProductionCapacity int       `json:"max_production_capacity"`
	RowVersion            int       `json:"row_version"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ProductCache stores product read models keyed by id, with a secondary
// "product:number:{uuid}" -> id index for lookups by product number.
type ProductCache struct {
	client *RedisClient
}

func NewProductCache(r *RedisClient) *ProductCache {
	return &ProductCache{client: r}
}

// Get returns redis.Nil when the product is not cached.
func (c *ProductCache) Get(ctx context.Context, id int64) (*CachedProduct, error) {
	vals, err := c.client.Client().HGetAll(ctx, productKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return parseProduct(vals)
}

// GetByNumber resolves the secondary index, then the hash.
func (c *ProductCache) GetByNumber(ctx context.Context, number uuid.UUID) (*CachedProduct, error) {
	raw, err := c.client.Client().Get(ctx, productNumberKey(number)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("cache get index: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse index: %w", err)
	}
	return c.Get(ctx, id)
}

// Set writes the whole read model and its number index in one pipeline.
func (c *ProductCache) Set(ctx context.Context, p *CachedProduct) error {
	key := productKey(p.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.HSet(ctx, key,
		"id", p.ID,
		"product_number", p.ProductNumber.String(),
		"name", p.Name,
		"product_type", p.ProductType,
		"current_allocated", p.CurrentAllocated,
		"max_production_capacity", p.MaxProductionCapacity,
		"row_version", p.RowVersion,
		"created_at", p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ProductCacheTTL)
	pipe.Set(ctx, productNumberKey(p.ProductNumber), p.ID, ProductCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// applyAllocationScript updates the allocation fields only when the cached
// row_version is older than the incoming one, so out-of-order events cannot
// roll the counter back. Returns 1 when applied, 0 when stale or missing.
var applyAllocationScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
local current = tonumber(redis.call("HGET", KEYS[1], "row_version") or "-1")
if current >= tonumber(ARGV[2]) then
  return 0
end
redis.call("HSET", KEYS[1], "current_allocated", ARGV[1], "row_version", ARGV[2], "updated_at", ARGV[3])
redis.call("EXPIRE", KEYS[1], ARGV[4])
return 1
`)

// ApplyAllocation records a newer allocation for a cached product. It reports
// false when the product is not cached or the cache already holds a newer
// version.
func (c *ProductCache) ApplyAllocation(ctx context.Context, id int64, allocated, rowVersion int, updatedAt time.Time) (bool, error) {
	res, err := applyAllocationScript.Run(ctx, c.client.Client(),
		[]string{productKey(id)},
		allocated,
		rowVersion,
		updatedAt.UTC().Format(time.RFC3339Nano),
		int(ProductCacheTTL.Seconds()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("cache apply allocation: %w", err)
	}
	return res == 1, nil
}

// Delete removes a cached product and its number index.
func (c *ProductCache) Delete(ctx context.Context, id int64, number uuid.UUID) error {
	if err := c.client.Client().Del(ctx, productKey(id), productNumberKey(number)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func productKey(id int64) string {
	return fmt.Sprintf("%s:%d", productKeyPrefix, id)
}

func productNumberKey(number uuid.UUID) string {
	return fmt.Sprintf("%s:%s", productNumberKeyPrefix, number)
}

func parseProduct(vals map[string]string) (*CachedProduct, error) {
	var (
		p   CachedProduct
		err error
	)
	if p.ID, err = strconv.ParseInt(vals["id"], 10, 64); err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	if p.ProductNumber, err = uuid.Parse(vals["product_number"]); err != nil {
		return nil, fmt.Errorf("cache parse product_number: %w", err)
	}
	ints := []struct {
		field string
		dst   *int
	}{
		{"product_type", &p.ProductType},
		{"current_allocated", &p.CurrentAllocated},
		{"max_production_capacity", &p.MaxProductionCapacity},
		{"row_version", &p.RowVersion},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(vals[f.field]); err != nil {
			return nil, fmt.Errorf("cache parse %s: %w", f.field, err)
		}
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, vals["created_at"]); err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, vals["updated_at"]); err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}
	p.Name = vals["name"]
	return &p, nil
}
