package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
)

// productTTL bounds staleness between a write and the explicit invalidation
// that follows it.
const productTTL = 5 * time.Minute

// ProductCache caches product reads with a double-key strategy.
// Primary key: product:{productId} holds the serialized product.
// Secondary key: product:qr:{qrCode} holds the product ID, so QR lookups can
// skip the full catalog scan on a hit.
type ProductCache struct {
	redis *RedisClient
}

// NewProductCache creates a new ProductCache.
func NewProductCache(redis *RedisClient) *ProductCache {
	return &ProductCache{redis: redis}
}

func (c *ProductCache) keyByID(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}

func (c *ProductCache) keyByQR(qrCode string) string {
	return fmt.Sprintf("product:qr:%s", qrCode)
}

// Set stores a product under both keys.
func (c *ProductCache) Set(ctx context.Context, product *models.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := c.redis.Set(ctx, c.keyByID(product.ID), string(raw), productTTL); err != nil {
		return fmt.Errorf("failed to set primary key: %w", err)
	}
	if err := c.redis.Set(ctx, c.keyByQR(product.QRCode), product.ID, productTTL); err != nil {
		return fmt.Errorf("failed to set qr key: %w", err)
	}
	return nil
}

// Get retrieves a product by ID. Returns a redis.Nil-wrapped error on miss.
func (c *ProductCache) Get(ctx context.Context, productID string) (*models.Product, error) {
	raw, err := c.redis.Get(ctx, c.keyByID(productID))
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

// GetIDByQR resolves a QR code to a product ID.
func (c *ProductCache) GetIDByQR(ctx context.Context, qrCode string) (string, error) {
	return c.redis.Get(ctx, c.keyByQR(qrCode))
}

// Invalidate drops the primary key after a product mutation. The QR mapping
// is left in place: QR code to ID never changes for a product.
func (c *ProductCache) Invalidate(ctx context.Context, productID string) error {
	return c.redis.Delete(ctx, c.keyByID(productID))
}
