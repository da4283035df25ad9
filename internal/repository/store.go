package repository

import (
	"context"
	"encoding/json"
)

// Store is the flat key-value persistence boundary. It offers point get/set,
// prefix scan, and an optimistic compare-and-swap via per-key versions; no
// transactions and no secondary indexes.
//
// Versions start at 1 on first write and increment on every subsequent write.
// SetVersioned with expectedVersion 0 asserts the key does not exist yet.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	GetVersioned(ctx context.Context, key string, dest interface{}) (int64, error)
	Set(ctx context.Context, key string, value interface{}) error
	SetVersioned(ctx context.Context, key string, value interface{}, expectedVersion int64) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)
	Ping(ctx context.Context) error
}

// Key prefixes. The flat keyspace is partitioned by entity type; auxiliary
// list keys act as the only form of indexing the store supports.
const (
	keyUser           = "user_"
	keyAuth           = "auth_"
	keyProduct        = "product_"
	keyPurchase       = "purchase_"
	keyBuyerPurchases = "buyer_purchases_"
	keySellerSales    = "seller_sales_"
)
