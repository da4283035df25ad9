package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
)

// ProductRepository persists products under product_{id} plus a per-creator
// index list {role}_products_{userId}.
type ProductRepository struct {
	store Store
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(store Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// Save persists a product unconditionally (last write wins).
func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	return r.store.Set(ctx, keyProduct+product.ID, product)
}

// SaveVersioned persists a product only if it is still at the given version.
func (r *ProductRepository) SaveVersioned(ctx context.Context, product *models.Product, version int64) error {
	return r.store.SetVersioned(ctx, keyProduct+product.ID, product, version)
}

// Get returns a product by ID, or utils.ErrKeyNotFound.
func (r *ProductRepository) Get(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := r.store.Get(ctx, keyProduct+productID, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetVersioned returns a product together with its store version, for use in
// read-modify-write cycles.
func (r *ProductRepository) GetVersioned(ctx context.Context, productID string) (*models.Product, int64, error) {
	var product models.Product
	version, err := r.store.GetVersioned(ctx, keyProduct+productID, &product)
	if err != nil {
		return nil, 0, err
	}
	return &product, version, nil
}

// List returns every stored product via prefix scan.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	raws, err := r.store.GetByPrefix(ctx, keyProduct)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		var p models.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// AppendCreatorIndex adds a product ID to the creator's per-role listing
// index. The list is read-modify-write without versioning, matching the weak
// consistency the index contract tolerates.
func (r *ProductRepository) AppendCreatorIndex(ctx context.Context, role models.Role, userID, productID string) error {
	key := fmt.Sprintf("%s_products_%s", role, userID)
	return appendToList(ctx, r.store, key, productID)
}
