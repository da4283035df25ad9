package repository

import (
	"context"
	"errors"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// PurchaseRepository persists purchases under purchase_{id} plus two index
// lists: buyer_purchases_{buyerId} and seller_sales_{sellerId}.
type PurchaseRepository struct {
	store Store
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(store Store) *PurchaseRepository {
	return &PurchaseRepository{store: store}
}

// Save persists a purchase record.
func (r *PurchaseRepository) Save(ctx context.Context, purchase *models.Purchase) error {
	return r.store.Set(ctx, keyPurchase+purchase.ID, purchase)
}

// Get returns a purchase by ID, or utils.ErrKeyNotFound.
func (r *PurchaseRepository) Get(ctx context.Context, purchaseID string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.store.Get(ctx, keyPurchase+purchaseID, &purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

// AppendBuyerIndex records a purchase ID in the buyer's history list.
func (r *PurchaseRepository) AppendBuyerIndex(ctx context.Context, buyerID, purchaseID string) error {
	return appendToList(ctx, r.store, keyBuyerPurchases+buyerID, purchaseID)
}

// AppendSellerIndex records a purchase ID in the seller's sales list.
func (r *PurchaseRepository) AppendSellerIndex(ctx context.Context, sellerID, purchaseID string) error {
	return appendToList(ctx, r.store, keySellerSales+sellerID, purchaseID)
}

// ListByBuyer dereferences the buyer's purchase index. Missing records are
// skipped: orphaned index entries are tolerated rather than surfaced.
func (r *PurchaseRepository) ListByBuyer(ctx context.Context, buyerID string) ([]models.Purchase, error) {
	return r.resolveIndex(ctx, keyBuyerPurchases+buyerID)
}

// ListBySeller dereferences the seller's sales index, skipping missing records.
func (r *PurchaseRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Purchase, error) {
	return r.resolveIndex(ctx, keySellerSales+sellerID)
}

func (r *PurchaseRepository) resolveIndex(ctx context.Context, key string) ([]models.Purchase, error) {
	var ids []string
	if err := r.store.Get(ctx, key, &ids); err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return []models.Purchase{}, nil
		}
		return nil, err
	}

	purchases := make([]models.Purchase, 0, len(ids))
	for _, id := range ids {
		var p models.Purchase
		err := r.store.Get(ctx, keyPurchase+id, &p)
		if errors.Is(err, utils.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}

// appendToList appends an ID to a stored string list, creating it if absent.
func appendToList(ctx context.Context, store Store, key, id string) error {
	var ids []string
	if err := store.Get(ctx, key, &ids); err != nil && !errors.Is(err, utils.ErrKeyNotFound) {
		return err
	}
	ids = append(ids, id)
	return store.Set(ctx, key, ids)
}
