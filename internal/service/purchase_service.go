package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// defaultCapacity is the defensive fallback when a product record carries no
// usable quantity, kept from the source system.
const defaultCapacity = 100

// deliveryLeadTime is the fixed expected-delivery offset.
const deliveryLeadTime = 3 * 24 * time.Hour

// PurchaseService validates and records purchases against catalog state.
type PurchaseService struct {
	purchaseRepo *repository.PurchaseRepository
	productRepo  *repository.ProductRepository
	profileRepo  *repository.ProfileRepository
	cache        ProductCache
}

// NewPurchaseService constructs a PurchaseService. cache may be nil.
func NewPurchaseService(purchaseRepo *repository.PurchaseRepository, productRepo *repository.ProductRepository, profileRepo *repository.ProfileRepository, cache ProductCache) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		profileRepo:  profileRepo,
		cache:        cache,
	}
}

// Purchase executes a buy: role gate, availability and quantity checks, unit
// price snapshot, supply-chain append, and a conditional quantity decrement.
// The product mutation is a compare-and-swap retried under contention so two
// concurrent purchases cannot both decrement from the same snapshot.
//
// totalPrice is recorded as submitted; it is not verified against
// quantity * unit price.
func (s *PurchaseService) Purchase(ctx context.Context, buyerID, productID string, quantity float64, deliveryAddress string, totalPrice float64) (*models.Purchase, *models.Product, error) {
	buyer, err := s.profileRepo.Get(ctx, buyerID)
	if err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return nil, nil, utils.ErrProfileNotFound
		}
		return nil, nil, err
	}

	if !models.CapabilityFor(buyer.UserType).CanPurchase {
		return nil, nil, utils.ErrFarmerCannotPurchase
	}
	if quantity <= 0 {
		return nil, nil, utils.ErrMissingFields
	}

	now := time.Now()
	purchaseID := utils.GeneratePurchaseID()

	var product *models.Product
	var purchase *models.Purchase
	for attempt := 0; attempt < casRetries; attempt++ {
		var version int64
		product, version, err = s.productRepo.GetVersioned(ctx, productID)
		if err != nil {
			if errors.Is(err, utils.ErrKeyNotFound) {
				return nil, nil, utils.ErrProductNotFound
			}
			return nil, nil, err
		}

		if product.Status == models.StatusSold || product.Status == models.StatusDelivered {
			return nil, nil, utils.ErrProductUnavailable
		}

		available := product.Quantity
		if available <= 0 {
			available = defaultCapacity
		}
		if quantity > available {
			return nil, nil, fmt.Errorf("only %g kg available: %w", available, utils.ErrInsufficientQuantity)
		}

		sellerID, sellerName := product.SellerIdentity()
		purchase = &models.Purchase{
			ID:               purchaseID,
			ProductID:        productID,
			ProductName:      product.Name,
			BuyerID:          buyer.ID,
			BuyerName:        buyer.Name,
			BuyerType:        buyer.UserType,
			SellerID:         sellerID,
			SellerName:       sellerName,
			Quantity:         quantity,
			PricePerKg:       product.Price, // snapshot of the current price
			TotalPrice:       totalPrice,
			DeliveryAddress:  deliveryAddress,
			Status:           models.PurchaseConfirmed,
			PurchaseDate:     now,
			ExpectedDelivery: now.Add(deliveryLeadTime),
			CreatedAt:        now,
		}

		product.Quantity = available - quantity
		if product.Quantity <= 0 {
			product.Status = models.StatusSold
		}
		product.SupplyChain = append(product.SupplyChain, models.SupplyChainEvent{
			Stage:         models.StagePurchase,
			Location:      deliveryAddress,
			Date:          now.Format("2006-01-02"),
			Status:        models.EventCompleted,
			UpdatedBy:     buyer.ID,
			UpdatedByName: buyer.Name,
			Timestamp:     now,
			Notes:         fmt.Sprintf("Purchased by %s (%s)", buyer.Name, buyer.UserType),
		})

		err = s.productRepo.SaveVersioned(ctx, product, version)
		if err == nil {
			break
		}
		if !errors.Is(err, utils.ErrVersionConflict) {
			return nil, nil, err
		}
	}
	if err != nil {
		return nil, nil, err
	}

	if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
		return nil, nil, err
	}
	if err := s.purchaseRepo.AppendBuyerIndex(ctx, purchase.BuyerID, purchaseID); err != nil {
		return nil, nil, err
	}
	if err := s.purchaseRepo.AppendSellerIndex(ctx, purchase.SellerID, purchaseID); err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, productID); err != nil {
			log.Debug().Err(err).Str("product_id", productID).Msg("product cache invalidate failed")
		}
	}

	log.Info().
		Str("purchase_id", purchaseID).
		Str("product_id", productID).
		Str("buyer_id", buyer.ID).
		Float64("quantity", quantity).
		Msg("purchase recorded")
	return purchase, product, nil
}

// History returns the caller's purchase history, newest first: sales for
// farmers (sellers), purchases for everyone else.
func (s *PurchaseService) History(ctx context.Context, userID string) ([]models.Purchase, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return nil, utils.ErrProfileNotFound
		}
		return nil, err
	}

	var purchases []models.Purchase
	if models.CapabilityFor(profile.UserType).IsSeller {
		purchases, err = s.purchaseRepo.ListBySeller(ctx, userID)
	} else {
		purchases, err = s.purchaseRepo.ListByBuyer(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].PurchaseDate.After(purchases[j].PurchaseDate)
	})
	return purchases, nil
}
