package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// casRetries bounds optimistic-concurrency retries on product mutation.
const casRetries = 3

// presignExpiry is the longest lifetime SigV4 presigned URLs allow.
const presignExpiry = 7 * 24 * time.Hour

// ProductCache is the read cache consulted for point and QR lookups.
// Implemented by cache.ProductCache; may be nil to disable caching.
type ProductCache interface {
	Set(ctx context.Context, product *models.Product) error
	Get(ctx context.Context, productID string) (*models.Product, error)
	GetIDByQR(ctx context.Context, qrCode string) (string, error)
	Invalidate(ctx context.Context, productID string) error
}

// ObjectStore is the opaque blob store for product images.
// Implemented by S3Service; may be nil to disable image upload.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// ProductImage is an optional uploaded image attached to a new product.
type ProductImage struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

// CreateProductInput carries the submitted listing fields. Price is the
// submitted base price; the final selling price is computed from the
// creator's role.
type CreateProductInput struct {
	Name           string
	Category       string
	HarvestDate    string
	Quantity       float64
	Price          float64
	Quality        string
	Description    string
	HandlingCharge float64
	Image          *ProductImage
}

// ProductService implements the catalog and supply-chain tracker.
type ProductService struct {
	productRepo *repository.ProductRepository
	profileRepo *repository.ProfileRepository
	cache       ProductCache
	objects     ObjectStore
}

// NewProductService constructs a ProductService. cache and objects are
// optional; a nil cache disables read caching and a nil object store
// disables image upload.
func NewProductService(productRepo *repository.ProductRepository, profileRepo *repository.ProfileRepository, cache ProductCache, objects ObjectStore) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		profileRepo: profileRepo,
		cache:       cache,
		objects:     objects,
	}
}

// Create validates and persists a new product listing for the creator.
func (s *ProductService) Create(ctx context.Context, creatorID string, in CreateProductInput) (*models.Product, error) {
	creator, err := s.profileRepo.Get(ctx, creatorID)
	if err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return nil, utils.ErrProfileNotFound
		}
		return nil, err
	}

	if !models.CapabilityFor(creator.UserType).CanCreateProduct {
		return nil, utils.ErrRoleCannotSell
	}

	if in.Name == "" || in.Category == "" || in.HarvestDate == "" ||
		in.Quantity <= 0 || in.Price <= 0 || in.Quality == "" {
		return nil, utils.ErrMissingFields
	}

	isFarmer := creator.UserType == models.RoleFarmer

	// Pricing invariant: farmers sell at their base price; resellers add a
	// handling charge on top of the submitted base price.
	finalPrice := in.Price
	handlingCharge := 0.0
	if !isFarmer {
		if in.HandlingCharge <= 0 {
			return nil, utils.ErrMissingFields
		}
		handlingCharge = in.HandlingCharge
		finalPrice = in.Price + in.HandlingCharge
	}

	now := time.Now()
	productID := utils.GenerateProductID()

	product := &models.Product{
		ID:             productID,
		Name:           in.Name,
		Category:       in.Category,
		HarvestDate:    in.HarvestDate,
		Quantity:       in.Quantity,
		Price:          finalPrice,
		OriginalPrice:  in.Price,
		HandlingCharge: handlingCharge,
		Quality:        in.Quality,
		Description:    in.Description,
		AddedBy:        creator.ID,
		AddedByName:    creator.Name,
		AddedByType:    creator.UserType,
		Location:       creator.Location,
		Status:         models.StatusAvailable,
		BlockchainHash: utils.GenerateBlockchainHash(),
		QRCode:         utils.QRCodeFor(productID),
		CreatedAt:      now,
	}

	stage := models.StageFarm
	verb := "registered"
	if isFarmer {
		product.FarmerID = &creator.ID
		product.FarmerName = &creator.Name
		product.CurrentLocation = fmt.Sprintf("%s's Farm", creator.Name)
	} else {
		stage = capitalize(string(creator.UserType))
		verb = "added"
		product.CurrentLocation = fmt.Sprintf("%s's %s Store", creator.Name, creator.UserType)
	}

	product.SupplyChain = []models.SupplyChainEvent{{
		Stage:         stage,
		Location:      creator.Location,
		Date:          in.HarvestDate,
		Status:        models.EventCompleted,
		UpdatedBy:     creator.ID,
		UpdatedByName: creator.Name,
		Timestamp:     now,
		Notes:         fmt.Sprintf("Product %s by %s (%s)", verb, creator.Name, creator.UserType),
	}}

	if in.Image != nil && s.objects != nil {
		if url, err := s.uploadImage(ctx, productID, in.Image); err != nil {
			// The listing proceeds without an image on upload failure.
			log.Warn().Err(err).Str("product_id", productID).Msg("product image upload failed")
		} else {
			product.ImageURL = &url
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if err := s.productRepo.AppendCreatorIndex(ctx, creator.UserType, creator.ID, productID); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, product)

	log.Info().
		Str("product_id", productID).
		Str("creator_id", creator.ID).
		Str("role", string(creator.UserType)).
		Msg("product created")
	return product, nil
}

func (s *ProductService) uploadImage(ctx context.Context, productID string, img *ProductImage) (string, error) {
	key := fmt.Sprintf("products/%s/%d%s", productID, time.Now().UnixNano(), filepath.Ext(img.Filename))
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.objects.Upload(ctx, key, img.Body, contentType); err != nil {
		return "", err
	}
	return s.objects.PresignGet(ctx, key, presignExpiry)
}

// List returns the filtered catalog page, newest first. total counts the
// whole filtered set, not just the returned page.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter, page, limit int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	all, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]models.Product, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	start := (page - 1) * limit
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

// Get returns a product by ID, consulting the cache first.
func (s *ProductService) Get(ctx context.Context, productID string) (*models.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(ctx, productID); err == nil {
			return p, nil
		}
	}

	product, err := s.productRepo.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	s.cacheSet(ctx, product)
	return product, nil
}

// GetByQRCode resolves a QR code to its product. On a cache miss this is a
// linear scan: QR codes are not part of the key layout.
func (s *ProductService) GetByQRCode(ctx context.Context, qrCode string) (*models.Product, error) {
	if s.cache != nil {
		if id, err := s.cache.GetIDByQR(ctx, qrCode); err == nil {
			return s.Get(ctx, id)
		}
	}

	all, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].QRCode == qrCode {
			s.cacheSet(ctx, &all[i])
			return &all[i], nil
		}
	}
	return nil, utils.ErrProductNotFound
}

// RecordTrackingEvent appends a supply-chain event and applies the stage
// transition rule. The write is a versioned compare-and-swap retried a few
// times under contention.
func (s *ProductService) RecordTrackingEvent(ctx context.Context, actorID, productID, stage, location, notes string) (*models.Product, error) {
	actor, err := s.profileRepo.Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, utils.ErrKeyNotFound) {
			return nil, utils.ErrProfileNotFound
		}
		return nil, err
	}

	var product *models.Product
	for attempt := 0; attempt < casRetries; attempt++ {
		var version int64
		product, version, err = s.productRepo.GetVersioned(ctx, productID)
		if err != nil {
			if errors.Is(err, utils.ErrKeyNotFound) {
				return nil, utils.ErrProductNotFound
			}
			return nil, err
		}

		now := time.Now()
		product.SupplyChain = append(product.SupplyChain, models.SupplyChainEvent{
			Stage:         stage,
			Location:      location,
			Date:          now.Format("2006-01-02"),
			Status:        models.EventCompleted,
			UpdatedBy:     actor.ID,
			UpdatedByName: actor.Name,
			Timestamp:     now,
			Notes:         notes,
		})
		product.CurrentLocation = location
		product.Status = models.StatusForStage(stage)

		err = s.productRepo.SaveVersioned(ctx, product, version)
		if err == nil {
			break
		}
		if !errors.Is(err, utils.ErrVersionConflict) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	s.cacheInvalidate(ctx, productID)
	log.Info().
		Str("product_id", productID).
		Str("stage", stage).
		Str("status", string(product.Status)).
		Msg("tracking event recorded")
	return product, nil
}

func (s *ProductService) cacheSet(ctx context.Context, product *models.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, product); err != nil {
		log.Debug().Err(err).Str("product_id", product.ID).Msg("product cache set failed")
	}
}

func (s *ProductService) cacheInvalidate(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		log.Debug().Err(err).Str("product_id", productID).Msg("product cache invalidate failed")
	}
}

// capitalize upper-cases the first letter, matching stage names like
// "Wholesaler" derived from role values.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
