package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
)

// testEnv wires the service layer over an in-memory store.
type testEnv struct {
	store        *repository.MemoryStore
	profileRepo  *repository.ProfileRepository
	productRepo  *repository.ProductRepository
	purchaseRepo *repository.PurchaseRepository

	auth      *AuthService
	products  *ProductService
	purchases *PurchaseService
	analytics *AnalyticsService
	search    *SearchService
}

func newTestEnv() *testEnv {
	store := repository.NewMemoryStore()
	profileRepo := repository.NewProfileRepository(store)
	productRepo := repository.NewProductRepository(store)
	purchaseRepo := repository.NewPurchaseRepository(store)

	return &testEnv{
		store:        store,
		profileRepo:  profileRepo,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		auth:         NewAuthService(profileRepo),
		products:     NewProductService(productRepo, profileRepo, nil, nil),
		purchases:    NewPurchaseService(purchaseRepo, productRepo, profileRepo, nil),
		analytics:    NewAnalyticsService(productRepo, profileRepo),
		search:       NewSearchService(productRepo),
	}
}

var profileSeq int

// seedProfile stores a profile directly, bypassing the signup flow.
func seedProfile(t *testing.T, env *testEnv, role models.Role, name, location string) *models.UserProfile {
	t.Helper()
	profileSeq++
	profile := &models.UserProfile{
		ID:            fmt.Sprintf("%s-%d", role, profileSeq),
		Email:         fmt.Sprintf("%s%d@example.com", role, profileSeq),
		Name:          name,
		UserType:      role,
		Location:      location,
		AadhaarNumber: fmt.Sprintf("%012d", 100000000000+profileSeq),
		Verified:      true,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, env.profileRepo.Save(context.Background(), profile))
	return profile
}

// seedProduct creates a product through the service for the given creator.
func seedProduct(t *testing.T, env *testEnv, creator *models.UserProfile, in CreateProductInput) *models.Product {
	t.Helper()
	product, err := env.products.Create(context.Background(), creator.ID, in)
	require.NoError(t, err)
	return product
}

func tomatoInput() CreateProductInput {
	return CreateProductInput{
		Name:        "Organic Tomatoes",
		Category:    "Vegetables",
		HarvestDate: "2026-08-20",
		Quantity:    100,
		Price:       45,
		Quality:     "Grade A",
	}
}
