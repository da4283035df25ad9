package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
)

func TestAggregate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	farmer := seedProfile(t, env, models.RoleFarmer, "Ravi Kumar", "Nashik, Maharashtra")
	wholesaler := seedProfile(t, env, models.RoleWholesaler, "Anita Desai", "Pune, Maharashtra")
	seedProfile(t, env, models.RoleRetailer, "Suresh Patel", "Mumbai, Maharashtra")
	seedProfile(t, env, models.RoleConsumer, "Meena Iyer", "Mumbai, Maharashtra")

	// Two tomato batches from Nashik at 40 and 50, one rice batch from Pune.
	in := tomatoInput()
	in.Price = 40
	seedProduct(t, env, farmer, in)
	in = tomatoInput()
	in.Price = 50
	seedProduct(t, env, farmer, in)

	rice := tomatoInput()
	rice.Name = "Basmati Rice"
	rice.Category = "Grains"
	rice.Price = 80
	rice.HandlingCharge = 5
	riceProduct := seedProduct(t, env, wholesaler, rice)

	// Move the rice batch to the retail stage so one listing lands in a
	// counted status bucket.
	_, err := env.products.RecordTrackingEvent(ctx, wholesaler.ID, riceProduct.ID, "Retail", "Mumbai Market", "")
	require.NoError(t, err)

	a, err := env.analytics.Aggregate(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, a.Overview.TotalProducts)
	assert.Equal(t, 4, a.Overview.TotalUsers)
	assert.Equal(t, 1, a.Overview.TotalFarmers)
	assert.Equal(t, 1, a.Overview.TotalWholesalers)
	assert.Equal(t, 1, a.Overview.TotalRetailers)
	assert.Equal(t, 1, a.Overview.TotalConsumers)

	// New listings start as Available, which is outside the fixed bucket
	// set; only the tracked rice batch is counted.
	assert.Equal(t, map[string]int{
		"Ready for Pickup":       0,
		"In Transit":             0,
		"Available for Purchase": 1,
		"Delivered":              0,
	}, a.Products.StatusBreakdown)

	assert.Equal(t, map[string]int{"Vegetables": 2, "Grains": 1}, a.Products.CategoryBreakdown)

	// Regional buckets use the city token of the seller's location.
	assert.Equal(t, 2, a.Products.RegionalBreakdown["Nashik"])
	assert.Equal(t, 1, a.Products.RegionalBreakdown["Pune"])

	assert.InDelta(t, 45.0, a.Pricing.AveragePrices["Organic Tomatoes"], 0.001)
	assert.InDelta(t, 85.0, a.Pricing.AveragePrices["Basmati Rice"], 0.001)

	assert.Equal(t, 97, a.Pricing.PriceTransparency)
	assert.InDelta(t, 3.2, a.SupplyChain.AverageDays, 0.001)
	assert.Equal(t, 94, a.SupplyChain.QualityRetention)
	assert.Equal(t, 85, a.SupplyChain.Efficiency)
}

func TestAggregateEmptyStore(t *testing.T) {
	env := newTestEnv()

	a, err := env.analytics.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Zero(t, a.Overview.TotalProducts)
	assert.Zero(t, a.Overview.TotalUsers)
	assert.Empty(t, a.Products.CategoryBreakdown)
	assert.Empty(t, a.Products.RegionalBreakdown)
	assert.Empty(t, a.Pricing.AveragePrices)
	// Fixed buckets are always present, even with nothing to count.
	assert.Len(t, a.Products.StatusBreakdown, 4)
}
