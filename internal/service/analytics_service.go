package service

import (
	"context"
	"strings"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
)

// AnalyticsService summarizes the catalog and profile stores in a single
// read-only pass.
type AnalyticsService struct {
	productRepo *repository.ProductRepository
	profileRepo *repository.ProfileRepository
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(productRepo *repository.ProductRepository, profileRepo *repository.ProfileRepository) *AnalyticsService {
	return &AnalyticsService{productRepo: productRepo, profileRepo: profileRepo}
}

// Aggregate builds the analytics read model. The status histogram counts only
// the fixed bucket set below; other statuses are not represented, retained
// as-is from the source system. The supplyChain block and priceTransparency
// are display placeholders.
func (s *AnalyticsService) Aggregate(ctx context.Context) (*models.Analytics, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	overview := models.AnalyticsOverview{
		TotalProducts: len(products),
		TotalUsers:    len(profiles),
	}
	for i := range profiles {
		switch profiles[i].UserType {
		case models.RoleFarmer:
			overview.TotalFarmers++
		case models.RoleWholesaler:
			overview.TotalWholesalers++
		case models.RoleRetailer:
			overview.TotalRetailers++
		case models.RoleConsumer:
			overview.TotalConsumers++
		}
	}

	statusBreakdown := map[string]int{
		"Ready for Pickup":       0,
		"In Transit":             0,
		"Available for Purchase": 0,
		"Delivered":              0,
	}
	categoryBreakdown := map[string]int{}
	regionalBreakdown := map[string]int{}
	priceSums := map[string]float64{}
	priceCounts := map[string]int{}

	for i := range products {
		p := &products[i]

		if _, ok := statusBreakdown[string(p.Status)]; ok {
			statusBreakdown[string(p.Status)]++
		}

		if p.Category != "" {
			categoryBreakdown[p.Category]++
		}

		// City-level bucketing: first comma-delimited token of the location.
		city := strings.TrimSpace(strings.SplitN(p.Location, ",", 2)[0])
		regionalBreakdown[city]++

		if p.Name != "" && p.Price > 0 {
			priceSums[p.Name] += p.Price
			priceCounts[p.Name]++
		}
	}

	averagePrices := make(map[string]float64, len(priceSums))
	for name, sum := range priceSums {
		averagePrices[name] = sum / float64(priceCounts[name])
	}

	return &models.Analytics{
		Overview: overview,
		Products: models.AnalyticsProducts{
			StatusBreakdown:   statusBreakdown,
			CategoryBreakdown: categoryBreakdown,
			RegionalBreakdown: regionalBreakdown,
		},
		Pricing: models.AnalyticsPricing{
			AveragePrices:     averagePrices,
			PriceTransparency: 97,
		},
		SupplyChain: models.AnalyticsSupplyChain{
			AverageDays:      3.2,
			QualityRetention: 94,
			Efficiency:       85,
		},
	}, nil
}
