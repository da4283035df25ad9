package service

import (
	"context"
	"sort"
	"strings"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
)

// maxSearchResults caps the returned slice; the total match count is
// reported alongside it.
const maxSearchResults = 20

// SearchService performs a naive substring search over the catalog.
type SearchService struct {
	productRepo *repository.ProductRepository
}

// NewSearchService constructs a SearchService.
func NewSearchService(productRepo *repository.ProductRepository) *SearchService {
	return &SearchService{productRepo: productRepo}
}

// Search scans every product for a case-insensitive substring hit on name,
// seller name, location, ID, or category. Matches are ranked by a simple
// relevance score (exact name > name prefix > seller-name hit); ties keep
// scan order.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.Product, int, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.Product{}, 0, nil
	}

	all, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	matches := make([]models.Product, 0)
	for i := range all {
		p := &all[i]
		seller := strings.ToLower(p.DisplaySellerName())
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(seller, q) ||
			strings.Contains(strings.ToLower(p.Location), q) ||
			strings.Contains(strings.ToLower(p.ID), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matches = append(matches, *p)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return relevance(&matches[i], q) > relevance(&matches[j], q)
	})

	total := len(matches)
	if total > maxSearchResults {
		matches = matches[:maxSearchResults]
	}
	return matches, total, nil
}

func relevance(p *models.Product, q string) int {
	name := strings.ToLower(p.Name)
	seller := strings.ToLower(p.DisplaySellerName())

	score := 0
	if name == q {
		score += 10
	}
	if strings.HasPrefix(name, q) {
		score += 5
	}
	if strings.Contains(seller, q) {
		score += 3
	}
	return score
}
