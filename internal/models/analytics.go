package models

// Analytics is the aggregated read model served by GET /analytics.
type Analytics struct {
	Overview    AnalyticsOverview    `json:"overview"`
	Products    AnalyticsProducts    `json:"products"`
	Pricing     AnalyticsPricing     `json:"pricing"`
	SupplyChain AnalyticsSupplyChain `json:"supplyChain"`
}

type AnalyticsOverview struct {
	TotalProducts    int `json:"totalProducts"`
	TotalFarmers     int `json:"totalFarmers"`
	TotalWholesalers int `json:"totalWholesalers"`
	TotalRetailers   int `json:"totalRetailers"`
	TotalConsumers   int `json:"totalConsumers"`
	TotalUsers       int `json:"totalUsers"`
}

type AnalyticsProducts struct {
	StatusBreakdown   map[string]int `json:"statusBreakdown"`
	CategoryBreakdown map[string]int `json:"categoryBreakdown"`
	RegionalBreakdown map[string]int `json:"regionalBreakdown"`
}

type AnalyticsPricing struct {
	AveragePrices map[string]float64 `json:"averagePrices"`
	// Display placeholder, not derived from data.
	PriceTransparency int `json:"priceTransparency"`
}

// AnalyticsSupplyChain carries display placeholders, not derived metrics.
type AnalyticsSupplyChain struct {
	AverageDays      float64 `json:"averageDays"`
	QualityRetention int     `json:"qualityRetention"`
	Efficiency       int     `json:"efficiency"`
}
