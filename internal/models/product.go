package models

import (
	"strings"
	"time"
)

type ProductStatus string

const (
	StatusAvailable            ProductStatus = "Available"
	StatusInTransit            ProductStatus = "In Transit"
	StatusAvailableForPurchase ProductStatus = "Available for Purchase"
	StatusDelivered            ProductStatus = "Delivered"
	StatusSold                 ProductStatus = "Sold"
)

// Supply-chain event statuses.
const (
	EventCompleted = "completed"
	EventCurrent   = "current"
	EventPending   = "pending"
)

// Tracking stages with special status transitions. Any other stage moves the
// product to In Transit.
const (
	StageFarm     = "Farm"
	StageRetail   = "Retail"
	StageConsumer = "Consumer"
	StagePurchase = "Purchase"
)

// StatusForStage returns the product status implied by recording a tracking
// event with the given stage. Matching is exact and case-sensitive.
func StatusForStage(stage string) ProductStatus {
	switch stage {
	case StageConsumer:
		return StatusDelivered
	case StageRetail:
		return StatusAvailableForPurchase
	default:
		return StatusInTransit
	}
}

// SupplyChainEvent is one append-only entry in a product's movement history.
type SupplyChainEvent struct {
	Stage         string    `json:"stage"`
	Location      string    `json:"location"`
	Date          string    `json:"date"` // YYYY-MM-DD
	Status        string    `json:"status"`
	UpdatedBy     string    `json:"updatedBy"`
	UpdatedByName string    `json:"updatedByName"`
	Timestamp     time.Time `json:"timestamp"`
	Notes         string    `json:"notes"`
}

// Product is a tracked produce listing. farmerId/farmerName are set only when
// the listing creator is a farmer; addedBy always identifies the creator.
type Product struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Category        string             `json:"category"`
	HarvestDate     string             `json:"harvestDate"`
	Quantity        float64            `json:"quantity"` // kg
	Price           float64            `json:"price"`    // final selling price
	OriginalPrice   float64            `json:"originalPrice"`
	HandlingCharge  float64            `json:"handlingCharge"`
	Quality         string             `json:"quality"`
	Description     string             `json:"description,omitempty"`
	ImageURL        *string            `json:"imageUrl"`
	FarmerID        *string            `json:"farmerId"`
	FarmerName      *string            `json:"farmerName"`
	AddedBy         string             `json:"addedBy"`
	AddedByName     string             `json:"addedByName"`
	AddedByType     Role               `json:"addedByType"`
	Location        string             `json:"location"`
	Status          ProductStatus      `json:"status"`
	CurrentLocation string             `json:"currentLocation"`
	BlockchainHash  string             `json:"blockchainHash"`
	QRCode          string             `json:"qrCode"`
	CreatedAt       time.Time          `json:"createdAt"`
	SupplyChain     []SupplyChainEvent `json:"supplyChain"`
}

// SellerIdentity returns the identity and display name credited as seller on
// a purchase: the farmer when the product is farmer-listed, otherwise the
// reseller who added it.
func (p *Product) SellerIdentity() (string, string) {
	if p.FarmerID != nil && *p.FarmerID != "" {
		name := ""
		if p.FarmerName != nil {
			name = *p.FarmerName
		}
		return *p.FarmerID, name
	}
	return p.AddedBy, p.AddedByName
}

// DisplaySellerName is the creator name used for search matching: the farmer
// name for farmer listings, else the reseller name.
func (p *Product) DisplaySellerName() string {
	if p.FarmerName != nil && *p.FarmerName != "" {
		return *p.FarmerName
	}
	return p.AddedByName
}

// ProductFilter holds the optional listing filters.
type ProductFilter struct {
	Category string
	Location string // case-insensitive substring
	Status   string
}

// Matches reports whether the product passes every provided filter.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) {
		return false
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
