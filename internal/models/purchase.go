package models

import "time"

// PurchaseConfirmed is the only purchase status issued in the current flow.
const PurchaseConfirmed = "Confirmed"

// Purchase records a completed buy against a product. Immutable once created.
type Purchase struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"productId"`
	ProductName      string    `json:"productName"`
	BuyerID          string    `json:"buyerId"`
	BuyerName        string    `json:"buyerName"`
	BuyerType        Role      `json:"buyerType"`
	SellerID         string    `json:"sellerId"`
	SellerName       string    `json:"sellerName"`
	Quantity         float64   `json:"quantity"`
	PricePerKg       float64   `json:"pricePerKg"` // unit price snapshot at purchase time
	TotalPrice       float64   `json:"totalPrice"`
	DeliveryAddress  string    `json:"deliveryAddress"`
	Status           string    `json:"status"`
	PurchaseDate     time.Time `json:"purchaseDate"`
	ExpectedDelivery time.Time `json:"expectedDelivery"`
	CreatedAt        time.Time `json:"createdAt"`
}
