package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePurchase(t *testing.T) {
	ts := newTestServer(t)
	farmerToken, farmerID := ts.signup(t, "farmer", "Ravi Kumar")
	buyerToken, buyerID := ts.signup(t, "consumer", "Meena Iyer")
	productID := ts.createProduct(t, farmerToken, tomatoForm())

	w := ts.doJSON(t, http.MethodPost, "/purchase", buyerToken, gin.H{
		"productId":       productID,
		"quantity":        30,
		"deliveryAddress": "12 MG Road, Mumbai",
		"totalPrice":      1350,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Purchase struct {
			ID        string  `json:"id"`
			BuyerID   string  `json:"buyerId"`
			SellerID  string  `json:"sellerId"`
			Quantity  float64 `json:"quantity"`
			Status    string  `json:"status"`
			PricePerK float64 `json:"pricePerKg"`
		} `json:"purchase"`
		Product struct {
			Quantity float64 `json:"quantity"`
			Status   string  `json:"status"`
		} `json:"product"`
		Message string `json:"message"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, "Product purchased successfully", resp.Message)
	assert.Equal(t, buyerID, resp.Purchase.BuyerID)
	assert.Equal(t, farmerID, resp.Purchase.SellerID)
	assert.Equal(t, 30.0, resp.Purchase.Quantity)
	assert.Equal(t, "Confirmed", resp.Purchase.Status)
	assert.Equal(t, 45.0, resp.Purchase.PricePerK)
	assert.Equal(t, 70.0, resp.Product.Quantity)
	assert.Equal(t, "Available", resp.Product.Status)
}

func TestCreatePurchaseErrors(t *testing.T) {
	ts := newTestServer(t)
	farmerToken, _ := ts.signup(t, "farmer", "Ravi Kumar")
	buyerToken, _ := ts.signup(t, "consumer", "Meena Iyer")
	productID := ts.createProduct(t, farmerToken, tomatoForm())

	// Farmers may not purchase.
	w := ts.doJSON(t, http.MethodPost, "/purchase", farmerToken, gin.H{
		"productId":       productID,
		"quantity":        10,
		"deliveryAddress": "Farm gate",
		"totalPrice":      450,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// More than is in stock.
	w = ts.doJSON(t, http.MethodPost, "/purchase", buyerToken, gin.H{
		"productId":       productID,
		"quantity":        500,
		"deliveryAddress": "12 MG Road, Mumbai",
		"totalPrice":      22500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown product.
	w = ts.doJSON(t, http.MethodPost, "/purchase", buyerToken, gin.H{
		"productId":       "PR999999",
		"quantity":        10,
		"deliveryAddress": "12 MG Road, Mumbai",
		"totalPrice":      450,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Zero quantity fails binding.
	w = ts.doJSON(t, http.MethodPost, "/purchase", buyerToken, gin.H{
		"productId":       productID,
		"quantity":        0,
		"deliveryAddress": "12 MG Road, Mumbai",
		"totalPrice":      450,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPurchasesByRole(t *testing.T) {
	ts := newTestServer(t)
	farmerToken, _ := ts.signup(t, "farmer", "Ravi Kumar")
	buyerToken, _ := ts.signup(t, "consumer", "Meena Iyer")
	productID := ts.createProduct(t, farmerToken, tomatoForm())

	w := ts.doJSON(t, http.MethodPost, "/purchase", buyerToken, gin.H{
		"productId":       productID,
		"quantity":        20,
		"deliveryAddress": "12 MG Road, Mumbai",
		"totalPrice":      900,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		Purchases []struct {
			ProductID string `json:"productId"`
		} `json:"purchases"`
	}

	// Buyers see their purchases.
	w = ts.doJSON(t, http.MethodGet, "/purchases", buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &history)
	require.Len(t, history.Purchases, 1)
	assert.Equal(t, productID, history.Purchases[0].ProductID)

	// Farmers see their sales on the same endpoint.
	w = ts.doJSON(t, http.MethodGet, "/purchases", farmerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &history)
	assert.Len(t, history.Purchases, 1)
}
