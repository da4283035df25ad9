package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartbhoomi/smartbhoomi-api/internal/service"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// PurchaseHandler handles purchase creation and history.
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler constructs a PurchaseHandler.
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// CreatePurchase executes a purchase for the authenticated buyer.
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req struct {
		ProductID       string  `json:"productId" binding:"required"`
		Quantity        float64 `json:"quantity" binding:"required,gt=0"`
		DeliveryAddress string  `json:"deliveryAddress" binding:"required"`
		TotalPrice      float64 `json:"totalPrice" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	purchase, product, err := h.purchaseService.Purchase(c.Request.Context(),
		c.GetString("user_id"), req.ProductID, req.Quantity, req.DeliveryAddress, req.TotalPrice)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase": purchase,
		"product":  product,
		"message":  "Product purchased successfully",
	})
}

// ListPurchases returns the caller's purchase history (sales for farmers).
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.purchaseService.History(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}
