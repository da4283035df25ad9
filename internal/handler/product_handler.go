package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/service"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// ProductHandler handles catalog and supply-chain tracking endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProduct creates a listing from multipart form fields, with an
// optional productImage file.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	quantity, err := strconv.ParseFloat(c.PostForm("quantity"), 64)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "quantity must be a number")
		return
	}
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "price must be a number")
		return
	}

	in := service.CreateProductInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		HarvestDate: c.PostForm("harvestDate"),
		Quantity:    quantity,
		Price:       price,
		Quality:     c.PostForm("quality"),
		Description: c.PostForm("description"),
	}

	if raw := c.PostForm("handlingCharge"); raw != "" {
		charge, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "handlingCharge must be a number")
			return
		}
		in.HandlingCharge = charge
	}

	if fileHeader, err := c.FormFile("productImage"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "could not read product image")
			return
		}
		defer file.Close()
		in.Image = &service.ProductImage{
			Body:        file,
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}
	}

	product, err := h.productService.Create(c.Request.Context(), c.GetString("user_id"), in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"message": "Product created successfully",
	})
}

// ListProducts returns the filtered, paginated catalog.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page := 1
	limit := 10
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	filter := models.ProductFilter{
		Category: c.Query("category"),
		Location: c.Query("location"),
		Status:   c.Query("status"),
	}

	products, total, err := h.productService.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + limit - 1) / limit,
	})
}

// GetProduct returns one product by ID.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetByQRCode resolves a scanned QR code to its product.
func (h *ProductHandler) GetByQRCode(c *gin.Context) {
	product, err := h.productService.GetByQRCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// TrackProduct appends a supply-chain event to a product.
func (h *ProductHandler) TrackProduct(c *gin.Context) {
	var req struct {
		Stage    string `json:"stage" binding:"required"`
		Location string `json:"location" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.RecordTrackingEvent(c.Request.Context(),
		c.GetString("user_id"), c.Param("id"), req.Stage, req.Location, req.Notes)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"message": "Product tracking updated successfully",
	})
}
