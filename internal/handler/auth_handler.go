package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartbhoomi/smartbhoomi-api/internal/middleware"
	"github.com/smartbhoomi/smartbhoomi-api/internal/models"
	"github.com/smartbhoomi/smartbhoomi-api/internal/service"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// AuthHandler handles sign-up, sign-in, and profile retrieval.
type AuthHandler struct {
	authService *service.AuthService
	limiter     *middleware.InvalidAuthRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, limiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required,email"`
		Password      string `json:"password" binding:"required,min=6"`
		Name          string `json:"name" binding:"required"`
		UserType      string `json:"userType" binding:"required"`
		Location      string `json:"location" binding:"required"`
		AadhaarNumber string `json:"aadhaarNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.authService.SignUp(c.Request.Context(),
		req.Email, req.Password, req.Name, models.Role(req.UserType), req.Location, req.AadhaarNumber)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    profile,
		"message": "User created successfully",
	})
}

// Signin verifies credentials and issues an access token. Repeated failures
// from one IP are rate limited.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	token, profile, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) && !h.limiter.Allow(c.ClientIP()) {
			utils.Error(c, http.StatusTooManyRequests, "too many failed sign-in attempts, try again later")
			return
		}
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        profile,
	})
}

// GetProfile returns the authenticated caller's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile, err := h.authService.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}
