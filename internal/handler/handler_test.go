package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/smartbhoomi/smartbhoomi-api/internal/middleware"
	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
	"github.com/smartbhoomi/smartbhoomi-api/internal/service"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// testServer wires the full route table over an in-memory store, mirroring
// the wiring in cmd/api.
type testServer struct {
	router *gin.Engine
	store  *repository.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("test-secret")

	store := repository.NewMemoryStore()
	profileRepo := repository.NewProfileRepository(store)
	productRepo := repository.NewProductRepository(store)
	purchaseRepo := repository.NewPurchaseRepository(store)

	authSvc := service.NewAuthService(profileRepo)
	productSvc := service.NewProductService(productRepo, profileRepo, nil, nil)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo, profileRepo, nil)
	analyticsSvc := service.NewAnalyticsService(productRepo, profileRepo)
	searchSvc := service.NewSearchService(productRepo)

	health := NewHealthHandler(store)
	auth := NewAuthHandler(authSvc, middleware.NewInvalidAuthRateLimiter())
	product := NewProductHandler(productSvc)
	purchase := NewPurchaseHandler(purchaseSvc)
	analytics := NewAnalyticsHandler(analyticsSvc)
	search := NewSearchHandler(searchSvc)

	router := gin.New()
	router.GET("/health", health.GetHealth)
	router.POST("/signup", auth.Signup)
	router.POST("/signin", auth.Signin)
	router.GET("/products", product.ListProducts)
	router.GET("/products/:id", product.GetProduct)
	router.GET("/search", search.Search)
	router.GET("/qr/:code", product.GetByQRCode)

	authed := router.Group("/")
	authed.Use(middleware.NewAuthMiddleware().Handle())
	{
		authed.GET("/profile", auth.GetProfile)
		authed.POST("/products", product.CreateProduct)
		authed.POST("/products/:id/track", product.TrackProduct)
		authed.GET("/analytics", analytics.GetAnalytics)
		authed.POST("/purchase", purchase.CreatePurchase)
		authed.GET("/purchases", purchase.ListPurchases)
	}

	return &testServer{router: router, store: store}
}

// doJSON issues a request with an optional JSON body and bearer token.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// doForm issues a multipart form POST with a bearer token.
func (ts *testServer) doForm(t *testing.T, path, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

var userSeq int

// signup registers a user through the API and signs them in, returning the
// access token and user ID.
func (ts *testServer) signup(t *testing.T, role, name string) (string, string) {
	t.Helper()
	userSeq++
	email := fmt.Sprintf("user%d@example.com", userSeq)

	w := ts.doJSON(t, http.MethodPost, "/signup", "", gin.H{
		"email":         email,
		"password":      "secret123",
		"name":          name,
		"userType":      role,
		"location":      "Nashik, Maharashtra",
		"aadhaarNumber": fmt.Sprintf("%012d", 500000000000+userSeq),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.doJSON(t, http.MethodPost, "/signin", "", gin.H{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken, resp.User.ID
}

func tomatoForm() map[string]string {
	return map[string]string{
		"name":        "Organic Tomatoes",
		"category":    "Vegetables",
		"harvestDate": "2026-08-20",
		"quantity":    "100",
		"price":       "45",
		"quality":     "Grade A",
	}
}

// createProduct lists a product through the API and returns its ID.
func (ts *testServer) createProduct(t *testing.T, token string, fields map[string]string) string {
	t.Helper()
	w := ts.doForm(t, "/products", token, fields)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Product struct {
			ID string `json:"id"`
		} `json:"product"`
	}
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Product.ID)
	return resp.Product.ID
}
