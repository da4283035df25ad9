package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smartbhoomi/smartbhoomi-api/internal/cache"
	"github.com/smartbhoomi/smartbhoomi-api/internal/config"
	"github.com/smartbhoomi/smartbhoomi-api/internal/database"
	"github.com/smartbhoomi/smartbhoomi-api/internal/handler"
	"github.com/smartbhoomi/smartbhoomi-api/internal/middleware"
	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
	"github.com/smartbhoomi/smartbhoomi-api/internal/service"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// main is the application entrypoint for the SmartBhoomi supply-chain API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting smartbhoomi api")

	utils.InitJWT(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	productCache := cache.NewProductCache(redisClient)

	// 4. Initialize store and repositories
	store := repository.NewPostgresStore(db)
	profileRepo := repository.NewProfileRepository(store)
	productRepo := repository.NewProductRepository(store)
	purchaseRepo := repository.NewPurchaseRepository(store)

	// 5. Initialize S3 service for product images
	s3Svc, err := service.NewS3Service(context.Background(), &cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("S3 service initialization failed - product image upload will be disabled")
	}

	// 6. Initialize services
	authSvc := service.NewAuthService(profileRepo)
	var objects service.ObjectStore
	if s3Svc != nil {
		objects = s3Svc
	}
	productSvc := service.NewProductService(productRepo, profileRepo, productCache, objects)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo, profileRepo, productCache)
	analyticsSvc := service.NewAnalyticsService(productRepo, profileRepo)
	searchSvc := service.NewSearchService(productRepo)

	// 7. Initialize handlers
	authLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(store),
		Auth:      handler.NewAuthHandler(authSvc, authLimiter),
		Product:   handler.NewProductHandler(productSvc),
		Purchase:  handler.NewPurchaseHandler(purchaseSvc),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Search:    handler.NewSearchHandler(searchSvc),
	}

	// 8. Initialize middleware
	authMw := middleware.NewAuthMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Purchase  *handler.PurchaseHandler
	Analytics *handler.AnalyticsHandler
	Search    *handler.SearchHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware) {
	// Public routes
	router.GET("/health", handlers.Health.GetHealth)
	router.POST("/signup", handlers.Auth.Signup)
	router.POST("/signin", handlers.Auth.Signin)
	router.GET("/products", handlers.Product.ListProducts)
	router.GET("/products/:id", handlers.Product.GetProduct)
	router.GET("/search", handlers.Search.Search)
	router.GET("/qr/:code", handlers.Product.GetByQRCode)

	// Authenticated routes (bearer token)
	auth := router.Group("/")
	auth.Use(authMiddleware.Handle())
	{
		auth.GET("/profile", handlers.Auth.GetProfile)
		auth.POST("/products", handlers.Product.CreateProduct)
		auth.POST("/products/:id/track", handlers.Product.TrackProduct)
		auth.GET("/analytics", handlers.Analytics.GetAnalytics)
		auth.POST("/purchase", handlers.Purchase.CreatePurchase)
		auth.GET("/purchases", handlers.Purchase.ListPurchases)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
