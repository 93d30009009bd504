package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"beadstock/internal/caching"
	"beadstock/internal/handlers"
	"beadstock/internal/jobs"
	"beadstock/internal/jobs/background"
	"beadstock/internal/middleware"
	"beadstock/internal/repositories"
	"beadstock/internal/services"
	"beadstock/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.ClosePool(pool)

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB := 0 // Default DB
	if redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	photoBucket := os.Getenv("MINIO_PHOTO_BUCKET")
	if photoBucket == "" {
		photoBucket = "beadstock-photos"
	}

	// Initialize MinIO service
	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), photoBucket); err != nil {
		log.Printf("WARN: could not ensure photo bucket %s: %v", photoBucket, err)
	}

	// Create repositories
	batchRepo := repositories.NewBatchRepo(pool)
	supplierRepo := repositories.NewSupplierRepo(pool)
	photoRepo := repositories.NewBatchPhotoRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	batchSvc := services.NewBatchService(batchRepo, cacheSvc)
	inventorySvc := services.NewInventoryService(batchSvc)
	purchaseSvc := services.NewPurchaseService()
	supplierSvc := services.NewSupplierService(supplierRepo)
	photoSvc := services.NewPhotoService(photoRepo, batchRepo, minioSvc, photoBucket)

	// Create handlers
	batchHandlers := handlers.NewBatchHandlers(batchSvc, photoSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc)
	purchaseHandlers := handlers.NewPurchaseHandlers(purchaseSvc)
	supplierHandlers := handlers.NewSupplierHandlers(supplierSvc)
	photoHandlers := handlers.NewPhotoHandlers(photoSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	lowStockSvc := jobs.NewLowStockAlertService(inventorySvc, cacheSvc)
	scheduler := background.NewJobScheduler(lowStockSvc, cacheSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("WARN: job scheduler shutdown: %v", err)
		}
	}()

	jobHandlers := handlers.NewJobHandlers(scheduler, lowStockSvc, cacheSvc)

	// JWT validation for all /v1 routes; operator extraction happens in a
	// follow-up middleware.
	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// Protected routes
	v1 := e.Group("/v1")
	v1.Use(middleware.RateLimit(cacheSvc, 300, time.Minute))
	v1.Use(echojwt.WithConfig(jwtConfig))
	v1.Use(middleware.OperatorContext())

	// Batch routes
	v1.GET("/batches", batchHandlers.ListBatches)
	v1.POST("/batches", batchHandlers.CreateBatch)
	v1.GET("/batches/search", batchHandlers.SearchBatches)
	v1.GET("/batches/:id", batchHandlers.GetBatch)
	v1.PUT("/batches/:id", batchHandlers.UpdateBatch)
	v1.DELETE("/batches/:id", batchHandlers.DeleteBatch)
	v1.POST("/batches/:id/consume", batchHandlers.ConsumeBatch)

	// Batch photo routes
	v1.GET("/batches/:id/photos", photoHandlers.ListPhotos)
	v1.POST("/batches/:id/photos", photoHandlers.UploadPhoto)
	v1.DELETE("/batches/:id/photos/:photoId", photoHandlers.DeletePhoto)

	// Inventory tree routes
	v1.GET("/inventory/tree", inventoryHandlers.GetTree)
	v1.GET("/inventory/rows", inventoryHandlers.GetRows)
	v1.POST("/inventory/toggle", inventoryHandlers.Toggle)
	v1.POST("/inventory/expand-all", inventoryHandlers.ExpandAll)
	v1.POST("/inventory/collapse-all", inventoryHandlers.CollapseAll)

	// Purchase edit suggestions
	v1.POST("/purchases/suggestions", purchaseHandlers.GetSuggestions)

	// Background job routes
	v1.GET("/jobs/status", jobHandlers.GetJobStatus)
	v1.POST("/jobs/low-stock/run", jobHandlers.RunLowStockCheck)
	v1.GET("/jobs/low-stock/last", jobHandlers.GetLastLowStockReport)
	v1.POST("/jobs/cache/flush", jobHandlers.FlushCache)

	// Supplier routes
	v1.GET("/suppliers", supplierHandlers.ListSuppliers)
	v1.POST("/suppliers", supplierHandlers.CreateSupplier)
	v1.GET("/suppliers/:id", supplierHandlers.GetSupplier)
	v1.PUT("/suppliers/:id", supplierHandlers.UpdateSupplier)
	v1.DELETE("/suppliers/:id", supplierHandlers.DeleteSupplier)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Beadstock server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
