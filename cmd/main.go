package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-ingestion-service/internal/clients"
	"catalog-ingestion-service/internal/config"
	"catalog-ingestion-service/internal/events"
	"catalog-ingestion-service/internal/handlers"
	"catalog-ingestion-service/internal/middleware"
	"catalog-ingestion-service/internal/pipeline"
	"catalog-ingestion-service/internal/store"
)

// @title Catalog Ingestion API
// @version 1.0.0
// @description Pet product catalog ingestion service: classifies supplier feeds, normalizes variants and applies pricing policy

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8094
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Pipeline settings (defaults, optionally overridden from file)
	pipelineCfg, err := config.LoadPipelineConfig(cfg)
	if err != nil {
		log.Printf("WARNING: %v (using default pipeline settings)", err)
	}
	ingestionPipeline := pipeline.New(pipelineCfg, logger)

	// Catalog store backend
	var catalogStore store.CatalogStore
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		db, err := config.InitDB(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		pgStore, err := store.NewPostgresStore(db)
		if err != nil {
			log.Fatal("Failed to initialize postgres store:", err)
		}
		catalogStore = pgStore
		log.Println("✓ Postgres catalog store initialized")
	default:
		catalogStore = store.NewFileStore(cfg.DataFilePath, logger)
		log.Printf("✓ File catalog store initialized at %s", cfg.DataFilePath)
	}

	// Optional Redis read-through cache
	if cfg.CacheEnabled {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("WARNING: Failed to parse Redis URL: %v (caching disabled)", err)
		} else {
			redisClient := redis.NewClient(redisOpts)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("WARNING: Failed to connect to Redis: %v (caching disabled)", err)
			} else {
				catalogStore = store.NewCachedStore(catalogStore, redisClient, logger)
				log.Println("✓ Redis cache enabled")
			}
			cancel()
		}
	}

	// Optional event publisher
	var eventsPublisher *events.Publisher
	if cfg.EventsEnabled {
		eventsPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("EVENTS_ENABLED not set, skipping event publishing initialization")
	}
	defer func() {
		if eventsPublisher != nil {
			eventsPublisher.Close()
		}
	}()

	// Supplier API client (nil when no token is configured; feed
	// uploads still work without it)
	var supplierClient *clients.SupplierClient
	if cfg.SupplierAPIToken != "" {
		supplierClient = clients.NewSupplierClient(cfg.SupplierAPIURL, cfg.SupplierAPIToken, logger)
		log.Println("✓ Supplier API client initialized")
	} else {
		log.Println("SUPPLIER_API_TOKEN not set, supplier imports disabled")
	}

	// Initialize handlers
	importHandler := handlers.NewImportHandler(ingestionPipeline, catalogStore, supplierClient, eventsPublisher, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogStore, pipelineCfg.Normalizer, logger)
	reportsHandler := handlers.NewReportsHandler(catalogStore, pipelineCfg.Classifier, pipelineCfg.Pricing, eventsPublisher, logger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	// Health check endpoints
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		imports := v1.Group("/imports")
		{
			imports.POST("/run", importHandler.RunImport)
			imports.POST("/feed", importHandler.ImportFeed)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("", catalogHandler.ListProducts)
			catalog.GET("/:id", catalogHandler.GetProduct)
			catalog.GET("/:id/mapping", catalogHandler.GetMappingReport)
			catalog.POST("/:id/cart-validation", catalogHandler.ValidateCart)
		}

		reports := v1.Group("/reports")
		{
			reports.POST("/debug-stats", reportsHandler.DebugStats)
			reports.POST("/lockdown", reportsHandler.LockdownStatus)
			reports.POST("/cleanup", reportsHandler.CleanupReport)
			reports.POST("/pricing-audit", reportsHandler.PricingAudit)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog ingestion service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down catalog-ingestion-service...")
	log.Println("Catalog ingestion service stopped")
}
