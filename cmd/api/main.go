package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/wisata/backend/internal/config"
	"github.com/wisata/backend/internal/handlers"
	"github.com/wisata/backend/internal/metrics"
	"github.com/wisata/backend/internal/middleware"
	"github.com/wisata/backend/internal/models"
	"github.com/wisata/backend/internal/repository"
	"github.com/wisata/backend/internal/services"
	"github.com/wisata/backend/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize asset storage
	var assetStore storage.AssetStore
	switch cfg.StorageDriver {
	case "minio":
		assetStore, err = storage.NewMinioStore(cfg)
		if err != nil {
			log.Fatalf("Failed to init minio storage: %v", err)
		}
	default:
		assetStore, err = storage.NewLocalStore(cfg.UploadsPath, cfg.PublicUploadPrefix)
		if err != nil {
			log.Fatalf("Failed to init local storage: %v", err)
		}
	}

	// Initialize repositories and services
	objectRepo := repository.NewObjectRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	objectService := services.NewObjectService(objectRepo, categoryRepo, assetStore, cfg.MaxImagesPerObject)
	categoryService := services.NewCategoryService(categoryRepo)
	translationService := services.NewTranslationService(cfg.TranslateEndpoint, cfg.TranslateTimeout, redisClient, cfg.TranslateCacheTTL)

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(metrics.Middleware())

	// Initialize handlers
	objectHandler := handlers.NewObjectHandler(objectService, cfg.MaxUploadMemory)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	publicHandler := handlers.NewPublicHandler(objectService, translationService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Uploaded assets are served read-only under the public prefix. With the
	// minio driver the prefix is served by the bucket's fronting proxy
	// instead.
	if cfg.StorageDriver != "minio" {
		router.Static(cfg.PublicUploadPrefix, cfg.UploadsPath)
	}

	// Setup routes
	api := router.Group("/api")
	{
		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Admin object management. The token check is presence-only; see
		// middleware.RequireToken.
		objects := api.Group("/objects")
		objects.Use(middleware.RequireToken())
		{
			objects.GET("/get-all", objectHandler.GetAllObjects)
			objects.GET("/get-by-id/:id", objectHandler.GetObjectByID)

			uploads := objects.Group("")
			uploads.Use(middleware.UploadRateLimit(redisClient, cfg))
			{
				uploads.POST("/create", objectHandler.CreateObject)
				uploads.PUT("/update/:id", objectHandler.UpdateObject)
			}

			objects.DELETE("/delete/:id", objectHandler.DeleteObject)
		}

		// Categories: list is open (the public page filters by it), writes
		// require a token.
		categories := api.Group("/categories")
		{
			categories.GET("/get-all", categoryHandler.GetAllCategories)
			categories.POST("/create", middleware.RequireToken(), categoryHandler.CreateCategory)
			categories.DELETE("/delete/:id", middleware.RequireToken(), categoryHandler.DeleteCategory)
		}

		// Public detail view with on-the-fly translation
		public := api.Group("/public/objects")
		{
			public.GET("/get-all", publicHandler.GetAllObjects)
			public.GET("/get-by-id/:id", publicHandler.GetObjectByID)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
