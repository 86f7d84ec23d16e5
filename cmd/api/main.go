package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homeyum/homeyum/internal/api"
	"github.com/homeyum/homeyum/internal/config"
	"github.com/homeyum/homeyum/internal/extract"
	"github.com/homeyum/homeyum/internal/logger"
	"github.com/homeyum/homeyum/internal/repository"
	"github.com/homeyum/homeyum/internal/service"
	"github.com/homeyum/homeyum/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		File:        cfg.Log.File,
		ServiceName: "homeyum-api",
	})
	logger.SetDefault(appLogger)

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	logRepo := repository.NewRecipeLogRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	// Initialize storage (supports MinIO, R2, S3)
	objectStorage, err := storage.NewS3Storage(&storage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	// Ensure bucket exists
	ctx := context.Background()
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	// Initialize services
	llmService := service.NewLLMService(&cfg.LLM)
	visionService := service.NewVisionService(&cfg.Vision)
	imageGenService := service.NewImageGenService(&cfg.ImageGen, objectStorage, appLogger)
	recipeService := service.NewRecipeService(llmService, appLogger)
	nutritionService := service.NewNutritionService(llmService, appLogger)
	tracker := service.NewTaskTracker(appLogger)

	manualRecipeService := service.NewManualRecipeService(
		recipeService,
		imageGenService,
		nutritionService,
		logRepo,
		videoRepo,
		tracker,
		appLogger,
	)

	sceneExtractor := service.NewSceneExtractor(&cfg.Analysis, appLogger)
	analyzer := service.NewVideoRecipeAnalyzer(
		sceneExtractor,
		visionService,
		llmService,
		recipeService,
		&cfg.Analysis,
		appLogger,
	)

	extractor := extract.New(&cfg.Extractor, appLogger)

	// Setup router
	router := api.SetupRouter(manualRecipeService, tracker, analyzer, videoRepo, extractor, &cfg.Server)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
