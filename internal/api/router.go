package api

import (
	"github.com/gin-gonic/gin"

	"github.com/homeyum/homeyum/internal/api/handler"
	"github.com/homeyum/homeyum/internal/api/middleware"
	"github.com/homeyum/homeyum/internal/config"
	"github.com/homeyum/homeyum/internal/extract"
	"github.com/homeyum/homeyum/internal/repository"
	"github.com/homeyum/homeyum/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	manualRecipes *service.ManualRecipeService,
	tracker *service.TaskTracker,
	analyzer *service.VideoRecipeAnalyzer,
	videos *repository.VideoRepository,
	extractor *extract.Extractor,
	serverCfg *config.ServerConfig,
) *gin.Engine {
	// Set Gin mode
	switch serverCfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  serverCfg.CORS.AllowedOrigins,
		AllowAllOrigins: serverCfg.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	recipeHandler := handler.NewRecipeHandler(manualRecipes, tracker)
	analyzeHandler := handler.NewAnalyzeHandler(analyzer)
	videoHandler := handler.NewVideoHandler(videos, extractor)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Manual recipe lifecycle
	r.POST("/generate-recipe", recipeHandler.Generate)
	r.POST("/update-recipe", recipeHandler.Update)
	r.POST("/confirm-recipe", recipeHandler.Confirm)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Recipe logs and background tasks
		v1.GET("/recipe-logs/:id", recipeHandler.GetLog)
		v1.GET("/tasks/:id", recipeHandler.GetTask)

		// Video analysis
		v1.POST("/analyze-video", analyzeHandler.Analyze)

		// Video catalog
		v1.GET("/videos/feed", videoHandler.Feed)
		v1.GET("/videos/:id", videoHandler.Get)
		v1.POST("/videos", videoHandler.Create)
	}

	return r
}
