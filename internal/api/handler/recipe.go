package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeyum/homeyum/internal/api/middleware"
	"github.com/homeyum/homeyum/internal/service"
)

// RecipeHandler handles the manual recipe lifecycle endpoints.
type RecipeHandler struct {
	recipes *service.ManualRecipeService
	tracker *service.TaskTracker
}

// NewRecipeHandler creates a new recipe handler.
// Parameters:
//   - recipes: manual recipe orchestration service.
//   - tracker: background task tracker.
//
// Returns:
//   - *RecipeHandler: initialized handler.
func NewRecipeHandler(recipes *service.ManualRecipeService, tracker *service.TaskTracker) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		tracker: tracker,
	}
}

// GenerateRequest is the POST /generate-recipe body.
type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	UserID string `json:"user_id"`
}

// Generate handles POST /generate-recipe.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	recipeLog, err := h.recipes.CreateAndGenerate(c.Request.Context(), req.UserID, req.Prompt)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Recipe generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Recipe generation failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"log_id":     recipeLog.ID,
		"status":     recipeLog.Status,
		"recipe":     recipeLog.Recipe,
		"meal_image": recipeLog.MealImage,
	})
}

// UpdateRequest is the POST /update-recipe body.
type UpdateRequest struct {
	LogID         string `json:"log_id" binding:"required"`
	RecipeUpdates string `json:"recipe_updates"`
	ImageUpdates  string `json:"image_updates"`
}

// Update handles POST /update-recipe.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *RecipeHandler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if req.RecipeUpdates == "" && req.ImageUpdates == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "At least one of recipe_updates or image_updates is required",
		})
		return
	}

	recipeLog, err := h.recipes.Update(c.Request.Context(), req.LogID, req.RecipeUpdates, req.ImageUpdates)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Recipe update failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Recipe update failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"log_id":     recipeLog.ID,
		"status":     recipeLog.Status,
		"recipe":     recipeLog.Recipe,
		"meal_image": recipeLog.MealImage,
	})
}

// ConfirmRequest is the POST /confirm-recipe body.
type ConfirmRequest struct {
	LogID string `json:"log_id" binding:"required"`
}

// Confirm handles POST /confirm-recipe. The detailed generation runs in the
// background; the response returns immediately with the task handle.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *RecipeHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	task, err := h.recipes.Confirm(c.Request.Context(), req.LogID)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Recipe confirmation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Recipe confirmation failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"log_id":  req.LogID,
		"task_id": task.ID,
		"status":  "confirming",
	})
}

// GetLog handles GET /api/v1/recipe-logs/:id.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *RecipeHandler) GetLog(c *gin.Context) {
	recipeLog, err := h.recipes.GetLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Recipe log not found",
		})
		return
	}
	c.JSON(http.StatusOK, recipeLog)
}

// GetTask handles GET /api/v1/tasks/:id.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *RecipeHandler) GetTask(c *gin.Context) {
	task, ok := h.tracker.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Task not found",
		})
		return
	}

	resp := gin.H{
		"task_id": task.ID,
		"log_id":  task.LogID,
		"status":  task.Status(),
	}
	if err := task.Err(); err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
