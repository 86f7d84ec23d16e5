package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeyum/homeyum/internal/api/middleware"
	"github.com/homeyum/homeyum/internal/service"
)

// AnalyzeHandler handles the cooking-video analysis endpoint.
type AnalyzeHandler struct {
	analyzer *service.VideoRecipeAnalyzer
}

// NewAnalyzeHandler creates a new analyze handler.
// Parameters:
//   - analyzer: full scene-to-recipe pipeline.
//
// Returns:
//   - *AnalyzeHandler: initialized handler.
func NewAnalyzeHandler(analyzer *service.VideoRecipeAnalyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// AnalyzeRequest is the POST /api/v1/analyze-video body.
type AnalyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

// Analyze handles POST /api/v1/analyze-video. The pipeline downloads the
// video, so this request can run for minutes on long videos.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Video analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Video analysis failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, analysis)
}
