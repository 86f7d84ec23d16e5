package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeyum/homeyum/internal/api/middleware"
	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/extract"
	"github.com/homeyum/homeyum/internal/repository"
)

// VideoHandler handles video catalog endpoints.
type VideoHandler struct {
	videos    *repository.VideoRepository
	extractor *extract.Extractor
}

// NewVideoHandler creates a new video handler.
// Parameters:
//   - videos: video catalog repository.
//   - extractor: metadata extractor for URL-based catalog entries.
//
// Returns:
//   - *VideoHandler: initialized handler.
func NewVideoHandler(videos *repository.VideoRepository, extractor *extract.Extractor) *VideoHandler {
	return &VideoHandler{
		videos:    videos,
		extractor: extractor,
	}
}

// CreateVideoRequest is the POST /api/v1/videos body. When URL is set the
// entry is built from extracted metadata; otherwise the caller supplies the
// fields of a native upload.
type CreateVideoRequest struct {
	URL              string `json:"url"`
	UserID           string `json:"user_id"`
	VideoTitle       string `json:"video_title"`
	VideoDescription string `json:"video_description"`
	MealName         string `json:"meal_name"`
	MealDescription  string `json:"meal_description"`
	VideoURL         string `json:"video_url"`
	ThumbnailURL     string `json:"thumbnail_url"`
	Duration         int    `json:"duration"`
}

// Create handles POST /api/v1/videos.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *VideoHandler) Create(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	video := &domain.Video{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		UploadedAt: time.Now().UTC(),
	}

	if req.URL != "" {
		meta := h.extractor.Extract(c.Request.Context(), req.URL)
		video.VideoTitle = meta.Title
		video.VideoDescription = meta.Description
		video.MealName = meta.Title
		video.VideoURL = meta.WebpageURL
		video.ThumbnailURL = meta.Thumbnail
		video.Duration = meta.Duration
		video.Source = domain.VideoSourceExtraction
	} else {
		if req.VideoTitle == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Either url or video_title is required",
			})
			return
		}
		video.VideoTitle = req.VideoTitle
		video.VideoDescription = req.VideoDescription
		video.MealName = req.MealName
		video.MealDescription = req.MealDescription
		video.VideoURL = req.VideoURL
		video.ThumbnailURL = req.ThumbnailURL
		video.Duration = req.Duration
		video.Source = domain.VideoSourceUpload
	}

	if err := h.videos.Create(c.Request.Context(), video); err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to create video")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create video: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, video)
}

// Get handles GET /api/v1/videos/:id.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *VideoHandler) Get(c *gin.Context) {
	video, err := h.videos.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load video: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, video)
}

// Feed handles GET /api/v1/videos/feed with keyset pagination.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *VideoHandler) Feed(c *gin.Context) {
	pageSize := 10
	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			pageSize = n
		}
	}

	videos, err := h.videos.Feed(c.Request.Context(), pageSize, c.Query("last_video_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load feed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"videos": videos,
		"count":  len(videos),
	})
}
