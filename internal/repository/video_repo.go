package repository

import (
	"context"

	"github.com/homeyum/homeyum/internal/domain"
	"gorm.io/gorm"
)

// VideoRepository handles video catalog persistence.
type VideoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video catalog entry.
func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// GetByID retrieves a video by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: video ID.
//
// Returns:
//   - *domain.Video: video record if found.
//   - error: gorm.ErrRecordNotFound if absent, other errors on failure.
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	var video domain.Video
	if err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// Feed retrieves a page of the video feed ordered by upload time descending.
// Pagination is keyset-based: pass the last video of the previous page to
// continue after it.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - pageSize: maximum entries to return; <=0 means 10.
//   - lastVideoID: ID of the last video already seen; empty starts from the top.
//
// Returns:
//   - []domain.Video: feed page.
//   - error: non-nil if the query fails.
func (r *VideoRepository) Feed(ctx context.Context, pageSize int, lastVideoID string) ([]domain.Video, error) {
	if pageSize <= 0 {
		pageSize = 10
	}

	query := r.db.WithContext(ctx).Order("uploaded_at DESC")

	if lastVideoID != "" {
		var last domain.Video
		if err := r.db.WithContext(ctx).First(&last, "id = ?", lastVideoID).Error; err == nil {
			query = query.Where("uploaded_at < ?", last.UploadedAt)
		}
	}

	var videos []domain.Video
	err := query.Limit(pageSize).Find(&videos).Error
	return videos, err
}
