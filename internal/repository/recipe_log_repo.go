package repository

import (
	"context"

	"github.com/homeyum/homeyum/internal/domain"
	"gorm.io/gorm"
)

// RecipeLogRepository handles recipe log persistence.
type RecipeLogRepository struct {
	db *gorm.DB
}

// NewRecipeLogRepository creates a new RecipeLogRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *RecipeLogRepository: repository instance bound to db.
func NewRecipeLogRepository(db *gorm.DB) *RecipeLogRepository {
	return &RecipeLogRepository{db: db}
}

// Create inserts a new recipe log.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - log: recipe log to persist.
//
// Returns:
//   - error: non-nil if the insert fails.
func (r *RecipeLogRepository) Create(ctx context.Context, log *domain.RecipeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// Update saves all fields of an existing recipe log.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - log: recipe log with updated fields.
//
// Returns:
//   - error: non-nil if the update fails.
func (r *RecipeLogRepository) Update(ctx context.Context, log *domain.RecipeLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// GetByID retrieves a recipe log by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: recipe log ID.
//
// Returns:
//   - *domain.RecipeLog: log record if found.
//   - error: gorm.ErrRecordNotFound if absent, other errors on failure.
func (r *RecipeLogRepository) GetByID(ctx context.Context, id string) (*domain.RecipeLog, error) {
	var log domain.RecipeLog
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// ListByUser retrieves a user's recipe logs, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user.
//   - limit: maximum records to return; <=0 means 50.
//
// Returns:
//   - []domain.RecipeLog: matching logs.
//   - error: non-nil if the query fails.
func (r *RecipeLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.RecipeLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []domain.RecipeLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
