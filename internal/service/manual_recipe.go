package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/logger"
)

// recipeGenerator produces and revises structured recipes.
type recipeGenerator interface {
	GenerateRecipe(ctx context.Context, prompt string) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, current *domain.Recipe, updates string) (*domain.Recipe, error)
}

// mealImageGenerator produces meal and ingredient imagery.
type mealImageGenerator interface {
	GenerateMealImage(ctx context.Context, prompt string) (*domain.MealImage, error)
	UpdateMealImage(ctx context.Context, current *domain.MealImage, updates string) (*domain.MealImage, error)
	GenerateIngredientImages(ctx context.Context, ingredients []domain.Ingredient) ([]domain.IngredientImage, error)
}

// nutritionAnalyzer estimates a recipe's nutritional content.
type nutritionAnalyzer interface {
	AnalyzeRecipe(ctx context.Context, recipe *domain.Recipe) (*domain.Nutrition, error)
}

// recipeLogStore persists recipe logs.
type recipeLogStore interface {
	Create(ctx context.Context, log *domain.RecipeLog) error
	Update(ctx context.Context, log *domain.RecipeLog) error
	GetByID(ctx context.Context, id string) (*domain.RecipeLog, error)
}

// videoStore persists catalog entries.
type videoStore interface {
	Create(ctx context.Context, video *domain.Video) error
}

// ManualRecipeService orchestrates the prompt-to-recipe lifecycle: parallel
// recipe and meal image generation, free-text revisions, and the confirmation
// pipeline that produces nutrition, ingredient images, and a catalog entry.
type ManualRecipeService struct {
	recipes   recipeGenerator
	images    mealImageGenerator
	nutrition nutritionAnalyzer
	logs      recipeLogStore
	videos    videoStore
	tracker   *TaskTracker
	logger    *logger.Logger
}

// NewManualRecipeService creates a new manual recipe service.
// Parameters:
//   - recipes: recipe generation backend.
//   - images: image generation backend.
//   - nutrition: nutrition analysis backend.
//   - logs: recipe log persistence.
//   - videos: video catalog persistence.
//   - tracker: background task tracker for confirmations.
//   - log: logger; nil uses the default.
//
// Returns:
//   - *ManualRecipeService: initialized service.
func NewManualRecipeService(
	recipes recipeGenerator,
	images mealImageGenerator,
	nutrition nutritionAnalyzer,
	logs recipeLogStore,
	videos videoStore,
	tracker *TaskTracker,
	log *logger.Logger,
) *ManualRecipeService {
	if log == nil {
		log = logger.Default()
	}
	return &ManualRecipeService{
		recipes:   recipes,
		images:    images,
		nutrition: nutrition,
		logs:      logs,
		videos:    videos,
		tracker:   tracker,
		logger:    log.WithField(logger.FieldComponent, "manual_recipe"),
	}
}

// CreateAndGenerate opens a recipe log for the prompt and generates the
// recipe and meal image concurrently. Both must succeed; if either fails the
// log is marked failed and an error is returned, so a response never carries
// one asset without the other.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: requesting user, may be empty.
//   - prompt: the meal description.
//
// Returns:
//   - *domain.RecipeLog: log in status initial_generated with recipe and
//     meal image populated.
//   - error: non-nil if either generation failed.
func (s *ManualRecipeService) CreateAndGenerate(ctx context.Context, userID, prompt string) (*domain.RecipeLog, error) {
	recipeLog := &domain.RecipeLog{
		ID:     uuid.New().String(),
		UserID: userID,
		Prompt: prompt,
		Status: domain.RecipeLogStatusProcessing,
	}
	recipeLog.AppendStep("request_received", true)

	if err := s.logs.Create(ctx, recipeLog); err != nil {
		return nil, fmt.Errorf("failed to create recipe log: %w", err)
	}

	log := s.logger.WithField(logger.FieldLogID, recipeLog.ID)
	log.WithField("prompt", prompt).Info("Starting recipe generation")

	var (
		wg        sync.WaitGroup
		recipe    *domain.Recipe
		mealImage *domain.MealImage
		recipeErr error
		imageErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		recipe, recipeErr = s.recipes.GenerateRecipe(ctx, prompt)
	}()
	go func() {
		defer wg.Done()
		mealImage, imageErr = s.images.GenerateMealImage(ctx, prompt)
	}()
	wg.Wait()

	recipeLog.AppendStep("recipe_generation", recipeErr == nil)
	recipeLog.AppendStep("image_generation", imageErr == nil)

	if recipeErr != nil || imageErr != nil {
		err := recipeErr
		if err == nil {
			err = imageErr
		}
		recipeLog.Status = domain.RecipeLogStatusFailed
		recipeLog.LastError = err.Error()
		if updateErr := s.logs.Update(ctx, recipeLog); updateErr != nil {
			log.WithError(updateErr).Error("Failed to persist failed recipe log")
		}
		return nil, fmt.Errorf("recipe generation failed: %w", err)
	}

	recipeLog.Recipe = recipe
	recipeLog.MealImage = mealImage
	recipeLog.Status = domain.RecipeLogStatusInitialGenerated

	if err := s.logs.Update(ctx, recipeLog); err != nil {
		return nil, fmt.Errorf("failed to persist recipe log: %w", err)
	}

	log.WithField("recipe", recipe.Title).Info("Recipe and meal image generated")
	return recipeLog, nil
}

// Update revises the log's recipe and/or meal image from free-text feedback.
// Empty update strings leave the corresponding asset untouched.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - logID: the recipe log to revise.
//   - recipeUpdates: recipe change request, may be empty.
//   - imageUpdates: image change request, may be empty.
//
// Returns:
//   - *domain.RecipeLog: log in status updated.
//   - error: non-nil if the log is missing, not revisable, or a revision
//     failed.
func (s *ManualRecipeService) Update(ctx context.Context, logID, recipeUpdates, imageUpdates string) (*domain.RecipeLog, error) {
	recipeLog, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe log: %w", err)
	}
	if recipeLog.Recipe == nil {
		return nil, fmt.Errorf("recipe log %s has no recipe to update", logID)
	}

	log := s.logger.WithField(logger.FieldLogID, logID)

	if recipeUpdates != "" {
		recipe, err := s.recipes.UpdateRecipe(ctx, recipeLog.Recipe, recipeUpdates)
		recipeLog.AppendStep("recipe_update", err == nil)
		if err != nil {
			recipeLog.LastError = err.Error()
			if updateErr := s.logs.Update(ctx, recipeLog); updateErr != nil {
				log.WithError(updateErr).Error("Failed to persist recipe log")
			}
			return nil, fmt.Errorf("failed to update recipe: %w", err)
		}
		recipeLog.Recipe = recipe
	}

	if imageUpdates != "" {
		if recipeLog.MealImage == nil {
			return nil, fmt.Errorf("recipe log %s has no meal image to update", logID)
		}
		mealImage, err := s.images.UpdateMealImage(ctx, recipeLog.MealImage, imageUpdates)
		recipeLog.AppendStep("image_update", err == nil)
		if err != nil {
			recipeLog.LastError = err.Error()
			if updateErr := s.logs.Update(ctx, recipeLog); updateErr != nil {
				log.WithError(updateErr).Error("Failed to persist recipe log")
			}
			return nil, fmt.Errorf("failed to update meal image: %w", err)
		}
		recipeLog.MealImage = mealImage
	}

	recipeLog.Status = domain.RecipeLogStatusUpdated
	if err := s.logs.Update(ctx, recipeLog); err != nil {
		return nil, fmt.Errorf("failed to persist recipe log: %w", err)
	}

	log.Info("Recipe log updated")
	return recipeLog, nil
}

// Confirm accepts the log's current recipe and starts the finalization
// pipeline in the background: nutrition analysis, ingredient images, and a
// video catalog entry. The returned task handle reports the pipeline's
// outcome; the log moves to completed or failed when it finishes.
// Parameters:
//   - ctx: context for loading and marking the log; the pipeline itself runs
//     detached.
//   - logID: the recipe log to confirm.
//
// Returns:
//   - *Task: handle for the background pipeline.
//   - error: non-nil if the log is missing or has no recipe.
func (s *ManualRecipeService) Confirm(ctx context.Context, logID string) (*Task, error) {
	recipeLog, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe log: %w", err)
	}
	if recipeLog.Recipe == nil {
		return nil, fmt.Errorf("recipe log %s has no recipe to confirm", logID)
	}

	recipeLog.Status = domain.RecipeLogStatusConfirming
	recipeLog.AppendStep("confirmation_received", true)
	if err := s.logs.Update(ctx, recipeLog); err != nil {
		return nil, fmt.Errorf("failed to persist recipe log: %w", err)
	}

	task := s.tracker.Spawn(logID, func(taskCtx context.Context) error {
		return s.finalize(taskCtx, recipeLog)
	})
	return task, nil
}

// finalize runs the post-confirmation pipeline and records its outcome on
// the log.
func (s *ManualRecipeService) finalize(ctx context.Context, recipeLog *domain.RecipeLog) error {
	log := s.logger.WithField(logger.FieldLogID, recipeLog.ID)

	nutrition, err := s.nutrition.AnalyzeRecipe(ctx, recipeLog.Recipe)
	recipeLog.AppendStep("nutrition_analysis", err == nil)
	if err != nil {
		return s.fail(ctx, recipeLog, fmt.Errorf("nutrition analysis failed: %w", err))
	}
	recipeLog.Nutrition = nutrition

	ingredientImages, err := s.images.GenerateIngredientImages(ctx, recipeLog.Recipe.Ingredients)
	recipeLog.AppendStep("ingredient_images", err == nil)
	if err != nil {
		return s.fail(ctx, recipeLog, fmt.Errorf("ingredient image generation failed: %w", err))
	}
	recipeLog.IngredientImages = ingredientImages

	video := s.catalogEntry(recipeLog)
	err = s.videos.Create(ctx, video)
	recipeLog.AppendStep("video_catalog", err == nil)
	if err != nil {
		return s.fail(ctx, recipeLog, fmt.Errorf("catalog entry creation failed: %w", err))
	}
	recipeLog.VideoID = video.ID

	recipeLog.Status = domain.RecipeLogStatusCompleted
	if err := s.logs.Update(ctx, recipeLog); err != nil {
		return fmt.Errorf("failed to persist completed recipe log: %w", err)
	}

	log.WithField(logger.FieldVideoID, video.ID).Info("Recipe confirmed")
	return nil
}

// fail marks the log failed with the cause and returns the cause.
func (s *ManualRecipeService) fail(ctx context.Context, recipeLog *domain.RecipeLog, cause error) error {
	recipeLog.Status = domain.RecipeLogStatusFailed
	recipeLog.LastError = cause.Error()
	if err := s.logs.Update(ctx, recipeLog); err != nil {
		s.logger.WithField(logger.FieldLogID, recipeLog.ID).WithError(err).Error("Failed to persist failed recipe log")
	}
	return cause
}

// catalogEntry builds the video catalog entry for a confirmed recipe. The
// slideshow duration allots a few seconds per ingredient plus the meal shot.
func (s *ManualRecipeService) catalogEntry(recipeLog *domain.RecipeLog) *domain.Video {
	thumbnail := ""
	if recipeLog.MealImage != nil {
		thumbnail = recipeLog.MealImage.URL
	}
	return &domain.Video{
		ID:               uuid.New().String(),
		UserID:           recipeLog.UserID,
		VideoTitle:       recipeLog.Recipe.Title,
		VideoDescription: recipeLog.Recipe.Description,
		MealName:         recipeLog.Recipe.Title,
		MealDescription:  recipeLog.Recipe.Description,
		ThumbnailURL:     thumbnail,
		Duration:         3 * (len(recipeLog.Recipe.Ingredients) + 1),
		Source:           domain.VideoSourceManualRecipe,
		UploadedAt:       time.Now().UTC(),
	}
}

// GetLog returns the recipe log with the given ID.
func (s *ManualRecipeService) GetLog(ctx context.Context, logID string) (*domain.RecipeLog, error) {
	return s.logs.GetByID(ctx, logID)
}
