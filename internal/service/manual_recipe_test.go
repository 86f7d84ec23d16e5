package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/homeyum/homeyum/internal/domain"
)

func sampleRecipe() *domain.Recipe {
	return &domain.Recipe{
		Title:       "Tomato Soup",
		Description: "A simple tomato soup",
		Servings:    "4",
		Ingredients: []domain.Ingredient{
			{Name: "tomatoes", Amount: 6, AmountDescription: "whole"},
			{Name: "vegetable stock", Amount: 2, AmountDescription: "cups"},
		},
		Instructions: []domain.InstructionStep{
			{Step: 1, Text: "Roast the tomatoes."},
		},
	}
}

type stubRecipes struct {
	genErr error
}

func (s *stubRecipes) GenerateRecipe(ctx context.Context, prompt string) (*domain.Recipe, error) {
	if s.genErr != nil {
		return nil, s.genErr
	}
	return sampleRecipe(), nil
}

func (s *stubRecipes) UpdateRecipe(ctx context.Context, current *domain.Recipe, updates string) (*domain.Recipe, error) {
	updated := *current
	updated.Title = current.Title + " (updated)"
	return &updated, nil
}

type stubImages struct {
	genErr error
}

func (s *stubImages) GenerateMealImage(ctx context.Context, prompt string) (*domain.MealImage, error) {
	if s.genErr != nil {
		return nil, s.genErr
	}
	return &domain.MealImage{URL: "https://cdn.test/meals/a.webp", Prompt: prompt}, nil
}

func (s *stubImages) UpdateMealImage(ctx context.Context, current *domain.MealImage, updates string) (*domain.MealImage, error) {
	return &domain.MealImage{URL: "https://cdn.test/meals/b.webp", Prompt: current.Prompt + " " + updates}, nil
}

func (s *stubImages) GenerateIngredientImages(ctx context.Context, ingredients []domain.Ingredient) ([]domain.IngredientImage, error) {
	images := make([]domain.IngredientImage, len(ingredients))
	for i, ing := range ingredients {
		images[i] = domain.IngredientImage{IngredientName: ing.Name, URL: "https://cdn.test/ingredients/" + ing.Name, Order: i}
	}
	return images, nil
}

type stubNutrition struct {
	err error
}

func (s *stubNutrition) AnalyzeRecipe(ctx context.Context, recipe *domain.Recipe) (*domain.Nutrition, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Nutrition{Calories: 520.5, ServingSizes: 4}, nil
}

// memLogStore keeps recipe logs in memory for orchestration tests.
type memLogStore struct {
	mu   sync.Mutex
	logs map[string]*domain.RecipeLog
}

func newMemLogStore() *memLogStore {
	return &memLogStore{logs: make(map[string]*domain.RecipeLog)}
}

func (s *memLogStore) Create(ctx context.Context, log *domain.RecipeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *log
	s.logs[log.ID] = &copied
	return nil
}

func (s *memLogStore) Update(ctx context.Context, log *domain.RecipeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *log
	s.logs[log.ID] = &copied
	return nil
}

func (s *memLogStore) GetByID(ctx context.Context, id string) (*domain.RecipeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, ok := s.logs[id]
	if !ok {
		return nil, fmt.Errorf("recipe log not found: %s", id)
	}
	copied := *log
	return &copied, nil
}

type memVideoStore struct {
	mu     sync.Mutex
	videos []*domain.Video
}

func (s *memVideoStore) Create(ctx context.Context, video *domain.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = append(s.videos, video)
	return nil
}

func newTestService(recipes recipeGenerator, images mealImageGenerator, nutrition nutritionAnalyzer) (*ManualRecipeService, *memLogStore, *memVideoStore) {
	logs := newMemLogStore()
	videos := &memVideoStore{}
	svc := NewManualRecipeService(recipes, images, nutrition, logs, videos, NewTaskTracker(nil), nil)
	return svc, logs, videos
}

func TestCreateAndGenerate(t *testing.T) {
	svc, logs, _ := newTestService(&stubRecipes{}, &stubImages{}, &stubNutrition{})

	log, err := svc.CreateAndGenerate(context.Background(), "user-1", "tomato soup")
	if err != nil {
		t.Fatalf("CreateAndGenerate returned error: %v", err)
	}

	if log.Status != domain.RecipeLogStatusInitialGenerated {
		t.Errorf("status = %s, want %s", log.Status, domain.RecipeLogStatusInitialGenerated)
	}
	if log.Recipe == nil || log.MealImage == nil {
		t.Fatal("response must carry both the recipe and the meal image")
	}
	if log.Recipe.Title != "Tomato Soup" {
		t.Errorf("recipe title = %q", log.Recipe.Title)
	}

	stored, err := logs.GetByID(context.Background(), log.ID)
	if err != nil {
		t.Fatalf("stored log missing: %v", err)
	}
	if stored.Status != domain.RecipeLogStatusInitialGenerated {
		t.Errorf("stored status = %s", stored.Status)
	}
}

func TestCreateAndGenerateRecipeFailure(t *testing.T) {
	svc, logs, _ := newTestService(&stubRecipes{genErr: errors.New("model down")}, &stubImages{}, &stubNutrition{})

	_, err := svc.CreateAndGenerate(context.Background(), "", "tomato soup")
	if err == nil {
		t.Fatal("expected error when recipe generation fails")
	}

	// log must record the failure even though the image succeeded
	var failed *domain.RecipeLog
	for id := range logs.logs {
		failed, _ = logs.GetByID(context.Background(), id)
	}
	if failed == nil {
		t.Fatal("no log persisted")
	}
	if failed.Status != domain.RecipeLogStatusFailed {
		t.Errorf("status = %s, want %s", failed.Status, domain.RecipeLogStatusFailed)
	}
	if failed.LastError == "" {
		t.Error("last_error not recorded")
	}
}

func TestCreateAndGenerateImageFailure(t *testing.T) {
	svc, _, _ := newTestService(&stubRecipes{}, &stubImages{genErr: errors.New("flux down")}, &stubNutrition{})

	if _, err := svc.CreateAndGenerate(context.Background(), "", "tomato soup"); err == nil {
		t.Fatal("expected error when image generation fails")
	}
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newTestService(&stubRecipes{}, &stubImages{}, &stubNutrition{})

	created, err := svc.CreateAndGenerate(context.Background(), "", "tomato soup")
	if err != nil {
		t.Fatalf("CreateAndGenerate returned error: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, "make it spicier", "add chili garnish")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Status != domain.RecipeLogStatusUpdated {
		t.Errorf("status = %s, want %s", updated.Status, domain.RecipeLogStatusUpdated)
	}
	if updated.Recipe.Title != "Tomato Soup (updated)" {
		t.Errorf("recipe title = %q", updated.Recipe.Title)
	}
	if updated.MealImage.URL != "https://cdn.test/meals/b.webp" {
		t.Errorf("meal image url = %q", updated.MealImage.URL)
	}
}

func TestUpdateUnknownLog(t *testing.T) {
	svc, _, _ := newTestService(&stubRecipes{}, &stubImages{}, &stubNutrition{})

	if _, err := svc.Update(context.Background(), "missing", "change", ""); err == nil {
		t.Fatal("expected error for unknown log")
	}
}

func TestConfirm(t *testing.T) {
	svc, logs, videos := newTestService(&stubRecipes{}, &stubImages{}, &stubNutrition{})

	created, err := svc.CreateAndGenerate(context.Background(), "user-1", "tomato soup")
	if err != nil {
		t.Fatalf("CreateAndGenerate returned error: %v", err)
	}

	task, err := svc.Confirm(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	waitForTask(t, task)

	if task.Status() != TaskStatusCompleted {
		t.Fatalf("task status = %s, err = %v", task.Status(), task.Err())
	}

	final, err := logs.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("final log missing: %v", err)
	}
	if final.Status != domain.RecipeLogStatusCompleted {
		t.Errorf("status = %s, want %s", final.Status, domain.RecipeLogStatusCompleted)
	}
	if final.Nutrition == nil {
		t.Error("nutrition not recorded")
	}
	if len(final.IngredientImages) != 2 {
		t.Errorf("got %d ingredient images, want 2", len(final.IngredientImages))
	}
	if final.VideoID == "" {
		t.Error("video id not recorded")
	}

	if len(videos.videos) != 1 {
		t.Fatalf("got %d catalog entries, want 1", len(videos.videos))
	}
	video := videos.videos[0]
	if video.Source != domain.VideoSourceManualRecipe {
		t.Errorf("source = %q, want %q", video.Source, domain.VideoSourceManualRecipe)
	}
	if video.ThumbnailURL != "https://cdn.test/meals/a.webp" {
		t.Errorf("thumbnail = %q", video.ThumbnailURL)
	}
	if want := 3 * (2 + 1); video.Duration != want {
		t.Errorf("duration = %d, want %d", video.Duration, want)
	}
}

func TestConfirmNutritionFailureMarksLogFailed(t *testing.T) {
	svc, logs, _ := newTestService(&stubRecipes{}, &stubImages{}, &stubNutrition{err: errors.New("no data")})

	created, err := svc.CreateAndGenerate(context.Background(), "", "tomato soup")
	if err != nil {
		t.Fatalf("CreateAndGenerate returned error: %v", err)
	}

	task, err := svc.Confirm(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	waitForTask(t, task)

	if task.Status() != TaskStatusFailed {
		t.Fatalf("task status = %s, want failed", task.Status())
	}

	final, _ := logs.GetByID(context.Background(), created.ID)
	if final.Status != domain.RecipeLogStatusFailed {
		t.Errorf("status = %s, want %s", final.Status, domain.RecipeLogStatusFailed)
	}
	if final.LastError == "" {
		t.Error("last_error not recorded")
	}
}

func TestConfirmWithoutRecipe(t *testing.T) {
	svc, logs, _ := newTestService(&stubRecipes{}, &stubImages{}, &stubNutrition{})

	bare := &domain.RecipeLog{ID: "bare", Prompt: "x", Status: domain.RecipeLogStatusProcessing}
	if err := logs.Create(context.Background(), bare); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Confirm(context.Background(), "bare"); err == nil {
		t.Fatal("expected error confirming a log without a recipe")
	}
}
