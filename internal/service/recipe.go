package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/logger"
	"github.com/homeyum/homeyum/internal/prompts"
)

// RecipeService turns meal prompts and recipe text into structured recipes
// through the language model.
type RecipeService struct {
	llm    *LLMService
	logger *logger.Logger
}

// NewRecipeService creates a new recipe service.
// Parameters:
//   - llm: language model client used for all completions.
//   - log: logger; nil uses the default.
//
// Returns:
//   - *RecipeService: initialized service.
func NewRecipeService(llm *LLMService, log *logger.Logger) *RecipeService {
	if log == nil {
		log = logger.Default()
	}
	return &RecipeService{
		llm:    llm,
		logger: log.WithField(logger.FieldComponent, "recipe"),
	}
}

// GenerateRecipe produces a structured recipe for a free-text meal prompt.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - prompt: the meal description, e.g. "spicy chicken ramen".
//
// Returns:
//   - *domain.Recipe: parsed recipe.
//   - error: non-nil if the model call fails or its output is not valid JSON.
func (s *RecipeService) GenerateRecipe(ctx context.Context, prompt string) (*domain.Recipe, error) {
	s.logger.WithField("prompt", prompt).Info("Generating recipe")

	raw, err := s.llm.CompleteDeterministic(ctx, prompts.RecipePrompt(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipe: %w", err)
	}

	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(CleanJSONResponse(raw)), &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse recipe response: %w", err)
	}

	return &recipe, nil
}

// UpdateRecipe applies free-text changes to an existing recipe.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - current: the recipe being revised.
//   - updates: free-text change request, e.g. "make it vegetarian".
//
// Returns:
//   - *domain.Recipe: revised recipe.
//   - error: non-nil if the model call fails or its output is not valid JSON.
func (s *RecipeService) UpdateRecipe(ctx context.Context, current *domain.Recipe, updates string) (*domain.Recipe, error) {
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize current recipe: %w", err)
	}

	s.logger.WithField("updates", updates).Info("Updating recipe")

	raw, err := s.llm.CompleteDeterministic(ctx, prompts.RecipeUpdatePrompt(updates, string(currentJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(CleanJSONResponse(raw)), &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse updated recipe response: %w", err)
	}

	return &recipe, nil
}

// StructureRecipe converts free recipe text (e.g. a video aggregation result)
// into discrete ordered steps.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - recipeText: unstructured recipe text.
//
// Returns:
//   - *domain.StructuredRecipe: title, summary, and ordered steps.
//   - error: non-nil if the model call fails or its output is not valid JSON.
func (s *RecipeService) StructureRecipe(ctx context.Context, recipeText string) (*domain.StructuredRecipe, error) {
	raw, err := s.llm.CompleteDeterministic(ctx, prompts.StructurePrompt(recipeText))
	if err != nil {
		return nil, fmt.Errorf("failed to structure recipe: %w", err)
	}

	var structured domain.StructuredRecipe
	if err := json.Unmarshal([]byte(CleanJSONResponse(raw)), &structured); err != nil {
		return nil, fmt.Errorf("failed to parse structured recipe response: %w", err)
	}

	if structured.Recipe.Title == "" && len(structured.RecipeItems) == 0 {
		return nil, fmt.Errorf("structured recipe response is empty")
	}

	return &structured, nil
}
