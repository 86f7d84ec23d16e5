package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/logger"
	"github.com/homeyum/homeyum/internal/prompts"
)

// requiredNutritionFields must all be present in the model's response before
// it is accepted.
var requiredNutritionFields = []string{"calories", "fat", "carbs", "protein", "fiber", "ingredients"}

// requiredIngredientFields must be present on every ingredient entry.
var requiredIngredientFields = []string{"name", "calories", "fat", "carbs", "protein", "fiber"}

// NutritionService estimates the nutritional content of a recipe through the
// language model.
type NutritionService struct {
	llm    *LLMService
	logger *logger.Logger
}

// NewNutritionService creates a new nutrition service.
// Parameters:
//   - llm: language model client used for the analysis.
//   - log: logger; nil uses the default.
//
// Returns:
//   - *NutritionService: initialized service.
func NewNutritionService(llm *LLMService, log *logger.Logger) *NutritionService {
	if log == nil {
		log = logger.Default()
	}
	return &NutritionService{
		llm:    llm,
		logger: log.WithField(logger.FieldComponent, "nutrition"),
	}
}

// AnalyzeRecipe produces a nutrition breakdown for the recipe, scaled to its
// stated serving count.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - recipe: the recipe to analyze.
//
// Returns:
//   - *domain.Nutrition: aggregate and per-ingredient values.
//   - error: non-nil if the model call fails or its output is incomplete.
func (s *NutritionService) AnalyzeRecipe(ctx context.Context, recipe *domain.Recipe) (*domain.Nutrition, error) {
	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize recipe: %w", err)
	}

	servings := parseServings(recipe.Servings)
	s.logger.WithFields(logger.Fields{
		"recipe":   recipe.Title,
		"servings": servings,
	}).Info("Analyzing recipe nutrition")

	raw, err := s.llm.CompleteDeterministic(ctx, prompts.NutritionPrompt(string(recipeJSON), servings))
	if err != nil {
		return nil, fmt.Errorf("failed to analyze nutrition: %w", err)
	}

	cleaned := CleanJSONResponse(raw)
	if err := validateNutritionResponse([]byte(cleaned)); err != nil {
		return nil, err
	}

	var nutrition domain.Nutrition
	if err := json.Unmarshal([]byte(cleaned), &nutrition); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition response: %w", err)
	}

	if nutrition.ServingSizes == 0 {
		nutrition.ServingSizes = servings
	}

	return &nutrition, nil
}

// validateNutritionResponse checks that every required field is present in
// the raw response before it is decoded into typed values.
func validateNutritionResponse(data []byte) error {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("nutrition response is not a JSON object: %w", err)
	}

	for _, field := range requiredNutritionFields {
		if _, ok := generic[field]; !ok {
			return fmt.Errorf("nutrition response missing required field %q", field)
		}
	}

	var ingredients []map[string]json.RawMessage
	if err := json.Unmarshal(generic["ingredients"], &ingredients); err != nil {
		return fmt.Errorf("nutrition response has malformed ingredients: %w", err)
	}

	for i, ingredient := range ingredients {
		for _, field := range requiredIngredientFields {
			if _, ok := ingredient[field]; !ok {
				return fmt.Errorf("nutrition ingredient %d missing required field %q", i, field)
			}
		}
	}

	return nil
}

// parseServings extracts a serving count from the recipe's free-form servings
// field, defaulting to 1.
func parseServings(servings string) int {
	if n, err := strconv.Atoi(servings); err == nil && n > 0 {
		return n
	}
	// tolerate values like "4 servings"
	for i := 0; i < len(servings); i++ {
		if servings[i] < '0' || servings[i] > '9' {
			if i > 0 {
				if n, err := strconv.Atoi(servings[:i]); err == nil && n > 0 {
					return n
				}
			}
			break
		}
	}
	return 1
}
