package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Ingredient is one entry of a recipe's ingredient list. Amount and
// AmountDescription mirror the model's output ("2", "cups").
type Ingredient struct {
	Name              string  `json:"name"`
	Amount            float64 `json:"amount"`
	AmountDescription string  `json:"amountDescription"`
}

// InstructionStep is one ordered step of a recipe.
type InstructionStep struct {
	Step int    `json:"step"`
	Text string `json:"text"`
}

// Recipe is the structured recipe produced by the language model. No
// structural validation beyond JSON shape is applied; ingredient
// deduplication is the model's responsibility.
type Recipe struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Servings     string            `json:"servings,omitempty"`
	PrepTime     string            `json:"prepTime,omitempty"`
	CookTime     string            `json:"cookTime,omitempty"`
	Ingredients  []Ingredient      `json:"ingredients"`
	Instructions []InstructionStep `json:"instructions"`
	Tips         []string          `json:"tips,omitempty"`
}

// MealImage references a generated holistic image of the finished meal.
type MealImage struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

// IngredientImage references a generated per-ingredient image.
type IngredientImage struct {
	IngredientName string `json:"ingredientName"`
	URL            string `json:"url"`
	Prompt         string `json:"prompt"`
	Order          int    `json:"order"`
}

// IngredientNutrition is the per-ingredient breakdown of a nutrition analysis.
type IngredientNutrition struct {
	Name              string  `json:"name"`
	Amount            float64 `json:"amount"`
	AmountDescription string  `json:"amountDescription"`
	Calories          float64 `json:"calories"`
	Fat               float64 `json:"fat"`
	Carbs             float64 `json:"carbs"`
	Protein           float64 `json:"protein"`
	Fiber             float64 `json:"fiber"`
}

// Nutrition is the aggregate nutritional analysis of a recipe.
type Nutrition struct {
	Calories     float64               `json:"calories"`
	Fat          float64               `json:"fat"`
	Carbs        float64               `json:"carbs"`
	Protein      float64               `json:"protein"`
	Fiber        float64               `json:"fiber"`
	Ingredients  []IngredientNutrition `json:"ingredients"`
	ServingSizes int                   `json:"serving_sizes"`
}

// RecipeSummary is the header of a structured recipe conversion.
type RecipeSummary struct {
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	AdditionalNotes string `json:"additionalNotes"`
}

// RecipeItem is one ordered step of a structured recipe conversion.
type RecipeItem struct {
	StepOrder         int    `json:"stepOrder"`
	Instruction       string `json:"instruction"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`
}

// StructuredRecipe is the result of converting free recipe text into
// discrete steps.
type StructuredRecipe struct {
	Recipe      RecipeSummary `json:"recipe"`
	RecipeItems []RecipeItem  `json:"recipeItems"`
}

// jsonValue serializes v as a JSON string for a text column.
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// jsonScan decodes a text column into dst.
func jsonScan(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSON column")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, dst)
}

// Value implements driver.Valuer so a Recipe can live in a text column.
func (r Recipe) Value() (driver.Value, error) { return jsonValue(r) }

// Scan implements sql.Scanner for Recipe.
func (r *Recipe) Scan(value interface{}) error { return jsonScan(value, r) }

// Value implements driver.Valuer for MealImage.
func (m MealImage) Value() (driver.Value, error) { return jsonValue(m) }

// Scan implements sql.Scanner for MealImage.
func (m *MealImage) Scan(value interface{}) error { return jsonScan(value, m) }

// Value implements driver.Valuer for Nutrition.
func (n Nutrition) Value() (driver.Value, error) { return jsonValue(n) }

// Scan implements sql.Scanner for Nutrition.
func (n *Nutrition) Scan(value interface{}) error { return jsonScan(value, n) }

// IngredientImageList stores ingredient images as JSON in a text column.
type IngredientImageList []IngredientImage

// Value implements driver.Valuer for IngredientImageList.
func (l IngredientImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

// Scan implements sql.Scanner for IngredientImageList.
func (l *IngredientImageList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientImageList{}
		return nil
	}
	return jsonScan(value, l)
}
