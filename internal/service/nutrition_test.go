package service

import (
	"context"
	"testing"
)

const nutritionJSON = `{
    "calories": 520.5,
    "fat": 18.2,
    "carbs": 64.0,
    "protein": 22.3,
    "fiber": 6.1,
    "ingredients": [
        {
            "name": "tomatoes",
            "amount": 6,
            "amountDescription": "whole",
            "calories": 120.0,
            "fat": 1.0,
            "carbs": 24.0,
            "protein": 5.0,
            "fiber": 6.0
        }
    ],
    "serving_sizes": 4
}`

func TestAnalyzeRecipe(t *testing.T) {
	srv, llm := newChatServer(t, nutritionJSON)
	defer srv.Close()

	svc := NewNutritionService(llm, nil)
	nutrition, err := svc.AnalyzeRecipe(context.Background(), sampleRecipe())
	if err != nil {
		t.Fatalf("AnalyzeRecipe returned error: %v", err)
	}

	if nutrition.Calories != 520.5 {
		t.Errorf("calories = %v, want 520.5", nutrition.Calories)
	}
	if nutrition.ServingSizes != 4 {
		t.Errorf("serving_sizes = %d, want 4", nutrition.ServingSizes)
	}
	if len(nutrition.Ingredients) != 1 || nutrition.Ingredients[0].Name != "tomatoes" {
		t.Errorf("unexpected ingredients: %+v", nutrition.Ingredients)
	}
}

func TestValidateNutritionResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "complete response",
			input: nutritionJSON,
		},
		{
			name:    "missing top-level field",
			input:   `{"calories": 1, "fat": 1, "carbs": 1, "protein": 1, "ingredients": []}`,
			wantErr: true,
		},
		{
			name: "ingredient missing field",
			input: `{"calories": 1, "fat": 1, "carbs": 1, "protein": 1, "fiber": 1,
                "ingredients": [{"name": "salt", "calories": 0, "fat": 0, "carbs": 0, "protein": 0}]}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			input:   `[1, 2, 3]`,
			wantErr: true,
		},
		{
			name:  "empty ingredient list",
			input: `{"calories": 1, "fat": 1, "carbs": 1, "protein": 1, "fiber": 1, "ingredients": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNutritionResponse([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("validateNutritionResponse error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseServings(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"4", 4},
		{"4 servings", 4},
		{"serves four", 1},
		{"", 1},
		{"0", 1},
	}

	for _, tt := range tests {
		if got := parseServings(tt.input); got != tt.want {
			t.Errorf("parseServings(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
