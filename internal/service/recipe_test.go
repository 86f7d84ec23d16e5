package service

import (
	"context"
	"testing"
)

const recipeJSON = "```json\n" + `{
    "title": "Tomato Soup",
    "description": "A simple tomato soup",
    "servings": "4",
    "prepTime": "10",
    "cookTime": "25",
    "ingredients": [
        {"name": "tomatoes", "amount": 6, "amountDescription": "whole"},
        {"name": "vegetable stock", "amount": 2, "amountDescription": "cups"}
    ],
    "instructions": [
        {"step": 1, "text": "Roast the tomatoes."},
        {"step": 2, "text": "Blend with stock and simmer."}
    ],
    "tips": ["Season to taste"]
}` + "\n```"

func TestGenerateRecipe(t *testing.T) {
	srv, llm := newChatServer(t, recipeJSON)
	defer srv.Close()

	svc := NewRecipeService(llm, nil)
	recipe, err := svc.GenerateRecipe(context.Background(), "tomato soup")
	if err != nil {
		t.Fatalf("GenerateRecipe returned error: %v", err)
	}

	if recipe.Title != "Tomato Soup" {
		t.Errorf("title = %q, want Tomato Soup", recipe.Title)
	}
	if len(recipe.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want 2", len(recipe.Ingredients))
	}
	if recipe.Ingredients[1].Amount != 2 || recipe.Ingredients[1].AmountDescription != "cups" {
		t.Errorf("unexpected second ingredient: %+v", recipe.Ingredients[1])
	}
	if len(recipe.Instructions) != 2 || recipe.Instructions[0].Step != 1 {
		t.Errorf("unexpected instructions: %+v", recipe.Instructions)
	}
}

func TestGenerateRecipeInvalidJSON(t *testing.T) {
	srv, llm := newChatServer(t, "I'm sorry, I can't produce JSON today.")
	defer srv.Close()

	svc := NewRecipeService(llm, nil)
	if _, err := svc.GenerateRecipe(context.Background(), "tomato soup"); err == nil {
		t.Fatal("expected error on non-JSON response, got nil")
	}
}

func TestStructureRecipe(t *testing.T) {
	srv, llm := newChatServer(t, `{
        "recipe": {
            "title": "Pasta",
            "summary": "Quick weeknight pasta",
            "additionalNotes": "Use fresh basil"
        },
        "recipeItems": [
            {"stepOrder": 1, "instruction": "Boil the pasta"},
            {"stepOrder": 2, "instruction": "Toss with sauce", "additionalDetails": "reserve pasta water"}
        ]
    }`)
	defer srv.Close()

	svc := NewRecipeService(llm, nil)
	structured, err := svc.StructureRecipe(context.Background(), "boil pasta, toss with sauce")
	if err != nil {
		t.Fatalf("StructureRecipe returned error: %v", err)
	}

	if structured.Recipe.Title != "Pasta" {
		t.Errorf("title = %q, want Pasta", structured.Recipe.Title)
	}
	if len(structured.RecipeItems) != 2 {
		t.Fatalf("got %d items, want 2", len(structured.RecipeItems))
	}
	if structured.RecipeItems[1].StepOrder != 2 {
		t.Errorf("second item stepOrder = %d, want 2", structured.RecipeItems[1].StepOrder)
	}
}

func TestStructureRecipeEmptyResponse(t *testing.T) {
	srv, llm := newChatServer(t, `{"recipe": {}, "recipeItems": []}`)
	defer srv.Close()

	svc := NewRecipeService(llm, nil)
	if _, err := svc.StructureRecipe(context.Background(), "nothing"); err == nil {
		t.Fatal("expected error on empty structured recipe, got nil")
	}
}
