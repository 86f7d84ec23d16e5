// Package prompts holds the fixed natural-language templates sent to the
// language, vision, and image models. Ingredient deduplication and step
// ordering during aggregation are conventions expressed here, not code: the
// model owns them.
package prompts

import (
	"fmt"
	"strings"
)

// ScenePrompt is applied once per scene frame of a cooking video.
const ScenePrompt = `Below is a scene from a cooking video. Please analyze this scene and extract any details related to the recipe. In your answer, please provide:

- A list of ingredients that are visible or mentioned.
- Any cooking actions or techniques demonstrated (e.g., chopping, mixing, frying).
- Any contextual details that might indicate quantities or timings (if available).

Please be as concise as possible, using bullet points where applicable.`

// aggregateTemplate merges all scene summaries into one recipe. The template
// instructs the model to combine duplicate ingredients and order the steps.
const aggregateTemplate = `I have extracted information from %d scenes of a cooking video. Below are the summarized details from each scene, including identified ingredients and cooking steps.

%s

Based on the above, please create a final consolidated list of ingredients (with any available quantities or notes, if mentioned) and a step-by-step set of instructions that form a complete recipe. Organize your answer clearly under two sections:

**Ingredients:**

**Directions:**

Please ensure that any duplicate ingredients are combined and the cooking steps are in a logical order.`

// AggregatePrompt renders the aggregation prompt for the given scene blocks.
func AggregatePrompt(sceneCount int, sceneAnalyses string) string {
	return fmt.Sprintf(aggregateTemplate, sceneCount, sceneAnalyses)
}

// recipeTemplate asks for a complete structured recipe for a meal prompt.
const recipeTemplate = `Generate a detailed recipe for %s. Return the response as a JSON object with the following structure:

{
    "title": "Recipe title",
    "description": "Brief description of the dish",
    "servings": "Number of servings",
    "prepTime": "Preparation time in minutes",
    "cookTime": "Cooking time in minutes",
    "ingredients": [
        {
            "name": "Ingredient name",
            "amount": number,
            "amountDescription": "unit of measurement"
        }
    ],
    "instructions": [
        {
            "step": number,
            "text": "Step instruction"
        }
    ],
    "tips": ["Cooking tips and suggestions"]
}

Make sure the recipe is practical, delicious, and includes all necessary ingredients and clear instructions.`

// RecipePrompt renders the recipe generation prompt for a meal description.
func RecipePrompt(prompt string) string {
	return fmt.Sprintf(recipeTemplate, prompt)
}

// recipeUpdateTemplate re-prompts with the current recipe plus user feedback.
const recipeUpdateTemplate = `Update the following recipe based on these changes: %s

Current Recipe:
%s

Return the updated recipe in the same JSON format as the original.`

// RecipeUpdatePrompt renders the recipe update prompt.
func RecipeUpdatePrompt(updates, currentRecipeJSON string) string {
	return fmt.Sprintf(recipeUpdateTemplate, updates, currentRecipeJSON)
}

// nutritionTemplate asks for a nutrition breakdown of a structured recipe.
const nutritionTemplate = `Analyze the nutritional content of this recipe and return a JSON object with the following structure:

{
    "calories": number,
    "fat": number (in grams),
    "carbs": number (in grams),
    "protein": number (in grams),
    "fiber": number (in grams),
    "ingredients": [
        {
            "name": "Ingredient name",
            "amount": number,
            "amountDescription": "unit of measurement",
            "calories": number,
            "fat": number,
            "carbs": number,
            "protein": number,
            "fiber": number
        }
    ],
    "serving_sizes": number
}

Recipe to analyze:
%s

Notes:
1. All nutritional values should be realistic and based on standard USDA guidelines
2. Calculate values for %d servings
3. Include all ingredients from the recipe
4. Round numbers to one decimal place
5. serving_sizes should be set to %d
6. Return ONLY the JSON object, no additional text`

// NutritionPrompt renders the nutrition analysis prompt.
func NutritionPrompt(recipeJSON string, servings int) string {
	return fmt.Sprintf(nutritionTemplate, recipeJSON, servings, servings)
}

// structureTemplate converts free recipe text into structured recipe items.
const structureTemplate = `You are a JSON converter. Your task is to convert recipe text into a specific JSON format.

Output a single, valid JSON object with this exact structure:

{
    "recipe": {
        "title": "string (name of the dish)",
        "summary": "string (1-2 sentence description)",
        "additionalNotes": "string (cooking tips or variations)"
    },
    "recipeItems": [
        {
            "stepOrder": number (starting from 1),
            "instruction": "string (main instruction)",
            "additionalDetails": "string (optional details)"
        }
    ]
}

Rules:
1. Output ONLY the JSON object, no other text or explanation
2. All string values MUST be in double quotes
3. stepOrder MUST be a plain number (no quotes)
4. The JSON must be properly formatted and valid
5. Do not include any markdown formatting

Recipe text to convert:
---
%s
---`

// StructurePrompt renders the recipe text structuring prompt.
func StructurePrompt(recipeText string) string {
	return fmt.Sprintf(structureTemplate, recipeText)
}

// MealImagePrompt wraps a meal prompt in food-photography framing for the
// holistic image of the finished dish.
func MealImagePrompt(prompt string) string {
	return fmt.Sprintf("Create a professional food photography style image of %s. The image should be well-lit, appetizing, and showcase the complete dish.", prompt)
}

// IngredientImagePrompt builds the per-ingredient image prompt.
func IngredientImagePrompt(amount, unit, name string) string {
	qty := strings.TrimSpace(strings.Join([]string{amount, unit}, " "))
	if qty != "" {
		qty += " of "
	}
	return fmt.Sprintf("Create a clear, well-lit image of %s%s on a white background, food photography style", qty, name)
}
