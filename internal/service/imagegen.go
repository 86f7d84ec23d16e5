package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/homeyum/homeyum/internal/config"
	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/logger"
	"github.com/homeyum/homeyum/internal/prompts"
	"github.com/homeyum/homeyum/internal/storage"
)

// ImageGenService generates meal and ingredient images through the Replicate
// prediction API and persists them to object storage.
type ImageGenService struct {
	client  *resty.Client
	model   string
	baseURL string
	storage storage.ObjectStorage
	logger  *logger.Logger
}

// NewImageGenService creates a new image generation service.
// Parameters:
//   - cfg: image generation configuration (model, API key, base URL).
//   - objectStorage: destination for generated image bytes.
//   - log: logger; nil uses the default.
//
// Returns:
//   - *ImageGenService: initialized service.
func NewImageGenService(cfg *config.ImageGenConfig, objectStorage storage.ObjectStorage, log *logger.Logger) *ImageGenService {
	if log == nil {
		log = logger.Default()
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Replicate holds the request open until the prediction finishes
	client.SetHeader("Prefer", "wait")
	client.SetTimeout(120 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}

	return &ImageGenService{
		client:  client,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		storage: objectStorage,
		logger:  log.WithField(logger.FieldComponent, "imagegen"),
	}
}

// predictionRequest is the Replicate prediction creation payload.
type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt string `json:"prompt"`
}

// predictionResponse is the subset of the Replicate response we read.
// Output is either a single URL string or a list of URL strings depending on
// the model.
type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  interface{}     `json:"error"`
}

// outputURL normalizes the prediction output to its first URL.
func (r *predictionResponse) outputURL() (string, error) {
	if len(r.Output) == 0 {
		return "", fmt.Errorf("prediction returned no output")
	}

	var single string
	if err := json.Unmarshal(r.Output, &single); err == nil && single != "" {
		return single, nil
	}

	var many []string
	if err := json.Unmarshal(r.Output, &many); err == nil && len(many) > 0 {
		return many[0], nil
	}

	return "", fmt.Errorf("prediction output has unexpected shape: %s", string(r.Output))
}

// predict creates a prediction for the prompt and returns the output URL.
func (s *ImageGenService) predict(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s/predictions", s.baseURL, s.model)

	var resp predictionResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(&predictionRequest{Input: predictionInput{Prompt: prompt}}).
		SetResult(&resp).
		Post(endpoint)

	if err != nil {
		return "", fmt.Errorf("failed to call image API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return "", fmt.Errorf("image API returned error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}

	if resp.Error != nil {
		return "", fmt.Errorf("image API error: %v", resp.Error)
	}

	if resp.Status == "failed" || resp.Status == "canceled" {
		return "", fmt.Errorf("prediction ended with status %q", resp.Status)
	}

	return resp.outputURL()
}

// persist downloads the generated image and uploads it under the given key
// prefix, returning the public URL.
func (s *ImageGenService) persist(ctx context.Context, keyPrefix, imageURL string) (string, error) {
	resp, err := s.client.R().SetContext(ctx).SetHeader("Prefer", "").Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to download generated image: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("generated image download returned HTTP %d", resp.StatusCode())
	}

	data := resp.Body()
	format := "webp"
	if _, probed, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && probed != "" {
		format = probed
	}

	key := fmt.Sprintf("%s/%s.%s", keyPrefix, uuid.New().String(), format)
	contentType := imageMIMEType(format)

	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("failed to upload generated image: %w", err)
	}

	return s.storage.GetURL(key), nil
}

// GenerateMealImage generates one holistic image of the finished meal.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - prompt: the user's meal prompt.
//
// Returns:
//   - *domain.MealImage: stored image reference with the enhanced prompt.
//   - error: non-nil if generation or persistence fails.
func (s *ImageGenService) GenerateMealImage(ctx context.Context, prompt string) (*domain.MealImage, error) {
	enhanced := prompts.MealImagePrompt(prompt)
	s.logger.WithField("prompt", prompt).Info("Generating meal image")

	outputURL, err := s.predict(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("failed to generate meal image: %w", err)
	}

	storedURL, err := s.persist(ctx, "meals", outputURL)
	if err != nil {
		return nil, err
	}

	return &domain.MealImage{URL: storedURL, Prompt: enhanced}, nil
}

// UpdateMealImage regenerates the meal image with user feedback appended to
// the previous prompt.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - current: the previously generated image.
//   - updates: free-text feedback.
//
// Returns:
//   - *domain.MealImage: new stored image reference.
//   - error: non-nil if generation or persistence fails.
func (s *ImageGenService) UpdateMealImage(ctx context.Context, current *domain.MealImage, updates string) (*domain.MealImage, error) {
	enhanced := current.Prompt + " " + updates
	s.logger.WithField("updates", updates).Info("Updating meal image")

	outputURL, err := s.predict(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("failed to update meal image: %w", err)
	}

	storedURL, err := s.persist(ctx, "meals", outputURL)
	if err != nil {
		return nil, err
	}

	return &domain.MealImage{URL: storedURL, Prompt: enhanced}, nil
}

// GenerateIngredientImages generates one image per ingredient. Individual
// failures are logged and skipped; the remaining images are still returned.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - ingredients: recipe ingredient list.
//
// Returns:
//   - []domain.IngredientImage: stored references in ingredient order.
//   - error: non-nil only if ctx is canceled.
func (s *ImageGenService) GenerateIngredientImages(ctx context.Context, ingredients []domain.Ingredient) ([]domain.IngredientImage, error) {
	s.logger.WithField(logger.FieldCount, len(ingredients)).Info("Generating ingredient images")

	images := make([]domain.IngredientImage, 0, len(ingredients))
	for i, ingredient := range ingredients {
		if err := ctx.Err(); err != nil {
			return images, err
		}

		amount := strconv.FormatFloat(ingredient.Amount, 'f', -1, 64)
		prompt := prompts.IngredientImagePrompt(amount, ingredient.AmountDescription, ingredient.Name)

		outputURL, err := s.predict(ctx, prompt)
		if err != nil {
			s.logger.WithError(err).WithField("ingredient", ingredient.Name).Error("Ingredient image generation failed")
			continue
		}

		storedURL, err := s.persist(ctx, "ingredients", outputURL)
		if err != nil {
			s.logger.WithError(err).WithField("ingredient", ingredient.Name).Error("Ingredient image persistence failed")
			continue
		}

		images = append(images, domain.IngredientImage{
			IngredientName: ingredient.Name,
			URL:            storedURL,
			Prompt:         prompt,
			Order:          i,
		})
	}

	return images, nil
}
