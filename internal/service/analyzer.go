package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/homeyum/homeyum/internal/config"
	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/logger"
	"github.com/homeyum/homeyum/internal/prompts"
)

// sceneSource produces sampled scenes for a video URL.
type sceneSource interface {
	ExtractScenes(ctx context.Context, videoURL string) ([]domain.Scene, error)
}

// sceneAnalyzer summarizes a single frame.
type sceneAnalyzer interface {
	AnalyzeImage(ctx context.Context, imageData []byte, format, prompt string) (string, error)
}

// textCompleter runs a plain text completion.
type textCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// recipeStructurer converts free recipe text into discrete steps.
type recipeStructurer interface {
	StructureRecipe(ctx context.Context, recipeText string) (*domain.StructuredRecipe, error)
}

// VideoRecipeAnalyzer runs the full cooking-video pipeline: scene sampling,
// per-scene vision analysis, and aggregation of the summaries into one
// recipe.
type VideoRecipeAnalyzer struct {
	scenes     sceneSource
	vision     sceneAnalyzer
	llm        textCompleter
	structurer recipeStructurer
	workers    int
	logger     *logger.Logger
}

// NewVideoRecipeAnalyzer creates a new video analyzer.
// Parameters:
//   - scenes: scene extraction backend.
//   - vision: per-scene vision backend.
//   - llm: aggregation backend.
//   - structurer: optional recipe text structurer; nil skips structuring.
//   - cfg: analysis configuration, used for the worker bound.
//   - log: logger; nil uses the default.
//
// Returns:
//   - *VideoRecipeAnalyzer: initialized analyzer.
func NewVideoRecipeAnalyzer(
	scenes sceneSource,
	vision sceneAnalyzer,
	llm textCompleter,
	structurer recipeStructurer,
	cfg *config.AnalysisConfig,
	log *logger.Logger,
) *VideoRecipeAnalyzer {
	if log == nil {
		log = logger.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &VideoRecipeAnalyzer{
		scenes:     scenes,
		vision:     vision,
		llm:        llm,
		structurer: structurer,
		workers:    workers,
		logger:     log.WithField(logger.FieldComponent, "analyzer"),
	}
}

// Analyze extracts scenes from the video, summarizes each with the vision
// model under a bounded worker pool, and aggregates the summaries into a
// final recipe. Scenes whose analysis fails are dropped; the pipeline only
// errors if no scene could be analyzed.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - videoURL: source video URL.
//
// Returns:
//   - *domain.VideoAnalysis: per-scene summaries, the aggregated recipe
//     text, and its structured form when a structurer is configured.
//   - error: non-nil if extraction, every scene analysis, or aggregation
//     fails.
func (a *VideoRecipeAnalyzer) Analyze(ctx context.Context, videoURL string) (*domain.VideoAnalysis, error) {
	scenes, err := a.scenes.ExtractScenes(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("scene extraction failed: %w", err)
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("no scenes extracted from %s", videoURL)
	}

	summaries := a.analyzeScenes(ctx, scenes)
	if len(summaries) == 0 {
		return nil, fmt.Errorf("all %d scene analyses failed", len(scenes))
	}

	finalRecipe, err := a.llm.Complete(ctx, prompts.AggregatePrompt(len(summaries), buildAggregateInput(summaries)))
	if err != nil {
		return nil, fmt.Errorf("recipe aggregation failed: %w", err)
	}

	analysis := &domain.VideoAnalysis{
		SourceURL:      videoURL,
		SceneSummaries: summaries,
		FinalRecipe:    finalRecipe,
	}

	if a.structurer != nil {
		structured, err := a.structurer.StructureRecipe(ctx, finalRecipe)
		if err != nil {
			// the free-text recipe is still usable on its own
			a.logger.WithError(err).Warn("Recipe structuring failed")
		} else {
			analysis.Structured = structured
		}
	}

	a.logger.WithFields(logger.Fields{
		"url":             videoURL,
		logger.FieldCount: len(summaries),
	}).Info("Video analysis complete")
	return analysis, nil
}

// analyzeScenes fans the scenes out over the worker pool and collects the
// successful summaries in scene order.
func (a *VideoRecipeAnalyzer) analyzeScenes(ctx context.Context, scenes []domain.Scene) []domain.SceneSummary {
	results := make([]*domain.SceneSummary, len(scenes))
	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup

	for i := range scenes {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			scene := &scenes[idx]
			analysis, err := a.vision.AnalyzeImage(ctx, scene.ImageData, scene.Format, prompts.ScenePrompt)
			if err != nil {
				a.logger.WithError(err).WithField("scene", scene.Number).Error("Scene analysis failed")
				return
			}
			results[idx] = &domain.SceneSummary{
				SceneNumber: scene.Number,
				Timestamp:   scene.Timestamp(),
				Analysis:    analysis,
			}
		}(i)
	}
	wg.Wait()

	summaries := make([]domain.SceneSummary, 0, len(scenes))
	for _, r := range results {
		if r != nil {
			summaries = append(summaries, *r)
		}
	}
	return summaries
}

// buildAggregateInput renders the scene summaries as the block the
// aggregation prompt expects.
func buildAggregateInput(summaries []domain.SceneSummary) string {
	blocks := make([]string, 0, len(summaries))
	for _, s := range summaries {
		blocks = append(blocks, fmt.Sprintf("Scene %d (%s):\n%s", s.SceneNumber, s.Timestamp, s.Analysis))
	}
	return strings.Join(blocks, "\n\n")
}
