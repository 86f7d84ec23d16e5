package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/homeyum/homeyum/internal/config"
	"github.com/homeyum/homeyum/internal/domain"
)

type stubScenes struct {
	scenes []domain.Scene
	err    error
}

func (s *stubScenes) ExtractScenes(ctx context.Context, videoURL string) ([]domain.Scene, error) {
	return s.scenes, s.err
}

type stubVision struct {
	mu       sync.Mutex
	failNums map[int]bool
	inFlight int32
	maxSeen  int32
}

func (s *stubVision) AnalyzeImage(ctx context.Context, imageData []byte, format, prompt string) (string, error) {
	current := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&s.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&s.maxSeen, seen, current) {
			break
		}
	}

	num := int(imageData[0])
	s.mu.Lock()
	fail := s.failNums[num]
	s.mu.Unlock()
	if fail {
		return "", errors.New("vision unavailable")
	}
	return fmt.Sprintf("ingredients for scene %d", num), nil
}

type stubCompleter struct {
	lastPrompt string
	reply      string
	err        error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.reply, s.err
}

type stubStructurer struct {
	err error
}

func (s *stubStructurer) StructureRecipe(ctx context.Context, recipeText string) (*domain.StructuredRecipe, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.StructuredRecipe{
		Recipe:      domain.RecipeSummary{Title: "Structured"},
		RecipeItems: []domain.RecipeItem{{StepOrder: 1, Instruction: recipeText}},
	}, nil
}

func testScenes(n int) []domain.Scene {
	scenes := make([]domain.Scene, n)
	for i := range scenes {
		scenes[i] = domain.Scene{
			Number:    i + 1,
			StartTime: float64(i) * 5,
			EndTime:   float64(i+1) * 5,
			ImageData: []byte{byte(i + 1)},
			Format:    "jpeg",
		}
	}
	return scenes
}

func TestAnalyze(t *testing.T) {
	vision := &stubVision{}
	llm := &stubCompleter{reply: "**Ingredients:**\n- tomatoes\n\n**Directions:**\n1. Roast."}
	analyzer := NewVideoRecipeAnalyzer(
		&stubScenes{scenes: testScenes(3)},
		vision,
		llm,
		&stubStructurer{},
		&config.AnalysisConfig{Workers: 2},
		nil,
	)

	analysis, err := analyzer.Analyze(context.Background(), "https://example.com/v/1")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(analysis.SceneSummaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(analysis.SceneSummaries))
	}
	for i, summary := range analysis.SceneSummaries {
		if summary.SceneNumber != i+1 {
			t.Errorf("summary %d out of order: scene %d", i, summary.SceneNumber)
		}
	}
	if analysis.FinalRecipe == "" {
		t.Error("final recipe empty")
	}
	if analysis.Structured == nil || analysis.Structured.Recipe.Title != "Structured" {
		t.Errorf("unexpected structured recipe: %+v", analysis.Structured)
	}

	if atomic.LoadInt32(&vision.maxSeen) > 2 {
		t.Errorf("observed %d concurrent analyses, worker bound is 2", vision.maxSeen)
	}
}

func TestAnalyzeDropsFailedScenes(t *testing.T) {
	analyzer := NewVideoRecipeAnalyzer(
		&stubScenes{scenes: testScenes(3)},
		&stubVision{failNums: map[int]bool{2: true}},
		&stubCompleter{reply: "recipe"},
		nil,
		&config.AnalysisConfig{Workers: 4},
		nil,
	)

	analysis, err := analyzer.Analyze(context.Background(), "https://example.com/v/2")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if len(analysis.SceneSummaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(analysis.SceneSummaries))
	}
	for _, summary := range analysis.SceneSummaries {
		if summary.SceneNumber == 2 {
			t.Error("failed scene included in summaries")
		}
	}
	if analysis.Structured != nil {
		t.Error("structured recipe set without a structurer")
	}
}

func TestAnalyzeAllScenesFail(t *testing.T) {
	analyzer := NewVideoRecipeAnalyzer(
		&stubScenes{scenes: testScenes(2)},
		&stubVision{failNums: map[int]bool{1: true, 2: true}},
		&stubCompleter{reply: "recipe"},
		nil,
		&config.AnalysisConfig{Workers: 2},
		nil,
	)

	if _, err := analyzer.Analyze(context.Background(), "https://example.com/v/3"); err == nil {
		t.Fatal("expected error when every scene analysis fails")
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	analyzer := NewVideoRecipeAnalyzer(
		&stubScenes{err: errors.New("download failed")},
		&stubVision{},
		&stubCompleter{},
		nil,
		&config.AnalysisConfig{Workers: 1},
		nil,
	)

	if _, err := analyzer.Analyze(context.Background(), "https://example.com/v/4"); err == nil {
		t.Fatal("expected error when scene extraction fails")
	}
}

func TestBuildAggregateInput(t *testing.T) {
	summaries := []domain.SceneSummary{
		{SceneNumber: 1, Timestamp: "0.00s - 5.00s", Analysis: "- tomatoes"},
		{SceneNumber: 2, Timestamp: "5.00s - 10.00s", Analysis: "- chopping"},
	}

	got := buildAggregateInput(summaries)
	want := "Scene 1 (0.00s - 5.00s):\n- tomatoes\n\nScene 2 (5.00s - 10.00s):\n- chopping"
	if got != want {
		t.Errorf("buildAggregateInput = %q, want %q", got, want)
	}
	if !strings.Contains(got, "Scene 2") {
		t.Error("second scene missing from aggregate input")
	}
}
