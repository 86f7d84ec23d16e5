package domain

import "fmt"

// Scene is a sampled segment of a cooking video: one representative frame
// plus its time bounds. ImageData is kept in memory only for the duration of
// the analysis and is never persisted.
type Scene struct {
	Number    int
	StartTime float64
	EndTime   float64
	ImageData []byte
	Format    string
}

// Timestamp renders the scene bounds the way the aggregation prompt expects.
func (s *Scene) Timestamp() string {
	return fmt.Sprintf("%.2fs - %.2fs", s.StartTime, s.EndTime)
}

// SceneSummary is the vision model's summary of a single scene: ingredients,
// actions and contextual notes as free bullet text. Produced once per scene,
// never mutated, discarded after aggregation.
type SceneSummary struct {
	SceneNumber int    `json:"scene_number"`
	Timestamp   string `json:"timestamp"`
	Analysis    string `json:"analysis"`
}

// VideoAnalysis is the result of the full scene pipeline: every per-scene
// summary plus the aggregated recipe text and its structured form.
type VideoAnalysis struct {
	SourceURL      string            `json:"source_url"`
	SceneSummaries []SceneSummary    `json:"scene_summaries"`
	FinalRecipe    string            `json:"final_recipe"`
	Structured     *StructuredRecipe `json:"structured_recipe,omitempty"`
}
