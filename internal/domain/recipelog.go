package domain

import (
	"database/sql/driver"
	"time"
)

// RecipeLogStatus tracks a manual recipe generation through its lifecycle.
type RecipeLogStatus string

const (
	RecipeLogStatusProcessing       RecipeLogStatus = "processing"
	RecipeLogStatusInitialGenerated RecipeLogStatus = "initial_generated"
	RecipeLogStatusUpdated          RecipeLogStatus = "updated"
	RecipeLogStatusConfirming       RecipeLogStatus = "confirming"
	RecipeLogStatusCompleted        RecipeLogStatus = "completed"
	RecipeLogStatusFailed           RecipeLogStatus = "failed"
)

// ProcessingStep is one entry of the audit trail appended to a recipe log.
type ProcessingStep struct {
	Step      string    `json:"step"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}

// ProcessingStepList stores the step trail as JSON in a text column.
type ProcessingStepList []ProcessingStep

// Value implements driver.Valuer for ProcessingStepList.
func (l ProcessingStepList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

// Scan implements sql.Scanner for ProcessingStepList.
func (l *ProcessingStepList) Scan(value interface{}) error {
	if value == nil {
		*l = ProcessingStepList{}
		return nil
	}
	return jsonScan(value, l)
}

// RecipeLog is one manual recipe generation request and everything produced
// for it: the prompt, the generated recipe, the meal image, and the
// post-confirmation assets.
type RecipeLog struct {
	ID               string              `gorm:"type:text;primaryKey" json:"log_id"`
	UserID           string              `gorm:"type:text;index:idx_recipe_logs_user" json:"user_id,omitempty"`
	Prompt           string              `gorm:"type:text;not null" json:"prompt"`
	Status           RecipeLogStatus     `gorm:"type:text;index:idx_recipe_logs_status;default:processing" json:"status"`
	Recipe           *Recipe             `gorm:"type:text" json:"recipe,omitempty"`
	MealImage        *MealImage          `gorm:"type:text" json:"meal_image,omitempty"`
	Nutrition        *Nutrition          `gorm:"type:text" json:"nutrition,omitempty"`
	IngredientImages IngredientImageList `gorm:"type:text" json:"ingredient_images,omitempty"`
	VideoID          string              `gorm:"type:text" json:"video_id,omitempty"`
	ProcessingSteps  ProcessingStepList  `gorm:"type:text" json:"processing_steps"`
	LastError        string              `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// TableName returns the database table name for RecipeLog.
func (RecipeLog) TableName() string {
	return "recipe_logs"
}

// AppendStep records a processing step on the log.
func (l *RecipeLog) AppendStep(step string, success bool) {
	status := "completed"
	if !success {
		status = "failed"
	}
	l.ProcessingSteps = append(l.ProcessingSteps, ProcessingStep{
		Step:      step,
		Status:    status,
		Timestamp: time.Now().UTC(),
		Success:   success,
	})
}
