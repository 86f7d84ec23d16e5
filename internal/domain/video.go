package domain

import "time"

// VideoSource identifies how a catalog entry was created.
const (
	VideoSourceUpload       = "native upload"
	VideoSourceManualRecipe = "manual_recipe"
	VideoSourceExtraction   = "extraction"
)

// Video is a catalog entry surfaced in the feed. Entries come from native
// uploads, metadata extraction, or confirmed manual recipes.
type Video struct {
	ID               string    `gorm:"type:text;primaryKey" json:"videoId"`
	UserID           string    `gorm:"type:text;index:idx_videos_user" json:"userId,omitempty"`
	VideoTitle       string    `gorm:"type:text" json:"videoTitle"`
	VideoDescription string    `gorm:"type:text" json:"videoDescription"`
	MealName         string    `gorm:"type:text" json:"mealName"`
	MealDescription  string    `gorm:"type:text" json:"mealDescription"`
	VideoURL         string    `gorm:"type:text" json:"videoUrl"`
	ThumbnailURL     string    `gorm:"type:text" json:"thumbnailUrl"`
	Duration         int       `json:"duration"`
	Source           string    `gorm:"type:text" json:"source"`
	UploadedAt       time.Time `gorm:"index:idx_videos_uploaded" json:"uploadedAt"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// TableName returns the database table name for Video.
func (Video) TableName() string {
	return "videos"
}
