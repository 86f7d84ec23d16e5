package domain

// VideoMetadata is the flat record produced by the metadata/subtitle fetcher.
// Every field defaults to its zero value when the source does not provide it
// or extraction fails.
type VideoMetadata struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	Uploader     string `json:"uploader"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	SubtitleText string `json:"subtitle_text"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	WebpageURL   string `json:"webpage_url,omitempty"`
}

// Extraction is the CLI output document: the metadata record plus the URL it
// was extracted from.
type Extraction struct {
	Metadata  VideoMetadata `json:"metadata"`
	SourceURL string        `json:"source_url"`
}
