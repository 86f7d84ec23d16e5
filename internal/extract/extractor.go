// Package extract wraps yt-dlp based video metadata extraction and subtitle
// parsing. The extractor never returns errors to the caller: any failure
// (network, missing subtitle track, non-200 download) is logged and yields a
// record with every field at its zero value.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lrstanley/go-ytdlp"

	"github.com/homeyum/homeyum/internal/config"
	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/logger"
)

// subtitleTrack is one downloadable subtitle variant of a video.
type subtitleTrack struct {
	URL string `json:"url"`
	Ext string `json:"ext"`
}

// videoInfo is the subset of the yt-dlp info JSON the fetcher reads.
type videoInfo struct {
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Duration     float64                    `json:"duration"`
	Uploader     string                     `json:"uploader"`
	ViewCount    int64                      `json:"view_count"`
	LikeCount    int64                      `json:"like_count"`
	CommentCount int64                      `json:"comment_count"`
	Thumbnail    string                     `json:"thumbnail"`
	WebpageURL   string                     `json:"webpage_url"`
	Subtitles    map[string][]subtitleTrack `json:"subtitles"`
}

// infoFetcher runs yt-dlp and returns the raw info JSON for a URL. It is a
// seam so tests can substitute canned output for the real binary.
type infoFetcher func(ctx context.Context, videoURL string) ([]byte, error)

// Extractor fetches video metadata and subtitles.
type Extractor struct {
	http         *resty.Client
	subtitleLang string
	apiHostname  string
	logger       *logger.Logger
	fetchInfo    infoFetcher
}

// New creates an Extractor from configuration.
// Parameters:
//   - cfg: extractor configuration (subtitle language, API hostname, timeout).
//   - log: logger; nil uses the default.
//
// Returns:
//   - *Extractor: initialized extractor.
func New(cfg *config.ExtractorConfig, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Default()
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)

	e := &Extractor{
		http:         client,
		subtitleLang: cfg.SubtitleLang,
		apiHostname:  cfg.APIHostname,
		logger:       log.WithField(logger.FieldComponent, "extract"),
	}
	e.fetchInfo = e.runYtdlp
	return e
}

// runYtdlp invokes yt-dlp for the info JSON of a single video.
func (e *Extractor) runYtdlp(ctx context.Context, videoURL string) ([]byte, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload().
		Quiet().
		NoWarnings()

	if e.apiHostname != "" {
		dl = dl.ExtractorArgs("tiktok:api-hostname=" + e.apiHostname)
	}

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("running yt-dlp: %w", err)
	}
	return []byte(result.Stdout), nil
}

// Extract returns the metadata record for a video URL. All fields default to
// empty/zero on any failure; the method never returns an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - videoURL: video page URL.
//
// Returns:
//   - domain.VideoMetadata: populated record, or a zero-valued one on failure.
func (e *Extractor) Extract(ctx context.Context, videoURL string) domain.VideoMetadata {
	e.logger.WithField("url", videoURL).Info("Extracting video metadata")

	raw, err := e.fetchInfo(ctx, videoURL)
	if err != nil {
		e.logger.WithError(err).Error("Metadata extraction failed")
		return domain.VideoMetadata{}
	}

	var info videoInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		e.logger.WithError(err).Error("Failed to parse yt-dlp output")
		return domain.VideoMetadata{}
	}

	subtitleText := ""
	if tracks, ok := info.Subtitles[e.subtitleLang]; ok && len(tracks) > 0 && tracks[0].URL != "" {
		subtitleText = e.downloadSubtitles(ctx, tracks[0].URL)
	}

	meta := domain.VideoMetadata{
		Title:        info.Title,
		Description:  info.Description,
		Duration:     int(info.Duration),
		Uploader:     info.Uploader,
		ViewCount:    info.ViewCount,
		LikeCount:    info.LikeCount,
		CommentCount: info.CommentCount,
		SubtitleText: subtitleText,
		Thumbnail:    info.Thumbnail,
		WebpageURL:   info.WebpageURL,
	}
	if meta.WebpageURL == "" {
		meta.WebpageURL = videoURL
	}

	e.logger.WithFields(logger.Fields{
		"title":        meta.Title,
		"subtitle_len": len(meta.SubtitleText),
	}).Info("Metadata extraction completed")

	return meta
}

// downloadSubtitles fetches a VTT subtitle file and parses it into plain
// text. A non-200 response or any other failure yields the empty string. The
// payload is staged through a temporary file that is removed after parsing.
func (e *Extractor) downloadSubtitles(ctx context.Context, subtitleURL string) string {
	resp, err := e.http.R().SetContext(ctx).Get(subtitleURL)
	if err != nil {
		e.logger.WithError(err).Error("Subtitle download failed")
		return ""
	}
	if resp.StatusCode() != 200 {
		e.logger.WithField("status", resp.StatusCode()).Warn("Subtitle download returned non-200")
		return ""
	}

	tmp, err := os.CreateTemp("", "subtitle-*.vtt")
	if err != nil {
		e.logger.WithError(err).Error("Failed to create temporary subtitle file")
		return ""
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(resp.Body()); err != nil {
		tmp.Close()
		e.logger.WithError(err).Error("Failed to write temporary subtitle file")
		return ""
	}
	if err := tmp.Close(); err != nil {
		e.logger.WithError(err).Error("Failed to close temporary subtitle file")
		return ""
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		e.logger.WithError(err).Error("Failed to reopen temporary subtitle file")
		return ""
	}
	defer f.Close()

	return ParseVTT(f)
}
