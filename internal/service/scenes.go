package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/lrstanley/go-ytdlp"

	"github.com/homeyum/homeyum/internal/config"
	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/logger"
)

// videoDownloader fetches a video to a local file and returns its path.
type videoDownloader func(ctx context.Context, videoURL, destDir string) (string, error)

// SceneExtractor downloads a cooking video and samples representative frames
// at a fixed interval with ffmpeg.
type SceneExtractor struct {
	interval   float64
	maxScenes  int
	ffmpegPath string
	logger     *logger.Logger
	download   videoDownloader
}

// NewSceneExtractor creates a new scene extractor.
// Parameters:
//   - cfg: analysis configuration (sampling interval, scene cap, ffmpeg path).
//   - log: logger; nil uses the default.
//
// Returns:
//   - *SceneExtractor: initialized extractor.
func NewSceneExtractor(cfg *config.AnalysisConfig, log *logger.Logger) *SceneExtractor {
	if log == nil {
		log = logger.Default()
	}

	interval := cfg.SceneInterval
	if interval <= 0 {
		interval = 5.0
	}
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	s := &SceneExtractor{
		interval:   interval,
		maxScenes:  cfg.MaxScenes,
		ffmpegPath: ffmpegPath,
		logger:     log.WithField(logger.FieldComponent, "scenes"),
	}
	s.download = s.downloadVideo
	return s
}

// ExtractScenes downloads the video and returns one scene per sampled frame.
// All temporary files are removed before returning.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - videoURL: source video URL.
//
// Returns:
//   - []domain.Scene: sampled scenes in chronological order, capped at the
//     configured maximum.
//   - error: non-nil if the download or frame sampling fails.
func (s *SceneExtractor) ExtractScenes(ctx context.Context, videoURL string) ([]domain.Scene, error) {
	workDir, err := os.MkdirTemp("", "scene-extract-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	s.logger.WithField("url", videoURL).Info("Downloading video for scene extraction")

	videoPath, err := s.download(ctx, videoURL, workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to download video: %w", err)
	}

	framePaths, err := s.sampleFrames(ctx, videoPath, workDir)
	if err != nil {
		return nil, err
	}

	scenes := make([]domain.Scene, 0, len(framePaths))
	for i, framePath := range framePaths {
		data, err := os.ReadFile(framePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %s: %w", framePath, err)
		}
		scenes = append(scenes, domain.Scene{
			Number:    i + 1,
			StartTime: float64(i) * s.interval,
			EndTime:   float64(i+1) * s.interval,
			ImageData: data,
			Format:    "jpeg",
		})
	}

	s.logger.WithField(logger.FieldCount, len(scenes)).Info("Scenes extracted")
	return scenes, nil
}

// downloadVideo fetches the video with yt-dlp and returns the downloaded
// file's path.
func (s *SceneExtractor) downloadVideo(ctx context.Context, videoURL, destDir string) (string, error) {
	dl := ytdlp.New().
		Format("best[ext=mp4]/best").
		NoPlaylist().
		Quiet().
		NoWarnings().
		Output(filepath.Join(destDir, "video.%(ext)s"))

	if _, err := dl.Run(ctx, videoURL); err != nil {
		return "", err
	}

	matches, err := filepath.Glob(filepath.Join(destDir, "video.*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("downloaded video not found in %s", destDir)
	}
	return matches[0], nil
}

// sampleFrames extracts one frame per interval from the video and returns
// the frame file paths in order.
func (s *SceneExtractor) sampleFrames(ctx context.Context, videoPath, destDir string) ([]string, error) {
	framePattern := filepath.Join(destDir, "frame-%04d.jpg")

	args := []string{
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%g", s.interval),
		"-q:v", "2",
	}
	if s.maxScenes > 0 {
		args = append(args, "-frames:v", fmt.Sprintf("%d", s.maxScenes))
	}
	args = append(args, "-y", framePattern)

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame sampling failed: %w: %s", err, stderr.String())
	}

	frames, err := filepath.Glob(filepath.Join(destDir, "frame-*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", videoPath)
	}
	sort.Strings(frames)

	if s.maxScenes > 0 && len(frames) > s.maxScenes {
		frames = frames[:s.maxScenes]
	}
	return frames, nil
}
