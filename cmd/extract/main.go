package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/homeyum/homeyum/internal/config"
	"github.com/homeyum/homeyum/internal/domain"
	"github.com/homeyum/homeyum/internal/extract"
	"github.com/homeyum/homeyum/internal/logger"
)

func main() {
	var (
		videoURL   = flag.String("url", "", "Video URL to extract metadata from")
		outputPath = flag.String("output", "", "Write the JSON document to this file instead of stdout")
		configPath = flag.String("config", "", "Path to config file")
	)
	flag.Parse()

	if *videoURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: extract -url <video-url> [-output <file>] [-config <file>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      "text",
		ServiceName: "homeyum-extract",
	})
	logger.SetDefault(appLogger)

	extractor := extract.New(&cfg.Extractor, appLogger)
	metadata := extractor.Extract(context.Background(), *videoURL)

	doc := domain.Extraction{
		Metadata:  metadata,
		SourceURL: *videoURL,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	data = append(data, '\n')

	if *outputPath == "" {
		os.Stdout.Write(data)
		return
	}

	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outputPath, err)
	}
	appLogger.WithField("output", *outputPath).Info("Extraction written")
}
