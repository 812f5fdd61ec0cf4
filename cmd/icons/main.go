// Command icons renders the home screen and manifest icons configured in
// config.yaml.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jo-hoe/whiteborder/internal/core"
	"github.com/jo-hoe/whiteborder/internal/icons"
)

func getConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

func main() {
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		log.Printf("failed to load config from %s: %v", configPath, err)
		panic(err)
	}

	background, err := icons.ParseHexColor(config.Icons.Background)
	if err != nil {
		log.Printf("invalid icon background: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	generated, err := icons.Generate(ctx, icons.Options{
		Source:            config.Icons.Source,
		OutputDir:         config.Icons.OutputDir,
		Background:        background,
		AppleTouchSizes:   config.Icons.AppleTouchSizes,
		AppleTouchPrimary: config.Icons.AppleTouchPrimary,
		ManifestSizes:     config.Icons.ManifestSizes,
	})
	if err != nil {
		log.Printf("icon generation failed: %v", err)
		os.Exit(1)
	}
	for _, icon := range generated {
		log.Printf("generated %s (%dx%d)", icon.Path, icon.Size, icon.Size)
	}
}
