package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/repositories"
	"github.com/desertthunder/sortify/internal/services"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("SORTIFY_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	spotifyService := services.NewSpotifyService(config.Credentials.Map())
	if config.Sort.RateLimit > 0 {
		spotifyService.SetRateLimit(config.Sort.RateLimit)
	}

	// Run history is only recorded once `sortify setup` has created the database
	var recorder tasks.RunRecorder
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			recorder = repositories.NewRunRepository(db)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Spotify:  spotifyService,
		Recorder: recorder,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "sortify",
		Usage:    "Sort Spotify playlists and your library by release date",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrAborted) {
			logger.Warn("aborted")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
