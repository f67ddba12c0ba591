package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/timewarpfm/timewarp/internal/chart"
	"github.com/timewarpfm/timewarp/internal/services"
	"github.com/timewarpfm/timewarp/internal/session"
	"github.com/timewarpfm/timewarp/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	// .env is optional; real environments export the variables directly.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded credentials from .env")
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("ignoring unreadable config.toml: %v", err)
		}
	}
	config.ApplyEnv()

	var spotifyService *services.SpotifyService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map(), logger); err == nil {
			spotifyService = svc
		} else {
			logger.Warnf("spotify service unavailable: %v", err)
		}
	}

	extractor := chart.NewExtractor(
		config.Chart.BaseURL,
		time.Duration(config.Chart.TimeoutSeconds)*time.Second,
		logger,
	)

	var sessionCache *session.Cache
	if config.Session.CachePath != "" {
		sessionCache = session.NewCache(config.Session.CachePath)
	} else if cache, err := session.DefaultCache(); err == nil {
		sessionCache = cache
	} else {
		logger.Warnf("session cache unavailable: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Spotify:   spotifyService,
		Extractor: extractor,
		Session:   sessionCache,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "timewarp",
		Usage:    "Build a playlist from a historical Billboard Hot 100 chart",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
