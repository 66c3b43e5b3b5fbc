package cmd

import (
	"fmt"

	"github.com/notestream/notestream/internal/cache"
	"github.com/notestream/notestream/internal/chat"
	"github.com/notestream/notestream/internal/config"
	"github.com/notestream/notestream/internal/generate"
	"github.com/notestream/notestream/internal/llm"
	"github.com/notestream/notestream/internal/log"
	"github.com/notestream/notestream/internal/video"
)

// app bundles the wired services behind every command.
type app struct {
	cfg       *config.Config
	logger    log.Logger
	store     *cache.Store
	generator *generate.Service
	chat      *chat.Service
}

// setup loads configuration and wires the service graph. The caller
// must Close the returned app.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{
		Level: parseLogLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	store, err := cache.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	client := llm.NewHTTPClient(cfg.BaseURL, logger)
	fetcher := video.NewHTTPFetcher(logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		generator: generate.NewService(client, store, fetcher, logger),
		chat:      chat.NewService(client, logger),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
