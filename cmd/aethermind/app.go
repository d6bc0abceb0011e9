package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/cards/scryfall"
	"github.com/aethermind/aethermind/internal/config"
	"github.com/aethermind/aethermind/internal/deckbuilder"
	"github.com/aethermind/aethermind/internal/llm"
	"github.com/aethermind/aethermind/internal/storage"
	"github.com/aethermind/aethermind/internal/version"
)

// app holds the wired services shared by every command.
type app struct {
	db       *storage.DB
	scryfall *scryfall.Client
	decks    *deckbuilder.Service
}

// newApp opens the database and wires the card client, language model and deck service.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbConfig := storage.DefaultConfig(dbPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("Database opened", zap.String("path", dbPath))

	sc := scryfall.DefaultConfig()
	sc.BaseURL = cfg.Scryfall.BaseURL
	sc.UserAgent = "Aethermind/" + version.GetVersion()
	sc.RateLimit = config.Duration(cfg.Scryfall.RateLimit)
	sc.Timeout = config.Duration(cfg.Scryfall.Timeout)
	cardClient := scryfall.NewClient(sc)

	provider, err := llm.NewProvider(ctx, llm.ProviderConfig{
		Provider:         cfg.LLM.Provider,
		Model:            cfg.LLM.Model,
		BaseURL:          cfg.LLM.BaseURL,
		APIKey:           cfg.LLM.APIKey,
		RequestTimeout:   config.Duration(cfg.LLM.RequestTimeout),
		InferenceTimeout: config.Duration(cfg.LLM.InferenceTimeout),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create language model provider: %w", err)
	}

	advisorConfig := llm.DefaultAdvisorConfig()
	if cfg.LLM.Temperature > 0 {
		advisorConfig.DeckTemperature = cfg.LLM.Temperature
	}
	advisor := llm.NewAdvisor(provider, advisorConfig, logger)

	store := storage.NewService(db)
	decks := deckbuilder.NewService(store, cardClient, advisor, advisor, deckbuilder.Options{
		MaxCards:           cfg.DeckBuilder.MaxCards,
		ResolveConcurrency: cfg.DeckBuilder.ResolveConcurrency,
		BuildTimeout:       config.Duration(cfg.DeckBuilder.BuildTimeout),
	}, logger)

	logger.Debug("Services ready", zap.String("llm", provider.Name()))

	return &app{
		db:       db,
		scryfall: cardClient,
		decks:    decks,
	}, nil
}

// Close releases the database.
func (a *app) Close() error {
	return a.db.Close()
}

// withApp runs fn with a wired app and closes it afterwards.
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("Error closing database", zap.Error(err))
		}
	}()
	return fn(a)
}
