package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/logging"
)

// AdvisorConfig tunes the prompts sent by an Advisor.
type AdvisorConfig struct {
	DeckTemperature float64
	NameTemperature float64
}

// DefaultAdvisorConfig returns sensible defaults.
func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{
		DeckTemperature: 0.7,
		NameTemperature: 0.9,
	}
}

// Advisor asks a Provider for deck contents and deck names.
// Replies are returned raw; callers normalize them.
type Advisor struct {
	provider Provider
	config   AdvisorConfig
	logger   *zap.Logger
}

// NewAdvisor creates an advisor backed by provider.
func NewAdvisor(provider Provider, config AdvisorConfig, logger *zap.Logger) *Advisor {
	return &Advisor{
		provider: provider,
		config:   config,
		logger:   logging.OrNop(logger),
	}
}

// SuggestDeck asks for count card names for a deck led by commanders.
func (a *Advisor) SuggestDeck(ctx context.Context, commanders []cards.Card, count int) (string, error) {
	system, user := DeckPrompt(commanders, count)

	start := time.Now()
	text, err := a.provider.Complete(ctx, CompletionRequest{
		System:      system,
		Prompt:      user,
		JSON:        true,
		Temperature: a.config.DeckTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s deck suggestion failed: %w", a.provider.Name(), err)
	}

	a.logger.Debug("Deck suggestion received",
		zap.String("provider", a.provider.Name()),
		zap.Int("bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}

// SuggestName asks for a short name for the deck described by decklist.
func (a *Advisor) SuggestName(ctx context.Context, commanders []cards.Card, decklist string) (string, error) {
	system, user := NamePrompt(commanders, decklist)

	text, err := a.provider.Complete(ctx, CompletionRequest{
		System:      system,
		Prompt:      user,
		Temperature: a.config.NameTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s name suggestion failed: %w", a.provider.Name(), err)
	}

	a.logger.Debug("Deck name received", zap.String("provider", a.provider.Name()), zap.String("name", text))
	return text, nil
}
