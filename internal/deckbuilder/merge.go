package deckbuilder

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/deck"
	"github.com/aethermind/aethermind/internal/logging"
	"github.com/aethermind/aethermind/internal/storage/models"
)

// DeckStore persists whole deck documents.
// UpdateDeck must run its read, fn and write as one transaction and write nothing when fn fails.
type DeckStore interface {
	CreateDeck(ctx context.Context, d *deck.Deck) error
	GetDeck(ctx context.Context, id string) (*deck.Deck, error)
	ListDecks(ctx context.Context) ([]*models.DeckSummary, error)
	UpdateDeck(ctx context.Context, id string, fn func(*deck.Deck) error) (*deck.Deck, error)
	RenameDeck(ctx context.Context, id, name string) error
	DeleteDeck(ctx context.Context, id string) error
}

// MergeStats counts what happened to the resolved cards of one Append.
type MergeStats struct {
	Accepted int                  `json:"accepted"`
	Rejected map[RejectReason]int `json:"rejected"`
}

// MergeEngine applies pipeline results to persisted decks.
type MergeEngine struct {
	store  DeckStore
	logger *zap.Logger
}

// NewMergeEngine creates a merge engine over store.
func NewMergeEngine(store DeckStore, logger *zap.Logger) *MergeEngine {
	return &MergeEngine{store: store, logger: logging.OrNop(logger)}
}

// Append filters the resolved cards against the freshly read deck and appends the
// admitted ones to their category buckets, in suggestion order, in one write.
// Unresolved entries are ignored.
func (m *MergeEngine) Append(ctx context.Context, deckID string, resolutions []Resolution) (*deck.Deck, MergeStats, error) {
	ordered := make([]Resolution, 0, len(resolutions))
	for _, r := range resolutions {
		if r.Outcome == Resolved {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	var stats MergeStats
	updated, err := m.store.UpdateDeck(ctx, deckID, func(d *deck.Deck) error {
		stats = MergeStats{Rejected: make(map[RejectReason]int)}
		filter := NewLegalityFilter(d)

		for _, r := range ordered {
			if reason := filter.Admit(r.Card); reason != "" {
				stats.Rejected[reason]++
				m.logger.Debug("Card rejected",
					zap.String("deck_id", deckID),
					zap.String("card", r.Card.Name),
					zap.String("reason", string(reason)))
				continue
			}
			d.Append(deck.Categorize(r.Card), r.Card)
			stats.Accepted++
		}
		return nil
	})
	if err != nil {
		return nil, MergeStats{}, fmt.Errorf("failed to merge cards into deck %s: %w", deckID, err)
	}

	return updated, stats, nil
}

// Reset empties every bucket of the deck except the commanders.
func (m *MergeEngine) Reset(ctx context.Context, deckID string) (*deck.Deck, error) {
	updated, err := m.store.UpdateDeck(ctx, deckID, func(d *deck.Deck) error {
		d.Reset()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset deck %s: %w", deckID, err)
	}
	return updated, nil
}

// Rename updates only the deck's name.
func (m *MergeEngine) Rename(ctx context.Context, deckID, name string) error {
	if err := m.store.RenameDeck(ctx, deckID, name); err != nil {
		return fmt.Errorf("failed to rename deck %s: %w", deckID, err)
	}
	return nil
}
