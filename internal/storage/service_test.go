package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/deck"
)

func testDeck(id string) *deck.Deck {
	return deck.New(id, cards.Card{
		Name:          "Meren of Clan Nel Toth",
		TypeLine:      "Legendary Creature — Human Shaman",
		ColorIdentity: []cards.Color{cards.Black, cards.Green},
	})
}

func TestService_CreateAndGetDeck(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	d := testDeck("deck-1")
	d.Append(deck.Artifacts, cards.Card{Name: "Sol Ring", TypeLine: "Artifact"})
	require.NoError(t, svc.CreateDeck(ctx, d))

	got, err := svc.GetDeck(ctx, "deck-1")
	require.NoError(t, err)

	assert.Equal(t, "Meren of Clan Nel Toth & friends", got.Name)
	require.Len(t, got.Commanders, 1)
	assert.Equal(t, "Meren of Clan Nel Toth", got.Commanders[0].Name)
	assert.Equal(t, []cards.Color{cards.Black, cards.Green}, got.Commanders[0].ColorIdentity)
	require.Len(t, got.Artifacts, 1)
	assert.Equal(t, "Sol Ring", got.Artifacts[0].Name)
	assert.NotNil(t, got.Lands, "empty buckets survive a round trip as empty slices")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestService_GetDeck_NotFound(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.GetDeck(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestService_UpdateDeck(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.CreateDeck(ctx, testDeck("deck-1")))

	updated, err := svc.UpdateDeck(ctx, "deck-1", func(d *deck.Deck) error {
		d.Append(deck.Lands, cards.Card{Name: "Forest", TypeLine: "Basic Land — Forest"})
		d.Append(deck.Lands, cards.Card{Name: "Forest", TypeLine: "Basic Land — Forest"})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, updated.Lands, 2)

	stored, err := svc.GetDeck(ctx, "deck-1")
	require.NoError(t, err)
	assert.Len(t, stored.Lands, 2)

	summaries, err := svc.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].CardCount)
	assert.Equal(t, "BG", summaries[0].ColorIdentity)
	assert.Equal(t, "Meren of Clan Nel Toth", summaries[0].Commander)
}

func TestService_UpdateDeck_ErrorDiscardsChanges(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.CreateDeck(ctx, testDeck("deck-1")))

	boom := errors.New("boom")
	_, err := svc.UpdateDeck(ctx, "deck-1", func(d *deck.Deck) error {
		d.Append(deck.Artifacts, cards.Card{Name: "Sol Ring"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := svc.GetDeck(ctx, "deck-1")
	require.NoError(t, err)
	assert.Empty(t, stored.Artifacts)
}

func TestService_UpdateDeck_NotFound(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.UpdateDeck(context.Background(), "missing", func(d *deck.Deck) error {
		t.Error("fn must not run for a missing deck")
		return nil
	})
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestService_UpdateDeck_ConcurrentWritersDoNotLoseCards(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.CreateDeck(ctx, testDeck("deck-1")))

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateDeck(ctx, "deck-1", func(d *deck.Deck) error {
				d.Append(deck.Lands, cards.Card{Name: "Forest", TypeLine: "Basic Land — Forest"})
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := svc.GetDeck(ctx, "deck-1")
	require.NoError(t, err)
	assert.Len(t, stored.Lands, writers)
}

func TestService_RenameDeck(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	d := testDeck("deck-1")
	d.Append(deck.Creatures, cards.Card{Name: "Llanowar Elves", TypeLine: "Creature — Elf Druid"})
	require.NoError(t, svc.CreateDeck(ctx, d))

	require.NoError(t, svc.RenameDeck(ctx, "deck-1", "The Forest's Fury"))

	stored, err := svc.GetDeck(ctx, "deck-1")
	require.NoError(t, err)
	assert.Equal(t, "The Forest's Fury", stored.Name)
	assert.Len(t, stored.Creatures, 1, "rename must not touch categories")
	assert.False(t, stored.UpdatedAt.Before(stored.CreatedAt))

	summaries, err := svc.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "The Forest's Fury", summaries[0].Name)
}

func TestService_RenameDeck_NotFound(t *testing.T) {
	svc := setupTestService(t)

	err := svc.RenameDeck(context.Background(), "missing", "Name")
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestService_DeleteDeck(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.CreateDeck(ctx, testDeck("deck-1")))

	require.NoError(t, svc.DeleteDeck(ctx, "deck-1"))

	_, err := svc.GetDeck(ctx, "deck-1")
	assert.ErrorIs(t, err, ErrDeckNotFound)
	assert.ErrorIs(t, svc.DeleteDeck(ctx, "deck-1"), ErrDeckNotFound)
}
