package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/deck"
)

// setupDeckTestDB creates an in-memory database with the decks table.
func setupDeckTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE decks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			commander TEXT NOT NULL,
			color_identity TEXT NOT NULL DEFAULT '',
			card_count INTEGER NOT NULL DEFAULT 0,
			document TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			CHECK(json_valid(document))
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Error closing database: %v", err)
		}
	})
	return db
}

func newDeck(id string, at time.Time) *deck.Deck {
	d := deck.New(id, cards.Card{
		Name:          "Meren of Clan Nel Toth",
		TypeLine:      "Legendary Creature — Human Shaman",
		ColorIdentity: []cards.Color{cards.Black, cards.Green},
	})
	d.CreatedAt = at
	d.UpdatedAt = at
	return d
}

func TestDeckRepository_Create(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	d := newDeck("deck-1", time.Now().UTC())
	d.Append(deck.Artifacts, cards.Card{Name: "Sol Ring", TypeLine: "Artifact"})

	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("failed to create deck: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, "deck-1")
	if err != nil {
		t.Fatalf("failed to retrieve deck: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected deck to be found")
	}
	if retrieved.Name != "Meren of Clan Nel Toth & friends" {
		t.Errorf("expected default name, got '%s'", retrieved.Name)
	}
	if len(retrieved.Artifacts) != 1 || retrieved.Artifacts[0].Name != "Sol Ring" {
		t.Errorf("expected Sol Ring in artifacts, got %v", retrieved.Artifacts)
	}

	if err := repo.Create(ctx, d); err == nil {
		t.Error("expected error creating duplicate deck id")
	}
}

func TestDeckRepository_GetByID_Missing(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))

	d, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != nil {
		t.Errorf("expected nil deck, got %v", d)
	}
}

func TestDeckRepository_Replace(t *testing.T) {
	db := setupDeckTestDB(t)
	repo := NewDeckRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	d := newDeck("deck-1", now)
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("failed to create deck: %v", err)
	}

	d.Append(deck.Lands, cards.Card{Name: "Forest", TypeLine: "Basic Land — Forest"})
	d.Append(deck.Lands, cards.Card{Name: "Swamp", TypeLine: "Basic Land — Swamp"})
	d.UpdatedAt = now.Add(time.Minute)
	if err := repo.Replace(ctx, d); err != nil {
		t.Fatalf("failed to replace deck: %v", err)
	}

	var cardCount, version int
	var colors string
	err := db.QueryRow(`SELECT card_count, version, color_identity FROM decks WHERE id = ?`, "deck-1").
		Scan(&cardCount, &version, &colors)
	if err != nil {
		t.Fatalf("failed to read deck row: %v", err)
	}
	if cardCount != 2 {
		t.Errorf("expected card_count 2, got %d", cardCount)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if colors != "BG" {
		t.Errorf("expected color identity BG, got %s", colors)
	}

	missing := newDeck("deck-2", now)
	if err := repo.Replace(ctx, missing); err == nil {
		t.Error("expected error replacing a missing deck")
	}
}

func TestDeckRepository_List(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	decks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("failed to list decks: %v", err)
	}
	if len(decks) != 0 {
		t.Errorf("expected no decks, got %d", len(decks))
	}

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		if err := repo.Create(ctx, newDeck(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("failed to create deck %s: %v", id, err)
		}
	}

	decks, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("failed to list decks: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(decks))
	}
	if decks[0].ID != "new" || decks[1].ID != "old" {
		t.Errorf("expected newest first, got %s, %s", decks[0].ID, decks[1].ID)
	}
	if decks[0].Commander != "Meren of Clan Nel Toth" {
		t.Errorf("unexpected commander %q", decks[0].Commander)
	}
}

func TestDeckRepository_UpdateName(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	if err := repo.Create(ctx, newDeck("deck-1", now)); err != nil {
		t.Fatalf("failed to create deck: %v", err)
	}

	ok, err := repo.UpdateName(ctx, "deck-1", "Graveyard Shift", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("failed to rename deck: %v", err)
	}
	if !ok {
		t.Fatal("expected rename to find the deck")
	}

	d, err := repo.GetByID(ctx, "deck-1")
	if err != nil {
		t.Fatalf("failed to retrieve deck: %v", err)
	}
	if d.Name != "Graveyard Shift" {
		t.Errorf("expected document name to change, got %q", d.Name)
	}
	if !d.UpdatedAt.Equal(now.Add(time.Minute)) {
		t.Errorf("expected updated_at %v, got %v", now.Add(time.Minute), d.UpdatedAt)
	}

	ok, err = repo.UpdateName(ctx, "missing", "x", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected rename of missing deck to report false")
	}
}

func TestDeckRepository_Delete(t *testing.T) {
	repo := NewDeckRepository(setupDeckTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, newDeck("deck-1", time.Now().UTC())); err != nil {
		t.Fatalf("failed to create deck: %v", err)
	}

	ok, err := repo.Delete(ctx, "deck-1")
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v; want true, nil", ok, err)
	}

	ok, err = repo.Delete(ctx, "deck-1")
	if err != nil || ok {
		t.Fatalf("second Delete() = %v, %v; want false, nil", ok, err)
	}
}
