package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aethermind/aethermind/internal/deck"
	"github.com/aethermind/aethermind/internal/storage/models"
)

// DeckRepository handles database operations for deck documents.
// Each deck is stored as one JSON document that is always replaced whole.
type DeckRepository interface {
	// Create inserts a new deck into the database.
	Create(ctx context.Context, d *deck.Deck) error

	// Replace overwrites the whole stored document for d.ID.
	Replace(ctx context.Context, d *deck.Deck) error

	// GetByID retrieves a deck by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*deck.Deck, error)

	// List retrieves summaries of all decks, most recently updated first.
	List(ctx context.Context) ([]*models.DeckSummary, error)

	// UpdateName changes only the deck's name. Returns false when the deck does not exist.
	UpdateName(ctx context.Context, id, name string, at time.Time) (bool, error)

	// Delete deletes a deck by its ID. Returns false when the deck does not exist.
	Delete(ctx context.Context, id string) (bool, error)
}

// deckRepository is the concrete implementation of DeckRepository.
type deckRepository struct {
	db Querier
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db Querier) DeckRepository {
	return &deckRepository{db: db}
}

// Create inserts a new deck into the database.
func (r *deckRepository) Create(ctx context.Context, d *deck.Deck) error {
	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}

	query := `
		INSERT INTO decks (
			id, name, commander, color_identity, card_count,
			document, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		d.ID,
		d.Name,
		commanderName(d),
		d.ColorIdentity().String(),
		d.Counts().Total,
		string(doc),
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	return nil
}

// Replace overwrites the whole stored document for d.ID.
func (r *deckRepository) Replace(ctx context.Context, d *deck.Deck) error {
	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}

	query := `
		UPDATE decks
		SET name = ?, commander = ?, color_identity = ?, card_count = ?,
		    document = ?, version = version + 1, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		d.Name,
		commanderName(d),
		d.ColorIdentity().String(),
		d.Counts().Total,
		string(doc),
		d.UpdatedAt,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to replace deck: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to replace deck %s: %w", d.ID, sql.ErrNoRows)
	}

	return nil
}

// GetByID retrieves a deck by its ID.
func (r *deckRepository) GetByID(ctx context.Context, id string) (*deck.Deck, error) {
	query := `SELECT document FROM decks WHERE id = ?`

	var doc string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	d := &deck.Deck{}
	if err := json.Unmarshal([]byte(doc), d); err != nil {
		return nil, fmt.Errorf("failed to decode deck %s: %w", id, err)
	}

	return d, nil
}

// List retrieves summaries of all decks, most recently updated first.
func (r *deckRepository) List(ctx context.Context) ([]*models.DeckSummary, error) {
	query := `
		SELECT id, name, commander, color_identity, card_count, created_at, updated_at
		FROM decks
		ORDER BY updated_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []*models.DeckSummary
	for rows.Next() {
		s := &models.DeckSummary{}
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Commander,
			&s.ColorIdentity,
			&s.CardCount,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decks: %w", err)
	}

	return summaries, nil
}

// UpdateName changes only the deck's name, in both the column and the document.
func (r *deckRepository) UpdateName(ctx context.Context, id, name string, at time.Time) (bool, error) {
	query := `
		UPDATE decks
		SET name = ?, document = json_set(document, '$.name', ?, '$.updated_at', ?), updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, name, name, at.Format(time.RFC3339Nano), at, id)
	if err != nil {
		return false, fmt.Errorf("failed to rename deck: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return n > 0, nil
}

// Delete deletes a deck by its ID.
func (r *deckRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete deck: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return n > 0, nil
}

func commanderName(d *deck.Deck) string {
	if c := d.Commander(); c != nil {
		return c.Name
	}
	return ""
}
