package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aethermind/aethermind/internal/deck"
	"github.com/aethermind/aethermind/internal/storage/models"
	"github.com/aethermind/aethermind/internal/storage/repository"
)

// ErrDeckNotFound is returned when no deck exists for an id.
var ErrDeckNotFound = errors.New("deck not found")

// Service provides document-style persistence for decks.
// Writes replace the whole deck document; Update runs its read-modify-write in one transaction.
type Service struct {
	db    *DB
	decks repository.DeckRepository
	now   func() time.Time
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:    db,
		decks: repository.NewDeckRepository(db.Conn()),
		now:   time.Now,
	}
}

// CreateDeck persists a new deck.
func (s *Service) CreateDeck(ctx context.Context, d *deck.Deck) error {
	now := s.now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	if err := s.decks.Create(ctx, d); err != nil {
		return fmt.Errorf("failed to store deck %s: %w", d.ID, err)
	}
	return nil
}

// GetDeck loads a deck by id.
func (s *Service) GetDeck(ctx context.Context, id string) (*deck.Deck, error) {
	d, err := s.decks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	return d, nil
}

// ListDecks returns summaries of every stored deck.
func (s *Service) ListDecks(ctx context.Context) ([]*models.DeckSummary, error) {
	return s.decks.List(ctx)
}

// UpdateDeck reads the deck, applies fn and writes the whole document back inside one transaction.
// When fn returns an error nothing is written and the error is returned unchanged.
func (s *Service) UpdateDeck(ctx context.Context, id string, fn func(*deck.Deck) error) (*deck.Deck, error) {
	var updated *deck.Deck

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		repo := repository.NewDeckRepository(tx)

		d, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("%w: %s", ErrDeckNotFound, id)
		}

		if err := fn(d); err != nil {
			return err
		}

		d.ID = id
		d.UpdatedAt = s.now().UTC()
		if err := repo.Replace(ctx, d); err != nil {
			return err
		}

		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// RenameDeck updates only the deck's name field.
func (s *Service) RenameDeck(ctx context.Context, id, name string) error {
	ok, err := s.decks.UpdateName(ctx, id, name, s.now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	return nil
}

// DeleteDeck removes a deck.
func (s *Service) DeleteDeck(ctx context.Context, id string) error {
	ok, err := s.decks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	return nil
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
