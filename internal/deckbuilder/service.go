// Package deckbuilder assembles Commander decks from language model suggestions.
//
// A build asks a DeckSuggester for card names, normalizes them, resolves each
// against the card database, filters the results for Commander legality and
// merges the survivors into the persisted deck in one transactional write.
package deckbuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/deck"
	"github.com/aethermind/aethermind/internal/logging"
	"github.com/aethermind/aethermind/internal/storage/models"
)

var (
	// ErrDeckBusy is returned when another run is already working on the deck.
	ErrDeckBusy = errors.New("deck is busy")
	// ErrNoCommander is returned when a deck has no commander to build around.
	ErrNoCommander = errors.New("deck has no commander")
	// ErrNotCommander is returned when a card cannot lead a Commander deck.
	ErrNotCommander = errors.New("card cannot be a commander")
	// ErrCardNotInDeck is returned when removing a card the deck does not hold.
	ErrCardNotInDeck = errors.New("card not in deck")
)

// DefaultBuildTimeout bounds a whole build, regenerate or rename run.
const DefaultBuildTimeout = 2 * time.Minute

// DeckSuggester proposes card names for a deck led by commanders.
// The reply is untrusted text and is normalized before use.
type DeckSuggester interface {
	SuggestDeck(ctx context.Context, commanders []cards.Card, count int) (string, error)
}

// Options tune the build pipeline.
type Options struct {
	MaxCards           int
	ResolveConcurrency int
	BuildTimeout       time.Duration
}

// DefaultOptions returns the standard pipeline settings.
func DefaultOptions() Options {
	return Options{
		MaxCards:           deck.MaxCards,
		ResolveConcurrency: DefaultResolveConcurrency,
		BuildTimeout:       DefaultBuildTimeout,
	}
}

// BuildReport summarizes one pipeline run.
type BuildReport struct {
	Suggested    int                  `json:"suggested"`
	Resolved     int                  `json:"resolved"`
	NotFound     int                  `json:"not_found"`
	LookupErrors int                  `json:"lookup_errors"`
	Accepted     int                  `json:"accepted"`
	Rejected     map[RejectReason]int `json:"rejected"`
	Duration     time.Duration        `json:"duration"`
}

// BuildResult is a deck after a pipeline run together with its report.
type BuildResult struct {
	Deck   *deck.Deck  `json:"deck"`
	Report BuildReport `json:"report"`
}

// Service is the entry point for building, regenerating and renaming decks.
// Runs on the same deck id never overlap; a second run fails with ErrDeckBusy.
type Service struct {
	store     DeckStore
	lookup    CardLookup
	suggester DeckSuggester
	resolver  *Resolver
	merge     *MergeEngine
	namer     *Namer
	opts      Options
	logger    *zap.Logger

	mu        sync.RWMutex
	publisher Publisher

	runs *runLocks
	now  func() time.Time
}

// NewService wires the pipeline components.
func NewService(store DeckStore, lookup CardLookup, suggester DeckSuggester, names NameSuggester, opts Options, logger *zap.Logger) *Service {
	logger = logging.OrNop(logger)
	defaults := DefaultOptions()
	if opts.MaxCards <= 0 {
		opts.MaxCards = defaults.MaxCards
	}
	if opts.ResolveConcurrency <= 0 {
		opts.ResolveConcurrency = defaults.ResolveConcurrency
	}
	if opts.BuildTimeout <= 0 {
		opts.BuildTimeout = defaults.BuildTimeout
	}

	return &Service{
		store:     store,
		lookup:    lookup,
		suggester: suggester,
		resolver:  NewResolver(lookup, opts.ResolveConcurrency, logger),
		merge:     NewMergeEngine(store, logger),
		namer:     NewNamer(names, logger),
		opts:      opts,
		logger:    logger,
		publisher: nopPublisher{},
		runs:      newRunLocks(),
		now:       time.Now,
	}
}

// SetPublisher sets where deck events are sent.
func (s *Service) SetPublisher(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		p = nopPublisher{}
	}
	s.publisher = p
}

func (s *Service) publish(t EventType, deckID string, data interface{}) {
	s.mu.RLock()
	p := s.publisher
	s.mu.RUnlock()
	p.Publish(Event{Type: t, DeckID: deckID, Data: data})
}

// CreateDeck resolves the named commanders and stores a new empty deck led by them.
// Two commanders are allowed when both have Partner or name each other with "Partner with".
func (s *Service) CreateDeck(ctx context.Context, commanderNames ...string) (*deck.Deck, error) {
	if len(commanderNames) == 0 || len(commanderNames) > 2 {
		return nil, fmt.Errorf("%w: need one or two commanders, got %d", ErrNotCommander, len(commanderNames))
	}

	commanders := make([]cards.Card, 0, len(commanderNames))
	for _, name := range commanderNames {
		card, err := s.lookup.CardByExactName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up commander %q: %w", name, err)
		}
		if card == nil {
			return nil, fmt.Errorf("failed to look up commander %q: %w", name, cards.ErrCardNotFound)
		}
		if !card.IsCommanderEligible() {
			return nil, fmt.Errorf("%w: %s", ErrNotCommander, card.Name)
		}
		commanders = append(commanders, *card)
	}
	if len(commanders) == 2 && !cards.CanPartner(commanders[0], commanders[1]) {
		return nil, fmt.Errorf("%w: %s and %s are not partners", ErrNotCommander, commanders[0].Name, commanders[1].Name)
	}

	d := deck.New(uuid.NewString(), commanders...)
	if err := s.store.CreateDeck(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Deck created", zap.String("deck_id", d.ID), zap.String("commander", commanders[0].Name))
	s.publish(EventDeckUpdated, d.ID, d)
	return d, nil
}

// GetDeck loads a deck.
func (s *Service) GetDeck(ctx context.Context, deckID string) (*deck.Deck, error) {
	return s.store.GetDeck(ctx, deckID)
}

// ListDecks returns summaries of all decks.
func (s *Service) ListDecks(ctx context.Context) ([]*models.DeckSummary, error) {
	return s.store.ListDecks(ctx)
}

// DeleteDeck removes a deck unless a run is in flight for it.
func (s *Service) DeleteDeck(ctx context.Context, deckID string) error {
	release, err := s.runs.acquire(deckID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.store.DeleteDeck(ctx, deckID); err != nil {
		return err
	}
	s.publish(EventDeckDeleted, deckID, nil)
	return nil
}

// BuildDeck asks for suggestions and appends the admitted cards to the deck.
func (s *Service) BuildDeck(ctx context.Context, deckID string) (*BuildResult, error) {
	release, err := s.runs.acquire(deckID)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.opts.BuildTimeout)
	defer cancel()

	d, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, d)
}

// RegenerateDeck empties every bucket except the commanders and builds the deck again.
// The reset is committed before suggestions are requested.
func (s *Service) RegenerateDeck(ctx context.Context, deckID string) (*BuildResult, error) {
	release, err := s.runs.acquire(deckID)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.opts.BuildTimeout)
	defer cancel()

	s.publish(EventBuildProgress, deckID, map[string]string{"stage": StageResetting})
	// Failed and finished events belong to run, which publishes the matching start.
	d, err := s.merge.Reset(ctx, deckID)
	if err != nil {
		s.logger.Error("Deck reset failed", zap.String("deck_id", deckID), zap.Error(err))
		return nil, err
	}
	return s.run(ctx, d)
}

// run executes suggest, normalize, resolve and merge for d. The caller holds the run lock.
func (s *Service) run(ctx context.Context, d *deck.Deck) (result *BuildResult, err error) {
	start := s.now()
	log := s.logger.With(zap.String("deck_id", d.ID))

	if len(d.Commanders) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCommander, d.ID)
	}

	s.publish(EventBuildStarted, d.ID, map[string]string{"commander": d.Commanders[0].Name})
	defer func() {
		if err != nil {
			log.Error("Deck build failed", zap.Error(err))
			s.publish(EventBuildFailed, d.ID, map[string]string{"error": err.Error()})
		}
	}()

	s.publish(EventBuildProgress, d.ID, map[string]string{"stage": StageSuggesting})
	raw, err := s.suggester.SuggestDeck(ctx, d.Commanders, s.opts.MaxCards)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck suggestions: %w", err)
	}

	names := NormalizeNames(raw, s.opts.MaxCards)
	report := BuildReport{Suggested: len(names)}
	log.Info("Suggestions received", zap.Int("names", len(names)))

	s.publish(EventBuildProgress, d.ID, map[string]interface{}{"stage": StageResolving, "names": len(names)})
	resolutions, err := s.resolver.Resolve(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("card resolution interrupted: %w", err)
	}
	for _, r := range resolutions {
		switch r.Outcome {
		case Resolved:
			report.Resolved++
		case NotFound:
			report.NotFound++
		case LookupError:
			report.LookupErrors++
		}
	}

	s.publish(EventBuildProgress, d.ID, map[string]string{"stage": StageMerging})
	updated, stats, err := s.merge.Append(ctx, d.ID, resolutions)
	if err != nil {
		return nil, err
	}
	report.Accepted = stats.Accepted
	report.Rejected = stats.Rejected
	report.Duration = s.now().Sub(start)

	log.Info("Deck built",
		zap.Int("suggested", report.Suggested),
		zap.Int("resolved", report.Resolved),
		zap.Int("not_found", report.NotFound),
		zap.Int("lookup_errors", report.LookupErrors),
		zap.Int("accepted", report.Accepted),
		zap.Duration("duration", report.Duration))

	result = &BuildResult{Deck: updated, Report: report}
	s.publish(EventBuildFinished, d.ID, report)
	s.publish(EventDeckUpdated, d.ID, updated)
	return result, nil
}

// RenameDeck asks for a name based on the deck's current cards and applies it.
// When the reply holds no usable name the deck keeps its current name.
func (s *Service) RenameDeck(ctx context.Context, deckID string) (*deck.Deck, error) {
	release, err := s.runs.acquire(deckID)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.opts.BuildTimeout)
	defer cancel()

	d, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	name, err := s.NameDeck(ctx, d.Commanders, d.Decklist(false))
	if err != nil {
		return nil, err
	}
	if name == "" {
		s.logger.Warn("Naming reply was empty, keeping current name",
			zap.String("deck_id", deckID), zap.String("name", d.Name))
		return d, nil
	}

	if err := s.merge.Rename(ctx, deckID, name); err != nil {
		return nil, err
	}

	renamed, err := s.store.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Deck renamed", zap.String("deck_id", deckID), zap.String("name", name))
	s.publish(EventDeckRenamed, deckID, map[string]string{"name": name})
	return renamed, nil
}

// NameDeck returns a sanitized name suggestion for the given commanders and decklist text.
func (s *Service) NameDeck(ctx context.Context, commanders []cards.Card, decklist string) (string, error) {
	if len(commanders) == 0 {
		return "", ErrNoCommander
	}
	name, err := s.namer.Name(ctx, commanders, decklist)
	if err != nil {
		return "", fmt.Errorf("failed to get deck name: %w", err)
	}
	return name, nil
}

// AddCard looks up one card by exact name and merges it through the legality filter.
// A rejection is reported through the returned reason, not as an error.
func (s *Service) AddCard(ctx context.Context, deckID, name string) (*deck.Deck, RejectReason, error) {
	release, err := s.runs.acquire(deckID)
	if err != nil {
		return nil, "", err
	}
	defer release()

	// Typed names are looked up as entered, apart from surrounding space.
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", fmt.Errorf("%w: %q", cards.ErrCardNotFound, name)
	}

	resolutions, err := s.resolver.Resolve(ctx, []string{name})
	if err != nil {
		return nil, "", err
	}
	switch r := resolutions[0]; r.Outcome {
	case NotFound:
		return nil, "", fmt.Errorf("%w: %s", cards.ErrCardNotFound, r.Name)
	case LookupError:
		return nil, "", fmt.Errorf("failed to look up %s: %w", r.Name, r.Err)
	}

	updated, stats, err := s.merge.Append(ctx, deckID, resolutions)
	if err != nil {
		return nil, "", err
	}
	for reason := range stats.Rejected {
		return updated, reason, nil
	}

	s.publish(EventDeckUpdated, deckID, updated)
	return updated, "", nil
}

// RemoveCard removes the first card named name from category.
func (s *Service) RemoveCard(ctx context.Context, deckID string, category deck.Category, name string) (*deck.Deck, error) {
	release, err := s.runs.acquire(deckID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := s.store.UpdateDeck(ctx, deckID, func(d *deck.Deck) error {
		if !d.Remove(category, name) {
			return fmt.Errorf("%w: %s in %s", ErrCardNotInDeck, name, category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventDeckUpdated, deckID, updated)
	return updated, nil
}

// runLocks tracks which deck ids have a run in flight.
type runLocks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newRunLocks() *runLocks {
	return &runLocks{active: make(map[string]struct{})}
}

// acquire marks deckID busy and returns a func that releases it.
func (l *runLocks) acquire(deckID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.active[deckID]; busy {
		return nil, fmt.Errorf("%w: %s", ErrDeckBusy, deckID)
	}
	l.active[deckID] = struct{}{}

	return func() {
		l.mu.Lock()
		delete(l.active, deckID)
		l.mu.Unlock()
	}, nil
}
