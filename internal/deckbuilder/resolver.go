package deckbuilder

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/logging"
)

// DefaultResolveConcurrency bounds parallel card lookups.
const DefaultResolveConcurrency = 8

// CardLookup finds a card by its exact printed name.
// A missing card is reported with an error matching cards.ErrCardNotFound.
type CardLookup interface {
	CardByExactName(ctx context.Context, name string) (*cards.Card, error)
}

// Outcome classifies a single lookup.
type Outcome int

const (
	// Resolved means the lookup returned a card.
	Resolved Outcome = iota
	// NotFound means no card has that exact name.
	NotFound
	// LookupError means the lookup failed for another reason (timeout, 5xx, ...).
	LookupError
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	case LookupError:
		return "lookup_error"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of looking up one candidate name.
// Position is the candidate's index in the suggestion list.
type Resolution struct {
	Position int
	Name     string
	Outcome  Outcome
	Card     cards.Card // set when Outcome is Resolved
	Err      error      // set when Outcome is LookupError
}

// Resolver looks up candidate names on a bounded pool of workers.
type Resolver struct {
	lookup      CardLookup
	concurrency int
	logger      *zap.Logger
}

// NewResolver creates a resolver. Non-positive concurrency selects the default.
func NewResolver(lookup CardLookup, concurrency int, logger *zap.Logger) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultResolveConcurrency
	}
	return &Resolver{
		lookup:      lookup,
		concurrency: concurrency,
		logger:      logging.OrNop(logger),
	}
}

// Resolve looks up every name and returns one Resolution per name, in input order.
// Individual failures are recorded in the results and never stop the batch.
// The only error returned is the context's, once it is done; the results gathered
// so far are returned with it.
func (r *Resolver) Resolve(ctx context.Context, names []string) ([]Resolution, error) {
	results := make([]Resolution, len(names))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	launched := 0
	for i, name := range names {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = r.resolveOne(ctx, i, name)
			return nil
		})
		launched++
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results[:launched], err
	}
	return results, nil
}

func (r *Resolver) resolveOne(ctx context.Context, pos int, name string) Resolution {
	res := Resolution{Position: pos, Name: name}

	card, err := r.lookup.CardByExactName(ctx, name)
	switch {
	case err == nil && card != nil:
		res.Outcome = Resolved
		res.Card = *card
	case err == nil, errors.Is(err, cards.ErrCardNotFound):
		res.Outcome = NotFound
		r.logger.Warn("Card not found", zap.String("name", name), zap.Int("position", pos))
	default:
		res.Outcome = LookupError
		res.Err = err
		r.logger.Warn("Card lookup failed", zap.String("name", name), zap.Int("position", pos), zap.Error(err))
	}
	return res
}
