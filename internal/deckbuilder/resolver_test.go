package deckbuilder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethermind/aethermind/internal/cards"
)

func TestResolver_Outcomes(t *testing.T) {
	lookup := newFakeLookup(solRing, forest)
	lookup.errs["Cultivate"] = errors.New("503 service unavailable")

	r := NewResolver(lookup, 2, nil)
	got, err := r.Resolve(context.Background(), []string{"Sol Ring", "Not A Real Card", "Cultivate", "Forest"})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, Resolved, got[0].Outcome)
	assert.Equal(t, "Sol Ring", got[0].Card.Name)

	assert.Equal(t, NotFound, got[1].Outcome)
	assert.Equal(t, "Not A Real Card", got[1].Name)
	assert.NoError(t, got[1].Err)

	assert.Equal(t, LookupError, got[2].Outcome)
	assert.Error(t, got[2].Err)

	assert.Equal(t, Resolved, got[3].Outcome)

	for i, res := range got {
		assert.Equal(t, i, res.Position)
	}
}

// slowLookup answers earlier names more slowly so completion order is reversed.
type slowLookup struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	delays   map[string]time.Duration
}

func (s *slowLookup) CardByExactName(ctx context.Context, name string) (*cards.Card, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}

	select {
	case <-time.After(s.delays[name]):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	c := legalCard(name, "Artifact")
	return &c, nil
}

func TestResolver_PreservesOrderAndBoundsConcurrency(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	lookup := &slowLookup{delays: make(map[string]time.Duration)}
	for i, n := range names {
		lookup.delays[n] = time.Duration(len(names)-i) * 5 * time.Millisecond
	}

	r := NewResolver(lookup, 3, nil)
	got, err := r.Resolve(context.Background(), names)
	require.NoError(t, err)
	require.Len(t, got, len(names))

	for i, res := range got {
		assert.Equal(t, names[i], res.Card.Name)
		assert.Equal(t, i, res.Position)
	}
	assert.LessOrEqual(t, lookup.peak.Load(), int32(3))
}

func TestResolver_CancelledContext(t *testing.T) {
	lookup := newFakeLookup(solRing)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(lookup, 2, nil)
	got, err := r.Resolve(ctx, []string{"Sol Ring", "Sol Ring"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), lookup.calls.Load())
}

func TestResolver_EmptyInput(t *testing.T) {
	r := NewResolver(newFakeLookup(), 0, nil)
	got, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "lookup_error", LookupError.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
