package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aethermind/aethermind/internal/deckbuilder"
)

func TestBuildMetrics_Publish(t *testing.T) {
	m := NewBuildMetrics()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }
	m.Reset()

	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildStarted, DeckID: "d1"})
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildProgress, DeckID: "d1"})
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildFinished, DeckID: "d1", Data: deckbuilder.BuildReport{
		Suggested:    40,
		Resolved:     36,
		NotFound:     3,
		LookupErrors: 1,
		Accepted:     30,
		Rejected: map[deckbuilder.RejectReason]int{
			deckbuilder.RejectDuplicate:     4,
			deckbuilder.RejectColorIdentity: 2,
		},
		Duration: 2 * time.Second,
	}})
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildStarted, DeckID: "d2"})
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildFailed, DeckID: "d2"})
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventDeckRenamed, DeckID: "d1"})
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventDeckDeleted, DeckID: "d2"})

	m.now = func() time.Time { return start.Add(90 * time.Second) }
	s := m.Stats()

	assert.Equal(t, uint64(2), s.BuildsStarted)
	assert.Equal(t, uint64(1), s.BuildsFinished)
	assert.Equal(t, uint64(1), s.BuildsFailed)
	assert.Equal(t, uint64(40), s.CardsSuggested)
	assert.Equal(t, uint64(30), s.CardsAccepted)
	assert.Equal(t, uint64(6), s.CardsRejected)
	assert.Equal(t, uint64(3), s.CardsNotFound)
	assert.Equal(t, uint64(1), s.LookupErrors)
	assert.Equal(t, uint64(1), s.DecksRenamed)
	assert.Equal(t, uint64(1), s.DecksDeleted)
	assert.InDelta(t, 75.0, s.AcceptRate, 0.001)
	assert.InDelta(t, 50.0, s.SuccessRate, 0.001)
	assert.Equal(t, 1, s.BuildLatency.Count)
	assert.InDelta(t, 2000.0, s.BuildLatency.Mean, 0.001)
	assert.Equal(t, "1m30s", s.Uptime)
}

func TestBuildMetrics_Reset(t *testing.T) {
	m := NewBuildMetrics()
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildStarted})
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildFinished, Data: deckbuilder.BuildReport{Suggested: 1, Duration: time.Second}})

	m.Reset()
	s := m.Stats()
	assert.Zero(t, s.BuildsStarted)
	assert.Zero(t, s.CardsSuggested)
	assert.Zero(t, s.BuildLatency.Count)
	assert.Zero(t, s.AcceptRate)
}

func TestBuildMetrics_IgnoresUnexpectedPayload(t *testing.T) {
	m := NewBuildMetrics()
	m.Publish(deckbuilder.Event{Type: deckbuilder.EventBuildFinished, Data: "not a report"})

	s := m.Stats()
	assert.Equal(t, uint64(1), s.BuildsFinished)
	assert.Zero(t, s.BuildLatency.Count)
}
