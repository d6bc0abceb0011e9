package deckbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishers(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	ps := Publishers{a, nil, b}

	ps.Publish(Event{Type: EventBuildStarted, DeckID: "d1"})
	ps.Publish(Event{Type: EventBuildFinished, DeckID: "d1"})

	want := []EventType{EventBuildStarted, EventBuildFinished}
	assert.Equal(t, want, a.types())
	assert.Equal(t, want, b.types())
}
