package websocket

import (
	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/deckbuilder"
)

// DeckObserver forwards deck events to WebSocket clients.
// It implements deckbuilder.Publisher and never blocks the publishing run.
type DeckObserver struct {
	hub    *Hub
	logger *zap.Logger
}

// NewDeckObserver creates an observer broadcasting through hub.
func NewDeckObserver(hub *Hub, logger *zap.Logger) *DeckObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeckObserver{hub: hub, logger: logger.Named("deck-observer")}
}

// Publish converts the event to its wire form and queues it for broadcast.
func (o *DeckObserver) Publish(event deckbuilder.Event) {
	if o.hub == nil {
		return
	}

	sent := o.hub.BroadcastEvent(Event{
		Type:   string(event.Type),
		DeckID: event.DeckID,
		Data:   event.Data,
	})
	if sent {
		o.logger.Debug("Broadcast deck event",
			zap.String("type", string(event.Type)),
			zap.String("deck_id", event.DeckID),
			zap.Int("clients", o.hub.ClientCount()))
	}
}

var _ deckbuilder.Publisher = (*DeckObserver)(nil)
