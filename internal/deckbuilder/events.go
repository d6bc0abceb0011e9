package deckbuilder

// EventType names a deck lifecycle event.
type EventType string

// Event types published while decks are built and edited.
const (
	EventBuildStarted  EventType = "build.started"
	EventBuildProgress EventType = "build.progress"
	EventBuildFinished EventType = "build.finished"
	EventBuildFailed   EventType = "build.failed"
	EventDeckUpdated   EventType = "deck.updated"
	EventDeckRenamed   EventType = "deck.renamed"
	EventDeckDeleted   EventType = "deck.deleted"
)

// Build stages reported in EventBuildProgress payloads.
const (
	StageResetting  = "resetting"
	StageSuggesting = "suggesting"
	StageResolving  = "resolving"
	StageMerging    = "merging"
)

// Event is a notification about one deck.
type Event struct {
	Type   EventType   `json:"type"`
	DeckID string      `json:"deck_id"`
	Data   interface{} `json:"data,omitempty"`
}

// Publisher receives deck events. Publish must not block.
type Publisher interface {
	Publish(Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

// Publishers fans each event out to every publisher in order.
type Publishers []Publisher

// Publish implements Publisher.
func (ps Publishers) Publish(e Event) {
	for _, p := range ps {
		if p != nil {
			p.Publish(e)
		}
	}
}
