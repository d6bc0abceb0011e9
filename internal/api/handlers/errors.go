package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/aethermind/aethermind/internal/api/response"
	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/deckbuilder"
	"github.com/aethermind/aethermind/internal/storage"
)

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrDeckNotFound),
		errors.Is(err, deckbuilder.ErrCardNotInDeck),
		errors.Is(err, cards.ErrCardNotFound):
		response.NotFound(w, err)
	case errors.Is(err, deckbuilder.ErrDeckBusy):
		response.Conflict(w, err)
	case errors.Is(err, deckbuilder.ErrNotCommander),
		errors.Is(err, deckbuilder.ErrNoCommander):
		response.UnprocessableEntity(w, err)
	case errors.Is(err, context.DeadlineExceeded):
		response.GatewayTimeout(w, err)
	case errors.Is(err, context.Canceled):
		// Client went away; status is best effort.
		response.Error(w, http.StatusServiceUnavailable, err)
	default:
		response.InternalError(w, err)
	}
}
