package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aethermind/aethermind/internal/api/response"
	"github.com/aethermind/aethermind/internal/cards"
)

// CardSearcher looks cards up in the card database.
type CardSearcher interface {
	SearchCommanders(ctx context.Context, query string) ([]cards.Card, error)
	CardByExactName(ctx context.Context, name string) (*cards.Card, error)
}

// CardHandler handles card-related API requests.
type CardHandler struct {
	searcher CardSearcher
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(searcher CardSearcher) *CardHandler {
	return &CardHandler{searcher: searcher}
}

// SearchCommanders returns legendary creatures matching the q parameter.
func (h *CardHandler) SearchCommanders(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.BadRequest(w, errors.New("query parameter q is required"))
		return
	}

	found, err := h.searcher.SearchCommanders(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if found == nil {
		found = []cards.Card{}
	}

	response.Success(w, found)
}

// GetCardByName returns the card whose name matches the exact parameter.
func (h *CardHandler) GetCardByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("exact"))
	if name == "" {
		response.BadRequest(w, errors.New("query parameter exact is required"))
		return
	}

	card, err := h.searcher.CardByExactName(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, card)
}
