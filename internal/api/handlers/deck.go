package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aethermind/aethermind/internal/api/response"
	"github.com/aethermind/aethermind/internal/deck"
	"github.com/aethermind/aethermind/internal/deckbuilder"
	"github.com/aethermind/aethermind/internal/storage/models"
)

// DeckService is the subset of deckbuilder.Service the deck routes use.
type DeckService interface {
	CreateDeck(ctx context.Context, commanderNames ...string) (*deck.Deck, error)
	GetDeck(ctx context.Context, deckID string) (*deck.Deck, error)
	ListDecks(ctx context.Context) ([]*models.DeckSummary, error)
	DeleteDeck(ctx context.Context, deckID string) error
	BuildDeck(ctx context.Context, deckID string) (*deckbuilder.BuildResult, error)
	RegenerateDeck(ctx context.Context, deckID string) (*deckbuilder.BuildResult, error)
	RenameDeck(ctx context.Context, deckID string) (*deck.Deck, error)
	AddCard(ctx context.Context, deckID, name string) (*deck.Deck, deckbuilder.RejectReason, error)
	RemoveCard(ctx context.Context, deckID string, category deck.Category, name string) (*deck.Deck, error)
}

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	service DeckService
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(service DeckService) *DeckHandler {
	return &DeckHandler{service: service}
}

// DeckView is a deck with its card counts.
type DeckView struct {
	*deck.Deck
	Counts deck.Counts `json:"counts"`
}

func newDeckView(d *deck.Deck) DeckView {
	return DeckView{Deck: d, Counts: d.Counts()}
}

// BuildResponse is the result of a build or regenerate request.
type BuildResponse struct {
	Deck   DeckView                `json:"deck"`
	Report deckbuilder.BuildReport `json:"report"`
}

// GetDecks returns summaries of all decks.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.service.ListDecks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if decks == nil {
		decks = []*models.DeckSummary{}
	}
	response.Success(w, decks)
}

// CreateDeckRequest represents a request to create a deck.
type CreateDeckRequest struct {
	Commander string `json:"commander"`
	Partner   string `json:"partner,omitempty"`
}

// CreateDeck creates an empty deck led by the requested commander.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	commander := strings.TrimSpace(req.Commander)
	if commander == "" {
		response.BadRequest(w, errors.New("commander is required"))
		return
	}
	names := []string{commander}
	if partner := strings.TrimSpace(req.Partner); partner != "" {
		names = append(names, partner)
	}

	d, err := h.service.CreateDeck(r.Context(), names...)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, newDeckView(d))
}

// GetDeck returns a single deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, newDeckView(d))
}

// DeleteDeck removes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDeck(r.Context(), chi.URLParam(r, "deckID")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// BuildDeck appends suggested cards to a deck.
func (h *DeckHandler) BuildDeck(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.BuildDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, BuildResponse{Deck: newDeckView(result.Deck), Report: result.Report})
}

// RegenerateDeck clears a deck and builds it again.
func (h *DeckHandler) RegenerateDeck(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RegenerateDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, BuildResponse{Deck: newDeckView(result.Deck), Report: result.Report})
}

// RenameDeck asks for a new name for the deck.
func (h *DeckHandler) RenameDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.RenameDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, newDeckView(d))
}

// AddCardRequest represents a request to add one card by name.
type AddCardRequest struct {
	Name string `json:"name"`
}

// AddCardResponse reports whether the card was admitted.
type AddCardResponse struct {
	Deck     DeckView                 `json:"deck"`
	Accepted bool                     `json:"accepted"`
	Reason   deckbuilder.RejectReason `json:"reason,omitempty"`
}

// AddCard adds a card after legality checks.
// A rejected card is not an error; the response carries the reason.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req AddCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.BadRequest(w, errors.New("card name is required"))
		return
	}

	d, reason, err := h.service.AddCard(r.Context(), chi.URLParam(r, "deckID"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, AddCardResponse{
		Deck:     newDeckView(d),
		Accepted: reason == "",
		Reason:   reason,
	})
}

// RemoveCard removes one card from a category.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	category, err := deck.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		response.BadRequest(w, errors.New("invalid card name"))
		return
	}

	d, err := h.service.RemoveCard(r.Context(), chi.URLParam(r, "deckID"), category, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, newDeckView(d))
}

// GetDecklist returns the deck as plain text, one "1 Name" line per card.
// Commanders are included unless commanders=false.
func (h *DeckHandler) GetDecklist(w http.ResponseWriter, r *http.Request) {
	includeCommanders := true
	if v := r.URL.Query().Get("commanders"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, errors.New("commanders must be a boolean"))
			return
		}
		includeCommanders = b
	}

	d, err := h.service.GetDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Text(w, http.StatusOK, d.Decklist(includeCommanders))
}
