package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aethermind/aethermind/internal/api/handlers"
	"github.com/aethermind/aethermind/internal/api/response"
	"github.com/aethermind/aethermind/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		cardHandler := handlers.NewCardHandler(s.cards)
		r.Get("/commanders", cardHandler.SearchCommanders)
		r.Get("/cards/named", cardHandler.GetCardByName)

		r.Get("/metrics", handlers.NewMetricsHandler(s.metrics).GetMetrics)

		deckHandler := handlers.NewDeckHandler(s.decks)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.GetDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Get("/{deckID}", deckHandler.GetDeck)
			r.Delete("/{deckID}", deckHandler.DeleteDeck)
			r.Post("/{deckID}/build", deckHandler.BuildDeck)
			r.Post("/{deckID}/regenerate", deckHandler.RegenerateDeck)
			r.Post("/{deckID}/rename", deckHandler.RenameDeck)
			r.Post("/{deckID}/cards", deckHandler.AddCard)
			r.Delete("/{deckID}/cards/{category}/{name}", deckHandler.RemoveCard)
			r.Get("/{deckID}/decklist", deckHandler.GetDecklist)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"service":    "aethermind-api",
		"version":    version.GetVersion(),
		"ws_clients": s.wsHub.ClientCount(),
	})
}
