package models

import "time"

// DeckSummary is the listing view of a stored deck.
type DeckSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Commander     string    `json:"commander"`
	ColorIdentity string    `json:"color_identity"`
	CardCount     int       `json:"card_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
