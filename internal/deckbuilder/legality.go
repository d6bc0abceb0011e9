package deckbuilder

import (
	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/deck"
)

// RejectReason explains why the legality filter turned a card away.
type RejectReason string

// Rejection reasons in the order the rules are checked.
const (
	RejectNotLegal      RejectReason = "not_legal"
	RejectColorIdentity RejectReason = "color_identity"
	RejectDuplicate     RejectReason = "duplicate"
)

// CheckLegality applies the admission rules to card against the deck's current
// contents. It returns the first failing rule, or "" when the card is admitted.
//
// Rules, first failure wins:
//  1. the card is legal in Commander;
//  2. its color identity is within the commanders' (colorless always passes);
//  3. its name is not already in the deck, unless it is a basic land.
func CheckLegality(card cards.Card, identity cards.ColorSet, d *deck.Deck) RejectReason {
	if !card.IsLegalIn(cards.FormatCommander) {
		return RejectNotLegal
	}
	if !identity.Covers(card.ColorIdentity) {
		return RejectColorIdentity
	}
	if !card.IsBasicLand() && d.Contains(card.Name) {
		return RejectDuplicate
	}
	return ""
}

// LegalityFilter admits cards into one deck, remembering what it has already
// admitted so that duplicates within a single batch are caught.
type LegalityFilter struct {
	identity cards.ColorSet
	names    map[string]struct{}
}

// NewLegalityFilter seeds a filter with every card already in d, commanders included.
func NewLegalityFilter(d *deck.Deck) *LegalityFilter {
	f := &LegalityFilter{
		identity: d.ColorIdentity(),
		names:    make(map[string]struct{}),
	}
	for _, c := range d.Commanders {
		f.names[c.Name] = struct{}{}
	}
	for _, category := range deck.Categories {
		for _, c := range d.Cards(category) {
			f.names[c.Name] = struct{}{}
		}
	}
	return f
}

// Admit checks card and, when it passes, records it as part of the deck.
func (f *LegalityFilter) Admit(card cards.Card) RejectReason {
	if !card.IsLegalIn(cards.FormatCommander) {
		return RejectNotLegal
	}
	if !f.identity.Covers(card.ColorIdentity) {
		return RejectColorIdentity
	}
	if card.IsBasicLand() {
		return ""
	}
	if _, ok := f.names[card.Name]; ok {
		return RejectDuplicate
	}
	f.names[card.Name] = struct{}{}
	return ""
}
