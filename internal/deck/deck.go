// Package deck models the persisted state of a Commander deck.
package deck

import (
	"fmt"
	"strings"
	"time"

	"github.com/aethermind/aethermind/internal/cards"
)

// MaxCards is the number of non-commander cards a finished deck holds.
const MaxCards = 99

// Deck is the aggregate persisted for one Commander deck.
// Field names match the document keys used since the first release.
type Deck struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Commanders []cards.Card `json:"Commanders"`

	Planeswalkers []cards.Card `json:"Planeswalkers"`
	Creatures     []cards.Card `json:"Creatures"`
	Sorceries     []cards.Card `json:"Sorceries"`
	Instants      []cards.Card `json:"Instants"`
	Enchantments  []cards.Card `json:"Enchantments"`
	Artifacts     []cards.Card `json:"Artifacts"`
	Lands         []cards.Card `json:"Lands"`
	Others        []cards.Card `json:"Others"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty deck led by the given commanders.
func New(id string, commanders ...cards.Card) *Deck {
	name := ""
	if len(commanders) > 0 {
		name = commanders[0].Name + " & friends"
	}
	d := &Deck{
		ID:         id,
		Name:       name,
		Commanders: commanders,
	}
	d.Reset()
	return d
}

// Bucket returns a pointer to the card slice backing category.
func (d *Deck) Bucket(category Category) *[]cards.Card {
	switch category {
	case Planeswalkers:
		return &d.Planeswalkers
	case Creatures:
		return &d.Creatures
	case Sorceries:
		return &d.Sorceries
	case Instants:
		return &d.Instants
	case Enchantments:
		return &d.Enchantments
	case Artifacts:
		return &d.Artifacts
	case Lands:
		return &d.Lands
	default:
		return &d.Others
	}
}

// Cards returns the cards in category.
func (d *Deck) Cards(category Category) []cards.Card {
	return *d.Bucket(category)
}

// Append adds card to the end of its category's bucket.
func (d *Deck) Append(category Category, card cards.Card) {
	bucket := d.Bucket(category)
	*bucket = append(*bucket, card)
}

// Remove deletes the first card named name from category.
// It reports whether a card was removed.
func (d *Deck) Remove(category Category, name string) bool {
	bucket := d.Bucket(category)
	for i, c := range *bucket {
		if c.Name == name {
			*bucket = append((*bucket)[:i:i], (*bucket)[i+1:]...)
			return true
		}
	}
	return false
}

// Reset empties every category except the commanders.
func (d *Deck) Reset() {
	for _, c := range Categories {
		*d.Bucket(c) = []cards.Card{}
	}
}

// Contains reports whether a card named name is anywhere in the deck, commanders included.
func (d *Deck) Contains(name string) bool {
	for _, c := range d.Commanders {
		if c.Name == name {
			return true
		}
	}
	for _, category := range Categories {
		for _, c := range d.Cards(category) {
			if c.Name == name {
				return true
			}
		}
	}
	return false
}

// ColorIdentity returns the union of the commanders' color identities.
func (d *Deck) ColorIdentity() cards.ColorSet {
	return cards.IdentityOf(d.Commanders...)
}

// Commander returns the first commander, or nil when the deck has none.
func (d *Deck) Commander() *cards.Card {
	if len(d.Commanders) == 0 {
		return nil
	}
	return &d.Commanders[0]
}

// Counts holds per-category card counts.
type Counts struct {
	Commanders int              `json:"commanders"`
	Categories map[Category]int `json:"categories"`
	Total      int              `json:"total"`
}

// Counts tallies the deck. Total excludes the commanders.
func (d *Deck) Counts() Counts {
	counts := Counts{
		Commanders: len(d.Commanders),
		Categories: make(map[Category]int, len(Categories)),
	}
	for _, c := range Categories {
		n := len(d.Cards(c))
		counts.Categories[c] = n
		counts.Total += n
	}
	return counts
}

// Decklist renders the deck as one "1 Name" line per card, in display order.
func (d *Deck) Decklist(includeCommanders bool) string {
	var b strings.Builder
	if includeCommanders {
		for _, c := range d.Commanders {
			fmt.Fprintf(&b, "1 %s\n", c.Name)
		}
	}
	for _, category := range Categories {
		for _, c := range d.Cards(category) {
			fmt.Fprintf(&b, "1 %s\n", c.Name)
		}
	}
	return b.String()
}

// Clone returns a deep copy of the deck's slices so mutations do not alias.
func (d *Deck) Clone() *Deck {
	out := *d
	out.Commanders = append([]cards.Card(nil), d.Commanders...)
	for _, c := range Categories {
		*out.Bucket(c) = append([]cards.Card{}, d.Cards(c)...)
	}
	return &out
}
