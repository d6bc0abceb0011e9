package deck

import (
	"fmt"
	"strings"

	"github.com/aethermind/aethermind/internal/cards"
)

// Category is a deck section that non-commander cards are bucketed into.
type Category string

// Deck categories in display order.
const (
	Planeswalkers Category = "Planeswalkers"
	Creatures     Category = "Creatures"
	Sorceries     Category = "Sorceries"
	Instants      Category = "Instants"
	Enchantments  Category = "Enchantments"
	Artifacts     Category = "Artifacts"
	Lands         Category = "Lands"
	Others        Category = "Others"
)

// Categories lists every non-commander category in display order.
var Categories = []Category{
	Planeswalkers,
	Creatures,
	Sorceries,
	Instants,
	Enchantments,
	Artifacts,
	Lands,
	Others,
}

// typePriority maps type-line substrings to categories. Order is the tie-break:
// an Artifact Creature is a Creature, an Enchantment Land is an Enchantment.
var typePriority = []struct {
	substr   string
	category Category
}{
	{"Planeswalker", Planeswalkers},
	{"Creature", Creatures},
	{"Sorcery", Sorceries},
	{"Instant", Instants},
	{"Enchantment", Enchantments},
	{"Artifact", Artifacts},
	{"Land", Lands},
}

// Categorize assigns a card to exactly one category based on its type line.
func Categorize(card cards.Card) Category {
	for _, p := range typePriority {
		if strings.Contains(card.TypeLine, p.substr) {
			return p.category
		}
	}
	return Others
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
