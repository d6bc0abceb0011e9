package cards

import "strings"

// Color is a single color identity symbol.
type Color string

// The five colors of Magic. Colorless cards have an empty identity.
const (
	White Color = "W"
	Blue  Color = "U"
	Black Color = "B"
	Red   Color = "R"
	Green Color = "G"
)

// wubrg is the canonical color ordering.
var wubrg = []Color{White, Blue, Black, Red, Green}

// Valid reports whether c is one of the five color symbols.
func (c Color) Valid() bool {
	switch c {
	case White, Blue, Black, Red, Green:
		return true
	}
	return false
}

// ColorSet is a set of color identity symbols.
type ColorSet map[Color]struct{}

// NewColorSet builds a set from the given colors.
func NewColorSet(colors ...Color) ColorSet {
	set := make(ColorSet, len(colors))
	for _, c := range colors {
		set[c] = struct{}{}
	}
	return set
}

// IdentityOf returns the union of the color identities of the given cards.
func IdentityOf(cards ...Card) ColorSet {
	set := make(ColorSet, 5)
	for _, card := range cards {
		for _, c := range card.ColorIdentity {
			set[c] = struct{}{}
		}
	}
	return set
}

// Contains reports whether c is in the set.
func (s ColorSet) Contains(c Color) bool {
	_, ok := s[c]
	return ok
}

// Covers reports whether every color in identity is a member of s.
// An empty identity is always covered.
func (s ColorSet) Covers(identity []Color) bool {
	for _, c := range identity {
		if !s.Contains(c) {
			return false
		}
	}
	return true
}

// Slice returns the colors in WUBRG order.
func (s ColorSet) Slice() []Color {
	out := make([]Color, 0, len(s))
	for _, c := range wubrg {
		if s.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// String renders the set in WUBRG order, or "C" when colorless.
func (s ColorSet) String() string {
	if len(s) == 0 {
		return "C"
	}
	var b strings.Builder
	for _, c := range s.Slice() {
		b.WriteString(string(c))
	}
	return b.String()
}
