// Package cards defines the canonical card record shared by the deck pipeline.
package cards

import (
	"errors"
	"strings"
)

// ErrCardNotFound is returned by card lookups when no card matches a name exactly.
var ErrCardNotFound = errors.New("card not found")

// FormatCommander is the legalities key for the Commander/EDH format.
const FormatCommander = "commander"

// Legality values reported by Scryfall.
const (
	Legal      = "legal"
	NotLegal   = "not_legal"
	Banned     = "banned"
	Restricted = "restricted"
)

// Card is the canonical record for one printed card.
// Cards are immutable once resolved and are stored by value inside decks.
type Card struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	TypeLine      string            `json:"type_line"`
	ManaCost      string            `json:"mana_cost,omitempty"`
	CMC           float64           `json:"cmc"`
	OracleText    string            `json:"oracle_text,omitempty"`
	ColorIdentity []Color           `json:"color_identity"`
	Legalities    map[string]string `json:"legalities,omitempty"`
	ImageURIs     *ImageURIs        `json:"image_uris,omitempty"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string     `json:"name"`
	ManaCost   string     `json:"mana_cost,omitempty"`
	TypeLine   string     `json:"type_line"`
	OracleText string     `json:"oracle_text,omitempty"`
	ImageURIs  *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small   string `json:"small,omitempty"`
	Normal  string `json:"normal,omitempty"`
	Large   string `json:"large,omitempty"`
	ArtCrop string `json:"art_crop,omitempty"`
}

// IsLegalIn reports whether the card is legal (not banned, restricted or absent) in format.
func (c Card) IsLegalIn(format string) bool {
	if c.Legalities == nil {
		return false
	}
	return c.Legalities[format] == Legal
}

// IsBasicLand reports whether the card is a basic land and therefore exempt from the singleton rule.
func (c Card) IsBasicLand() bool {
	return strings.Contains(c.TypeLine, "Basic") && strings.Contains(c.TypeLine, "Land")
}

// IsColorless reports whether the card has an empty color identity.
func (c Card) IsColorless() bool {
	return len(c.ColorIdentity) == 0
}

// IsCommanderEligible reports whether the card may lead a Commander deck.
func (c Card) IsCommanderEligible() bool {
	if strings.Contains(c.OracleText, "can be your commander") {
		return true
	}
	typeLine := c.TypeLine
	if typeLine == "" && len(c.CardFaces) > 0 {
		typeLine = c.CardFaces[0].TypeLine
	}
	return strings.Contains(typeLine, "Legendary") && strings.Contains(typeLine, "Creature")
}

// HasPartner reports whether the card carries the generic Partner keyword.
// "Partner with <name>" does not count; see PartnerWith.
func (c Card) HasPartner() bool {
	for _, line := range strings.Split(c.OracleText, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Partner") && !strings.HasPrefix(line, "Partner with ") {
			return true
		}
	}
	return false
}

// PartnerWith returns the card named by a "Partner with <name>" ability, or "".
func (c Card) PartnerWith() string {
	for _, line := range strings.Split(c.OracleText, "\n") {
		line = strings.TrimSpace(line)
		name, ok := strings.CutPrefix(line, "Partner with ")
		if !ok {
			continue
		}
		if i := strings.Index(name, " ("); i >= 0 {
			name = name[:i]
		}
		return strings.TrimSpace(name)
	}
	return ""
}

// CanPartner reports whether a and b may lead a deck together: both have
// Partner, or each names the other with "Partner with".
func CanPartner(a, b Card) bool {
	if a.HasPartner() && b.HasPartner() {
		return true
	}
	return a.PartnerWith() == b.Name && b.PartnerWith() == a.Name
}

// ImageURL returns the normal-size image, falling back to the first face for multi-faced cards.
func (c Card) ImageURL() string {
	if c.ImageURIs != nil && c.ImageURIs.Normal != "" {
		return c.ImageURIs.Normal
	}
	for _, face := range c.CardFaces {
		if face.ImageURIs != nil && face.ImageURIs.Normal != "" {
			return face.ImageURIs.Normal
		}
	}
	return ""
}
