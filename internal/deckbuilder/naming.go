package deckbuilder

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/logging"
)

// NameSuggester proposes a name for a deck from its commanders and decklist text.
type NameSuggester interface {
	SuggestName(ctx context.Context, commanders []cards.Card, decklist string) (string, error)
}

// NameResponse is the shape a naming reply arrived in: PlainText or SingleKeyContainer.
type NameResponse interface {
	// Text returns the reply's sole textual value.
	Text() string
}

// PlainText is a reply that is just the name, possibly quoted.
type PlainText string

// Text implements NameResponse.
func (p PlainText) Text() string { return string(p) }

// SingleKeyContainer is a reply wrapped in a one-key object such as {"name": "..."}.
// Value is empty when the key's value was not a string, in which case the key is the name.
type SingleKeyContainer struct {
	Key   string
	Value string
}

// Text implements NameResponse.
func (c SingleKeyContainer) Text() string {
	if c.Value != "" {
		return c.Value
	}
	return c.Key
}

// ParseNameResponse classifies a raw naming reply. It never fails.
func ParseNameResponse(raw string) NameResponse {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil && len(obj) == 1 {
			for key, value := range obj {
				s, _ := value.(string)
				return SingleKeyContainer{Key: key, Value: s}
			}
		}
	}
	return PlainText(raw)
}

const nameQuotes = "\"'`“”‘’"

// SanitizeName strips wrapping quotes, one trailing period and every colon,
// repeating until nothing changes. At most one period is removed in total.
func SanitizeName(name string) string {
	s := name
	periodRemoved := false
	for {
		before := s
		s = strings.TrimSpace(s)
		s = strings.ReplaceAll(s, ":", "")
		if !periodRemoved && strings.HasSuffix(s, ".") {
			s = strings.TrimSuffix(s, ".")
			periodRemoved = true
		}
		s = strings.Trim(s, nameQuotes)
		if s == before {
			return s
		}
	}
}

// Namer asks a NameSuggester for a deck name and cleans up the answer.
type Namer struct {
	suggester NameSuggester
	logger    *zap.Logger
}

// NewNamer creates a namer.
func NewNamer(suggester NameSuggester, logger *zap.Logger) *Namer {
	return &Namer{suggester: suggester, logger: logging.OrNop(logger)}
}

// Name returns the sanitized suggestion. An empty string means the reply held no usable name.
func (n *Namer) Name(ctx context.Context, commanders []cards.Card, decklist string) (string, error) {
	raw, err := n.suggester.SuggestName(ctx, commanders, decklist)
	if err != nil {
		return "", err
	}

	resp := ParseNameResponse(raw)
	if _, wrapped := resp.(SingleKeyContainer); wrapped {
		n.logger.Debug("Naming reply was wrapped in an object", zap.String("raw", raw))
	}
	return SanitizeName(resp.Text()), nil
}
