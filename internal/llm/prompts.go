package llm

import (
	"fmt"
	"strings"

	"github.com/aethermind/aethermind/internal/cards"
)

const deckSystemPrompt = `You are a Magic: The Gathering deck-building assistant. Your task is to generate a list of %[1]d cards for a Commander/EDH deck. The deck must be valid according to the rules of the Commander format and should synergize with the given commander and its color identity.

# Response Guidelines
- Respond with a JSON object whose "cards" key holds an array of exactly %[1]d card names.
- Each card name must be the exact printed English name.
- Include at least 35 land cards.
- Ensure all cards match the commander's color identity.
- For multiple basic lands, list each copy individually.
- Do not include any additional text, numbers or quantities, only card names.

Example response:
{"cards": ["Sol Ring", "Arcane Signet", "Forest", "Forest"]}`

const nameSystemPrompt = `You are clever and imaginative and know all there is to know about Magic: The Gathering and its lore. You receive a list of cards from a Commander/EDH deck and respond with the perfect name for the deck. You do not respond with any chat messages, only with your chosen name.

# How to respond
- Do not use the word 'rampage'
- Your response must be a single line of text surrounded by quotes ""
- No other text, just the chosen name
- Your response must be 5 words or less`

// DeckPrompt returns the system and user prompts asking for count card names.
func DeckPrompt(commanders []cards.Card, count int) (system, user string) {
	identity := cards.IdentityOf(commanders...)
	colors := make([]string, 0, len(identity))
	for _, c := range identity.Slice() {
		colors = append(colors, string(c))
	}
	colorText := strings.Join(colors, ", ")
	if colorText == "" {
		colorText = "colorless"
	}

	user = fmt.Sprintf(
		"Generate a list of %d cards for a Commander deck with [%s] as the commander. "+
			"The chosen cards must match the color identity [%s], and fit well with the commander's theme and overall strategy. "+
			"Consider potential win conditions and choose cards that synergize with each other and the commander. "+
			"The deck must contain exactly %d cards, including at least 35 land cards.",
		count, commanderNames(commanders), colorText, count)

	return fmt.Sprintf(deckSystemPrompt, count), user
}

// NamePrompt returns the system and user prompts asking for a deck name.
func NamePrompt(commanders []cards.Card, decklist string) (system, user string) {
	user = fmt.Sprintf("Think of a clever name for the following commander deck with [%s] as the commander:\n\"\"\"\n%s\"\"\"\n",
		commanderNames(commanders), decklist)
	return nameSystemPrompt, user
}

func commanderNames(commanders []cards.Card) string {
	names := make([]string, 0, len(commanders))
	for _, c := range commanders {
		names = append(names, c.Name)
	}
	return strings.Join(names, "] and [")
}
