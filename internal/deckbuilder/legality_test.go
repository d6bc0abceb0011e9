package deckbuilder

import (
	"testing"

	"github.com/aethermind/aethermind/internal/cards"
	"github.com/aethermind/aethermind/internal/deck"
)

func TestCheckLegality(t *testing.T) {
	d := deck.New("d1", omnath)
	d.Append(deck.Artifacts, solRing)
	d.Append(deck.Lands, forest)
	identity := d.ColorIdentity()

	tests := []struct {
		name string
		card cards.Card
		want RejectReason
	}{
		{"on color and new", cultivate, ""},
		{"colorless passes identity", golem, ""},
		{"banned", bannedCard("Primeval Titan", "Creature — Giant", cards.Green), RejectNotLegal},
		{"missing legality", cards.Card{Name: "Unknown", TypeLine: "Artifact"}, RejectNotLegal},
		{"off color", bolt, RejectColorIdentity},
		{"banned beats off color", bannedCard("Jeweled Lotus", "Artifact", cards.Red), RejectNotLegal},
		{"duplicate", solRing, RejectDuplicate},
		{"basic land duplicate allowed", forest, ""},
		{"commander counts as present", omnath, RejectDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckLegality(tt.card, identity, d); got != tt.want {
				t.Errorf("CheckLegality(%s) = %q, want %q", tt.card.Name, got, tt.want)
			}
		})
	}
}

func TestLegalityFilter_Cumulative(t *testing.T) {
	d := deck.New("d1", omnath)
	f := NewLegalityFilter(d)

	if got := f.Admit(solRing); got != "" {
		t.Fatalf("first Sol Ring rejected: %q", got)
	}
	if got := f.Admit(solRing); got != RejectDuplicate {
		t.Errorf("second Sol Ring = %q, want %q", got, RejectDuplicate)
	}
	for i := 0; i < 3; i++ {
		if got := f.Admit(forest); got != "" {
			t.Errorf("Forest #%d rejected: %q", i+1, got)
		}
	}
	if got := f.Admit(counter); got != RejectColorIdentity {
		t.Errorf("Counterspell = %q, want %q", got, RejectColorIdentity)
	}
}

func TestLegalityFilter_SeededFromDeck(t *testing.T) {
	d := deck.New("d1", omnath)
	d.Append(deck.Sorceries, cultivate)

	f := NewLegalityFilter(d)
	if got := f.Admit(cultivate); got != RejectDuplicate {
		t.Errorf("Cultivate = %q, want %q", got, RejectDuplicate)
	}
	if got := f.Admit(omnath); got != RejectDuplicate {
		t.Errorf("commander = %q, want %q", got, RejectDuplicate)
	}
}

func TestLegalityFilter_PartnerIdentity(t *testing.T) {
	d := deck.New("d1", omnath, talrand)
	f := NewLegalityFilter(d)

	if got := f.Admit(counter); got != "" {
		t.Errorf("Counterspell rejected with partner identity: %q", got)
	}
	if got := f.Admit(bolt); got != RejectColorIdentity {
		t.Errorf("Lightning Bolt = %q, want %q", got, RejectColorIdentity)
	}
}
