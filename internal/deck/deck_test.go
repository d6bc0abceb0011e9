package deck

import (
	"testing"

	"github.com/aethermind/aethermind/internal/cards"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		typeLine string
		want     Category
	}{
		{"Legendary Planeswalker — Garruk", Planeswalkers},
		{"Creature — Elf Druid", Creatures},
		{"Artifact Creature — Golem", Creatures},
		{"Enchantment Creature — God", Creatures},
		{"Legendary Creature — Planeswalker Hunter", Planeswalkers},
		{"Sorcery", Sorceries},
		{"Tribal Instant — Elf", Instants},
		{"Enchantment — Aura", Enchantments},
		{"Enchantment Land — Urza's Saga", Enchantments},
		{"Artifact — Equipment", Artifacts},
		{"Artifact Land", Artifacts},
		{"Basic Land — Forest", Lands},
		{"Land", Lands},
		{"Battle — Siege", Others},
		{"", Others},
	}

	for _, tt := range tests {
		t.Run(tt.typeLine, func(t *testing.T) {
			got := Categorize(cards.Card{TypeLine: tt.typeLine})
			if got != tt.want {
				t.Errorf("Categorize(%q) = %s, want %s", tt.typeLine, got, tt.want)
			}
		})
	}
}

func TestCategorize_ArtifactCreatureIsNeverArtifact(t *testing.T) {
	for _, typeLine := range []string{
		"Artifact Creature — Construct",
		"Legendary Artifact Creature — Golem",
		"Snow Artifact Creature",
		"Creature Artifact",
	} {
		if got := Categorize(cards.Card{TypeLine: typeLine}); got != Creatures {
			t.Errorf("Categorize(%q) = %s, want Creatures", typeLine, got)
		}
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("lands")
	if err != nil {
		t.Fatalf("ParseCategory() error = %v", err)
	}
	if got != Lands {
		t.Errorf("ParseCategory(lands) = %s", got)
	}

	if _, err := ParseCategory("Commanders"); err == nil {
		t.Error("expected error for Commanders")
	}
}

func testCommander() cards.Card {
	return cards.Card{
		Name:          "Omnath, Locus of Mana",
		TypeLine:      "Legendary Creature — Elemental",
		ColorIdentity: []cards.Color{cards.Green},
	}
}

func TestNew(t *testing.T) {
	d := New("deck-1", testCommander())

	if d.Name != "Omnath, Locus of Mana & friends" {
		t.Errorf("Name = %q", d.Name)
	}
	if len(d.Commanders) != 1 {
		t.Fatalf("len(Commanders) = %d, want 1", len(d.Commanders))
	}
	for _, c := range Categories {
		if d.Cards(c) == nil {
			t.Errorf("bucket %s is nil, want empty slice", c)
		}
	}
	if got := d.Counts().Total; got != 0 {
		t.Errorf("Total = %d, want 0", got)
	}
}

func TestDeck_AppendContainsRemove(t *testing.T) {
	d := New("deck-1", testCommander())
	d.Append(Artifacts, cards.Card{Name: "Sol Ring"})
	d.Append(Lands, cards.Card{Name: "Forest"})
	d.Append(Lands, cards.Card{Name: "Forest"})

	if !d.Contains("Sol Ring") {
		t.Error("Contains(Sol Ring) = false")
	}
	if !d.Contains("Omnath, Locus of Mana") {
		t.Error("commander not reported by Contains")
	}
	if d.Contains("Llanowar Elves") {
		t.Error("Contains(Llanowar Elves) = true")
	}

	if !d.Remove(Lands, "Forest") {
		t.Fatal("Remove(Forest) = false")
	}
	if got := len(d.Lands); got != 1 {
		t.Errorf("len(Lands) = %d, want 1 after removing one copy", got)
	}
	if d.Remove(Lands, "Island") {
		t.Error("Remove(Island) = true for missing card")
	}
}

func TestDeck_Reset(t *testing.T) {
	d := New("deck-1", testCommander())
	d.Append(Artifacts, cards.Card{Name: "Sol Ring"})
	d.Append(Creatures, cards.Card{Name: "Llanowar Elves"})

	d.Reset()

	if got := d.Counts().Total; got != 0 {
		t.Errorf("Total after Reset = %d, want 0", got)
	}
	if len(d.Commanders) != 1 || d.Commanders[0].Name != "Omnath, Locus of Mana" {
		t.Errorf("Commanders changed by Reset: %+v", d.Commanders)
	}
}

func TestDeck_Decklist(t *testing.T) {
	d := New("deck-1", testCommander())
	d.Append(Lands, cards.Card{Name: "Forest"})
	d.Append(Creatures, cards.Card{Name: "Llanowar Elves"})

	want := "1 Llanowar Elves\n1 Forest\n"
	if got := d.Decklist(false); got != want {
		t.Errorf("Decklist(false) = %q, want %q", got, want)
	}

	want = "1 Omnath, Locus of Mana\n" + want
	if got := d.Decklist(true); got != want {
		t.Errorf("Decklist(true) = %q, want %q", got, want)
	}
}

func TestDeck_Counts(t *testing.T) {
	d := New("deck-1", testCommander())
	d.Append(Lands, cards.Card{Name: "Forest"})
	d.Append(Lands, cards.Card{Name: "Forest"})
	d.Append(Artifacts, cards.Card{Name: "Sol Ring"})

	counts := d.Counts()
	if counts.Commanders != 1 {
		t.Errorf("Commanders = %d", counts.Commanders)
	}
	if counts.Categories[Lands] != 2 || counts.Categories[Artifacts] != 1 {
		t.Errorf("Categories = %v", counts.Categories)
	}
	if counts.Total != 3 {
		t.Errorf("Total = %d, want 3", counts.Total)
	}
}

func TestDeck_CloneDoesNotAlias(t *testing.T) {
	d := New("deck-1", testCommander())
	d.Append(Lands, cards.Card{Name: "Forest"})

	clone := d.Clone()
	clone.Append(Lands, cards.Card{Name: "Forest"})
	clone.Commanders[0].Name = "Changed"

	if len(d.Lands) != 1 {
		t.Errorf("original Lands modified through clone: %d", len(d.Lands))
	}
	if d.Commanders[0].Name != "Omnath, Locus of Mana" {
		t.Error("original commander modified through clone")
	}
}
