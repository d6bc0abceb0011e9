package cards

import "testing"

func TestCard_IsBasicLand(t *testing.T) {
	tests := []struct {
		typeLine string
		want     bool
	}{
		{"Basic Land — Forest", true},
		{"Basic Snow Land — Island", true},
		{"Land", false},
		{"Legendary Land", false},
		{"Artifact", false},
	}

	for _, tt := range tests {
		t.Run(tt.typeLine, func(t *testing.T) {
			card := Card{TypeLine: tt.typeLine}
			if got := card.IsBasicLand(); got != tt.want {
				t.Errorf("IsBasicLand(%q) = %v, want %v", tt.typeLine, got, tt.want)
			}
		})
	}
}

func TestCard_IsLegalIn(t *testing.T) {
	card := Card{Legalities: map[string]string{
		"commander": Legal,
		"modern":    Banned,
	}}

	if !card.IsLegalIn(FormatCommander) {
		t.Error("expected card to be legal in commander")
	}
	if card.IsLegalIn("modern") {
		t.Error("banned card reported as legal")
	}
	if card.IsLegalIn("vintage") {
		t.Error("missing format reported as legal")
	}
	if (Card{}).IsLegalIn(FormatCommander) {
		t.Error("card without legalities reported as legal")
	}
}

func TestCard_IsCommanderEligible(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want bool
	}{
		{"legendary creature", Card{TypeLine: "Legendary Creature — Elf Druid"}, true},
		{"plain creature", Card{TypeLine: "Creature — Elf"}, false},
		{"legendary artifact", Card{TypeLine: "Legendary Artifact"}, false},
		{"planeswalker commander", Card{TypeLine: "Legendary Planeswalker — Teferi", OracleText: "Teferi can be your commander."}, true},
		{"double faced", Card{CardFaces: []CardFace{{TypeLine: "Legendary Creature — Human"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.IsCommanderEligible(); got != tt.want {
				t.Errorf("IsCommanderEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCard_ImageURL(t *testing.T) {
	single := Card{ImageURIs: &ImageURIs{Normal: "https://img/normal.jpg"}}
	if got := single.ImageURL(); got != "https://img/normal.jpg" {
		t.Errorf("ImageURL() = %q", got)
	}

	dfc := Card{CardFaces: []CardFace{
		{Name: "Front", ImageURIs: &ImageURIs{Normal: "https://img/front.jpg"}},
		{Name: "Back", ImageURIs: &ImageURIs{Normal: "https://img/back.jpg"}},
	}}
	if got := dfc.ImageURL(); got != "https://img/front.jpg" {
		t.Errorf("ImageURL() for DFC = %q, want front face", got)
	}

	if got := (Card{}).ImageURL(); got != "" {
		t.Errorf("ImageURL() without images = %q, want empty", got)
	}
}

func TestColorSet_Covers(t *testing.T) {
	golgari := NewColorSet(Black, Green)

	tests := []struct {
		name     string
		identity []Color
		want     bool
	}{
		{"colorless", nil, true},
		{"mono green", []Color{Green}, true},
		{"golgari", []Color{Black, Green}, true},
		{"off color", []Color{Red}, false},
		{"partially off color", []Color{Green, Blue}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := golgari.Covers(tt.identity); got != tt.want {
				t.Errorf("Covers(%v) = %v, want %v", tt.identity, got, tt.want)
			}
		})
	}
}

func TestIdentityOf_Partners(t *testing.T) {
	tymna := Card{Name: "Tymna the Weaver", ColorIdentity: []Color{White, Black}}
	thrasios := Card{Name: "Thrasios, Triton Hero", ColorIdentity: []Color{Green, Blue}}

	identity := IdentityOf(tymna, thrasios)
	if got := identity.String(); got != "WUBG" {
		t.Errorf("IdentityOf(partners) = %q, want WUBG", got)
	}
	if got := IdentityOf().String(); got != "C" {
		t.Errorf("IdentityOf() = %q, want C", got)
	}
}

func TestCanPartner(t *testing.T) {
	tymna := Card{Name: "Tymna the Weaver", OracleText: "Lifelink\nPartner (You can have two commanders if both have partner.)"}
	thrasios := Card{Name: "Thrasios, Triton Hero", OracleText: "{4}: Scry 1.\nPartner"}
	pir := Card{Name: "Pir, Imaginative Rascal", OracleText: "Partner with Toothy, Imaginary Friend (When this creature enters, target player may put Toothy into their hand from their library, then shuffle.)"}
	toothy := Card{Name: "Toothy, Imaginary Friend", OracleText: "Partner with Pir, Imaginative Rascal"}
	rowan := Card{Name: "Will Kenrith", OracleText: "Partner with Rowan Kenrith"}
	talrand := Card{Name: "Talrand, Sky Summoner", OracleText: "Whenever you cast an instant or sorcery spell, create a 2/2 blue Drake creature token with flying."}

	tests := []struct {
		name string
		a, b Card
		want bool
	}{
		{"both generic partner", tymna, thrasios, true},
		{"named pair", pir, toothy, true},
		{"named pair reversed", toothy, pir, true},
		{"partner with someone else", pir, rowan, false},
		{"partner with is not generic partner", pir, tymna, false},
		{"no partner", tymna, talrand, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPartner(tt.a, tt.b); got != tt.want {
				t.Errorf("CanPartner(%s, %s) = %v, want %v", tt.a.Name, tt.b.Name, got, tt.want)
			}
		})
	}

	if pir.HasPartner() {
		t.Error("HasPartner() = true for a Partner with card")
	}
	if got := pir.PartnerWith(); got != "Toothy, Imaginary Friend" {
		t.Errorf("PartnerWith() = %q, want Toothy, Imaginary Friend", got)
	}
}
