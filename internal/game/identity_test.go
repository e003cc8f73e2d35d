package game

import "testing"

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		in      string
		want    Identity
		key     string
		display string
	}{
		{"pikachu", Identity{Species: "pikachu"}, "pikachu", "Pikachu"},
		{"  Shiny   Pikachu ", Identity{Species: "pikachu", Shiny: true}, "shiny pikachu", "Shiny Pikachu"},
		{"shiny alolan raichu", Identity{Species: "raichu", Form: "alolan", Shiny: true}, "shiny alolan raichu", "Shiny Alolan Raichu"},
		{"mega charizard", Identity{Species: "charizard", Form: "mega"}, "mega charizard", "Mega Charizard"},
		// Unknown leading words stay part of the species.
		{"mr mime", Identity{Species: "mr mime"}, "mr mime", "Mr Mime"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseIdentity(tt.in)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if got.Key() != tt.key {
				t.Errorf("expected key %q, got %q", tt.key, got.Key())
			}
			if got.DisplayName() != tt.display {
				t.Errorf("expected display %q, got %q", tt.display, got.DisplayName())
			}
		})
	}
}

func TestFormsFor(t *testing.T) {
	forms := FormsFor("charizard")
	if len(forms) != 2 {
		t.Fatalf("expected 2 charizard forms, got %v", forms)
	}
	if forms[0].Name != "charizard-mega-x" || forms[1].Name != "charizard-mega-y" {
		t.Errorf("expected sorted mega forms, got %v", forms)
	}

	if forms := FormsFor("raichu"); len(forms) != 1 || forms[0].Kind != "alolan" {
		t.Errorf("expected one alolan raichu form, got %v", forms)
	}
	if forms := FormsFor("rattata"); forms != nil {
		t.Errorf("expected no forms, got %v", forms)
	}
}

func TestSpriteFor(t *testing.T) {
	tests := []struct {
		id   Identity
		want string
	}{
		{Identity{Species: "pikachu"}, spriteBaseURL + "ani/pikachu.gif"},
		{Identity{Species: "pikachu", Shiny: true}, spriteBaseURL + "ani-shiny/pikachu.gif"},
		{Identity{Species: "raichu", Form: "alolan"}, spriteBaseURL + "ani/raichu-alola.gif"},
		{Identity{Species: "giratina-altered"}, spriteBaseURL + "ani/giratina.gif"},
	}

	for _, tt := range tests {
		if got := SpriteFor(tt.id); got != tt.want {
			t.Errorf("SpriteFor(%+v): expected %s, got %s", tt.id, tt.want, got)
		}
	}
}
