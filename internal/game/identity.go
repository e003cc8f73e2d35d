package game

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const shinyPrefix = "shiny "

// Identity names one creature variant: a base species plus the optional
// regional/mega form and shiny qualifiers.
type Identity struct {
	Species string // base species, lowercase, e.g. "raichu"
	Form    string // form kind, e.g. "alolan"; empty for the normal form
	Shiny   bool
}

// Key is the lowercase identity used for party and stats keys,
// e.g. "shiny alolan raichu".
func (id Identity) Key() string {
	var sb strings.Builder
	if id.Shiny {
		sb.WriteString(shinyPrefix)
	}
	if id.Form != "" {
		sb.WriteString(id.Form)
		sb.WriteByte(' ')
	}
	sb.WriteString(id.Species)
	return sb.String()
}

// DisplayName is the title-cased Key, e.g. "Shiny Alolan Raichu".
func (id Identity) DisplayName() string {
	return titleCase(id.Key())
}

// ParseIdentity splits a stored identity back into its qualifiers.
// Unknown leading words are kept as part of the species name.
func ParseIdentity(s string) Identity {
	s = NormalizeKey(s)
	var id Identity
	if strings.HasPrefix(s, shinyPrefix) {
		id.Shiny = true
		s = strings.TrimPrefix(s, shinyPrefix)
	}
	if kind, rest, ok := strings.Cut(s, " "); ok {
		if _, known := formKinds[kind]; known {
			id.Form = kind
			s = rest
		}
	}
	id.Species = s
	return id
}

// BaseSpecies strips the form and shiny qualifiers from an identity string.
func BaseSpecies(s string) string {
	return ParseIdentity(s).Species
}

// NormalizeKey lowercases s and collapses runs of whitespace.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func titleCase(s string) string {
	// cases.Caser is stateful; build one per call.
	return cases.Title(language.English).String(s)
}

// Form is one alternate appearance a species can spawn in.
type Form struct {
	Kind string // "mega", "alolan", ...
	Name string // sprite/data name, e.g. "raichu-alola"
}

// Only forms the sprite host has art for are registered.
var registeredForms = map[string][]string{
	"mega":     {"charizard-mega-x", "charizard-mega-y", "mewtwo-mega-x", "mewtwo-mega-y", "lucario-mega", "gyarados-mega"},
	"alolan":   {"raichu-alola", "marowak-alola", "vulpix-alola", "ninetales-alola"},
	"galarian": {"zigzagoon-galar", "slowpoke-galar", "rapidash-galar"},
	"hisuian":  {"zoroark-hisui", "braviary-hisui", "growlithe-hisui"},
	"paldean":  {"wooper-paldea"},
}

var formKinds = func() map[string]struct{} {
	kinds := make(map[string]struct{}, len(registeredForms))
	for kind := range registeredForms {
		kinds[kind] = struct{}{}
	}
	return kinds
}()

// FormsFor lists the registered alternate forms of a species in a stable order.
func FormsFor(species string) []Form {
	species = NormalizeKey(species)
	if species == "" {
		return nil
	}
	var forms []Form
	for kind, names := range registeredForms {
		for _, name := range names {
			if strings.HasPrefix(name, species+"-") {
				forms = append(forms, Form{Kind: kind, Name: name})
			}
		}
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Name < forms[j].Name })
	return forms
}
