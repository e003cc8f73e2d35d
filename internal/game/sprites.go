package game

import (
	"regexp"
	"strings"
)

const spriteBaseURL = "https://play.pokemonshowdown.com/sprites/"

// The sprite host files some species under their base name.
var spriteNameFixes = map[string]string{
	"shaymin-land":        "shaymin",
	"giratina-altered":    "giratina",
	"tornadus-incarnate":  "tornadus",
	"thundurus-incarnate": "thundurus",
	"landorus-incarnate":  "landorus",
	"keldeo-ordinary":     "keldeo",
	"meloetta-aria":       "meloetta",
	"lycanroc-midday":     "lycanroc",
	"zygarde-50":          "zygarde",
	"wishiwashi-solo":     "wishiwashi",
}

var spriteUnsafe = regexp.MustCompile(`[^a-z0-9-]`)

// SpriteURL returns the animated sprite for a species or form name.
func SpriteURL(name string, shiny bool) string {
	name = spriteUnsafe.ReplaceAllString(strings.ToLower(name), "")
	if fixed, ok := spriteNameFixes[name]; ok {
		name = fixed
	}
	dir := "ani/"
	if shiny {
		dir = "ani-shiny/"
	}
	return spriteBaseURL + dir + name + ".gif"
}

// SpriteFor returns the sprite of a stored identity. Forms are looked up in
// the registry so "alolan raichu" resolves to the raichu-alola art.
func SpriteFor(id Identity) string {
	name := id.Species
	if id.Form != "" {
		for _, f := range FormsFor(id.Species) {
			if f.Kind == id.Form {
				name = f.Name
				break
			}
		}
	}
	return SpriteURL(name, id.Shiny)
}
