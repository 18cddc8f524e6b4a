package words

import "sort"

// Ordination is a fixed, presentation-only regrouping of the
// vocabulary. It never affects generation; the engine always works
// from the canonical order.
type Ordination struct {
	Name   string
	Groups [][]string
}

// Ordinations returns the available presentation orders for the
// canonical vocabulary.
func Ordinations() []Ordination {
	alpha := append([]string(nil), Vocabulary...)
	sort.Strings(alpha)

	return []Ordination{
		{
			Name:   "canonique",
			Groups: [][]string{append([]string(nil), Vocabulary...)},
		},
		{
			Name:   "alphabétique",
			Groups: [][]string{alpha},
		},
		{
			Name: "grammaticale",
			Groups: [][]string{
				{"Je", "suis"},
				{"rêveur", "poète", "voyageur", "funambule", "jardinier", "chercheur", "danseur", "équilibriste"},
				{"professionnel", "immobile", "invisible"},
				{"du", "dimanche", "des", "nuages", "d'étoiles", "de", "silences"},
			},
		},
	}
}
