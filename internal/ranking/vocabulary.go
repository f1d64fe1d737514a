package ranking

// Style is one entry of the fixed style vocabulary.
type Style struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Vocabulary is an ordered, immutable set of ranking targets. Order
// matters: ties in the ranked output keep vocabulary order.
type Vocabulary []Style

// DefaultVocabulary is the fixed set of style categories the engine
// ranks against. Loaded once at startup, never mutated.
var DefaultVocabulary = Vocabulary{
	{"Urban Streetwear", "Casual streetwear outfit with hoodies, relaxed fit, sneakers, sporty energy."},
	{"Formal Business", "Formal business outfit with tailored blazer, collared shirt, suit trousers and dress shoes."},
	{"Casual Chic", "Clean modern casual outfit: simple basics styled in a polished way, effortless but intentional."},
	{"Sporty / Athleisure", "Athletic activewear look: sportswear, gym-ready vibe, performance fabrics, sneakers."},
	{"Vintage / Retro", "Retro vintage outfit using classic cuts, muted or faded colors, thrift-store aesthetic."},
	{"Bohemian", "Boho outfit with loose patterned fabrics, flowy layers and earthy tones."},
	{"Elegant Evening", "Refined night-out look with sleek silhouettes, dressy pieces, going-out energy."},
	{"Preppy", "Polished collegiate style: neat, coordinated layers, structured and tidy."},
	{"Punk / Alt", "Alternative edgy outfit with darker tones, maybe leather or band tee energy."},
	{"Gothic", "Dark aesthetic with mostly black clothing and dramatic mood."},
	{"Artsy / Expressive", "Creative expressive outfit with bold colors, interesting textures, standout shapes."},
}

// Contains reports whether name is a vocabulary entry.
func (v Vocabulary) Contains(name string) bool {
	for _, s := range v {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Descriptions returns the style description texts in vocabulary order.
func (v Vocabulary) Descriptions() []string {
	out := make([]string, len(v))
	for i, s := range v {
		out[i] = s.Description
	}
	return out
}
