package scoring

import "strings"

// staticBrands is the maintained fallback list used when the franchise
// registry returns nothing for an industry.
var staticBrands = []string{
	"Starbucks",
	"Ediya Coffee",
	"Mega Coffee",
	"Twosome Place",
	"Hollys Coffee",
	"Paris Baguette",
	"Tous les Jours",
	"Dunkin",
	"Baskin Robbins",
	"BBQ Chicken",
	"BHC Chicken",
	"Kyochon",
	"Pelicana",
	"Goobne",
	"Lotteria",
	"McDonald's",
	"Burger King",
	"Subway",
	"Domino's Pizza",
	"Pizza School",
	"GS25",
	"CU",
	"7-Eleven",
	"Emart24",
	"Paik's Coffee",
}

// BrandCatalog matches place names and categories against a set of known
// franchise brand names.
type BrandCatalog struct {
	brands []string
}

// NewBrandCatalog builds a catalog from an externally fetched brand list,
// falling back to the static list when the fetched list is empty.
func NewBrandCatalog(brands []string) BrandCatalog {
	if len(brands) == 0 {
		return BrandCatalog{brands: staticBrands}
	}
	return BrandCatalog{brands: brands}
}

// Match reports the first brand whose normalized name is contained in the
// place name or category, or vice versa. Matching is case-insensitive and
// ignores whitespace; an outlet named "Starbucks Gangnam 2" still matches
// the brand "Starbucks".
func (c BrandCatalog) Match(name, category string) (string, bool) {
	n := normalizeBrand(name)
	cat := normalizeBrand(category)
	for _, brand := range c.brands {
		b := normalizeBrand(brand)
		if b == "" {
			continue
		}
		if containsEither(n, b) || containsEither(cat, b) {
			return brand, true
		}
	}
	return "", false
}

func containsEither(a, b string) bool {
	if a == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func normalizeBrand(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), "")
}
