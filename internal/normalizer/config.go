package normalizer

// Config is the normalizer's rule data: warehouse preference order, the
// non-preferred fulfillment flag and the option-token dictionaries.
type Config struct {
	// PreferredCountries is scanned in order; the first country with
	// positive stock becomes the variant's preferred warehouse.
	PreferredCountries []string `json:"preferredCountries"`

	// AllowNonPreferred permits falling back to any warehouse with
	// positive stock when no preferred country has any. It also widens
	// the availability predicate accordingly.
	AllowNonPreferred bool `json:"allowNonPreferred"`

	// Colors and Sizes drive option derivation from free-text variant
	// names when the supplier sends no structured properties. Sizes maps
	// a lowercase token to its display value.
	Colors []string          `json:"colors"`
	Sizes  map[string]string `json:"sizes"`
}

// DefaultConfig returns the production normalizer rules: US-first
// fulfillment without non-preferred fallback.
func DefaultConfig() Config {
	return Config{
		PreferredCountries: []string{"US", "USA"},
		AllowNonPreferred:  false,
		Colors: []string{
			"black", "white", "red", "blue", "green", "yellow", "pink",
			"purple", "orange", "brown", "grey", "gray", "beige", "navy",
			"khaki", "camo", "leopard",
		},
		Sizes: map[string]string{
			"xs":     "XS",
			"s":      "S",
			"m":      "M",
			"l":      "L",
			"xl":     "XL",
			"xxl":    "XXL",
			"xxxl":   "XXXL",
			"small":  "Small",
			"medium": "Medium",
			"large":  "Large",
		},
	}
}
