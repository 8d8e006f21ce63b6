package pricing

// Config is the pricing policy's data surface: markup table, margin
// floor, price clamps and compare-price multipliers.
type Config struct {
	// CategoryMarkup maps a lowercase category identifier to its markup
	// multiplier; unmapped categories fall back to DefaultMarkup.
	CategoryMarkup map[string]float64 `json:"categoryMarkup"`
	DefaultMarkup  float64            `json:"defaultMarkup"`

	// MinMargin is the minimum acceptable (price-cost)/price ratio.
	// Retail is raised to cost/(1-MinMargin) whenever the markup alone
	// would land below it.
	MinMargin float64 `json:"minMargin"`

	// FloorPrice is charged when the supplier reports a non-positive
	// cost; a markup on zero is meaningless.
	FloorPrice float64 `json:"floorPrice"`

	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`

	// CompareMultiplier derives the strike-through price from retail;
	// CompareFallbackMultiplier is retried when rounding collapses the
	// gap at low prices.
	CompareMultiplier         float64 `json:"compareMultiplier"`
	CompareFallbackMultiplier float64 `json:"compareFallbackMultiplier"`
}

// DefaultConfig returns the production pricing policy.
func DefaultConfig() Config {
	return Config{
		CategoryMarkup: map[string]float64{
			"toys":        2.5,
			"beds":        2.2,
			"accessories": 2.0,
			"grooming":    2.0,
			"feeding":     1.8,
			"apparel":     2.4,
		},
		DefaultMarkup:             2.0,
		MinMargin:                 0.35,
		FloorPrice:                9.99,
		MinPrice:                  4.99,
		MaxPrice:                  199.99,
		CompareMultiplier:         1.25,
		CompareFallbackMultiplier: 1.4,
	}
}
