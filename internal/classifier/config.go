package classifier

// Mode controls whether small-pet-only listings are admitted.
type Mode string

const (
	// ModeStrict admits dog, cat and small-pet signals.
	ModeStrict Mode = "strict"
	// ModeDogCat rejects listings whose only signal is a small pet.
	ModeDogCat Mode = "dogcat"
)

// ContextException allows a blacklisted term when any of AllowWith also
// occurs in the listing text. Each exception is evaluated on its own,
// independently of the generic pet-context rule.
type ContextException struct {
	Terms     []string `json:"terms"`
	AllowWith []string `json:"allowWith"`
}

// Config is the classifier rule set. It is plain data: every list can be
// overridden from configuration, and the zero value is unusable by
// design so callers must start from DefaultConfig.
type Config struct {
	Mode Mode `json:"mode"`

	// Blacklist terms reject a listing unconditionally unless a
	// registered exception context applies. Multi-word terms match by
	// substring, single words by word boundary.
	Blacklist  []string           `json:"blacklist"`
	Exceptions []ContextException `json:"exceptions"`

	// HumanClothing terms reject unless the text carries a generic
	// pet-context token.
	HumanClothing []string `json:"humanClothing"`
	PetContext    []string `json:"petContext"`

	DogSignals       []string `json:"dogSignals"`
	CatSignals       []string `json:"catSignals"`
	SmallPetSignals  []string `json:"smallPetSignals"`
	RabbitSignals    []string `json:"rabbitSignals"`
	UniversalSignals []string `json:"universalSignals"`

	// SmallPetCategoryMarkers identify an explicit small-pet category on
	// the supplier side, which exempts rabbit listings from the plush
	// check.
	SmallPetCategoryMarkers []string `json:"smallPetCategoryMarkers"`
	PlushTokens             []string `json:"plushTokens"`
	PetToyQualifiers        []string `json:"petToyQualifiers"`
}

// DefaultConfig returns the production rule set in strict mode.
func DefaultConfig() Config {
	return Config{
		Mode: ModeStrict,

		Blacklist: []string{
			"necklace", "bracelet", "earring", "ring", "jewelry", "pendant",
			"lipstick", "makeup", "cosmetic", "perfume", "nail polish",
			"wine", "whiskey", "vodka", "beer", "cocktail",
			"lingerie", "bikini", "high heel",
			"office chair", "desk lamp", "bookshelf", "sofa", "couch",
			"laptop", "smartphone", "tablet", "headphone", "earbud",
			"plush toy", "stroller",
			"adult", "cigarette", "vape",
		},
		Exceptions: []ContextException{
			{
				Terms:     []string{"sofa", "couch"},
				AllowWith: []string{"bed", "cushion", "sleep", "cozy"},
			},
			{
				Terms:     []string{"plush toy"},
				AllowWith: []string{"dog toy", "cat toy", "chew"},
			},
			{
				Terms:     []string{"stroller"},
				AllowWith: []string{"pet", "carrier", "travel"},
			},
		},

		HumanClothing: []string{
			"hoodie", "sock", "shirt", "t-shirt", "jeans", "sweater",
			"skirt", "blouse", "pajama", "legging", "glove", "scarf",
		},
		PetContext: []string{
			"dog", "dogs", "cat", "cats", "pet", "pets", "puppy",
			"puppies", "kitten", "kittens", "canine", "feline",
		},

		DogSignals: []string{"dog", "dogs", "puppy", "puppies", "canine", "doggy"},
		CatSignals: []string{"cat", "cats", "kitten", "kittens", "feline", "kitty"},
		SmallPetSignals: []string{
			"hamster", "hamsters", "guinea pig", "chinchilla", "ferret",
			"ferrets", "gerbil", "mouse", "rat",
		},
		RabbitSignals: []string{"rabbit", "rabbits", "bunny", "bunnies"},
		UniversalSignals: []string{
			"harness", "leash", "litter box", "litter", "feeder",
			"pet bed", "cat tree", "scratching post", "kennel", "crate",
			"muzzle", "pet bowl", "pet carrier", "grooming",
		},

		SmallPetCategoryMarkers: []string{
			"small pet", "small animal", "rodent", "rabbit", "cage",
		},
		PlushTokens:      []string{"plush", "stuffed", "doll", "figure"},
		PetToyQualifiers: []string{"dog toy", "cat toy", "chew"},
	}
}
