package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"catalog-ingestion-service/internal/models"
)

// Terminal rule names reported on ClassificationResult.Rule.
const (
	RuleHardBlacklist = "hard_blacklist"
	RuleHumanClothing = "human_clothing"
	RuleModeFilter    = "mode_filter"
	RuleStrengthCheck = "strength_check"
	RuleRabbitPlush   = "rabbit_plush"
	RuleAccepted      = "accepted"
)

// Reason tags that are not derived from a matched term.
const (
	ReasonWeakSignal  = "weak_signal"
	ReasonNoPetSignal = "no_pet_signal"
	ReasonSmallPets   = "small_pets_excluded"
	ReasonRabbitPlush = "rabbit_plush_doll"
)

// isBoundary reports whether r terminates a word. Letters and hyphens
// bind, so compound SKU tokens like "harness-ring" do not false-positive
// on "ring".
func isBoundary(r rune) bool {
	return !unicode.IsLetter(r) && r != '-'
}

// containsWord reports whether term occurs in text delimited by word
// boundaries on both sides.
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset+len(term) <= len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)

		okBefore := start == 0
		if !okBefore {
			r, _ := utf8.DecodeLastRuneInString(text[:start])
			okBefore = isBoundary(r)
		}
		okAfter := end == len(text)
		if !okAfter {
			r, _ := utf8.DecodeRuneInString(text[end:])
			okAfter = isBoundary(r)
		}
		if okBefore && okAfter {
			return true
		}
		offset = start + 1
	}
	return false
}

// matchTerm applies the matching policy: multi-word terms by substring,
// single words by word boundary.
func matchTerm(text, term string) bool {
	if strings.Contains(term, " ") {
		return strings.Contains(text, term)
	}
	return containsWord(text, term)
}

func matchAny(text string, terms []string) bool {
	for _, t := range terms {
		if matchTerm(text, t) {
			return true
		}
	}
	return false
}

// searchText flattens a listing into one lowercase blob. The declared
// pet type is included so a supplier-declared "dog" counts as a signal
// like any other text occurrence.
func searchText(listing models.RawListing) string {
	parts := []string{
		listing.Title,
		listing.Description,
		listing.Category,
		listing.SubCategory,
		listing.PetType,
	}
	parts = append(parts, listing.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// exceptionFor returns the registered exception covering term, or nil.
func exceptionFor(cfg *Config, term string) *ContextException {
	for i := range cfg.Exceptions {
		for _, t := range cfg.Exceptions[i].Terms {
			if t == term {
				return &cfg.Exceptions[i]
			}
		}
	}
	return nil
}

// Classify decides whether a free-text supplier listing is a pet product
// and of which kind. It is pure and deterministic: identical input and
// config always yield an identical result, and it never fails. Every
// negative outcome is carried as data.
func Classify(listing models.RawListing, cfg Config) models.ClassificationResult {
	text := searchText(listing)
	var reasons []string

	reject := func(rule string, reason string) models.ClassificationResult {
		return models.ClassificationResult{
			Eligible: false,
			PetType:  models.PetTypeUnknown,
			Reasons:  append(reasons, reason),
			Rule:     rule,
		}
	}

	// 1. Hard blacklist. A hit is terminal unless a registered exception
	// context applies.
	for _, term := range cfg.Blacklist {
		if !matchTerm(text, term) {
			continue
		}
		if exc := exceptionFor(&cfg, term); exc != nil && matchAny(text, exc.AllowWith) {
			reasons = append(reasons, "blacklist_exception:"+term)
			continue
		}
		return reject(RuleHardBlacklist, "blacklist:"+term)
	}

	// 2. Human clothing, unless generic pet context is present.
	for _, term := range cfg.HumanClothing {
		if matchTerm(text, term) && !matchAny(text, cfg.PetContext) {
			return reject(RuleHumanClothing, "human_clothing:"+term)
		}
	}

	// 3. Independent signal scans.
	hasDog := matchAny(text, cfg.DogSignals)
	hasCat := matchAny(text, cfg.CatSignals)
	hasSmall := matchAny(text, cfg.SmallPetSignals)
	hasRabbit := matchAny(text, cfg.RabbitSignals)
	hasUniversal := matchAny(text, cfg.UniversalSignals)

	petType := models.PetTypeUnknown
	switch {
	case hasDog && hasCat:
		petType = models.PetTypeBoth
	case hasDog:
		petType = models.PetTypeDog
	case hasCat:
		petType = models.PetTypeCat
	case hasSmall || hasRabbit:
		petType = models.PetTypeSmallPets
	}

	// 4. Mode filter: dogcat mode turns away small-pet-only listings.
	if cfg.Mode == ModeDogCat && petType == models.PetTypeSmallPets {
		return reject(RuleModeFilter, ReasonSmallPets)
	}

	// 5. Strength check. A bare "pet" with no concrete signal is a
	// distinct outcome from no signal at all, to aid debugging.
	strong := hasDog || hasCat || hasUniversal
	if cfg.Mode == ModeStrict {
		strong = strong || hasSmall || hasRabbit
	}
	if !strong {
		if containsWord(text, "pet") || containsWord(text, "pets") {
			return reject(RuleStrengthCheck, ReasonWeakSignal)
		}
		return reject(RuleStrengthCheck, ReasonNoPetSignal)
	}

	// 6. Rabbit exception: "rabbit plush doll" is merchandise, "rabbit
	// cage accessory" is a pet product.
	if hasRabbit && !hasDog && !hasCat {
		categoryText := strings.ToLower(listing.Category + " " + listing.SubCategory)
		marker := matchAny(categoryText, cfg.SmallPetCategoryMarkers)
		if !marker && matchAny(text, cfg.PlushTokens) && !matchAny(text, cfg.PetToyQualifiers) {
			return reject(RuleRabbitPlush, ReasonRabbitPlush)
		}
	}

	// 7. Eligible.
	if hasDog {
		reasons = append(reasons, "dog_signal")
	}
	if hasCat {
		reasons = append(reasons, "cat_signal")
	}
	if hasSmall {
		reasons = append(reasons, "small_pet_signal")
	}
	if hasRabbit {
		reasons = append(reasons, "rabbit_signal")
	}
	if hasUniversal {
		reasons = append(reasons, "universal_signal")
	}

	return models.ClassificationResult{
		Eligible: true,
		PetType:  petType,
		Reasons:  reasons,
		Rule:     RuleAccepted,
	}
}
