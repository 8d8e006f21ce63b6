package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-ingestion-service/internal/models"
)

func TestClassify_HardBlacklist(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		listing models.RawListing
		reason  string
	}{
		{
			name:    "necklace with paw print is still jewelry",
			listing: models.RawListing{Title: "Women's Necklace with Paw Print Charm"},
			reason:  "blacklist:necklace",
		},
		{
			name:    "electronics rejected even with pet wording",
			listing: models.RawListing{Title: "Smartphone Holder for Dog Walking"},
			reason:  "blacklist:smartphone",
		},
		{
			name:    "multi-word blacklist matches by substring",
			listing: models.RawListing{Title: "Ergonomic Office Chair Cushion"},
			reason:  "blacklist:office chair",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.listing, cfg)
			assert.False(t, result.Eligible)
			assert.Equal(t, RuleHardBlacklist, result.Rule)
			assert.Equal(t, models.PetTypeUnknown, result.PetType)
			assert.Contains(t, result.Reasons, tt.reason)
		})
	}
}

func TestClassify_BlacklistWordBoundary(t *testing.T) {
	cfg := DefaultConfig()

	// "ring" must not match inside "string" or the hyphenated
	// "harness-ring" compound.
	result := Classify(models.RawListing{Title: "Dog Harness-Ring String Attachment"}, cfg)
	assert.True(t, result.Eligible)
	assert.Equal(t, models.PetTypeDog, result.PetType)

	result = Classify(models.RawListing{Title: "Silver Ring for Dogs"}, cfg)
	assert.False(t, result.Eligible)
	assert.Equal(t, RuleHardBlacklist, result.Rule)
}

func TestClassify_BlacklistException(t *testing.T) {
	cfg := DefaultConfig()

	// "sofa" is blacklisted, but a pet sofa bed lands in the allowed
	// context and classification continues.
	result := Classify(models.RawListing{Title: "Cozy Dog Sofa Bed"}, cfg)
	require.True(t, result.Eligible)
	assert.Equal(t, RuleAccepted, result.Rule)
	assert.Equal(t, models.PetTypeDog, result.PetType)
	assert.Contains(t, result.Reasons, "blacklist_exception:sofa")
	assert.Contains(t, result.Reasons, "dog_signal")

	// Same term without the context stays rejected.
	result = Classify(models.RawListing{Title: "Three-Seat Leather Sofa"}, cfg)
	assert.False(t, result.Eligible)
	assert.Equal(t, RuleHardBlacklist, result.Rule)

	// Plush chew toys survive the "plush toy" blacklist entry.
	result = Classify(models.RawListing{Title: "Squeaky Plush Toy for Dogs", Description: "durable dog toy"}, cfg)
	assert.True(t, result.Eligible)
	assert.Contains(t, result.Reasons, "blacklist_exception:plush toy")
}

func TestClassify_HumanClothing(t *testing.T) {
	cfg := DefaultConfig()

	result := Classify(models.RawListing{Title: "Oversized Cotton Hoodie"}, cfg)
	assert.False(t, result.Eligible)
	assert.Equal(t, RuleHumanClothing, result.Rule)
	assert.Contains(t, result.Reasons, "human_clothing:hoodie")

	// Pet context flips the outcome.
	result = Classify(models.RawListing{Title: "Warm Hoodie for Small Dogs"}, cfg)
	assert.True(t, result.Eligible)
	assert.Equal(t, models.PetTypeDog, result.PetType)
}

func TestClassify_PetTypeResolution(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		title   string
		petType models.PetType
	}{
		{"Durable Dog Rope Toy", models.PetTypeDog},
		{"Interactive Kitten Feather Wand", models.PetTypeCat},
		{"Treat Pouch for Dogs and Cats", models.PetTypeBoth},
		{"Hamster Exercise Wheel", models.PetTypeSmallPets},
		{"Adjustable Pet Harness", models.PetTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			result := Classify(models.RawListing{Title: tt.title}, cfg)
			require.True(t, result.Eligible, "reasons: %v", result.Reasons)
			assert.Equal(t, tt.petType, result.PetType)
		})
	}
}

func TestClassify_DeclaredPetTypeCountsAsSignal(t *testing.T) {
	cfg := DefaultConfig()

	result := Classify(models.RawListing{Title: "Reflective Walking Vest", PetType: "dog"}, cfg)
	assert.True(t, result.Eligible)
	assert.Equal(t, models.PetTypeDog, result.PetType)
}

func TestClassify_ModeFilter(t *testing.T) {
	listing := models.RawListing{Title: "Hamster Cage Water Bottle"}

	strict := DefaultConfig()
	result := Classify(listing, strict)
	assert.True(t, result.Eligible)
	assert.Equal(t, models.PetTypeSmallPets, result.PetType)

	dogcat := DefaultConfig()
	dogcat.Mode = ModeDogCat
	result = Classify(listing, dogcat)
	assert.False(t, result.Eligible)
	assert.Equal(t, RuleModeFilter, result.Rule)
	assert.Contains(t, result.Reasons, ReasonSmallPets)
}

func TestClassify_StrengthCheck(t *testing.T) {
	cfg := DefaultConfig()

	// Bare "pet" with no concrete signal.
	result := Classify(models.RawListing{Title: "Premium Pet Supplies Set"}, cfg)
	assert.False(t, result.Eligible)
	assert.Equal(t, RuleStrengthCheck, result.Rule)
	assert.Contains(t, result.Reasons, ReasonWeakSignal)

	// No pet wording at all.
	result = Classify(models.RawListing{Title: "Stainless Steel Mixing Bowl"}, cfg)
	assert.False(t, result.Eligible)
	assert.Equal(t, RuleStrengthCheck, result.Rule)
	assert.Contains(t, result.Reasons, ReasonNoPetSignal)
}

func TestClassify_RabbitPlush(t *testing.T) {
	cfg := DefaultConfig()

	// Plush rabbit merchandise is not a pet product.
	result := Classify(models.RawListing{Title: "Cute Rabbit Stuffed Doll", Category: "Toys"}, cfg)
	assert.False(t, result.Eligible)
	assert.Equal(t, RuleRabbitPlush, result.Rule)
	assert.Contains(t, result.Reasons, ReasonRabbitPlush)

	// An explicit small-pet category exempts the listing.
	result = Classify(models.RawListing{Title: "Rabbit Plush Hideout", Category: "Small Animal Supplies"}, cfg)
	assert.True(t, result.Eligible)
	assert.Equal(t, models.PetTypeSmallPets, result.PetType)

	// A chew qualifier exempts it too.
	result = Classify(models.RawListing{Title: "Bunny Shaped Plush Chew"}, cfg)
	assert.True(t, result.Eligible)
}

func TestClassify_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	listing := models.RawListing{
		Title:       "Cozy Dog Sofa Bed",
		Description: "machine washable",
		Tags:        []string{"bed", "dog"},
	}

	first := Classify(listing, cfg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(listing, cfg))
	}
}

func TestDebugStats(t *testing.T) {
	cfg := DefaultConfig()
	products := []models.SupplierProduct{
		{ProductID: "1", Name: "Durable Dog Rope Toy"},
		{ProductID: "2", Name: "Interactive Kitten Feather Wand"},
		{ProductID: "3", Name: "Women's Necklace with Paw Print Charm"},
		{ProductID: "4", Name: "Premium Pet Supplies Set"},
		{ProductID: "5", Name: "Stainless Steel Mixing Bowl"},
	}

	stats := DebugStats(products, cfg)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Eligible)
	assert.Equal(t, 3, stats.Rejected)
	assert.Equal(t, 1, stats.PetTypeCounts[models.PetTypeDog])
	assert.Equal(t, 1, stats.PetTypeCounts[models.PetTypeCat])

	reasons := make(map[string]int)
	for _, rc := range stats.TopRejections {
		reasons[rc.Reason] = rc.Count
	}
	assert.Equal(t, 1, reasons["blacklist:necklace"])
	assert.Equal(t, 1, reasons[ReasonWeakSignal])
	assert.Equal(t, 1, reasons[ReasonNoPetSignal])
}

func TestFilterEligibleOnly(t *testing.T) {
	cfg := DefaultConfig()
	products := []models.SupplierProduct{
		{ProductID: "1", Name: "Durable Dog Rope Toy"},
		{ProductID: "2", Name: "Silver Ring"},
	}

	kept := FilterEligibleOnly(products, cfg)
	require.Len(t, kept, 1)
	assert.Equal(t, "1", kept[0].ProductID)
}
