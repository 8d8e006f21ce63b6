package models

// PetType is the resolved animal category of a listing.
type PetType string

const (
	PetTypeDog       PetType = "dog"
	PetTypeCat       PetType = "cat"
	PetTypeSmallPets PetType = "small_pets"
	PetTypeBoth      PetType = "both"
	PetTypeUnknown   PetType = "unknown"
)

// ValidPetTypes enumerates the values a supplier-declared pet_type field
// may legally carry.
var ValidPetTypes = map[PetType]bool{
	PetTypeDog:       true,
	PetTypeCat:       true,
	PetTypeSmallPets: true,
	PetTypeBoth:      true,
	PetTypeUnknown:   true,
}

// RawListing carries the supplier text fields the classifier reads.
// It is ephemeral: built per classification call and never persisted.
type RawListing struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Tags        []string `json:"tags"`
	PetType     string   `json:"petType"`
}

// ClassificationResult is the immutable outcome of a classification.
// Reasons are appended in evaluation order; Rule names the terminal rule
// that decided the outcome.
type ClassificationResult struct {
	Eligible bool     `json:"eligible"`
	PetType  PetType  `json:"petType"`
	Reasons  []string `json:"reasons"`
	Rule     string   `json:"rule"`
}

// ApprovalVerdict is the product-level approval decision. Approved
// implies the classifier found the listing eligible, but not conversely:
// the gate can still reject an eligible listing for a missing image or
// price.
type ApprovalVerdict struct {
	Approved bool    `json:"approved"`
	Reason   *string `json:"reason,omitempty"`
	Rule     string  `json:"rule,omitempty"`
}

// AnnotatedProduct pairs a supplier product with its classification,
// for batch operations that tag without deleting.
type AnnotatedProduct struct {
	Product        SupplierProduct      `json:"product"`
	Classification ClassificationResult `json:"classification"`
}
