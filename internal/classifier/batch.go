package classifier

import (
	"catalog-ingestion-service/internal/models"
)

// ApplyPetOnly classifies every product and returns each paired with its
// result. Nothing is dropped; annotation is left to the caller.
func ApplyPetOnly(products []models.SupplierProduct, cfg Config) []models.AnnotatedProduct {
	out := make([]models.AnnotatedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, models.AnnotatedProduct{
			Product:        p,
			Classification: Classify(p.Listing(), cfg),
		})
	}
	return out
}

// FilterEligibleOnly returns only the products the classifier accepts.
func FilterEligibleOnly(products []models.SupplierProduct, cfg Config) []models.SupplierProduct {
	out := make([]models.SupplierProduct, 0, len(products))
	for _, p := range products {
		if Classify(p.Listing(), cfg).Eligible {
			out = append(out, p)
		}
	}
	return out
}

// DebugStats classifies a batch and reports the top-10 rejection reasons
// and the per-pet-type distribution of accepted listings. It is built on
// the same Classify primitive, so its output is always consistent with
// single-item classification.
func DebugStats(products []models.SupplierProduct, cfg Config) models.DebugStats {
	stats := models.DebugStats{
		Total:         len(products),
		PetTypeCounts: make(map[models.PetType]int),
	}
	rejections := make(map[string]int)

	for _, p := range products {
		result := Classify(p.Listing(), cfg)
		if result.Eligible {
			stats.Eligible++
			stats.PetTypeCounts[result.PetType]++
			continue
		}
		stats.Rejected++
		if len(result.Reasons) > 0 {
			rejections[result.Reasons[len(result.Reasons)-1]]++
		}
	}

	stats.TopRejections = models.TopReasons(rejections, 10)
	return stats
}
