// Package gate wraps the classifier with product-level preconditions to
// produce the single approval verdict every downstream consumer uses.
package gate

import (
	"fmt"
	"strings"

	"catalog-ingestion-service/internal/classifier"
	"catalog-ingestion-service/internal/models"
)

// Verdict reasons for the gate's own checks. Classifier rejections
// propagate their reason and rule tag unchanged.
const (
	ReasonInactive       = "inactive"
	ReasonNotPetFlag     = "not_pet_product_flag"
	ReasonBlocked        = "blocked"
	ReasonNoValidImage   = "no_valid_image"
	ReasonInvalidPrice   = "invalid_price"
	reasonInvalidPetType = "invalid_pet_type"
)

func rejected(reason, rule string) models.ApprovalVerdict {
	return models.ApprovalVerdict{Approved: false, Reason: &reason, Rule: rule}
}

// hasValidImage rejects absent images and known placeholder URLs.
func hasValidImage(images []string) bool {
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		lower := strings.ToLower(img)
		if strings.Contains(lower, "no-image") || strings.Contains(lower, "placeholder") {
			continue
		}
		return true
	}
	return false
}

// IsApproved decides whether a supplier product may enter the catalog.
// Checks run cheapest-first and the first failure short-circuits:
// flags, then classification, then declared pet type, image, price.
func IsApproved(p models.SupplierProduct, cfg classifier.Config) models.ApprovalVerdict {
	if !p.IsActive() {
		return rejected(ReasonInactive, "flags")
	}
	if p.IsPet != nil && !*p.IsPet {
		return rejected(ReasonNotPetFlag, "flags")
	}
	if p.Blocked || strings.TrimSpace(p.BlockReason) != "" {
		return rejected(ReasonBlocked, "flags")
	}

	result := classifier.Classify(p.Listing(), cfg)
	if !result.Eligible {
		reason := "classifier_rejected"
		if len(result.Reasons) > 0 {
			reason = result.Reasons[len(result.Reasons)-1]
		}
		return rejected(reason, result.Rule)
	}

	if p.PetType != "" && !models.ValidPetTypes[models.PetType(strings.ToLower(p.PetType))] {
		return rejected(fmt.Sprintf("%s:%s", reasonInvalidPetType, p.PetType), "declared_pet_type")
	}

	if !hasValidImage(p.Images) {
		return rejected(ReasonNoValidImage, "media")
	}
	if p.SellPrice <= 0 {
		return rejected(ReasonInvalidPrice, "pricing")
	}

	return models.ApprovalVerdict{Approved: true}
}

// FilterPetApproved splits a batch into approved survivors and a
// rejection-reason histogram.
func FilterPetApproved(products []models.SupplierProduct, cfg classifier.Config) ([]models.SupplierProduct, map[string]int) {
	survivors := make([]models.SupplierProduct, 0, len(products))
	rejections := make(map[string]int)

	for _, p := range products {
		verdict := IsApproved(p, cfg)
		if verdict.Approved {
			survivors = append(survivors, p)
			continue
		}
		rejections[*verdict.Reason]++
	}

	return survivors, rejections
}

// RunCleanupJob classifies every currently active product and lists the
// ones that would be deactivated. Dry-run by contract: mutation belongs
// to the catalog store, not here.
func RunCleanupJob(products []models.SupplierProduct, cfg classifier.Config) models.CleanupReport {
	report := models.CleanupReport{Candidates: []models.CleanupCandidate{}}

	for _, p := range products {
		if !p.IsActive() {
			continue
		}
		report.ActiveChecked++

		result := classifier.Classify(p.Listing(), cfg)
		if result.Eligible {
			continue
		}
		reason := ""
		if len(result.Reasons) > 0 {
			reason = result.Reasons[len(result.Reasons)-1]
		}
		report.Candidates = append(report.Candidates, models.CleanupCandidate{
			ProductID: p.ProductID,
			Title:     p.Name,
			Reason:    reason,
			Rule:      result.Rule,
			PetType:   result.PetType,
		})
	}

	return report
}

// isClassifierRule reports whether a rejection came from the listing
// classifier rather than a gate precondition. Only those count as
// "non-pet": a pet product missing an image or a price is still a pet
// product.
func isClassifierRule(rule string) bool {
	switch rule {
	case classifier.RuleHardBlacklist, classifier.RuleHumanClothing,
		classifier.RuleModeFilter, classifier.RuleStrengthCheck,
		classifier.RuleRabbitPlush:
		return true
	}
	return false
}

// LockdownStatus builds the operational snapshot shown on admin
// dashboards: totals, approvals and the top rejection reasons.
func LockdownStatus(products []models.SupplierProduct, cfg classifier.Config) models.LockdownStatus {
	status := models.LockdownStatus{
		Mode:  string(cfg.Mode),
		Total: len(products),
	}
	rejections := make(map[string]int)

	for _, p := range products {
		active := p.IsActive()
		if active {
			status.Active++
		}

		verdict := IsApproved(p, cfg)
		if verdict.Approved {
			status.Approved++
			continue
		}
		rejections[*verdict.Reason]++

		if active && isClassifierRule(verdict.Rule) {
			status.NonPetActive++
		}
	}

	status.TopRejections = models.TopReasons(rejections, 10)
	return status
}
