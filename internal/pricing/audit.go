package pricing

import (
	"fmt"

	"catalog-ingestion-service/internal/models"
)

// Audit issue codes.
const (
	IssueNonPositivePrice = "non_positive_price"
	IssueNegativeMargin   = "negative_margin"
	IssueMarginBelowFloor = "margin_below_floor"
	IssueInvalidCompare   = "invalid_compare_price"
)

// ValidatePricing re-derives margin and compare consistency for an
// already-priced product. It never fails: every violation across a bulk
// audit is enumerated in one pass, each with a suggested corrected
// value. Critical issues mean the record cannot be sold as priced;
// warnings mean money is being left on the table or the strike-through
// display is wrong.
func ValidatePricing(p *models.CanonicalProduct, cfg Config) models.PricingReport {
	report := models.PricingReport{
		SupplierProductID: p.SupplierProductID,
		Issues:            []models.PricingIssue{},
	}

	for _, v := range p.Variants {
		suggested := Price(v.CostPrice, p.CategoryID, cfg)
		add := func(severity models.PricingIssueSeverity, code, msg string) {
			report.Issues = append(report.Issues, models.PricingIssue{
				VariantID:      v.ID,
				Severity:       severity,
				Code:           code,
				Message:        msg,
				CurrentRetail:  v.RetailPrice,
				SuggestedPrice: suggested,
			})
		}

		if v.RetailPrice <= 0 {
			add(models.PricingIssueCritical, IssueNonPositivePrice,
				fmt.Sprintf("variant %s has non-positive retail price %.2f", v.ID, v.RetailPrice))
			continue
		}
		if v.CostPrice > 0 && v.RetailPrice < v.CostPrice {
			add(models.PricingIssueCritical, IssueNegativeMargin,
				fmt.Sprintf("variant %s sells below cost (%.2f < %.2f)", v.ID, v.RetailPrice, v.CostPrice))
		} else if v.CostPrice > 0 && (v.RetailPrice-v.CostPrice)/v.RetailPrice < cfg.MinMargin {
			add(models.PricingIssueWarning, IssueMarginBelowFloor,
				fmt.Sprintf("variant %s margin is below the %.0f%% floor", v.ID, cfg.MinMargin*100))
		}
		if v.ComparePrice != nil && *v.ComparePrice <= v.RetailPrice {
			add(models.PricingIssueWarning, IssueInvalidCompare,
				fmt.Sprintf("variant %s compare price %.2f does not exceed retail %.2f", v.ID, *v.ComparePrice, v.RetailPrice))
		}
	}

	return report
}

// ApplyPricingPolicy is the idempotent pricing upsert: it corrects only
// fields whose current value violates an invariant and reports each
// change. With dryRun set the product is left untouched and the returned
// changes describe the would-be diff. Applying twice yields no second
// diff.
func ApplyPricingPolicy(p *models.CanonicalProduct, cfg Config, dryRun bool) []models.PricingChange {
	changes := []models.PricingChange{}

	for i := range p.Variants {
		v := &p.Variants[i]
		retail := v.RetailPrice

		retailBad := retail <= 0 ||
			(v.CostPrice > 0 && retail < v.CostPrice/(1-cfg.MinMargin)) ||
			retail > cfg.MaxPrice
		retailChanged := false
		if retailBad {
			// A cost above MaxPrice*(1-MinMargin) clamps below the
			// margin floor permanently; when the policy already
			// produces the current price there is nothing to change.
			suggested := Price(v.CostPrice, p.CategoryID, cfg)
			if suggested.RetailPrice != retail {
				old := retail
				retail = suggested.RetailPrice
				retailChanged = true
				changes = append(changes, models.PricingChange{
					VariantID: v.ID,
					Field:     "retailPrice",
					Old:       &old,
					New:       &retail,
				})
				if !dryRun {
					v.RetailPrice = retail
				}
			}
		}

		// The compare price is validated against the (possibly
		// corrected) retail and re-derived from it, never from cost, so
		// a valid retail price is not disturbed.
		wantCompare := compareFor(retail, cfg)
		compareBad := v.ComparePrice != nil && (*v.ComparePrice <= retail || *v.ComparePrice > cfg.MaxPrice)
		if compareBad || (retailChanged && !equalPtr(v.ComparePrice, wantCompare)) {
			changes = append(changes, models.PricingChange{
				VariantID: v.ID,
				Field:     "comparePrice",
				Old:       v.ComparePrice,
				New:       wantCompare,
			})
			if !dryRun {
				v.ComparePrice = wantCompare
			}
		}
	}

	return changes
}

func equalPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
