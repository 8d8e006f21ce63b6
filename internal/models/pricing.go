package models

// PricingResult is the derived retail pricing for one cost price.
// ComparePrice is either nil or strictly greater than RetailPrice.
type PricingResult struct {
	RetailPrice   float64  `json:"retailPrice"`
	ComparePrice  *float64 `json:"comparePrice"`
	MarginPercent float64  `json:"marginPercent"`
}

// PricingIssueSeverity categorizes a pricing audit finding.
type PricingIssueSeverity string

const (
	PricingIssueCritical PricingIssueSeverity = "critical"
	PricingIssueWarning  PricingIssueSeverity = "warning"
)

// PricingIssue is one violation found by a pricing audit, carrying a
// suggested corrected value so a bulk audit can be applied mechanically.
type PricingIssue struct {
	VariantID      string               `json:"variantId"`
	Severity       PricingIssueSeverity `json:"severity"`
	Code           string               `json:"code"`
	Message        string               `json:"message"`
	CurrentRetail  float64              `json:"currentRetail"`
	SuggestedPrice PricingResult        `json:"suggestedPrice"`
}

// PricingReport aggregates the audit findings for one product.
type PricingReport struct {
	SupplierProductID string         `json:"supplierProductId"`
	Issues            []PricingIssue `json:"issues"`
}

// HasCritical reports whether any finding is critical.
func (r *PricingReport) HasCritical() bool {
	for _, issue := range r.Issues {
		if issue.Severity == PricingIssueCritical {
			return true
		}
	}
	return false
}

// PricingChange records one field corrected by the pricing upsert.
type PricingChange struct {
	VariantID string   `json:"variantId"`
	Field     string   `json:"field"`
	Old       *float64 `json:"old"`
	New       *float64 `json:"new"`
}
