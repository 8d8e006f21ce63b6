package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-ingestion-service/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func pricedProduct() *models.CanonicalProduct {
	return &models.CanonicalProduct{
		SupplierProductID: "sp-1",
		CategoryID:        "toys",
		Variants: []models.CanonicalVariant{
			{ID: "v-1", CostPrice: 8, RetailPrice: 20.99, ComparePrice: floatPtr(26.99)},
		},
	}
}

func TestValidatePricing_Clean(t *testing.T) {
	report := ValidatePricing(pricedProduct(), DefaultConfig())
	assert.Empty(t, report.Issues)
	assert.False(t, report.HasCritical())
}

func TestValidatePricing_Issues(t *testing.T) {
	cfg := DefaultConfig()

	p := &models.CanonicalProduct{
		SupplierProductID: "sp-2",
		CategoryID:        "toys",
		Variants: []models.CanonicalVariant{
			{ID: "v-zero", CostPrice: 8, RetailPrice: 0},
			{ID: "v-below-cost", CostPrice: 10, RetailPrice: 9},
			{ID: "v-thin", CostPrice: 10, RetailPrice: 12},
			{ID: "v-bad-compare", CostPrice: 8, RetailPrice: 20.99, ComparePrice: floatPtr(18)},
		},
	}

	report := ValidatePricing(p, cfg)
	assert.True(t, report.HasCritical())

	byVariant := make(map[string]models.PricingIssue)
	for _, issue := range report.Issues {
		byVariant[issue.VariantID] = issue
	}
	require.Len(t, byVariant, 4)

	assert.Equal(t, IssueNonPositivePrice, byVariant["v-zero"].Code)
	assert.Equal(t, models.PricingIssueCritical, byVariant["v-zero"].Severity)
	assert.Equal(t, IssueNegativeMargin, byVariant["v-below-cost"].Code)
	assert.Equal(t, models.PricingIssueCritical, byVariant["v-below-cost"].Severity)
	assert.Equal(t, IssueMarginBelowFloor, byVariant["v-thin"].Code)
	assert.Equal(t, models.PricingIssueWarning, byVariant["v-thin"].Severity)
	assert.Equal(t, IssueInvalidCompare, byVariant["v-bad-compare"].Code)

	// Every issue carries the policy's suggested correction.
	assert.Equal(t, 20.99, byVariant["v-zero"].SuggestedPrice.RetailPrice)
}

func TestApplyPricingPolicy_CorrectsViolations(t *testing.T) {
	cfg := DefaultConfig()

	p := &models.CanonicalProduct{
		SupplierProductID: "sp-3",
		CategoryID:        "toys",
		Variants: []models.CanonicalVariant{
			{ID: "v-1", CostPrice: 8, RetailPrice: 9}, // below cost/(1-MinMargin)
		},
	}

	changes := ApplyPricingPolicy(p, cfg, false)
	require.Len(t, changes, 2)
	assert.Equal(t, "retailPrice", changes[0].Field)
	assert.Equal(t, 20.99, p.Variants[0].RetailPrice)
	require.NotNil(t, p.Variants[0].ComparePrice)
	assert.Greater(t, *p.Variants[0].ComparePrice, p.Variants[0].RetailPrice)
}

func TestApplyPricingPolicy_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	p := &models.CanonicalProduct{
		SupplierProductID: "sp-4",
		CategoryID:        "beds",
		Variants: []models.CanonicalVariant{
			{ID: "v-1", CostPrice: 8, RetailPrice: 0},
			{ID: "v-2", CostPrice: 5, RetailPrice: 300, ComparePrice: floatPtr(250)},
		},
	}

	first := ApplyPricingPolicy(p, cfg, false)
	require.NotEmpty(t, first)

	second := ApplyPricingPolicy(p, cfg, false)
	assert.Empty(t, second)
}

func TestApplyPricingPolicy_ClampedCostStable(t *testing.T) {
	cfg := DefaultConfig()
	// This cost's margin floor sits above MaxPrice, so the ceiling is
	// the best the policy can do. A record already at the ceiling must
	// not be reported as a change on any apply run.
	p := &models.CanonicalProduct{
		SupplierProductID: "sp-6",
		CategoryID:        "toys",
		Variants: []models.CanonicalVariant{
			{ID: "v-1", CostPrice: 150, RetailPrice: cfg.MaxPrice},
		},
	}

	changes := ApplyPricingPolicy(p, cfg, false)
	assert.Empty(t, changes)
	assert.Equal(t, cfg.MaxPrice, p.Variants[0].RetailPrice)
	assert.Nil(t, p.Variants[0].ComparePrice)
}

func TestApplyPricingPolicy_ClampedCostConverges(t *testing.T) {
	cfg := DefaultConfig()
	p := &models.CanonicalProduct{
		SupplierProductID: "sp-7",
		CategoryID:        "toys",
		Variants: []models.CanonicalVariant{
			{ID: "v-1", CostPrice: 150, RetailPrice: 100},
		},
	}

	first := ApplyPricingPolicy(p, cfg, false)
	require.Len(t, first, 1)
	assert.Equal(t, cfg.MaxPrice, p.Variants[0].RetailPrice)

	second := ApplyPricingPolicy(p, cfg, false)
	assert.Empty(t, second)
}

func TestApplyPricingPolicy_DryRun(t *testing.T) {
	cfg := DefaultConfig()
	p := &models.CanonicalProduct{
		SupplierProductID: "sp-5",
		CategoryID:        "toys",
		Variants: []models.CanonicalVariant{
			{ID: "v-1", CostPrice: 8, RetailPrice: 0},
		},
	}

	changes := ApplyPricingPolicy(p, cfg, true)
	require.NotEmpty(t, changes)
	// Untouched in dry-run mode.
	assert.Equal(t, float64(0), p.Variants[0].RetailPrice)
}

func TestApplyPricingPolicy_ValidRetailUndisturbed(t *testing.T) {
	cfg := DefaultConfig()
	p := pricedProduct()

	changes := ApplyPricingPolicy(p, cfg, false)
	assert.Empty(t, changes)
	assert.Equal(t, 20.99, p.Variants[0].RetailPrice)
}
