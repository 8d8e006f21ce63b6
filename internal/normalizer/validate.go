package normalizer

import (
	"fmt"

	"catalog-ingestion-service/internal/models"
)

// ValidateMapping checks a canonical product's structural integrity.
// Errors make the record unfulfillable; warnings flag conditions an
// operator should review but the storefront can live with.
func ValidateMapping(p *models.CanonicalProduct, cfg Config) models.MappingReport {
	report := models.MappingReport{Valid: true, Errors: []string{}, Warnings: []string{}}

	addError := func(msg string) {
		report.Valid = false
		report.Errors = append(report.Errors, msg)
	}

	if p == nil {
		addError("product is nil")
		return report
	}
	if p.SupplierProductID == "" {
		addError("missing supplier product identifier")
	}
	if len(p.Variants) == 0 {
		addError("product has no variants")
		return report
	}

	// Supplier-mapping checks only apply to real variant lists; a
	// synthesized default variant fulfills through the product ID.
	if p.HasRealVariants {
		mapped := 0
		for _, v := range p.Variants {
			if v.SupplierVariantID == nil {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("variant %s has no supplier variant mapping", v.ID))
				continue
			}
			mapped++
		}
		if mapped == 0 {
			addError("no variant carries a supplier variant mapping")
		}
	}

	// PreferredWarehouseID may name a non-preferred fallback under
	// AllowNonPreferred, so the preferred-stock warning re-scans the
	// warehouse records against the preferred country list.
	preferredStocked := 0
	for _, v := range p.Variants {
		expected := v.StockTotal > 0
		if !cfg.AllowNonPreferred {
			expected = v.PreferredWarehouseID != nil
		}
		if v.Available != expected {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("variant %s availability disagrees with its stock records", v.ID))
		}
		if hasPreferredStock(v.Warehouses, cfg) {
			preferredStocked++
		}
	}
	if preferredStocked == 0 {
		report.Warnings = append(report.Warnings,
			"no variant has positive stock in a preferred warehouse")
	}

	return report
}

func hasPreferredStock(warehouses []models.WarehouseStock, cfg Config) bool {
	for _, w := range warehouses {
		if w.StockTotal <= 0 {
			continue
		}
		for _, country := range cfg.PreferredCountries {
			if w.CountryCode == country {
				return true
			}
		}
	}
	return false
}

func cartError(code int, msg string) models.CartValidation {
	return models.CartValidation{Valid: false, Error: msg, ErrorCode: code}
}

// ValidateForCart re-derives the mapping and stock signals at the moment
// of purchase. It returns a structured result instead of failing so the
// HTTP layer can translate ErrorCode straight into a response status.
func ValidateForCart(p *models.CanonicalProduct, variantID string, quantity int, cfg Config) models.CartValidation {
	if p == nil {
		return cartError(models.CartErrProductNotFound, "product not found")
	}
	if p.SupplierProductID == "" {
		return cartError(models.CartErrNoSupplierMapping, "product has no supplier mapping")
	}

	variant := p.Variant(variantID)
	if variant == nil {
		return cartError(models.CartErrBadRequest, fmt.Sprintf("no such variant: %s", variantID))
	}
	if quantity < 1 {
		return cartError(models.CartErrBadRequest, "quantity must be at least 1")
	}
	if variant.StockTotal <= 0 {
		return cartError(models.CartErrBadRequest, "variant is out of stock")
	}
	if quantity > variant.StockTotal {
		return cartError(models.CartErrBadRequest,
			fmt.Sprintf("insufficient stock: %d requested, %d available", quantity, variant.StockTotal))
	}
	if !cfg.AllowNonPreferred && variant.PreferredWarehouseID == nil {
		return cartError(models.CartErrBadRequest, "no stock in a preferred warehouse")
	}

	return models.CartValidation{Valid: true}
}
