// Package normalizer converts heterogeneous supplier product, variant
// and inventory payloads into the canonical catalog schema, including
// warehouse-aware stock resolution and option-schema derivation.
package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"catalog-ingestion-service/internal/models"
)

// StructuralError marks a supplier record the caller must skip and log.
// It is a value, not a fault: bad input, not a programming error.
type StructuralError struct {
	Code    string
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrMissingProductID is returned when the supplier product carries no
// identifier. Identity is the one field the rest of the system cannot
// recover from if missing.
var ErrMissingProductID = &StructuralError{
	Code:    "missing_product_id",
	Message: "supplier product has no identifier",
}

func titleCase(token string) string {
	if token == "" {
		return token
	}
	return strings.ToUpper(token[:1]) + token[1:]
}

func splitNameTokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		switch r {
		case ' ', '-', '/', ',', '(', ')', '_':
			return true
		}
		return false
	})
}

// resolveOptions builds a variant's option map. Structured supplier
// properties win; otherwise the variant name is tokenized against the
// size and color dictionaries. The first dictionary hit per token
// position wins, at most one size is kept, and multiple color tokens
// aggregate into a single "Color" value joined with " And ".
func resolveOptions(v models.SupplierVariant, cfg Config) map[string]string {
	options := make(map[string]string)

	if len(v.Properties) > 0 {
		for _, prop := range v.Properties {
			name := strings.TrimSpace(prop.Name)
			value := strings.TrimSpace(prop.Value)
			if name == "" || value == "" {
				continue
			}
			options[titleCase(strings.ToLower(name))] = value
		}
		return options
	}

	colorSet := make(map[string]bool, len(cfg.Colors))
	for _, c := range cfg.Colors {
		colorSet[c] = true
	}

	var colors []string
	seen := make(map[string]bool)
	for _, token := range splitNameTokens(v.Name) {
		if size, ok := cfg.Sizes[token]; ok {
			if _, have := options["Size"]; !have {
				options["Size"] = size
			}
			continue
		}
		if colorSet[token] && !seen[token] {
			colors = append(colors, titleCase(token))
			seen[token] = true
		}
	}
	if len(colors) > 0 {
		options["Color"] = strings.Join(colors, " And ")
	}

	return options
}

// resolveWarehouses computes a variant's stock records, total, preferred
// warehouse and availability from per-country supplier stock rows.
func resolveWarehouses(records []models.SupplierStockRecord, cfg Config) ([]models.WarehouseStock, int, *string, bool) {
	warehouses := make([]models.WarehouseStock, 0, len(records))
	total := 0
	for _, rec := range records {
		warehouses = append(warehouses, models.WarehouseStock{
			WarehouseID:           rec.WarehouseID,
			CountryCode:           rec.CountryCode,
			StockTotal:            rec.StockTotal,
			StockAtSupplier:       rec.StockAtSupplier,
			StockAtFulfillmentCtr: rec.StockAtFulfillmentCtr,
		})
		total += rec.StockTotal
	}

	var preferred *string
	for _, country := range cfg.PreferredCountries {
		for i := range warehouses {
			if warehouses[i].CountryCode == country && warehouses[i].StockTotal > 0 {
				preferred = &warehouses[i].WarehouseID
				break
			}
		}
		if preferred != nil {
			break
		}
	}
	if preferred == nil && cfg.AllowNonPreferred {
		for i := range warehouses {
			if warehouses[i].StockTotal > 0 {
				preferred = &warehouses[i].WarehouseID
				break
			}
		}
	}

	// Availability follows the fulfillment policy uniformly: with
	// non-preferred fulfillment disallowed, stock that cannot ship from
	// a preferred warehouse does not count as available.
	available := total > 0
	if !cfg.AllowNonPreferred {
		available = preferred != nil
	}

	return warehouses, total, preferred, available
}

// buildOptionSchema aggregates per-variant option maps into the
// product-level option axes, preserving first-appearance order.
func buildOptionSchema(variants []models.CanonicalVariant) []models.ProductOption {
	var order []string
	values := make(map[string][]string)
	seen := make(map[string]map[string]bool)

	for _, v := range variants {
		for _, name := range optionNames(v.Options) {
			value := v.Options[name]
			if seen[name] == nil {
				seen[name] = make(map[string]bool)
				order = append(order, name)
			}
			if !seen[name][value] {
				seen[name][value] = true
				values[name] = append(values[name], value)
			}
		}
	}

	schema := make([]models.ProductOption, 0, len(order))
	for _, name := range order {
		schema = append(schema, models.ProductOption{Name: name, Values: values[name]})
	}
	return schema
}

// optionNames returns a variant's option axis names in a stable order.
func optionNames(options map[string]string) []string {
	var names []string
	for _, known := range []string{"Size", "Color"} {
		if _, ok := options[known]; ok {
			names = append(names, known)
		}
	}
	var rest []string
	for name := range options {
		if name != "Size" && name != "Color" {
			rest = append(rest, name)
		}
	}
	// Sort the remainder so map iteration order cannot leak into output.
	sort.Strings(rest)
	return append(names, rest...)
}

// Normalize converts one supplier payload into a canonical product.
// It fails fast with a structural error if the product has no
// identifier; every other absent supplier field is treated as absent,
// not as an error. Pricing fields are left at cost; the pricing policy
// attaches retail prices downstream.
func Normalize(product models.SupplierProduct, variants []models.SupplierVariant, inventory models.SupplierInventory, cfg Config) (*models.CanonicalProduct, error) {
	if strings.TrimSpace(product.ProductID) == "" {
		return nil, ErrMissingProductID
	}

	stockByVariant := inventory.ByVariant()
	canonical := make([]models.CanonicalVariant, 0, len(variants))

	if len(variants) == 0 {
		// No supplier variant list: synthesize exactly one default
		// variant priced from the product-level cost and stocked from
		// product-level inventory rows.
		warehouses, total, preferred, available := resolveWarehouses(stockByVariant[""], cfg)
		canonical = append(canonical, models.CanonicalVariant{
			ID:                   product.ProductID + "-default",
			SupplierVariantID:    nil,
			SKU:                  product.ProductID,
			Title:                product.Name,
			CostPrice:            product.SellPrice,
			Options:              map[string]string{},
			Warehouses:           warehouses,
			StockTotal:           total,
			PreferredWarehouseID: preferred,
			Available:            available,
			IsDefault:            true,
		})
	} else {
		for _, v := range variants {
			var supplierID *string
			if v.VariantID != "" {
				id := v.VariantID
				supplierID = &id
			}
			warehouses, total, preferred, available := resolveWarehouses(stockByVariant[v.VariantID], cfg)
			sku := v.SKU
			if sku == "" {
				sku = v.VariantID
			}
			title := v.Name
			if title == "" {
				title = product.Name
			}
			canonicalID := v.VariantID
			if canonicalID == "" {
				canonicalID = product.ProductID + "-" + sku
			}
			canonical = append(canonical, models.CanonicalVariant{
				ID:                   canonicalID,
				SupplierVariantID:    supplierID,
				SKU:                  sku,
				Title:                title,
				CostPrice:            v.SellPrice,
				Options:              resolveOptions(v, cfg),
				Warehouses:           warehouses,
				StockTotal:           total,
				PreferredWarehouseID: preferred,
				Available:            available,
				IsDefault:            false,
			})
		}
	}

	categoryID := product.CategoryID
	if categoryID == "" {
		categoryID = strings.ToLower(strings.TrimSpace(product.Category))
	}

	return &models.CanonicalProduct{
		SupplierProductID: product.ProductID,
		Title:             product.Name,
		Description:       product.Description,
		Images:            product.Images,
		CategoryID:        categoryID,
		Variants:          canonical,
		Options:           buildOptionSchema(canonical),
		HasRealVariants:   len(variants) > 0,
	}, nil
}
