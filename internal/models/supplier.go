package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SupplierProduct is the product-metadata document of a supplier payload.
// Supplier feeds are loosely typed and use inconsistent field names
// (pet_type vs petType, images vs image); alias resolution happens here,
// once, so downstream consumers only ever see the canonical field set.
type SupplierProduct struct {
	ProductID   string   `json:"productId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Tags        []string `json:"tags"`
	PetType     string   `json:"petType"`
	SellPrice   float64  `json:"sellPrice"`
	Images      []string `json:"images"`
	CategoryID  string   `json:"categoryId"`
	Active      *bool    `json:"active"`
	IsPet       *bool    `json:"isPetProduct"`
	Blocked     bool     `json:"blocked"`
	BlockReason string   `json:"blockReason"`
}

// supplierProductAliases mirrors SupplierProduct with every field-name
// variant observed in supplier feeds.
type supplierProductAliases struct {
	ProductID    string      `json:"productId"`
	ProductIDAlt string      `json:"product_id"`
	PID          string      `json:"pid"`
	Name         string      `json:"name"`
	NameAlt      string      `json:"productName"`
	NameEn       string      `json:"productNameEn"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	DescAlt      string      `json:"productDescription"`
	Category     string      `json:"category"`
	CategoryAlt  string      `json:"categoryName"`
	SubCategory  string      `json:"subCategory"`
	SubCatAlt    string      `json:"sub_category"`
	Tags         []string    `json:"tags"`
	PetType      string      `json:"petType"`
	PetTypeAlt   string      `json:"pet_type"`
	SellPrice    looseNumber `json:"sellPrice"`
	SellPriceAlt looseNumber `json:"sell_price"`
	Cost         looseNumber `json:"cost"`
	Images       []string    `json:"images"`
	Image        string      `json:"image"`
	ProductImage string      `json:"productImage"`
	CategoryID   string      `json:"categoryId"`
	Active       *bool       `json:"active"`
	Published    *bool       `json:"published"`
	IsPet        *bool       `json:"isPetProduct"`
	IsPetAlt     *bool       `json:"is_pet_product"`
	Blocked      bool        `json:"blocked"`
	BlockReason  string      `json:"blockReason"`
	BlockAlt     string      `json:"block_reason"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// looseNumber accepts a JSON number or a numeric string; suppliers send
// prices both ways.
type looseNumber string

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	*n = looseNumber(strings.TrimSpace(s))
	return nil
}

func (n looseNumber) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// UnmarshalJSON resolves supplier field aliases into the canonical shape.
func (p *SupplierProduct) UnmarshalJSON(data []byte) error {
	var raw supplierProductAliases
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ProductID = firstNonEmpty(raw.ProductID, raw.ProductIDAlt, raw.PID)
	p.Name = firstNonEmpty(raw.Name, raw.NameAlt, raw.NameEn, raw.Title)
	p.Description = firstNonEmpty(raw.Description, raw.DescAlt)
	p.Category = firstNonEmpty(raw.Category, raw.CategoryAlt)
	p.SubCategory = firstNonEmpty(raw.SubCategory, raw.SubCatAlt)
	p.Tags = raw.Tags
	p.PetType = firstNonEmpty(raw.PetType, raw.PetTypeAlt)
	p.CategoryID = raw.CategoryID
	p.Blocked = raw.Blocked
	p.BlockReason = firstNonEmpty(raw.BlockReason, raw.BlockAlt)

	for _, n := range []looseNumber{raw.SellPrice, raw.SellPriceAlt, raw.Cost} {
		if n != "" {
			if f, err := n.Float64(); err == nil {
				p.SellPrice = f
				break
			}
		}
	}

	p.Images = raw.Images
	if len(p.Images) == 0 {
		if img := firstNonEmpty(raw.Image, raw.ProductImage); img != "" {
			p.Images = []string{img}
		}
	}

	p.Active = raw.Active
	if p.Active == nil {
		p.Active = raw.Published
	}
	p.IsPet = raw.IsPet
	if p.IsPet == nil {
		p.IsPet = raw.IsPetAlt
	}

	return nil
}

// IsActive treats an absent active flag as active; suppliers only send
// the flag when a listing has been retired.
func (p *SupplierProduct) IsActive() bool {
	return p.Active == nil || *p.Active
}

// Listing projects the free-text fields used by classification.
func (p *SupplierProduct) Listing() RawListing {
	return RawListing{
		Title:       p.Name,
		Description: p.Description,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Tags:        p.Tags,
		PetType:     p.PetType,
	}
}

// SupplierProperty is one structured option key/value pair on a variant.
type SupplierProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SupplierVariant is one entry of the supplier's variant-list document.
type SupplierVariant struct {
	VariantID  string             `json:"variantId"`
	SKU        string             `json:"sku"`
	Name       string             `json:"name"`
	SellPrice  float64            `json:"sellPrice"`
	Properties []SupplierProperty `json:"properties"`
}

type supplierVariantAliases struct {
	VariantID    string             `json:"variantId"`
	VariantIDAlt string             `json:"variant_id"`
	VID          string             `json:"vid"`
	SKU          string             `json:"sku"`
	SKUAlt       string             `json:"variantSku"`
	Name         string             `json:"name"`
	NameAlt      string             `json:"variantName"`
	SellPrice    looseNumber        `json:"sellPrice"`
	SellPriceAlt looseNumber        `json:"variantSellPrice"`
	Properties   []SupplierProperty `json:"properties"`
}

// UnmarshalJSON resolves supplier field aliases into the canonical shape.
func (v *SupplierVariant) UnmarshalJSON(data []byte) error {
	var raw supplierVariantAliases
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v.VariantID = firstNonEmpty(raw.VariantID, raw.VariantIDAlt, raw.VID)
	v.SKU = firstNonEmpty(raw.SKU, raw.SKUAlt)
	v.Name = firstNonEmpty(raw.Name, raw.NameAlt)
	v.Properties = raw.Properties

	for _, n := range []looseNumber{raw.SellPrice, raw.SellPriceAlt} {
		if n != "" {
			if f, err := n.Float64(); err == nil {
				v.SellPrice = f
				break
			}
		}
	}

	return nil
}

// SupplierStockRecord is one warehouse line of the inventory-by-country
// document. VariantID links the record to a variant; product-level stock
// rows carry an empty VariantID.
type SupplierStockRecord struct {
	VariantID             string `json:"variantId"`
	WarehouseID           string `json:"warehouseId"`
	CountryCode           string `json:"countryCode"`
	StockTotal            int    `json:"stockTotal"`
	StockAtSupplier       int    `json:"stockAtSupplier"`
	StockAtFulfillmentCtr int    `json:"stockAtFulfillmentCenter"`
}

// SupplierInventory is the inventory document for one product.
type SupplierInventory struct {
	ProductID string                `json:"productId"`
	Records   []SupplierStockRecord `json:"records"`
}

// ByVariant groups stock records by variant identifier.
func (inv *SupplierInventory) ByVariant() map[string][]SupplierStockRecord {
	out := make(map[string][]SupplierStockRecord, len(inv.Records))
	for _, rec := range inv.Records {
		out[rec.VariantID] = append(out[rec.VariantID], rec)
	}
	return out
}

// SupplierBundle is the full payload for one product: the three supplier
// documents the pipeline consumes together.
type SupplierBundle struct {
	Product   SupplierProduct   `json:"product"`
	Variants  []SupplierVariant `json:"variants"`
	Inventory SupplierInventory `json:"inventory"`
}
