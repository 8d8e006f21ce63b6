package models

import "time"

// WarehouseStock is one per-country stock record owned by a variant.
type WarehouseStock struct {
	WarehouseID           string `json:"warehouseId"`
	CountryCode           string `json:"countryCode"`
	StockTotal            int    `json:"stockTotal"`
	StockAtSupplier       int    `json:"stockAtSupplier"`
	StockAtFulfillmentCtr int    `json:"stockAtFulfillmentCenter"`
}

// CanonicalVariant is one purchasable variant of a canonical product.
// SupplierVariantID is nil only on a synthesized default variant.
type CanonicalVariant struct {
	ID                   string            `json:"id"`
	SupplierVariantID    *string           `json:"supplierVariantId"`
	SKU                  string            `json:"sku"`
	Title                string            `json:"title"`
	CostPrice            float64           `json:"costPrice"`
	RetailPrice          float64           `json:"retailPrice"`
	ComparePrice         *float64          `json:"comparePrice"`
	Options              map[string]string `json:"options"`
	Warehouses           []WarehouseStock  `json:"warehouses"`
	PreferredWarehouseID *string           `json:"preferredWarehouseId"`
	StockTotal           int               `json:"stockTotal"`
	Available            bool              `json:"available"`
	IsDefault            bool              `json:"isDefault"`
}

// ProductOption is one axis of the product's option schema, e.g.
// {Name: "Color", Values: ["Red", "Blue"]}.
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// CanonicalProduct is the unit persisted by the catalog store and served
// to the storefront. Every ingestion run produces a fresh snapshot that
// replaces the prior one; records are never mutated in place.
//
// SupplierProductID is the one field the rest of the system cannot
// recover from if missing: without it the record is unfulfillable.
type CanonicalProduct struct {
	SupplierProductID string             `json:"supplierProductId" gorm:"primaryKey;column:supplier_product_id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Images            []string           `json:"images" gorm:"serializer:json;type:jsonb"`
	CategoryID        string             `json:"categoryId"`
	PetType           PetType            `json:"petType"`
	Variants          []CanonicalVariant `json:"variants" gorm:"serializer:json;type:jsonb"`
	Options           []ProductOption    `json:"options" gorm:"serializer:json;type:jsonb"`
	HasRealVariants   bool               `json:"hasRealVariants"`
	ImportedAt        time.Time          `json:"importedAt"`
}

// TableName returns the table name for the Postgres catalog backend.
func (CanonicalProduct) TableName() string {
	return "catalog_products"
}

// Variant returns the variant with the given canonical ID, or nil.
func (p *CanonicalProduct) Variant(id string) *CanonicalVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
