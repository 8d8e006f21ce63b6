// Package store persists canonical catalog snapshots. The default
// backend is the JSON file the storefront reads; a Postgres backend and
// a Redis read-through cache can be layered in via configuration.
package store

import (
	"context"

	"catalog-ingestion-service/internal/models"
)

// CatalogStore is the catalog persistence contract. Each ingestion run
// replaces the full snapshot; records are never mutated in place.
type CatalogStore interface {
	// ReplaceAll swaps the stored snapshot for the given one.
	ReplaceAll(ctx context.Context, products []models.CanonicalProduct) error
	// GetAll returns the current snapshot.
	GetAll(ctx context.Context) ([]models.CanonicalProduct, error)
	// Get returns one product by supplier product ID, or nil if absent.
	Get(ctx context.Context, supplierProductID string) (*models.CanonicalProduct, error)
}
