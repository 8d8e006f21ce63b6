package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-ingestion-service/internal/models"
)

// PostgresStore persists the catalog snapshot in a Postgres table,
// upserting on the supplier product ID and pruning rows that left the
// snapshot.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a Postgres-backed catalog store and ensures
// the schema exists.
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&models.CanonicalProduct{}); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// ReplaceAll upserts the snapshot in one transaction and deletes rows
// no longer present, preserving full-replace semantics.
func (s *PostgresStore) ReplaceAll(ctx context.Context, products []models.CanonicalProduct) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(products))
		for i := range products {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "supplier_product_id"}},
				UpdateAll: true,
			}).Create(&products[i]).Error; err != nil {
				return fmt.Errorf("failed to upsert product %s: %w", products[i].SupplierProductID, err)
			}
			ids = append(ids, products[i].SupplierProductID)
		}

		stale := tx.Model(&models.CanonicalProduct{})
		if len(ids) > 0 {
			stale = stale.Where("supplier_product_id NOT IN ?", ids)
		} else {
			stale = stale.Where("1 = 1")
		}
		if err := stale.Delete(&models.CanonicalProduct{}).Error; err != nil {
			return fmt.Errorf("failed to prune stale products: %w", err)
		}
		return nil
	})
}

// GetAll returns the current snapshot.
func (s *PostgresStore) GetAll(ctx context.Context) ([]models.CanonicalProduct, error) {
	var products []models.CanonicalProduct
	if err := s.db.WithContext(ctx).Order("supplier_product_id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return products, nil
}

// Get returns one product by supplier product ID, or nil if absent.
func (s *PostgresStore) Get(ctx context.Context, supplierProductID string) (*models.CanonicalProduct, error) {
	var product models.CanonicalProduct
	err := s.db.WithContext(ctx).First(&product, "supplier_product_id = ?", supplierProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", supplierProductID, err)
	}
	return &product, nil
}
