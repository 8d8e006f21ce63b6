package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-ingestion-service/internal/models"
)

// snapshot is the on-disk document shape the storefront consumes.
type snapshot struct {
	Products   []models.CanonicalProduct `json:"products"`
	UpdatedAt  time.Time                 `json:"updatedAt"`
	TotalCount int                       `json:"totalCount"`
}

// FileStore keeps the catalog in a single JSON snapshot file, written
// atomically via a temp file and rename.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	logger *logrus.Entry
}

// NewFileStore creates a file-backed catalog store at path.
func NewFileStore(path string, logger *logrus.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.WithField("component", "file-store"),
	}
}

func (s *FileStore) load() (*snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &snapshot{Products: []models.CanonicalProduct{}}, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return &snap, nil
}

// ReplaceAll writes a fresh snapshot, replacing the previous one.
func (s *FileStore) ReplaceAll(_ context.Context, products []models.CanonicalProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Products:   products,
		UpdatedAt:  time.Now().UTC(),
		TotalCount: len(products),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace catalog snapshot: %w", err)
	}

	s.logger.WithField("count", len(products)).Info("Catalog snapshot replaced")
	return nil
}

// GetAll returns the current snapshot; a missing file is an empty
// catalog, not an error.
func (s *FileStore) GetAll(_ context.Context) ([]models.CanonicalProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	return snap.Products, nil
}

// Get returns one product by supplier product ID, or nil if absent.
func (s *FileStore) Get(ctx context.Context, supplierProductID string) (*models.CanonicalProduct, error) {
	products, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].SupplierProductID == supplierProductID {
			return &products[i], nil
		}
	}
	return nil, nil
}
