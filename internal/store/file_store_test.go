package store

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-ingestion-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sample(id string) models.CanonicalProduct {
	return models.CanonicalProduct{
		SupplierProductID: id,
		Title:             "Dog Harness",
		Variants: []models.CanonicalVariant{
			{ID: id + "-default", SKU: id, IsDefault: true},
		},
	}
}

func TestFileStore_MissingFileIsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	s := NewFileStore(path, testLogger())

	products, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	product, err := s.Get(context.Background(), "sp-1")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestFileStore_ReplaceAllRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "catalog.json")
	s := NewFileStore(path, testLogger())
	ctx := context.Background()

	require.NoError(t, s.ReplaceAll(ctx, []models.CanonicalProduct{sample("sp-1"), sample("sp-2")}))

	products, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	product, err := s.Get(ctx, "sp-2")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "sp-2", product.SupplierProductID)

	// Full-replace semantics: a later snapshot drops missing products.
	require.NoError(t, s.ReplaceAll(ctx, []models.CanonicalProduct{sample("sp-3")}))
	product, err = s.Get(ctx, "sp-1")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestFileStore_SnapshotEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	s := NewFileStore(path, testLogger())

	require.NoError(t, s.ReplaceAll(context.Background(), []models.CanonicalProduct{sample("sp-1")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "products")
	assert.Contains(t, doc, "updatedAt")
	assert.Contains(t, doc, "totalCount")

	// No leftover temp file after the atomic rename.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path, testLogger())
	_, err := s.GetAll(context.Background())
	assert.Error(t, err)
}
