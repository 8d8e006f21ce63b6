package normalizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-ingestion-service/internal/models"
)

func TestNormalize_MissingProductID(t *testing.T) {
	_, err := Normalize(models.SupplierProduct{Name: "Dog Bed"}, nil, models.SupplierInventory{}, DefaultConfig())
	require.Error(t, err)

	var structural *StructuralError
	require.True(t, errors.As(err, &structural))
	assert.Equal(t, "missing_product_id", structural.Code)
}

func TestNormalize_DefaultVariantSynthesis(t *testing.T) {
	product := models.SupplierProduct{
		ProductID: "sp-100",
		Name:      "Ceramic Cat Bowl",
		SellPrice: 6.50,
	}
	inventory := models.SupplierInventory{
		ProductID: "sp-100",
		Records: []models.SupplierStockRecord{
			{WarehouseID: "wh-us-1", CountryCode: "US", StockTotal: 40},
		},
	}

	p, err := Normalize(product, nil, inventory, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, p.Variants, 1)
	v := p.Variants[0]
	assert.Equal(t, "sp-100-default", v.ID)
	assert.Nil(t, v.SupplierVariantID)
	assert.Equal(t, "sp-100", v.SKU)
	assert.Equal(t, "Ceramic Cat Bowl", v.Title)
	assert.Equal(t, 6.50, v.CostPrice)
	assert.Equal(t, 40, v.StockTotal)
	assert.True(t, v.IsDefault)
	assert.True(t, v.Available)
	require.NotNil(t, v.PreferredWarehouseID)
	assert.Equal(t, "wh-us-1", *v.PreferredWarehouseID)
	assert.False(t, p.HasRealVariants)
}

func TestNormalize_RealVariants(t *testing.T) {
	product := models.SupplierProduct{
		ProductID: "sp-200",
		Name:      "Dog Raincoat",
		SellPrice: 9,
	}
	variants := []models.SupplierVariant{
		{VariantID: "v-1", SKU: "RC-S-RED", Name: "Small Red", SellPrice: 8.5},
		{VariantID: "v-2", SKU: "RC-L-BLUE", Name: "Large Blue", SellPrice: 9.5},
	}
	inventory := models.SupplierInventory{
		ProductID: "sp-200",
		Records: []models.SupplierStockRecord{
			{VariantID: "v-1", WarehouseID: "wh-us-1", CountryCode: "US", StockTotal: 10},
			{VariantID: "v-2", WarehouseID: "wh-cn-1", CountryCode: "CN", StockTotal: 25},
		},
	}

	p, err := Normalize(product, variants, inventory, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, p.Variants, 2)
	assert.True(t, p.HasRealVariants)

	v1 := p.Variants[0]
	require.NotNil(t, v1.SupplierVariantID)
	assert.Equal(t, "v-1", *v1.SupplierVariantID)
	assert.Equal(t, "v-1", v1.ID)
	assert.False(t, v1.IsDefault)
	assert.Equal(t, map[string]string{"Size": "Small", "Color": "Red"}, v1.Options)
	assert.True(t, v1.Available)

	// v-2 has stock only in a non-preferred country; with the default
	// policy it gets no preferred warehouse and is unavailable despite
	// positive stock.
	v2 := p.Variants[1]
	assert.Equal(t, 25, v2.StockTotal)
	assert.Nil(t, v2.PreferredWarehouseID)
	assert.False(t, v2.Available)
}

func TestNormalize_NonPreferredFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowNonPreferred = true

	product := models.SupplierProduct{ProductID: "sp-300", Name: "Cat Tunnel"}
	inventory := models.SupplierInventory{
		Records: []models.SupplierStockRecord{
			{WarehouseID: "wh-de-1", CountryCode: "DE", StockTotal: 7},
		},
	}

	p, err := Normalize(product, nil, inventory, cfg)
	require.NoError(t, err)
	v := p.Variants[0]
	require.NotNil(t, v.PreferredWarehouseID)
	assert.Equal(t, "wh-de-1", *v.PreferredWarehouseID)
	assert.True(t, v.Available)
}

func TestNormalize_VariantWithoutSupplierID(t *testing.T) {
	product := models.SupplierProduct{ProductID: "sp-400", Name: "Pet Brush"}
	variants := []models.SupplierVariant{
		{SKU: "BRUSH-STD", Name: "Standard"},
	}

	p, err := Normalize(product, variants, models.SupplierInventory{}, DefaultConfig())
	require.NoError(t, err)
	v := p.Variants[0]
	assert.Nil(t, v.SupplierVariantID)
	assert.Equal(t, "sp-400-BRUSH-STD", v.ID)
}

func TestNormalize_IdempotentIDs(t *testing.T) {
	product := models.SupplierProduct{ProductID: "sp-500", Name: "Leash"}
	variants := []models.SupplierVariant{{VariantID: "v-9", SKU: "L-1", Name: "Red"}}

	first, err := Normalize(product, variants, models.SupplierInventory{}, DefaultConfig())
	require.NoError(t, err)
	second, err := Normalize(product, variants, models.SupplierInventory{}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveOptions(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		variant models.SupplierVariant
		want    map[string]string
	}{
		{
			name:    "structured properties win over name tokens",
			variant: models.SupplierVariant{Name: "Small Red", Properties: []models.SupplierProperty{{Name: "material", Value: "Nylon"}}},
			want:    map[string]string{"Material": "Nylon"},
		},
		{
			name:    "size and color from tokens",
			variant: models.SupplierVariant{Name: "XL Navy"},
			want:    map[string]string{"Size": "XL", "Color": "Navy"},
		},
		{
			name:    "only first size kept",
			variant: models.SupplierVariant{Name: "S M Black"},
			want:    map[string]string{"Size": "S", "Color": "Black"},
		},
		{
			name:    "multiple colors aggregate",
			variant: models.SupplierVariant{Name: "Black White Paws"},
			want:    map[string]string{"Color": "Black And White"},
		},
		{
			name:    "duplicate color tokens dedupe",
			variant: models.SupplierVariant{Name: "Red/Red Collar"},
			want:    map[string]string{"Color": "Red"},
		},
		{
			name:    "nothing recognized",
			variant: models.SupplierVariant{Name: "Classic"},
			want:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveOptions(tt.variant, cfg))
		})
	}
}

func TestBuildOptionSchema(t *testing.T) {
	variants := []models.CanonicalVariant{
		{Options: map[string]string{"Size": "S", "Color": "Red"}},
		{Options: map[string]string{"Size": "L", "Color": "Red"}},
		{Options: map[string]string{"Size": "L", "Color": "Blue", "Material": "Nylon"}},
	}

	schema := buildOptionSchema(variants)
	require.Len(t, schema, 3)
	assert.Equal(t, "Size", schema[0].Name)
	assert.Equal(t, []string{"S", "L"}, schema[0].Values)
	assert.Equal(t, "Color", schema[1].Name)
	assert.Equal(t, []string{"Red", "Blue"}, schema[1].Values)
	assert.Equal(t, "Material", schema[2].Name)
	assert.Equal(t, []string{"Nylon"}, schema[2].Values)
}
