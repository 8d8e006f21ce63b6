package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-ingestion-service/internal/clients"
	"catalog-ingestion-service/internal/events"
	"catalog-ingestion-service/internal/models"
	"catalog-ingestion-service/internal/pipeline"
	"catalog-ingestion-service/internal/store"
)

// ImportHandler runs catalog import jobs, either against the supplier
// API or from an uploaded feed file.
type ImportHandler struct {
	pipeline       *pipeline.Pipeline
	store          store.CatalogStore
	supplierClient *clients.SupplierClient
	publisher      *events.Publisher
	logger         *logrus.Entry
}

func NewImportHandler(p *pipeline.Pipeline, catalogStore store.CatalogStore, supplierClient *clients.SupplierClient, publisher *events.Publisher, logger *logrus.Logger) *ImportHandler {
	return &ImportHandler{
		pipeline:       p,
		store:          catalogStore,
		supplierClient: supplierClient,
		publisher:      publisher,
		logger:         logger.WithField("component", "import-handler"),
	}
}

// RunImport godoc
// @Summary Run a full catalog import from the supplier API
// @Tags imports
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/v1/imports/run [post]
func (h *ImportHandler) RunImport(c *gin.Context) {
	if h.supplierClient == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "SUPPLIER_NOT_CONFIGURED",
				Message: "No supplier API token configured",
			},
		})
		return
	}

	ctx := c.Request.Context()

	products, err := h.supplierClient.FetchProducts(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "SUPPLIER_FETCH_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	bundles := make([]models.SupplierBundle, 0, len(products))
	for _, p := range products {
		bundle, err := h.supplierClient.FetchBundle(ctx, p)
		if err != nil {
			h.logger.WithField("productId", p.ProductID).WithError(err).Warn("Skipping product, bundle fetch failed")
			continue
		}
		bundles = append(bundles, *bundle)
	}

	h.runAndRespond(c, bundles)
}

// ImportFeed godoc
// @Summary Import a catalog feed from an uploaded CSV or XLSX file
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Feed file"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/imports/feed [post]
func (h *ImportHandler) ImportFeed(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	filename := strings.ToLower(header.Filename)
	var rows []map[string]string
	var parseErr error

	switch {
	case strings.HasSuffix(filename, ".csv"):
		rows, parseErr = parseCSV(file)
	case strings.HasSuffix(filename, ".xlsx"):
		rows, parseErr = parseXLSX(file)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}

	if parseErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "PARSE_ERROR",
				Message: parseErr.Error(),
			},
		})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EMPTY_FILE",
				Message: "The file contains no data rows",
			},
		})
		return
	}

	bundles, err := bundlesFromRows(rows)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FEED",
				Message: err.Error(),
			},
		})
		return
	}

	h.runAndRespond(c, bundles)
}

// runAndRespond runs the pipeline over the bundles, replaces the
// stored catalog with the approved snapshot and reports run stats.
func (h *ImportHandler) runAndRespond(c *gin.Context, bundles []models.SupplierBundle) {
	result := h.pipeline.Run(bundles)

	if err := h.store.ReplaceAll(c.Request.Context(), result.Products); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "STORE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}
	result.Stats.Stored = len(result.Products)

	if h.publisher != nil {
		if err := h.publisher.PublishImportCompleted(c.Request.Context(), result.Stats); err != nil {
			h.logger.WithError(err).Warn("Failed to publish import completed event")
		}
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    result.Stats,
	})
}

// Feed columns. One row per variant; rows sharing a product id are
// grouped into one bundle. Variant columns may be blank for
// single-variant products.
const (
	colProductID   = "product_id"
	colTitle       = "title"
	colDescription = "description"
	colCategory    = "category"
	colSubcategory = "subcategory"
	colPetType     = "pet_type"
	colImages      = "images"
	colTags        = "tags"
	colVariantID   = "variant_id"
	colSKU         = "sku"
	colVariantName = "variant_name"
	colCostPrice   = "cost_price"
	colWarehouse   = "warehouse_id"
	colCountry     = "country_code"
	colStock       = "stock_total"
)

func bundlesFromRows(rows []map[string]string) ([]models.SupplierBundle, error) {
	byProduct := make(map[string]*models.SupplierBundle)
	var order []string

	for _, row := range rows {
		productID := row[colProductID]
		if productID == "" {
			return nil, fmt.Errorf("row %s: missing %s", row["_row"], colProductID)
		}

		bundle, ok := byProduct[productID]
		if !ok {
			bundle = &models.SupplierBundle{
				Product: models.SupplierProduct{
					ProductID:   productID,
					Name:        row[colTitle],
					Description: row[colDescription],
					Category:    row[colCategory],
					SubCategory: row[colSubcategory],
					PetType:     row[colPetType],
					Images:      splitList(row[colImages]),
					Tags:        splitList(row[colTags]),
				},
			}
			bundle.Inventory.ProductID = productID
			byProduct[productID] = bundle
			order = append(order, productID)
		}

		variantID := row[colVariantID]
		if variantID != "" || row[colSKU] != "" {
			cost, err := strconv.ParseFloat(strings.TrimSpace(row[colCostPrice]), 64)
			if err != nil && row[colCostPrice] != "" {
				return nil, fmt.Errorf("row %s: invalid %s %q", row["_row"], colCostPrice, row[colCostPrice])
			}
			bundle.Variants = append(bundle.Variants, models.SupplierVariant{
				VariantID: variantID,
				SKU:       row[colSKU],
				Name:      row[colVariantName],
				SellPrice: cost,
			})
		}

		if row[colWarehouse] != "" {
			stock, _ := strconv.Atoi(strings.TrimSpace(row[colStock]))
			bundle.Inventory.Records = append(bundle.Inventory.Records, models.SupplierStockRecord{
				VariantID:   variantID,
				WarehouseID: row[colWarehouse],
				CountryCode: row[colCountry],
				StockTotal:  stock,
			})
		}
	}

	bundles := make([]models.SupplierBundle, 0, len(order))
	for _, id := range order {
		bundles = append(bundles, *byProduct[id])
	}
	return bundles, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseCSV parses a CSV feed into rows keyed by normalized header.
func parseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
	}

	var rows []map[string]string
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}

		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum + 1)
		rows = append(rows, row)
		lineNum++
	}
	return rows, nil
}

// parseXLSX parses an Excel feed into rows keyed by normalized header.
func parseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headers := excelRows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
	}

	var rows []map[string]string
	for rowIdx, excelRow := range excelRows[1:] {
		row := make(map[string]string)
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(rowIdx + 2)
		rows = append(rows, row)
	}
	return rows, nil
}
