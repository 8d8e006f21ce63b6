package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-ingestion-service/internal/models"
)

const (
	defaultPageSize = 100
	maxRetries      = 3
	retryBackoff    = 2 * time.Second
)

// SupplierClient pulls product listings, variants and inventory from
// the dropshipping supplier API.
type SupplierClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewSupplierClient creates a supplier API client.
func NewSupplierClient(baseURL, apiToken string, logger *logrus.Logger) *SupplierClient {
	return &SupplierClient{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.WithField("component", "supplier-client"),
	}
}

// apiEnvelope is the supplier API response wrapper.
type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type productPage struct {
	List  []models.SupplierProduct `json:"list"`
	Total int                      `json:"total"`
}

// FetchProducts pulls every product page from the supplier.
func (c *SupplierClient) FetchProducts(ctx context.Context) ([]models.SupplierProduct, error) {
	var products []models.SupplierProduct

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("pageNum", strconv.Itoa(page))
		params.Set("pageSize", strconv.Itoa(defaultPageSize))

		var result productPage
		if err := c.get(ctx, "/api/v2/products/list", params, &result); err != nil {
			return nil, fmt.Errorf("failed to fetch product page %d: %w", page, err)
		}

		products = append(products, result.List...)
		if len(result.List) < defaultPageSize || len(products) >= result.Total {
			break
		}
	}

	c.logger.WithField("count", len(products)).Info("Fetched supplier products")
	return products, nil
}

// FetchVariants pulls the variant list for one product.
func (c *SupplierClient) FetchVariants(ctx context.Context, productID string) ([]models.SupplierVariant, error) {
	params := url.Values{}
	params.Set("pid", productID)

	var variants []models.SupplierVariant
	if err := c.get(ctx, "/api/v2/products/variants", params, &variants); err != nil {
		return nil, fmt.Errorf("failed to fetch variants for product %s: %w", productID, err)
	}
	return variants, nil
}

// FetchInventory pulls per-warehouse stock records for one variant.
func (c *SupplierClient) FetchInventory(ctx context.Context, variantID string) ([]models.SupplierStockRecord, error) {
	params := url.Values{}
	params.Set("vid", variantID)

	var records []models.SupplierStockRecord
	if err := c.get(ctx, "/api/v2/products/stock", params, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch inventory for variant %s: %w", variantID, err)
	}
	return records, nil
}

// FetchBundle assembles a full product bundle (product, variants,
// per-variant inventory) ready for the ingestion pipeline.
func (c *SupplierClient) FetchBundle(ctx context.Context, product models.SupplierProduct) (*models.SupplierBundle, error) {
	variants, err := c.FetchVariants(ctx, product.ProductID)
	if err != nil {
		return nil, err
	}

	var inventory []models.SupplierStockRecord
	for _, v := range variants {
		if v.VariantID == "" {
			continue
		}
		records, err := c.FetchInventory(ctx, v.VariantID)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"productId": product.ProductID,
				"variantId": v.VariantID,
			}).WithError(err).Warn("Failed to fetch variant inventory, continuing without it")
			continue
		}
		inventory = append(inventory, records...)
	}

	return &models.SupplierBundle{
		Product:  product,
		Variants: variants,
		Inventory: models.SupplierInventory{
			ProductID: product.ProductID,
			Records:   inventory,
		},
	}, nil
}

// get performs an authenticated GET with bounded retries on transient
// failures (network errors, 429, 5xx).
func (c *SupplierClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("CJ-Access-Token", c.apiToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("supplier API returned status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("supplier API returned status %d: %s", resp.StatusCode, string(body))
		}

		var envelope apiEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to decode supplier response: %w", err)
		}
		if envelope.Code != 200 {
			return fmt.Errorf("supplier API error %d: %s", envelope.Code, envelope.Message)
		}
		return json.Unmarshal(envelope.Data, out)
	}

	return fmt.Errorf("supplier API request failed after %d attempts: %w", maxRetries, lastErr)
}
