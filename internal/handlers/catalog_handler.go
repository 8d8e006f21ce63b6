package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-ingestion-service/internal/models"
	"catalog-ingestion-service/internal/normalizer"
	"catalog-ingestion-service/internal/store"
)

// CatalogHandler serves the stored canonical catalog.
type CatalogHandler struct {
	store         store.CatalogStore
	normalizerCfg normalizer.Config
	logger        *logrus.Entry
}

func NewCatalogHandler(catalogStore store.CatalogStore, normalizerCfg normalizer.Config, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:         catalogStore,
		normalizerCfg: normalizerCfg,
		logger:        logger.WithField("component", "catalog-handler"),
	}
}

// ListProducts godoc
// @Summary List the canonical catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /api/v1/catalog [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load catalog")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "STORE_FAILED",
				Message: "Failed to load catalog",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"products": products,
			"total":    len(products),
		},
	})
}

// GetProduct godoc
// @Summary Get one canonical product by supplier product ID
// @Tags catalog
// @Produce json
// @Param id path string true "Supplier product ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/catalog/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.loadProduct(c)
	if err != nil || product == nil {
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: product})
}

// GetMappingReport godoc
// @Summary Validate a stored product's supplier mapping
// @Tags catalog
// @Produce json
// @Param id path string true "Supplier product ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/catalog/{id}/mapping [get]
func (h *CatalogHandler) GetMappingReport(c *gin.Context) {
	product, err := h.loadProduct(c)
	if err != nil || product == nil {
		return
	}
	report := normalizer.ValidateMapping(product, h.normalizerCfg)
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: report})
}

// CartValidationRequest is the purchase-time validation body.
type CartValidationRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// ValidateCart godoc
// @Summary Re-validate a product variant at purchase time
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Supplier product ID"
// @Param request body CartValidationRequest true "Cart line"
// @Success 200 {object} models.CartValidation
// @Failure 400 {object} models.CartValidation
// @Failure 404 {object} models.CartValidation
// @Failure 409 {object} models.CartValidation
// @Router /api/v1/catalog/{id}/cart-validation [post]
func (h *CatalogHandler) ValidateCart(c *gin.Context) {
	var req CartValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	product, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "STORE_FAILED",
				Message: "Failed to load product",
			},
		})
		return
	}

	result := normalizer.ValidateForCart(product, req.VariantID, req.Quantity, h.normalizerCfg)
	status := http.StatusOK
	if !result.Valid {
		status = result.ErrorCode
	}
	c.JSON(status, result)
}

// loadProduct fetches the path product, writing the error response
// itself. Returns nil, nil when a response was already written.
func (h *CatalogHandler) loadProduct(c *gin.Context) (*models.CanonicalProduct, error) {
	productID := c.Param("id")
	product, err := h.store.Get(c.Request.Context(), productID)
	if err != nil {
		h.logger.WithField("productId", productID).WithError(err).Error("Failed to load product")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "STORE_FAILED",
				Message: "Failed to load product",
			},
		})
		return nil, err
	}
	if product == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "PRODUCT_NOT_FOUND",
				Message: "Product not found: " + productID,
			},
		})
		return nil, nil
	}
	return product, nil
}
