package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-ingestion-service/internal/classifier"
	"catalog-ingestion-service/internal/events"
	"catalog-ingestion-service/internal/gate"
	"catalog-ingestion-service/internal/models"
	"catalog-ingestion-service/internal/pricing"
	"catalog-ingestion-service/internal/store"
)

// ReportsHandler exposes classifier diagnostics, approval-gate
// snapshots and pricing audits.
type ReportsHandler struct {
	store         store.CatalogStore
	classifierCfg classifier.Config
	pricingCfg    pricing.Config
	publisher     *events.Publisher
	logger        *logrus.Entry
}

func NewReportsHandler(catalogStore store.CatalogStore, classifierCfg classifier.Config, pricingCfg pricing.Config, publisher *events.Publisher, logger *logrus.Logger) *ReportsHandler {
	return &ReportsHandler{
		store:         catalogStore,
		classifierCfg: classifierCfg,
		pricingCfg:    pricingCfg,
		publisher:     publisher,
		logger:        logger.WithField("component", "reports-handler"),
	}
}

func (h *ReportsHandler) bindProducts(c *gin.Context) ([]models.SupplierProduct, bool) {
	var products []models.SupplierProduct
	if err := c.ShouldBindJSON(&products); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return nil, false
	}
	return products, true
}

// DebugStats godoc
// @Summary Classify a supplier batch and report eligibility statistics
// @Tags reports
// @Accept json
// @Produce json
// @Param request body []models.SupplierProduct true "Supplier products"
// @Success 200 {object} models.SuccessResponse
// @Router /api/v1/reports/debug-stats [post]
func (h *ReportsHandler) DebugStats(c *gin.Context) {
	products, ok := h.bindProducts(c)
	if !ok {
		return
	}
	stats := classifier.DebugStats(products, h.classifierCfg)
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: stats})
}

// LockdownStatus godoc
// @Summary Report the approval gate's lockdown snapshot for a batch
// @Tags reports
// @Accept json
// @Produce json
// @Param request body []models.SupplierProduct true "Supplier products"
// @Success 200 {object} models.SuccessResponse
// @Router /api/v1/reports/lockdown [post]
func (h *ReportsHandler) LockdownStatus(c *gin.Context) {
	products, ok := h.bindProducts(c)
	if !ok {
		return
	}
	status := gate.LockdownStatus(products, h.classifierCfg)
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: status})
}

// CleanupReport godoc
// @Summary Dry-run the cleanup job over a supplier batch
// @Tags reports
// @Accept json
// @Produce json
// @Param request body []models.SupplierProduct true "Supplier products"
// @Success 200 {object} models.SuccessResponse
// @Router /api/v1/reports/cleanup [post]
func (h *ReportsHandler) CleanupReport(c *gin.Context) {
	products, ok := h.bindProducts(c)
	if !ok {
		return
	}
	report := gate.RunCleanupJob(products, h.classifierCfg)
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: report})
}

// PricingAudit godoc
// @Summary Audit stored catalog pricing, optionally applying fixes
// @Tags reports
// @Produce json
// @Param apply query bool false "Apply policy corrections"
// @Success 200 {object} models.SuccessResponse
// @Router /api/v1/reports/pricing-audit [post]
func (h *ReportsHandler) PricingAudit(c *gin.Context) {
	apply, _ := strconv.ParseBool(c.DefaultQuery("apply", "false"))

	products, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "STORE_FAILED",
				Message: "Failed to load catalog",
			},
		})
		return
	}

	type productAudit struct {
		SupplierProductID string                 `json:"supplierProductId"`
		Report            models.PricingReport   `json:"report"`
		Changes           []models.PricingChange `json:"changes,omitempty"`
	}

	var audits []productAudit
	var changed []string
	for i := range products {
		p := &products[i]
		report := pricing.ValidatePricing(p, h.pricingCfg)
		changes := pricing.ApplyPricingPolicy(p, h.pricingCfg, !apply)
		if len(report.Issues) == 0 && len(changes) == 0 {
			continue
		}
		audits = append(audits, productAudit{
			SupplierProductID: p.SupplierProductID,
			Report:            report,
			Changes:           changes,
		})
		if apply && len(changes) > 0 {
			changed = append(changed, p.SupplierProductID)
		}
	}

	if apply && len(changed) > 0 {
		if err := h.store.ReplaceAll(c.Request.Context(), products); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "STORE_FAILED",
					Message: "Failed to persist pricing corrections",
				},
			})
			return
		}
		if h.publisher != nil {
			for _, id := range changed {
				if err := h.publisher.PublishProductUpdated(c.Request.Context(), id, []string{"pricing"}); err != nil {
					h.logger.WithField("productId", id).WithError(err).Warn("Failed to publish product updated event")
				}
			}
		}
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"audited": len(products),
			"flagged": len(audits),
			"applied": apply,
			"results": audits,
		},
	})
}
