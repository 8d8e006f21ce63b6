// Package pipeline chains classification, approval, normalization and
// pricing over supplier payload batches and accumulates run statistics.
package pipeline

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-ingestion-service/internal/classifier"
	"catalog-ingestion-service/internal/gate"
	"catalog-ingestion-service/internal/models"
	"catalog-ingestion-service/internal/normalizer"
	"catalog-ingestion-service/internal/pricing"
)

// Config bundles the rule data of every pipeline stage into the single
// value threaded through each call. Nothing here is process-global.
type Config struct {
	Classifier classifier.Config `json:"classifier"`
	Normalizer normalizer.Config `json:"normalizer"`
	Pricing    pricing.Config    `json:"pricing"`
}

// DefaultConfig returns the production rule set for all stages.
func DefaultConfig() Config {
	return Config{
		Classifier: classifier.DefaultConfig(),
		Normalizer: normalizer.DefaultConfig(),
		Pricing:    pricing.DefaultConfig(),
	}
}

// Pipeline composes the four stages over supplier bundles.
type Pipeline struct {
	cfg    Config
	logger *logrus.Entry
}

// New creates a pipeline with the given stage configuration.
func New(cfg Config, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger.WithField("component", "pipeline"),
	}
}

// Process runs one supplier bundle through the full chain. A nil product
// with a non-nil verdict is a gate rejection; a structural error means
// the record must be skipped and logged. Re-running on unchanged input
// yields an identical product.
func (p *Pipeline) Process(bundle models.SupplierBundle) (*models.CanonicalProduct, models.ApprovalVerdict, error) {
	verdict := gate.IsApproved(bundle.Product, p.cfg.Classifier)
	if !verdict.Approved {
		return nil, verdict, nil
	}

	product, err := normalizer.Normalize(bundle.Product, bundle.Variants, bundle.Inventory, p.cfg.Normalizer)
	if err != nil {
		return nil, verdict, err
	}

	product.PetType = classifier.Classify(bundle.Product.Listing(), p.cfg.Classifier).PetType

	for i := range product.Variants {
		v := &product.Variants[i]
		result := pricing.Price(v.CostPrice, product.CategoryID, p.cfg.Pricing)
		v.RetailPrice = result.RetailPrice
		v.ComparePrice = result.ComparePrice
	}

	return product, verdict, nil
}

// Run processes a batch sequentially and accumulates run statistics.
// Elements are independent, so ordering never affects the output set.
func (p *Pipeline) Run(bundles []models.SupplierBundle) *models.RunResult {
	start := time.Now()
	result := &models.RunResult{
		Products: []models.CanonicalProduct{},
		Stats: models.RunStats{
			Total:           len(bundles),
			RejectionCounts: make(map[string]int),
			PetTypeCounts:   make(map[models.PetType]int),
		},
	}

	for _, bundle := range bundles {
		product, verdict, err := p.Process(bundle)
		if err != nil {
			var structural *normalizer.StructuralError
			if errors.As(err, &structural) {
				result.Stats.StructuralError++
				result.Stats.RejectionCounts[structural.Code]++
				p.logger.WithFields(logrus.Fields{
					"productId": bundle.Product.ProductID,
					"code":      structural.Code,
				}).Warn("Skipping structurally invalid supplier record")
				continue
			}
			// Non-structural failures are unexpected; count and move on
			// rather than abort the batch.
			result.Stats.StructuralError++
			result.Stats.RejectionCounts["internal_error"]++
			p.logger.WithError(err).Error("Unexpected normalization failure")
			continue
		}

		if !verdict.Approved {
			result.Stats.Rejected++
			result.Stats.RejectionCounts[*verdict.Reason]++
			continue
		}

		product.ImportedAt = start
		result.Stats.Approved++
		result.Stats.PetTypeCounts[product.PetType]++
		result.Products = append(result.Products, *product)
	}

	result.Stats.Stored = len(result.Products)
	result.Stats.DurationMS = time.Since(start).Milliseconds()

	p.logger.WithFields(logrus.Fields{
		"total":    result.Stats.Total,
		"approved": result.Stats.Approved,
		"rejected": result.Stats.Rejected,
		"invalid":  result.Stats.StructuralError,
	}).Info("Ingestion run complete")

	return result
}
