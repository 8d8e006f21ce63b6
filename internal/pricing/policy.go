// Package pricing derives a legally-consistent retail price and
// strike-through price from a wholesale cost under margin and rounding
// constraints.
package pricing

import (
	"math"
	"strings"

	"catalog-ingestion-service/internal/models"
)

// roundTo99 rounds down to the nearest whole number plus .99.
// Idempotent: a price already ending in .99 is unchanged.
func roundTo99(price float64) float64 {
	return math.Round((math.Floor(price)+0.99)*100) / 100
}

func marginPercent(retail, cost float64) float64 {
	if retail <= 0 {
		return 0
	}
	return math.Round((retail-cost)/retail*10000) / 100
}

// compareFor derives the strike-through price for a given retail price,
// or nil when no valid one exists. A compare price must strictly exceed
// retail and may never exceed the configured ceiling.
func compareFor(retail float64, cfg Config) *float64 {
	if retail >= cfg.MaxPrice {
		return nil
	}
	compare := roundTo99(retail * cfg.CompareMultiplier)
	if compare <= retail {
		compare = roundTo99(retail * cfg.CompareFallbackMultiplier)
	}
	if compare > cfg.MaxPrice {
		compare = cfg.MaxPrice
	}
	if compare <= retail {
		return nil
	}
	return &compare
}

// Price computes retail and compare pricing for one wholesale cost.
// Pure and deterministic; identical input always yields an identical
// result.
func Price(costPrice float64, category string, cfg Config) models.PricingResult {
	if costPrice <= 0 {
		return models.PricingResult{
			RetailPrice:   cfg.FloorPrice,
			ComparePrice:  compareFor(cfg.FloorPrice, cfg),
			MarginPercent: 100,
		}
	}

	markup := cfg.DefaultMarkup
	if m, ok := cfg.CategoryMarkup[strings.ToLower(category)]; ok {
		markup = m
	}

	floor := costPrice / (1 - cfg.MinMargin)
	retail := costPrice * markup
	if retail < floor {
		retail = floor
	}
	retail = roundTo99(retail)
	// .99 rounding rounds down; step up a whole dollar if that dipped
	// below the margin floor.
	if retail < floor {
		retail = roundTo99(retail + 1)
	}

	if retail < cfg.MinPrice {
		retail = cfg.MinPrice
	}
	if retail > cfg.MaxPrice {
		retail = cfg.MaxPrice
	}

	return models.PricingResult{
		RetailPrice:   retail,
		ComparePrice:  compareFor(retail, cfg),
		MarginPercent: marginPercent(retail, costPrice),
	}
}
