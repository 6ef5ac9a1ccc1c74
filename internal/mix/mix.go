// Package mix allocates market-level volume to products using year-level
// mix percentages.
package mix

import (
	"fmt"
	"math"
	"sort"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
	"epm-engine/internal/lookup"
)

// DefaultTolerance is the allowed deviation of per-(market, year) mix
// sums from 1.0 when validating against the horizon.
const DefaultTolerance = 0.001

// ForMonth resolves the mix percentage for one (month, product, market).
// Mix is defined per year; the lookup uses the month's year with the
// usual step-function rule and defaults to zero for unknown
// product/market combinations.
func ForMonth(month, product, market string, cfg assumptions.MixConfig) float64 {
	byYear := cfg.ByMarket[market].ByProduct[product].ByYear
	return lookup.Amount(domain.YearOf(month), byYear)
}

// AllocateToProducts splits each (month, market) volume across the
// catalog products by mix percentage.
func AllocateToProducts(
	allocatedKg map[domain.MonthMarket]float64,
	products []string,
	cfg assumptions.MixConfig,
) map[domain.MonthProductMarket]float64 {
	result := make(map[domain.MonthProductMarket]float64, len(allocatedKg)*len(products))
	for key, kg := range allocatedKg {
		for _, product := range products {
			pct := ForMonth(key.Month, product, key.Market, cfg)
			result[domain.MonthProductMarket{Month: key.Month, Product: product, Market: key.Market}] = kg * pct
		}
	}
	return result
}

// Validate checks that mix sums to 1 for every (market, year) in the
// horizon, sampling each year at January.
func Validate(months, markets, products []string, cfg assumptions.MixConfig, tolerance float64) []string {
	var errs []string

	yearSet := map[string]bool{}
	for _, month := range months {
		yearSet[domain.YearOf(month)] = true
	}
	years := make([]string, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Strings(years)

	for _, year := range years {
		month := year + "-01"
		for _, market := range markets {
			total := 0.0
			for _, product := range products {
				total += ForMonth(month, product, market, cfg)
			}
			if math.Abs(total-1.0) > tolerance {
				errs = append(errs, fmt.Sprintf(
					"mix does not sum to 1 for %s/%s: %.4f", market, year, total))
			}
		}
	}

	return errs
}
