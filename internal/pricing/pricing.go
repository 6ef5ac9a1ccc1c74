// Package pricing resolves step-function list prices and discounts into
// net selling prices per (month, product, market).
package pricing

import (
	"fmt"
	"sort"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
	"epm-engine/internal/lookup"
)

// ListPriceForMonth resolves a product's list price for one month: the
// exact month if defined, else the most recent prior month, else the
// configured base price.
func ListPriceForMonth(month string, price assumptions.ProductPrice) float64 {
	return lookup.Step(month, price.ByMonth, price.BasePrice)
}

// DiscountForMonth resolves the discount fraction for one
// (month, product, market); absent schedules mean no discount.
func DiscountForMonth(month, product, market string, discounts assumptions.DiscountConfig) float64 {
	byMonth := discounts.ByProduct[product].ByMarket[market].ByMonth
	return lookup.Amount(month, byMonth)
}

// NetPrice computes list price net of discount for one combination.
func NetPrice(month, product, market string, cfg assumptions.PricingConfig) float64 {
	listPrice := ListPriceForMonth(month, cfg.ListPrice.ByProduct[product])
	discount := DiscountForMonth(month, product, market, cfg.Discounts)
	return listPrice * (1 - discount)
}

// AllNetPrices computes the full net price grid over the given months,
// products, and markets.
func AllNetPrices(months, products, markets []string, cfg assumptions.PricingConfig) map[domain.MonthProductMarket]float64 {
	result := make(map[domain.MonthProductMarket]float64, len(months)*len(products)*len(markets))
	for _, month := range months {
		for _, product := range products {
			for _, market := range markets {
				result[domain.MonthProductMarket{Month: month, Product: product, Market: market}] =
					NetPrice(month, product, market, cfg)
			}
		}
	}
	return result
}

// ValidateInputs checks that all configured list prices are non-negative
// and all discounts lie in [0,1].
func ValidateInputs(cfg assumptions.PricingConfig) []string {
	var errs []string

	for _, product := range sortedKeys(cfg.ListPrice.ByProduct) {
		price := cfg.ListPrice.ByProduct[product]
		if price.BasePrice < 0 {
			errs = append(errs, fmt.Sprintf("negative base price for %s: %v", product, price.BasePrice))
		}
		for _, month := range sortedKeys(price.ByMonth) {
			if price.ByMonth[month] < 0 {
				errs = append(errs, fmt.Sprintf(
					"negative price for %s at %s: %v", product, month, price.ByMonth[month]))
			}
		}
	}

	for _, product := range sortedKeys(cfg.Discounts.ByProduct) {
		byMarket := cfg.Discounts.ByProduct[product].ByMarket
		for _, market := range sortedKeys(byMarket) {
			for _, month := range sortedKeys(byMarket[market].ByMonth) {
				discount := byMarket[market].ByMonth[month]
				if discount < 0 || discount > 1 {
					errs = append(errs, fmt.Sprintf(
						"discount out of range [0,1] for %s/%s at %s: %v",
						product, market, month, discount))
				}
			}
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
