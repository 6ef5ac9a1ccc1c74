package cogs

import (
	"fmt"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
	"epm-engine/internal/lookup"
)

// InputPriceForMonth resolves one input's price for a month with the
// step-function rule: exact month, else most recent prior month, else
// the configured base price.
func InputPriceForMonth(month, inputID string, cfg assumptions.InputPricesConfig) float64 {
	price := cfg.ByInput[inputID]
	return lookup.Step(month, price.ByMonth, price.BasePrice)
}

// AllInputPrices resolves the full (month, input) price grid.
func AllInputPrices(months, inputIDs []string, cfg assumptions.InputPricesConfig) map[domain.MonthInput]float64 {
	result := make(map[domain.MonthInput]float64, len(months)*len(inputIDs))
	for _, month := range months {
		for _, inputID := range inputIDs {
			result[domain.MonthInput{Month: month, Input: inputID}] =
				InputPriceForMonth(month, inputID, cfg)
		}
	}
	return result
}

// ValidateInputPrices checks that all configured base and monthly input
// prices are non-negative.
func ValidateInputPrices(cfg assumptions.InputPricesConfig) []string {
	var errs []string

	for _, inputID := range sortedKeys(cfg.ByInput) {
		price := cfg.ByInput[inputID]
		if price.BasePrice < 0 {
			errs = append(errs, fmt.Sprintf(
				"negative base price for input %s: %v", inputID, price.BasePrice))
		}
		for _, month := range sortedKeys(price.ByMonth) {
			if price.ByMonth[month] < 0 {
				errs = append(errs, fmt.Sprintf(
					"negative price for input %s at %s: %v", inputID, month, price.ByMonth[month]))
			}
		}
	}

	return errs
}
