package cogs

import (
	"epm-engine/internal/domain"
)

// Variable COGS is always derived from BOM consumption times input
// prices. There is deliberately no flat per-kg cost path in this package.

// VariableDetailed computes variable COGS per (month, product, input).
func VariableDetailed(
	consumption map[domain.MonthProductInput]float64,
	inputPrices map[domain.MonthInput]float64,
) map[domain.MonthProductInput]float64 {
	result := make(map[domain.MonthProductInput]float64, len(consumption))
	for key, kg := range consumption {
		price := inputPrices[domain.MonthInput{Month: key.Month, Input: key.Input}]
		result[key] = kg * price
	}
	return result
}

// VariableByProduct aggregates detailed variable COGS to (month, product).
func VariableByProduct(detailed map[domain.MonthProductInput]float64) map[domain.MonthProduct]float64 {
	result := map[domain.MonthProduct]float64{}
	for key, cost := range detailed {
		result[domain.MonthProduct{Month: key.Month, Product: key.Product}] += cost
	}
	return result
}

// VariableTotal aggregates per-product variable COGS to monthly totals.
func VariableTotal(byProduct map[domain.MonthProduct]float64) map[string]float64 {
	result := map[string]float64{}
	for key, cost := range byProduct {
		result[key.Month] += cost
	}
	return result
}

// UnitVariable derives variable COGS per kilogram, zero when a month has
// no volume.
func UnitVariable(variableTotal, unitsKgTotal map[string]float64) map[string]float64 {
	result := make(map[string]float64, len(variableTotal))
	for month, total := range variableTotal {
		if kg := unitsKgTotal[month]; kg > 0 {
			result[month] = total / kg
		} else {
			result[month] = 0.0
		}
	}
	return result
}
