package cogs

import (
	"epm-engine/internal/domain"
)

// Consumption converts production volume into BOM input consumption:
// units are summed across markets per (month, product), then multiplied
// by each input's qty_per_kg. Products without a BOM contribute no rows.
func Consumption(
	unitsKg map[domain.MonthProductMarket]float64,
	bom map[string]domain.ProductBOM,
) map[domain.MonthProductInput]float64 {
	unitsByProductMonth := map[domain.MonthProduct]float64{}
	for key, kg := range unitsKg {
		unitsByProductMonth[domain.MonthProduct{Month: key.Month, Product: key.Product}] += kg
	}

	result := map[domain.MonthProductInput]float64{}
	for key, outputKg := range unitsByProductMonth {
		productBOM, ok := bom[key.Product]
		if !ok {
			continue
		}
		for _, in := range productBOM.Inputs {
			result[domain.MonthProductInput{Month: key.Month, Product: key.Product, Input: in.InputID}] =
				outputKg * in.QtyPerKg
		}
	}
	return result
}

// ConsumptionByInput aggregates consumption to (month, input) across
// products.
func ConsumptionByInput(consumption map[domain.MonthProductInput]float64) map[domain.MonthInput]float64 {
	result := map[domain.MonthInput]float64{}
	for key, kg := range consumption {
		result[domain.MonthInput{Month: key.Month, Input: key.Input}] += kg
	}
	return result
}

// ConsumptionByProduct aggregates total input kg to (month, product)
// across inputs.
func ConsumptionByProduct(consumption map[domain.MonthProductInput]float64) map[domain.MonthProduct]float64 {
	result := map[domain.MonthProduct]float64{}
	for key, kg := range consumption {
		result[domain.MonthProduct{Month: key.Month, Product: key.Product}] += kg
	}
	return result
}
