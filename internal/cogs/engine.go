// Package cogs implements the cost-of-goods-sold engine: BOM-driven input
// consumption, time-varying input prices, variable COGS, and a ramping
// fixed-cost base. Variable COGS always flows from BOM x consumption x
// price; there is no flat per-kg override anywhere in this stage.
package cogs

import (
	"fmt"
	"math"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
)

const outputTolerance = 0.01

// Output is the COGS engine's result bundle.
type Output struct {
	// Detail
	Consumption      map[domain.MonthProductInput]float64
	VariableDetailed map[domain.MonthProductInput]float64

	// Product level
	VariableCOGSByProduct map[domain.MonthProduct]float64
	FixedCOGSAllocated    map[domain.MonthProduct]float64

	// Monthly totals
	VariableCOGSTotal map[string]float64
	FixedCOGS         map[string]float64
	TotalCOGS         map[string]float64

	// Unit costs
	UnitVariableCOGS map[string]float64
	UnitFixedCOGS    map[string]float64
	UnitTotalCOGS    map[string]float64

	Errors []string
}

// Run executes the COGS pipeline against the revenue engine's volumes:
// load+validate the BOM, resolve input prices, derive consumption and
// variable COGS, add the ramped fixed base, then aggregate totals and
// unit costs.
func Run(a *assumptions.Assumptions, unitsKg map[domain.MonthProductMarket]float64) *Output {
	output := &Output{
		TotalCOGS:     map[string]float64{},
		UnitFixedCOGS: map[string]float64{},
		UnitTotalCOGS: map[string]float64{},
	}

	months, err := domain.GenerateMonths(a.TimeHorizon.StartMonth, a.TimeHorizon.EndMonth)
	if err != nil {
		output.Errors = append(output.Errors, err.Error())
		return output
	}

	bom := LoadBOM(a.BOM)
	output.Errors = append(output.Errors, ValidateBOM(bom)...)

	inputIDs := AllInputIDs(bom)
	output.Errors = append(output.Errors, ValidateInputPrices(a.InputPrices)...)
	inputPrices := AllInputPrices(months, inputIDs, a.InputPrices)

	output.Consumption = Consumption(unitsKg, bom)

	output.VariableDetailed = VariableDetailed(output.Consumption, inputPrices)
	output.VariableCOGSByProduct = VariableByProduct(output.VariableDetailed)
	output.VariableCOGSTotal = VariableTotal(output.VariableCOGSByProduct)

	output.FixedCOGS = Fixed(months, a.FixedCOGS.BaseMonthly, a.FixedCOGS.Ramp.ByMonth)

	unitsByProduct := map[domain.MonthProduct]float64{}
	unitsTotal := map[string]float64{}
	for key, kg := range unitsKg {
		unitsByProduct[domain.MonthProduct{Month: key.Month, Product: key.Product}] += kg
		unitsTotal[key.Month] += kg
	}
	output.FixedCOGSAllocated = AllocateFixed(output.FixedCOGS, unitsByProduct)

	for _, month := range months {
		output.TotalCOGS[month] = output.VariableCOGSTotal[month] + output.FixedCOGS[month]
	}

	output.UnitVariableCOGS = UnitVariable(output.VariableCOGSTotal, unitsTotal)
	for _, month := range months {
		if kg := unitsTotal[month]; kg > 0 {
			output.UnitFixedCOGS[month] = output.FixedCOGS[month] / kg
			output.UnitTotalCOGS[month] = output.TotalCOGS[month] / kg
		} else {
			output.UnitFixedCOGS[month] = 0.0
			output.UnitTotalCOGS[month] = 0.0
		}
	}

	return output
}

// ValidateOutput checks the COGS output invariants: non-negative values
// and total = variable + fixed per month within tolerance.
func ValidateOutput(o *Output) []string {
	var errs []string

	for key, cost := range o.VariableDetailed {
		if cost < 0 {
			errs = append(errs, fmt.Sprintf("negative variable COGS at %v: %v", key, cost))
		}
	}

	for month, cost := range o.FixedCOGS {
		if cost < 0 {
			errs = append(errs, fmt.Sprintf("negative fixed COGS at %s: %v", month, cost))
		}
	}

	for month, total := range o.TotalCOGS {
		expected := o.VariableCOGSTotal[month] + o.FixedCOGS[month]
		if math.Abs(total-expected) > outputTolerance {
			errs = append(errs, fmt.Sprintf(
				"total COGS mismatch at %s: %v != %v + %v",
				month, total, o.VariableCOGSTotal[month], o.FixedCOGS[month]))
		}
	}

	return errs
}
