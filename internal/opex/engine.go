// Package opex implements the operating-expense engine: ramped fixed
// categories, activity-driven variable costs, and sales & marketing with
// one-time per-market customer-acquisition charges. OpEx is strictly
// activity-based; no component scales with currency revenue.
package opex

import (
	"fmt"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
	"epm-engine/internal/lookup"
	"epm-engine/internal/revenue"
)

// Activity driver identifiers derived from the revenue engine's output.
const (
	DriverUnitsKgTotal        = "units_kg_total"
	DriverActiveMarkets       = "active_markets"
	DriverNewMarketsActivated = "new_markets_activated"
)

// Output is the OpEx engine's result bundle.
type Output struct {
	// Detail
	FixedOpEx    map[domain.MonthCategory]float64
	VariableOpEx map[domain.MonthDriver]float64
	SMOpEx       map[string]float64               // ramped fixed S&M by month
	SMCAC        map[domain.MonthMarket]float64   // one-time CAC charges

	// Aggregations
	TotalFixed    map[string]float64
	TotalVariable map[string]float64
	TotalSM       map[string]float64
	TotalOpEx     map[string]float64

	Errors []string
}

// FixedByCategory computes ramped fixed OpEx per (month, category).
func FixedByCategory(months []string, cfg assumptions.FixedOpExConfig) map[domain.MonthCategory]float64 {
	result := make(map[domain.MonthCategory]float64, len(months)*len(cfg.ByCategory))
	for _, month := range months {
		for categoryID, category := range cfg.ByCategory {
			result[domain.MonthCategory{Month: month, Category: categoryID}] =
				category.BaseMonthly * lookup.Ramp(month, category.Ramp.ByMonth)
		}
	}
	return result
}

// ActivityDrivers extracts per-month driver values from the revenue
// output: total kg sold, markets with positive revenue, and markets
// whose activation month is that month.
func ActivityDrivers(
	revenueOutput *revenue.Output,
	months []string,
	markets []domain.Market,
) map[domain.MonthDriver]float64 {
	result := map[domain.MonthDriver]float64{}

	kgByMonth := map[string]float64{}
	for key, kg := range revenueOutput.UnitsKg {
		kgByMonth[key.Month] += kg
	}

	activeByMonth := map[string]map[string]bool{}
	for key, rev := range revenueOutput.Revenue {
		if rev > 0 {
			if activeByMonth[key.Month] == nil {
				activeByMonth[key.Month] = map[string]bool{}
			}
			activeByMonth[key.Month][key.Market] = true
		}
	}

	for _, month := range months {
		result[domain.MonthDriver{Month: month, Driver: DriverUnitsKgTotal}] = kgByMonth[month]
		result[domain.MonthDriver{Month: month, Driver: DriverActiveMarkets}] =
			float64(len(activeByMonth[month]))

		activated := 0
		for _, market := range markets {
			if market.ActivationMonth == month {
				activated++
			}
		}
		result[domain.MonthDriver{Month: month, Driver: DriverNewMarketsActivated}] = float64(activated)
	}

	return result
}

// VariableByDriver prices each configured driver's activity at its unit
// cost. Drivers without a configured rate contribute nothing.
func VariableByDriver(
	activity map[domain.MonthDriver]float64,
	cfg assumptions.VariableOpExConfig,
) map[domain.MonthDriver]float64 {
	result := map[domain.MonthDriver]float64{}
	for key, value := range activity {
		driver, ok := cfg.ByDriver[key.Driver]
		if !ok {
			continue
		}
		result[key] = value * driver.CostPerUnit
	}
	return result
}

// SalesMarketing computes the ramped fixed S&M base per month plus
// one-time CAC charges for each market in its activation month.
func SalesMarketing(
	months []string,
	markets []domain.Market,
	cfg assumptions.SMConfig,
) (map[string]float64, map[domain.MonthMarket]float64) {
	smFixed := make(map[string]float64, len(months))
	smCAC := map[domain.MonthMarket]float64{}

	for _, month := range months {
		smFixed[month] = cfg.FixedBase * lookup.Ramp(month, cfg.Ramp.ByMonth)

		for _, market := range markets {
			if market.ActivationMonth == month {
				smCAC[domain.MonthMarket{Month: month, Market: market.MarketID}] =
					cfg.CAC.ByMarket[market.MarketID]
			}
		}
	}

	return smFixed, smCAC
}

// Run executes the OpEx pipeline against the revenue engine's output.
func Run(a *assumptions.Assumptions, revenueOutput *revenue.Output) *Output {
	output := &Output{
		TotalSM:   map[string]float64{},
		TotalOpEx: map[string]float64{},
	}

	months, err := domain.GenerateMonths(a.TimeHorizon.StartMonth, a.TimeHorizon.EndMonth)
	if err != nil {
		output.Errors = append(output.Errors, err.Error())
		return output
	}

	output.FixedOpEx = FixedByCategory(months, a.OpEx.Fixed)
	output.TotalFixed = map[string]float64{}
	for key, amount := range output.FixedOpEx {
		output.TotalFixed[key.Month] += amount
	}

	activity := ActivityDrivers(revenueOutput, months, a.Markets)
	output.VariableOpEx = VariableByDriver(activity, a.OpEx.Variable)
	output.TotalVariable = map[string]float64{}
	for key, amount := range output.VariableOpEx {
		output.TotalVariable[key.Month] += amount
	}

	smFixed, smCAC := SalesMarketing(months, a.Markets, a.OpEx.SalesMarketing)
	output.SMOpEx = smFixed
	output.SMCAC = smCAC
	for month, amount := range smFixed {
		output.TotalSM[month] = amount
	}
	for key, cac := range smCAC {
		output.TotalSM[key.Month] += cac
	}

	for _, month := range months {
		output.TotalOpEx[month] = output.TotalFixed[month] + output.TotalVariable[month] + output.TotalSM[month]
	}

	return output
}

// ValidateOutput checks that every fixed, variable, and total OpEx value
// is non-negative.
func ValidateOutput(o *Output) []string {
	var errs []string

	for key, amount := range o.FixedOpEx {
		if amount < 0 {
			errs = append(errs, fmt.Sprintf("negative fixed OpEx at %v: %v", key, amount))
		}
	}
	for key, amount := range o.VariableOpEx {
		if amount < 0 {
			errs = append(errs, fmt.Sprintf("negative variable OpEx at %v: %v", key, amount))
		}
	}
	for month, amount := range o.TotalOpEx {
		if amount < 0 {
			errs = append(errs, fmt.Sprintf("negative total OpEx at %s: %v", month, amount))
		}
	}

	return errs
}
