// Package revenue implements the revenue engine: it sequences the volume,
// mix, and pricing stages into per-(month, product, market) units and
// revenue, and aggregates monthly, product, and market totals.
package revenue

import (
	"fmt"
	"math"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
	"epm-engine/internal/mix"
	"epm-engine/internal/pricing"
	"epm-engine/internal/volume"
)

// outputTolerance bounds the allowed rounding drift between revenue and
// units * net price, in currency units.
const outputTolerance = 0.01

// Output is the revenue engine's result bundle. Intermediate demand
// series are retained for inspection and reporting. Outputs are read-only
// once returned.
type Output struct {
	// Detail by (month, product, market)
	UnitsKg   map[domain.MonthProductMarket]float64
	NetPrices map[domain.MonthProductMarket]float64
	Revenue   map[domain.MonthProductMarket]float64

	// Aggregations
	RevenueTotal     map[string]float64
	RevenueByProduct map[domain.MonthProduct]float64
	RevenueByMarket  map[domain.MonthMarket]float64

	// Intermediate demand series
	AddressableKg map[domain.MonthMarket]float64
	PotentialKg   map[string]float64
	SellableKg    map[string]float64
	AllocatedKg   map[domain.MonthMarket]float64

	Errors []string
}

// UnitsKgTotalByMonth sums units across products and markets per month.
func (o *Output) UnitsKgTotalByMonth() map[string]float64 {
	result := map[string]float64{}
	for key, kg := range o.UnitsKg {
		result[key.Month] += kg
	}
	return result
}

// buildSOMPct evaluates the SOM ramp for every (month, market). The ramp
// start defaults to the market's activation month; steady-state shares
// come from the per-market SOM table.
func buildSOMPct(months []string, markets []domain.Market, cfg assumptions.VolumeConfig) map[domain.MonthMarket]float64 {
	somPct := make(map[domain.MonthMarket]float64, len(months)*len(markets))

	for _, market := range markets {
		steadyState := cfg.SOMShare.PerMarketPct[market.MarketID]
		ramp := cfg.SOMShare.Ramp.ByMarket[market.MarketID]

		rampStart := ramp.StartMonth
		if rampStart == "" {
			rampStart = market.ActivationMonth
		}
		if rampStart == "" && len(months) > 0 {
			rampStart = months[0]
		}

		for _, month := range months {
			somPct[domain.MonthMarket{Month: month, Market: market.MarketID}] =
				volume.SOMWithRamp(month, steadyState, rampStart, ramp.DurationMonths, ramp.Curve)
		}
	}

	return somPct
}

// Run executes the revenue pipeline:
//  1. Generate the month list from the horizon.
//  2. Build SOM with ramp per (month, market).
//  3. Addressable kg = TAM * SAM * SOM.
//  4. Potential kg = sum across markets.
//  5. Apply the capacity constraint.
//  6. Reallocate sellable kg to markets proportionally.
//  7. Allocate market volume to products via mix.
//  8. Validate mix.
//  9. Compute and validate net prices.
//  10. Revenue = units * net price; aggregate totals.
func Run(a *assumptions.Assumptions) *Output {
	output := &Output{
		UnitsKg:          map[domain.MonthProductMarket]float64{},
		NetPrices:        map[domain.MonthProductMarket]float64{},
		Revenue:          map[domain.MonthProductMarket]float64{},
		RevenueTotal:     map[string]float64{},
		RevenueByProduct: map[domain.MonthProduct]float64{},
		RevenueByMarket:  map[domain.MonthMarket]float64{},
	}

	months, err := domain.GenerateMonths(a.TimeHorizon.StartMonth, a.TimeHorizon.EndMonth)
	if err != nil {
		output.Errors = append(output.Errors, err.Error())
		return output
	}

	productIDs := a.ProductIDs()
	marketIDs := a.MarketIDs()

	somPct := buildSOMPct(months, a.Markets, a.Volume)

	output.AddressableKg = volume.AddressableKg(
		a.Volume.TAM.PerMarketKg, a.Volume.SAMShare.PerMarketPct, somPct)
	output.PotentialKg = volume.PotentialKg(output.AddressableKg)

	var capacityKg map[string]float64
	if a.Volume.Capacity.Enabled {
		capacityKg = a.Volume.Capacity.ByMonth
	}
	output.SellableKg = volume.ApplyCapacityConstraint(output.PotentialKg, capacityKg)

	output.AllocatedKg = volume.AllocateToMarkets(output.SellableKg, output.AddressableKg)

	output.UnitsKg = mix.AllocateToProducts(output.AllocatedKg, productIDs, a.Mix)
	output.Errors = append(output.Errors,
		mix.Validate(months, marketIDs, productIDs, a.Mix, mix.DefaultTolerance)...)

	output.Errors = append(output.Errors, pricing.ValidateInputs(a.Pricing)...)
	output.NetPrices = pricing.AllNetPrices(months, productIDs, marketIDs, a.Pricing)

	for key, kg := range output.UnitsKg {
		rev := kg * output.NetPrices[key]
		output.Revenue[key] = rev
		output.RevenueTotal[key.Month] += rev
		output.RevenueByProduct[domain.MonthProduct{Month: key.Month, Product: key.Product}] += rev
		output.RevenueByMarket[domain.MonthMarket{Month: key.Month, Market: key.Market}] += rev
	}

	return output
}

// ValidateOutput checks the revenue output invariants: all units and
// revenue values are non-negative, and revenue equals units * net price
// within tolerance.
func ValidateOutput(o *Output) []string {
	var errs []string

	for key, kg := range o.UnitsKg {
		if kg < 0 {
			errs = append(errs, fmt.Sprintf("negative units_kg at %v: %v", key, kg))
		}
	}

	for key, rev := range o.Revenue {
		if rev < 0 {
			errs = append(errs, fmt.Sprintf("negative revenue at %v: %v", key, rev))
		}
		expected := o.UnitsKg[key] * o.NetPrices[key]
		if math.Abs(rev-expected) > outputTolerance {
			errs = append(errs, fmt.Sprintf(
				"revenue mismatch at %v: %v != %v * %v = %v",
				key, rev, o.UnitsKg[key], o.NetPrices[key], expected))
		}
	}

	return errs
}
