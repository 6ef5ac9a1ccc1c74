// Package volume computes addressable and obtainable demand per market
// per month, applies the optional capacity ceiling, and reallocates
// constrained volume back to markets proportionally. All quantities are
// kilograms.
package volume

import (
	"math"

	"epm-engine/internal/domain"
)

// Ramp curve identifiers.
const (
	CurveLinear = "linear"
	CurveSCurve = "s-curve"
)

// sCurveSteepness is the logistic steepness constant for s-curve ramps,
// centered at the midpoint of the ramp fraction.
const sCurveSteepness = 10.0

// SOMWithRamp returns the SOM fraction for one month. Before the
// activation month it is zero; once the elapsed whole months reach the
// ramp duration it is the steady-state value; in between it is
// interpolated along the configured curve. Unknown curve names fall back
// to linear. A zero duration jumps straight to steady state at
// activation.
func SOMWithRamp(month string, steadyStateSOM float64, activationMonth string, rampDurationMonths int, curve string) float64 {
	if month < activationMonth {
		return 0.0
	}

	elapsed := domain.MonthsElapsed(activationMonth, month)
	if elapsed >= rampDurationMonths {
		return steadyStateSOM
	}

	x := float64(elapsed) / float64(rampDurationMonths)
	if curve == CurveSCurve {
		return steadyStateSOM / (1 + math.Exp(-sCurveSteepness*(x-0.5)))
	}
	return steadyStateSOM * x
}

// AddressableKg computes TAM * SAM * SOM per (month, market). Markets
// missing from the TAM or SAM tables contribute zero.
func AddressableKg(
	tamKg map[string]float64,
	samPct map[string]float64,
	somPct map[domain.MonthMarket]float64,
) map[domain.MonthMarket]float64 {
	result := make(map[domain.MonthMarket]float64, len(somPct))
	for key, som := range somPct {
		result[key] = tamKg[key.Market] * samPct[key.Market] * som
	}
	return result
}

// PotentialKg sums addressable demand across markets for each month.
func PotentialKg(addressableKg map[domain.MonthMarket]float64) map[string]float64 {
	result := map[string]float64{}
	for key, kg := range addressableKg {
		result[key.Month] += kg
	}
	return result
}

// ApplyCapacityConstraint caps each month's potential at the configured
// capacity. The constraint is soft: months without a capacity value stay
// unconstrained, and an absent or empty capacity series returns the
// potential unchanged.
func ApplyCapacityConstraint(potentialKg, capacityKg map[string]float64) map[string]float64 {
	result := make(map[string]float64, len(potentialKg))
	if len(capacityKg) == 0 {
		for month, kg := range potentialKg {
			result[month] = kg
		}
		return result
	}

	for month, potential := range potentialKg {
		if capacity, ok := capacityKg[month]; ok {
			result[month] = math.Min(potential, capacity)
		} else {
			result[month] = potential
		}
	}
	return result
}

// AllocateToMarkets redistributes each month's sellable total back to
// markets, weighted by each market's share of that month's potential
// demand. A month with zero potential allocates zero everywhere.
func AllocateToMarkets(
	sellableKg map[string]float64,
	addressableKg map[domain.MonthMarket]float64,
) map[domain.MonthMarket]float64 {
	potentialByMonth := map[string]float64{}
	for key, kg := range addressableKg {
		potentialByMonth[key.Month] += kg
	}

	result := make(map[domain.MonthMarket]float64, len(addressableKg))
	for key, addressable := range addressableKg {
		potential := potentialByMonth[key.Month]
		if potential > 0 {
			result[key] = sellableKg[key.Month] * (addressable / potential)
		} else {
			result[key] = 0.0
		}
	}
	return result
}
