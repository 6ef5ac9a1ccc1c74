package valuation

import (
	"errors"
	"math"
)

// Newton-Raphson solver parameters for the annualized IRR of a monthly
// cash-flow series.
const (
	irrInitialGuess    = 0.10
	irrMaxIterations   = 100
	irrConvergence     = 1e-6
	irrDerivativeFloor = 1e-10
	irrRateFloor       = -0.99
	irrRateCeiling     = 10.0
	irrResidualLimit   = 0.01
)

// ErrNoSolution is returned when the cash-flow series has no sign change
// or the solver fails to converge to a root.
var ErrNoSolution = errors.New("irr: no solution")

// SolveIRR finds the annual internal rate of return of a periodic
// cash-flow series indexed from period zero. periodsPerYear converts the
// annual candidate rate to a per-period rate; a monthly series passes 12.
func SolveIRR(cashFlows []float64, periodsPerYear int) (float64, error) {
	if !hasSignChange(cashFlows) {
		return 0, ErrNoSolution
	}

	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		npv, derivative := npvAndDerivative(cashFlows, rate, periodsPerYear)
		if math.Abs(derivative) < irrDerivativeFloor {
			break
		}

		next := rate - npv/derivative
		next = math.Max(irrRateFloor, math.Min(irrRateCeiling, next))

		if math.Abs(next-rate) < irrConvergence {
			rate = next
			break
		}
		rate = next
	}

	residual, _ := npvAndDerivative(cashFlows, rate, periodsPerYear)
	if math.Abs(residual) > irrResidualLimit {
		return 0, ErrNoSolution
	}
	return rate, nil
}

// hasSignChange reports whether the series contains both a positive and
// a negative flow. An all-zero or single-signed series has no IRR.
func hasSignChange(cashFlows []float64) bool {
	hasPositive, hasNegative := false, false
	for _, cf := range cashFlows {
		if cf > 0 {
			hasPositive = true
		}
		if cf < 0 {
			hasNegative = true
		}
	}
	return hasPositive && hasNegative
}

func npvAndDerivative(cashFlows []float64, annualRate float64, periodsPerYear int) (float64, float64) {
	periodRate := math.Pow(1+annualRate, 1/float64(periodsPerYear)) - 1

	npv, derivative := 0.0, 0.0
	for t, cf := range cashFlows {
		if t == 0 {
			npv += cf
			continue
		}
		factor := math.Pow(1+periodRate, float64(t))
		npv += cf / factor

		// d(NPV)/d(annualRate) via the chain rule through the period rate.
		dPeriodRate := math.Pow(1+annualRate, 1/float64(periodsPerYear)-1) / float64(periodsPerYear)
		derivative += -float64(t) * cf / (factor * (1 + periodRate)) * dPeriodRate
	}
	return npv, derivative
}
