// Package valuation computes the DCF, terminal value, and equity return
// metrics from the cashflow engine's series. Discounting uses a monthly
// rate derived from the annual rate, with the first horizon month as
// period one.
package valuation

import (
	"fmt"
	"math"
	"sort"

	"epm-engine/internal/assumptions"
)

// Terminal value methods.
const (
	MethodGordon   = "gordon"
	MethodMultiple = "multiple"
)

// terminalShareWarnLimit is the fraction of enterprise value above which
// the terminal value triggers a concentration warning.
const terminalShareWarnLimit = 0.70

// UnitEconomicsInputs carries the optional per-month series behind the
// margin and per-kg KPIs.
type UnitEconomicsInputs struct {
	RevenueTotal      map[string]float64
	COGSTotal         map[string]float64
	VariableCOGSTotal map[string]float64
	OpExTotal         map[string]float64
	VariableOpExTotal map[string]float64
	UnitsKgTotal      map[string]float64
}

// Output is the valuation engine's result bundle.
type Output struct {
	DiscountFactors map[string]float64
	PVFreeCF        map[string]float64
	TotalPVFreeCF   float64
	TerminalValue   float64
	PVTerminal      float64

	EnterpriseValue float64
	EquityValue     float64

	IRR          *float64
	MOIC         float64
	PaybackMonth *string

	GrossMargin        map[string]float64
	ContributionMargin map[string]float64
	RevenuePerKg       map[string]float64
	COGSPerKg          map[string]float64
	OpExToRevenue      map[string]float64

	Warnings []string
	Errors   []string
}

// DiscountFactors computes 1/(1+monthly_rate)^t for each horizon month,
// where the first month is period one.
func DiscountFactors(months []string, annualRate float64) map[string]float64 {
	monthlyRate := math.Pow(1+annualRate, 1.0/12.0) - 1
	result := make(map[string]float64, len(months))
	for i, month := range months {
		result[month] = 1 / math.Pow(1+monthlyRate, float64(i+1))
	}
	return result
}

// TerminalGordon applies the Gordon growth model to the final month's
// free cash flow. The discount rate must exceed the growth rate.
func TerminalGordon(finalFCF, discountRate, terminalGrowth float64) (float64, error) {
	if discountRate <= terminalGrowth {
		return 0, fmt.Errorf(
			"discount rate (%v) must be greater than terminal growth (%v)",
			discountRate, terminalGrowth)
	}
	return finalFCF * (1 + terminalGrowth) / (discountRate - terminalGrowth), nil
}

// TerminalMultipleValue applies an EBITDA exit multiple.
func TerminalMultipleValue(finalEBITDA, multiple float64) float64 {
	return finalEBITDA * multiple
}

// Payback returns the first month whose cumulative equity cash flow
// reaches zero, or nil if it never does.
func Payback(equityCF map[string]float64, months []string) *string {
	cumulative := 0.0
	for _, month := range months {
		cumulative += equityCF[month]
		if cumulative >= 0 {
			m := month
			return &m
		}
	}
	return nil
}

// Run executes the valuation pipeline. unitEcon may be nil when the
// caller does not need the KPI series.
func Run(
	cfg assumptions.ValuationConfig,
	months []string,
	freeCF, ebitda, cashBalance, debtBalance map[string]float64,
	unitEcon *UnitEconomicsInputs,
) *Output {
	output := &Output{}

	rate := cfg.Rate()
	growth := cfg.TerminalGrowth()
	if rate <= growth {
		output.Errors = append(output.Errors, fmt.Sprintf(
			"discount rate (%v) must be greater than terminal growth (%v)", rate, growth))
		return output
	}

	output.DiscountFactors = DiscountFactors(months, rate)

	output.PVFreeCF = make(map[string]float64, len(freeCF))
	for month, fcf := range freeCF {
		df, ok := output.DiscountFactors[month]
		if !ok {
			df = 1.0
		}
		pv := fcf * df
		output.PVFreeCF[month] = pv
		output.TotalPVFreeCF += pv
	}

	if len(months) > 0 {
		finalMonth := months[len(months)-1]

		switch cfg.Method() {
		case MethodGordon:
			tv, err := TerminalGordon(freeCF[finalMonth], rate, growth)
			if err != nil {
				output.Errors = append(output.Errors, err.Error())
				return output
			}
			output.TerminalValue = tv
		case MethodMultiple:
			if cfg.TerminalMultiple != nil {
				output.TerminalValue = TerminalMultipleValue(ebitda[finalMonth], *cfg.TerminalMultiple)
			}
		}

		output.PVTerminal = output.TerminalValue * output.DiscountFactors[finalMonth]

		if ev := output.TotalPVFreeCF + output.PVTerminal; ev > 0 && output.PVTerminal/ev > terminalShareWarnLimit {
			output.Warnings = append(output.Warnings, fmt.Sprintf(
				"terminal value represents %.1f%% of enterprise value", 100*output.PVTerminal/ev))
		}
	}

	output.EnterpriseValue = output.TotalPVFreeCF + output.PVTerminal

	finalCash, finalDebt := 0.0, 0.0
	if len(months) > 0 {
		finalMonth := months[len(months)-1]
		finalCash = cashBalance[finalMonth]
		finalDebt = debtBalance[finalMonth]
	}
	output.EquityValue = output.EnterpriseValue + finalCash - finalDebt

	// Equity cash flow series: investments out, exit proceeds in the
	// final horizon month.
	equityCF := make(map[string]float64, len(months))
	totalInvested := 0.0
	for _, month := range months {
		invested := cfg.Equity.Invested.ByMonth[month]
		equityCF[month] = -invested
		totalInvested += invested
	}
	proceeds := output.EquityValue * cfg.Equity.Ownership()
	if len(months) > 0 {
		equityCF[months[len(months)-1]] += proceeds
	}

	cfList := make([]float64, len(months))
	for i, month := range months {
		cfList[i] = equityCF[month]
	}
	if irr, err := SolveIRR(cfList, 12); err == nil {
		output.IRR = &irr
	}

	if totalInvested > 0 {
		output.MOIC = proceeds / totalInvested
	}

	output.PaybackMonth = Payback(equityCF, months)

	if unitEcon != nil {
		computeUnitEconomics(output, unitEcon)
	}

	return output
}

func computeUnitEconomics(output *Output, in *UnitEconomicsInputs) {
	output.GrossMargin = map[string]float64{}
	output.ContributionMargin = map[string]float64{}
	output.RevenuePerKg = map[string]float64{}
	output.COGSPerKg = map[string]float64{}
	output.OpExToRevenue = map[string]float64{}

	months := make([]string, 0, len(in.RevenueTotal))
	for month := range in.RevenueTotal {
		months = append(months, month)
	}
	sort.Strings(months)

	for _, month := range months {
		rev := in.RevenueTotal[month]
		cogs := in.COGSTotal[month]
		kg := in.UnitsKgTotal[month]

		if rev > 0 {
			output.GrossMargin[month] = (rev - cogs) / rev
			output.ContributionMargin[month] =
				(rev - in.VariableCOGSTotal[month] - in.VariableOpExTotal[month]) / rev
			output.OpExToRevenue[month] = in.OpExTotal[month] / rev
		} else {
			output.GrossMargin[month] = 0
			output.ContributionMargin[month] = 0
			output.OpExToRevenue[month] = 0
		}

		if kg > 0 {
			output.RevenuePerKg[month] = rev / kg
			output.COGSPerKg[month] = cogs / kg
		} else {
			output.RevenuePerKg[month] = 0
			output.COGSPerKg[month] = 0
		}
	}
}

// ValidateOutput sanity-checks the valuation result.
func ValidateOutput(o *Output) []string {
	var errs []string

	if o.EnterpriseValue < 0 {
		errs = append(errs, fmt.Sprintf("negative enterprise value: %v", o.EnterpriseValue))
	}
	if o.IRR != nil && (*o.IRR < -1 || *o.IRR > 10) {
		errs = append(errs, fmt.Sprintf("IRR out of reasonable range: %v", *o.IRR))
	}

	return errs
}
