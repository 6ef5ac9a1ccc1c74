// Package cashflow folds EBITDA, working-capital deltas, capex, and the
// financing schedule into free cash flow, net cash flow, and a running
// cash balance. The financing fold is strictly sequential: each month's
// interest accrues on the prior month's closing debt.
package cashflow

import (
	"fmt"
	"math"
	"sort"

	"epm-engine/internal/assumptions"
)

const monthsPerYear = 12.0

// FinancingResult is the month-by-month outcome of the financing fold.
type FinancingResult struct {
	DebtBalance map[string]float64
	Interest    map[string]float64
	FinancingCF map[string]float64
}

// Output is the cashflow engine's result bundle.
type Output struct {
	EBITDA      map[string]float64
	OperatingCF map[string]float64
	Capex       map[string]float64
	FreeCF      map[string]float64

	DebtBalance map[string]float64
	Interest    map[string]float64
	FinancingCF map[string]float64

	NetCF       map[string]float64
	CashBalance map[string]float64

	// FundingGaps lists months whose closing cash balance is negative.
	FundingGaps []string

	Errors []string
}

// EBITDAByMonth computes revenue minus COGS minus OpEx over the union of
// the three series' months.
func EBITDAByMonth(revenue, cogs, opex map[string]float64) map[string]float64 {
	months := unionMonths(revenue, cogs, opex)
	result := make(map[string]float64, len(months))
	for _, month := range months {
		result[month] = revenue[month] - cogs[month] - opex[month]
	}
	return result
}

// CapexByMonth adds milestone spend to the recurring base. Milestones
// apply only in their exact month.
func CapexByMonth(months []string, cfg assumptions.CapexConfig) map[string]float64 {
	result := make(map[string]float64, len(months))
	for _, month := range months {
		result[month] = cfg.BaseMonthly + cfg.Milestones.ByMonth[month]
	}
	return result
}

// Financing runs the sequential debt fold over the horizon. Debt opens at
// zero; each month accrues interest on the prior closing balance at the
// annual rate divided by twelve, then applies that month's draw and
// repayment.
func Financing(months []string, cfg assumptions.FundingConfig) FinancingResult {
	result := FinancingResult{
		DebtBalance: make(map[string]float64, len(months)),
		Interest:    make(map[string]float64, len(months)),
		FinancingCF: make(map[string]float64, len(months)),
	}

	monthlyRate := cfg.Debt.InterestRate / monthsPerYear
	debt := 0.0

	for _, month := range months {
		interest := debt * monthlyRate
		movement := cfg.Debt.ByMonth[month]
		debt += movement.Draw - movement.Repayment

		equity := cfg.Equity.ByMonth[month]

		result.Interest[month] = interest
		result.DebtBalance[month] = debt
		result.FinancingCF[month] = equity + movement.Draw - movement.Repayment - interest
	}

	return result
}

// CashBalance folds net cash flow into a running balance seeded with the
// initial cash position, and reports every month that closes negative.
func CashBalance(months []string, netCF map[string]float64, initialCash float64) (map[string]float64, []string) {
	balance := make(map[string]float64, len(months))
	var gaps []string

	cash := initialCash
	for _, month := range months {
		cash += netCF[month]
		balance[month] = cash
		if cash < 0 {
			gaps = append(gaps, fmt.Sprintf("%s: negative cash balance %.2f", month, cash))
		}
	}

	return balance, gaps
}

// Run executes the cashflow pipeline over the horizon months.
func Run(
	months []string,
	revenue, cogs, opex, deltaWC map[string]float64,
	capexCfg assumptions.CapexConfig,
	fundingCfg assumptions.FundingConfig,
) *Output {
	output := &Output{}

	output.EBITDA = EBITDAByMonth(revenue, cogs, opex)

	output.OperatingCF = make(map[string]float64, len(months))
	for _, month := range months {
		output.OperatingCF[month] = output.EBITDA[month] - deltaWC[month]
	}

	output.Capex = CapexByMonth(months, capexCfg)

	output.FreeCF = make(map[string]float64, len(months))
	for _, month := range months {
		output.FreeCF[month] = output.OperatingCF[month] - output.Capex[month]
	}

	financing := Financing(months, fundingCfg)
	output.DebtBalance = financing.DebtBalance
	output.Interest = financing.Interest
	output.FinancingCF = financing.FinancingCF

	output.NetCF = make(map[string]float64, len(months))
	for _, month := range months {
		output.NetCF[month] = output.FreeCF[month] + output.FinancingCF[month]
	}

	output.CashBalance, output.FundingGaps = CashBalance(months, output.NetCF, fundingCfg.InitialCash)

	return output
}

// ValidateOutput checks the EBITDA identity against its inputs and that
// no interest charge is negative.
func ValidateOutput(o *Output, revenue, cogs, opex map[string]float64) []string {
	const tolerance = 0.01
	var errs []string

	for month, ebitda := range o.EBITDA {
		expected := revenue[month] - cogs[month] - opex[month]
		if math.Abs(ebitda-expected) > tolerance {
			errs = append(errs, fmt.Sprintf(
				"EBITDA mismatch at %s: got %v, expected %v", month, ebitda, expected))
		}
	}
	for month, interest := range o.Interest {
		if interest < 0 {
			errs = append(errs, fmt.Sprintf("negative interest at %s: %v", month, interest))
		}
	}

	return errs
}

func unionMonths(series ...map[string]float64) []string {
	seen := map[string]bool{}
	for _, s := range series {
		for month := range s {
			seen[month] = true
		}
	}
	months := make([]string, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}
