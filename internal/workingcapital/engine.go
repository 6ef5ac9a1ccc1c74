// Package workingcapital converts day-count assumptions into monthly
// balance-sheet positions and the period-over-period cash deltas consumed
// by the cashflow engine. All day counts are expressed against a flat
// 30-day month.
package workingcapital

import (
	"fmt"
	"sort"

	"epm-engine/internal/assumptions"
)

const daysPerMonth = 30.0

// Terms is the resolved day-count assumption set.
type Terms struct {
	DSODays float64
	DIODays float64
	DPODays float64
}

// Output is the working-capital engine's result bundle.
type Output struct {
	AccountsReceivable map[string]float64
	Inventory          map[string]float64
	AccountsPayable    map[string]float64
	NetWorkingCapital  map[string]float64

	DeltaAR  map[string]float64
	DeltaInv map[string]float64
	DeltaAP  map[string]float64
	DeltaWC  map[string]float64

	Errors []string
}

// TermsFrom resolves the configured day counts with their defaults.
func TermsFrom(cfg assumptions.WorkingCapitalConfig) Terms {
	return Terms{
		DSODays: cfg.DSO(),
		DIODays: cfg.DIO(),
		DPODays: cfg.DPO(),
	}
}

// ValidateTerms checks that every resolved day count is non-negative.
func ValidateTerms(terms Terms) []string {
	var errs []string
	if terms.DSODays < 0 {
		errs = append(errs, fmt.Sprintf("negative DSO: %v", terms.DSODays))
	}
	if terms.DIODays < 0 {
		errs = append(errs, fmt.Sprintf("negative DIO: %v", terms.DIODays))
	}
	if terms.DPODays < 0 {
		errs = append(errs, fmt.Sprintf("negative DPO: %v", terms.DPODays))
	}
	return errs
}

// Balances computes AR, inventory, and AP positions from monthly revenue
// and COGS. Receivables scale with revenue; inventory and payables scale
// with COGS.
func Balances(revenue, cogs map[string]float64, terms Terms) (ar, inv, ap map[string]float64) {
	ar = make(map[string]float64, len(revenue))
	for month, rev := range revenue {
		ar[month] = rev * terms.DSODays / daysPerMonth
	}

	inv = make(map[string]float64, len(cogs))
	ap = make(map[string]float64, len(cogs))
	for month, c := range cogs {
		inv[month] = c * terms.DIODays / daysPerMonth
		ap[month] = c * terms.DPODays / daysPerMonth
	}

	return ar, inv, ap
}

// Deltas folds a balance series into month-over-month changes. The
// opening balance before the first month is zero, so the first delta
// equals the first balance.
func Deltas(values map[string]float64, months []string) map[string]float64 {
	result := make(map[string]float64, len(months))
	previous := 0.0
	for _, month := range months {
		current := values[month]
		result[month] = current - previous
		previous = current
	}
	return result
}

// Run executes the working-capital pipeline.
func Run(cfg assumptions.WorkingCapitalConfig, revenue, cogs map[string]float64) *Output {
	output := &Output{}
	terms := TermsFrom(cfg)
	output.Errors = append(output.Errors, ValidateTerms(terms)...)

	output.AccountsReceivable, output.Inventory, output.AccountsPayable = Balances(revenue, cogs, terms)

	months := unionMonths(output.AccountsReceivable, output.Inventory, output.AccountsPayable)

	output.NetWorkingCapital = make(map[string]float64, len(months))
	for _, month := range months {
		output.NetWorkingCapital[month] = output.AccountsReceivable[month] +
			output.Inventory[month] - output.AccountsPayable[month]
	}

	output.DeltaAR = Deltas(output.AccountsReceivable, months)
	output.DeltaInv = Deltas(output.Inventory, months)
	output.DeltaAP = Deltas(output.AccountsPayable, months)

	output.DeltaWC = make(map[string]float64, len(months))
	for _, month := range months {
		output.DeltaWC[month] = output.DeltaAR[month] + output.DeltaInv[month] - output.DeltaAP[month]
	}

	return output
}

// ValidateOutput checks that balances are non-negative and that net
// working capital matches its components.
func ValidateOutput(o *Output) []string {
	var errs []string

	for month, v := range o.AccountsReceivable {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("negative accounts receivable at %s: %v", month, v))
		}
	}
	for month, v := range o.Inventory {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("negative inventory at %s: %v", month, v))
		}
	}
	for month, v := range o.AccountsPayable {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("negative accounts payable at %s: %v", month, v))
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
