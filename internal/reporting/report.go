// Package reporting builds validation reports over scenario results:
// per-engine output checks, optional baseline reconciliation, and a
// plain-text rendering. Callers inject the report timestamp so output is
// reproducible.
package reporting

import (
	"fmt"
	"time"

	"epm-engine/internal/cashflow"
	"epm-engine/internal/cogs"
	"epm-engine/internal/opex"
	"epm-engine/internal/revenue"
	"epm-engine/internal/scenario"
	"epm-engine/internal/valuation"
	"epm-engine/internal/workingcapital"
)

// Engine section names in rendering order.
var engineOrder = []string{
	"Revenue Engine",
	"COGS Engine",
	"OpEx Engine",
	"Working Capital Engine",
	"Cashflow Engine",
	"Valuation Engine",
}

// CheckResult is one named pass/fail check.
type CheckResult struct {
	Name     string
	Passed   bool
	Message  string
	Variance *float64
}

// Report is the full validation report for one scenario run.
type Report struct {
	GeneratedAt time.Time
	ScenarioID  string

	EngineChecks         map[string][]CheckResult
	ReconciliationChecks []CheckResult

	TotalPassed   int
	TotalFailed   int
	OverallPassed bool

	Errors   []string
	Warnings []string
}

// Generate runs every engine check over the result and reconciles against
// the baseline when one is provided.
func Generate(result *scenario.Result, baseline *Baseline, generatedAt time.Time) *Report {
	report := &Report{
		GeneratedAt:  generatedAt,
		ScenarioID:   result.ScenarioID,
		EngineChecks: map[string][]CheckResult{},
		Errors:       result.Errors,
		Warnings:     result.Warnings,
	}

	if result.Revenue == nil {
		// A run halted by assumptions validation carries no engine
		// outputs; every engine section fails instead.
		for _, engine := range engineOrder {
			report.EngineChecks[engine] = []CheckResult{{
				Name:    "engine_ran",
				Passed:  false,
				Message: "run halted by assumptions validation errors",
			}}
		}
	} else {
		report.EngineChecks["Revenue Engine"] = checkRevenue(result.Revenue)
		report.EngineChecks["COGS Engine"] = checkCOGS(result.COGS)
		report.EngineChecks["OpEx Engine"] = checkOpEx(result.OpEx)
		report.EngineChecks["Working Capital Engine"] = checkWorkingCapital(result.WorkingCapital)
		report.EngineChecks["Cashflow Engine"] = checkCashflow(result)
		report.EngineChecks["Valuation Engine"] = checkValuation(result.Valuation)

		if baseline != nil {
			if series, ok := baseline.Series["revenue_total"]; ok {
				report.ReconciliationChecks = append(report.ReconciliationChecks,
					Reconcile(result.Revenue.RevenueTotal, series, "revenue", DefaultReconcileTolerance))
			}
			if series, ok := baseline.Series["total_cogs"]; ok {
				report.ReconciliationChecks = append(report.ReconciliationChecks,
					Reconcile(result.COGS.TotalCOGS, series, "cogs", DefaultReconcileTolerance))
			}
			if series, ok := baseline.Series["ebitda"]; ok {
				report.ReconciliationChecks = append(report.ReconciliationChecks,
					Reconcile(result.Cashflow.EBITDA, series, "ebitda", DefaultReconcileTolerance))
			}
		}
	}

	for _, checks := range report.EngineChecks {
		tally(report, checks)
	}
	tally(report, report.ReconciliationChecks)
	report.OverallPassed = report.TotalFailed == 0

	return report
}

func tally(report *Report, checks []CheckResult) {
	for _, check := range checks {
		if check.Passed {
			report.TotalPassed++
		} else {
			report.TotalFailed++
		}
	}
}

func noErrorsCheck(errs []string, engine string) CheckResult {
	if len(errs) > 0 {
		return CheckResult{
			Name:    "no_errors",
			Passed:  false,
			Message: fmt.Sprintf("%s has errors: %v", engine, errs),
		}
	}
	return CheckResult{Name: "no_errors", Passed: true}
}

func validationCheck(name string, errs []string) CheckResult {
	if len(errs) > 0 {
		return CheckResult{Name: name, Passed: false, Message: errs[0]}
	}
	return CheckResult{Name: name, Passed: true}
}

func checkRevenue(o *revenue.Output) []CheckResult {
	return []CheckResult{
		noErrorsCheck(o.Errors, "revenue engine"),
		validationCheck("output_invariants", revenue.ValidateOutput(o)),
	}
}

func checkCOGS(o *cogs.Output) []CheckResult {
	return []CheckResult{
		noErrorsCheck(o.Errors, "cogs engine"),
		validationCheck("output_invariants", cogs.ValidateOutput(o)),
	}
}

func checkOpEx(o *opex.Output) []CheckResult {
	return []CheckResult{
		noErrorsCheck(o.Errors, "opex engine"),
		validationCheck("output_invariants", opex.ValidateOutput(o)),
	}
}

func checkWorkingCapital(o *workingcapital.Output) []CheckResult {
	return []CheckResult{
		noErrorsCheck(o.Errors, "working capital engine"),
		validationCheck("output_invariants", workingcapital.ValidateOutput(o)),
	}
}

func checkCashflow(result *scenario.Result) []CheckResult {
	errs := cashflow.ValidateOutput(
		result.Cashflow,
		result.Revenue.RevenueTotal,
		result.COGS.TotalCOGS,
		result.OpEx.TotalOpEx,
	)
	return []CheckResult{
		validationCheck("ebitda_formula", errs),
	}
}

func checkValuation(o *valuation.Output) []CheckResult {
	return []CheckResult{
		noErrorsCheck(o.Errors, "valuation engine"),
		validationCheck("output_invariants", valuation.ValidateOutput(o)),
	}
}
