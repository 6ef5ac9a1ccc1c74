// Package scenario orchestrates the full engine pipeline per scenario and
// compares results across scenarios. Scenarios change inputs only, never
// formulas; the same assumptions always produce the same result.
package scenario

import (
	"context"
	"fmt"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/cashflow"
	"epm-engine/internal/cogs"
	"epm-engine/internal/domain"
	"epm-engine/internal/opex"
	"epm-engine/internal/revenue"
	"epm-engine/internal/valuation"
	"epm-engine/internal/workingcapital"
)

// Result bundles every engine output for one scenario together with the
// headline metrics used in comparisons.
type Result struct {
	ScenarioID  string
	Description string

	Revenue        *revenue.Output
	COGS           *cogs.Output
	OpEx           *opex.Output
	WorkingCapital *workingcapital.Output
	Cashflow       *cashflow.Output
	Valuation      *valuation.Output

	TotalRevenue    float64
	TotalCOGS       float64
	TotalOpEx       float64
	FinalEBITDA     float64
	CumulativeFCF   float64
	EnterpriseValue float64
	EquityValue     float64
	IRR             *float64
	MOIC            float64

	Errors   []string
	Warnings []string
}

// Options configures a Runner.
type Options struct {
	AssumptionsDir string
	Verbose        bool
}

// Runner executes scenario pipelines against an assumptions directory.
type Runner struct {
	dir     string
	verbose bool
}

// NewRunner builds a Runner from options.
func NewRunner(opts Options) *Runner {
	return &Runner{
		dir:     opts.AssumptionsDir,
		verbose: opts.Verbose,
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.verbose {
		log.Printf(format, args...)
	}
}

// Run executes the full pipeline for one scenario. Assumption validation
// errors halt the run before any engine executes.
func (r *Runner) Run(scenarioID string) (*Result, error) {
	result := &Result{ScenarioID: scenarioID}

	r.logf("scenario %s: loading assumptions from %s", scenarioID, r.dir)
	a, err := assumptions.LoadScenario(scenarioID, r.dir)
	if err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", scenarioID, err)
	}
	result.Description = a.Description

	if errs := assumptions.Validate(a); len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return result, nil
	}

	months, err := domain.GenerateMonths(a.TimeHorizon.StartMonth, a.TimeHorizon.EndMonth)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenarioID, err)
	}

	r.logf("scenario %s: revenue engine", scenarioID)
	result.Revenue = revenue.Run(a)
	result.Errors = append(result.Errors, result.Revenue.Errors...)

	r.logf("scenario %s: cogs engine", scenarioID)
	result.COGS = cogs.Run(a, result.Revenue.UnitsKg)
	result.Errors = append(result.Errors, result.COGS.Errors...)

	r.logf("scenario %s: opex engine", scenarioID)
	result.OpEx = opex.Run(a, result.Revenue)
	result.Errors = append(result.Errors, result.OpEx.Errors...)

	r.logf("scenario %s: working capital engine", scenarioID)
	result.WorkingCapital = workingcapital.Run(
		a.WorkingCapital, result.Revenue.RevenueTotal, result.COGS.TotalCOGS)
	result.Errors = append(result.Errors, result.WorkingCapital.Errors...)

	r.logf("scenario %s: cashflow engine", scenarioID)
	result.Cashflow = cashflow.Run(
		months,
		result.Revenue.RevenueTotal,
		result.COGS.TotalCOGS,
		result.OpEx.TotalOpEx,
		result.WorkingCapital.DeltaWC,
		a.Capex,
		a.Funding,
	)
	result.Warnings = append(result.Warnings, result.Cashflow.FundingGaps...)

	r.logf("scenario %s: valuation engine", scenarioID)
	result.Valuation = valuation.Run(
		a.Valuation,
		months,
		result.Cashflow.FreeCF,
		result.Cashflow.EBITDA,
		result.Cashflow.CashBalance,
		result.Cashflow.DebtBalance,
		&valuation.UnitEconomicsInputs{
			RevenueTotal:      result.Revenue.RevenueTotal,
			COGSTotal:         result.COGS.TotalCOGS,
			VariableCOGSTotal: result.COGS.VariableCOGSTotal,
			OpExTotal:         result.OpEx.TotalOpEx,
			VariableOpExTotal: result.OpEx.TotalVariable,
			UnitsKgTotal:      result.Revenue.UnitsKgTotalByMonth(),
		},
	)
	result.Errors = append(result.Errors, result.Valuation.Errors...)
	result.Warnings = append(result.Warnings, result.Valuation.Warnings...)

	extractMetrics(result, months)
	return result, nil
}

// RunAll executes every scenario concurrently and returns results keyed
// by scenario ID.
func (r *Runner) RunAll(ctx context.Context, scenarioIDs []string) (map[string]*Result, error) {
	results := make([]*Result, len(scenarioIDs))

	g, ctx := errgroup.WithContext(ctx)
	for i, scenarioID := range scenarioIDs {
		i, scenarioID := i, scenarioID
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := r.Run(scenarioID)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]*Result, len(results))
	for _, result := range results {
		byID[result.ScenarioID] = result
	}
	return byID, nil
}

func extractMetrics(result *Result, months []string) {
	for _, v := range result.Revenue.RevenueTotal {
		result.TotalRevenue += v
	}
	for _, v := range result.COGS.TotalCOGS {
		result.TotalCOGS += v
	}
	for _, v := range result.OpEx.TotalOpEx {
		result.TotalOpEx += v
	}

	if len(months) > 0 {
		result.FinalEBITDA = result.Cashflow.EBITDA[months[len(months)-1]]
	}
	for _, v := range result.Cashflow.FreeCF {
		result.CumulativeFCF += v
	}

	result.EnterpriseValue = result.Valuation.EnterpriseValue
	result.EquityValue = result.Valuation.EquityValue
	result.IRR = result.Valuation.IRR
	result.MOIC = result.Valuation.MOIC
}

func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
