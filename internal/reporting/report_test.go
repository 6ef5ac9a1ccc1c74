package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epm-engine/internal/cashflow"
	"epm-engine/internal/cogs"
	"epm-engine/internal/domain"
	"epm-engine/internal/fixtures"
	"epm-engine/internal/opex"
	"epm-engine/internal/revenue"
	"epm-engine/internal/scenario"
	"epm-engine/internal/valuation"
	"epm-engine/internal/workingcapital"
)

var reportTime = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func runPipeline(t *testing.T) *scenario.Result {
	t.Helper()
	a := fixtures.Base()
	months, err := domain.GenerateMonths(a.TimeHorizon.StartMonth, a.TimeHorizon.EndMonth)
	require.NoError(t, err)

	result := &scenario.Result{ScenarioID: "base"}
	result.Revenue = revenue.Run(a)
	result.COGS = cogs.Run(a, result.Revenue.UnitsKg)
	result.OpEx = opex.Run(a, result.Revenue)
	result.WorkingCapital = workingcapital.Run(a.WorkingCapital, result.Revenue.RevenueTotal, result.COGS.TotalCOGS)
	result.Cashflow = cashflow.Run(months, result.Revenue.RevenueTotal, result.COGS.TotalCOGS,
		result.OpEx.TotalOpEx, result.WorkingCapital.DeltaWC, a.Capex, a.Funding)
	result.Valuation = valuation.Run(a.Valuation, months, result.Cashflow.FreeCF,
		result.Cashflow.EBITDA, result.Cashflow.CashBalance, result.Cashflow.DebtBalance, nil)
	return result
}

func TestGenerate_CleanRunPasses(t *testing.T) {
	report := Generate(runPipeline(t), nil, reportTime)

	assert.True(t, report.OverallPassed)
	assert.Zero(t, report.TotalFailed)
	assert.Greater(t, report.TotalPassed, 0)
	assert.Len(t, report.EngineChecks, 6)
}

func TestGenerate_EngineErrorFailsReport(t *testing.T) {
	result := runPipeline(t)
	result.Revenue.Errors = append(result.Revenue.Errors, "synthetic failure")

	report := Generate(result, nil, reportTime)
	assert.False(t, report.OverallPassed)
	assert.Greater(t, report.TotalFailed, 0)
}

func TestReconcile_WithinTolerance(t *testing.T) {
	engine := map[string]float64{"2026-11": 1000.0, "2026-12": 2000.0}
	baseline := map[string]float64{"2026-11": 1000.5, "2026-12": 2001.0}

	check := Reconcile(engine, baseline, "revenue", DefaultReconcileTolerance)
	assert.True(t, check.Passed)
	require.NotNil(t, check.Variance)
	assert.InDelta(t, 0.0005, *check.Variance, 1e-6)
}

func TestReconcile_BeyondTolerance(t *testing.T) {
	engine := map[string]float64{"2026-12": 1000.0}
	baseline := map[string]float64{"2026-12": 1100.0}

	check := Reconcile(engine, baseline, "revenue", DefaultReconcileTolerance)
	assert.False(t, check.Passed)
	assert.Contains(t, check.Message, "2026-12")
}

func TestReconcile_AbsoluteFallbackNearZero(t *testing.T) {
	// Baseline of zero would divide out; the variance becomes absolute.
	engine := map[string]float64{"2026-12": 0.0005}
	baseline := map[string]float64{"2026-12": 0.0}

	check := Reconcile(engine, baseline, "ebitda", DefaultReconcileTolerance)
	assert.True(t, check.Passed)
}

func TestReconcile_SkipsMissingBaselineMonths(t *testing.T) {
	engine := map[string]float64{"2026-11": 1000.0, "2026-12": 9999.0}
	baseline := map[string]float64{"2026-11": 1000.0}

	check := Reconcile(engine, baseline, "revenue", DefaultReconcileTolerance)
	assert.True(t, check.Passed)
}

func TestLoadBaselineCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.csv")
	content := "metric,month,value\nrevenue_total,2026-11,1000.5\nrevenue_total,2026-12,2000\nebitda,2026-12,-150.25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	baseline, err := LoadBaselineCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 1000.5, baseline.Series["revenue_total"]["2026-11"])
	assert.Equal(t, -150.25, baseline.Series["ebitda"]["2026-12"])
}

func TestLoadBaselineCSV_BadValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.csv")
	require.NoError(t, os.WriteFile(path, []byte("revenue_total,2026-11,abc\n"), 0o644))

	_, err := LoadBaselineCSV(path)
	require.Error(t, err)
}

func TestGenerate_ReconciliationWiring(t *testing.T) {
	result := runPipeline(t)
	baseline := &Baseline{Series: map[string]map[string]float64{
		"revenue_total": result.Revenue.RevenueTotal,
		"total_cogs":    result.COGS.TotalCOGS,
		"ebitda":        result.Cashflow.EBITDA,
	}}

	report := Generate(result, baseline, reportTime)
	require.Len(t, report.ReconciliationChecks, 3)
	for _, check := range report.ReconciliationChecks {
		assert.True(t, check.Passed, check.Name)
	}
	assert.True(t, report.OverallPassed)
}

func TestRender_TextLayout(t *testing.T) {
	report := Generate(runPipeline(t), nil, reportTime)
	text := Render(report)

	assert.True(t, strings.HasPrefix(text, strings.Repeat("=", 60)))
	assert.Contains(t, text, "VALIDATION REPORT")
	assert.Contains(t, text, "Scenario: base")
	assert.Contains(t, text, "Revenue Engine: 2/2 PASSED")
	assert.Contains(t, text, "OVERALL: PASSED")
}

func TestRenderMarkdown_ContainsSummary(t *testing.T) {
	report := Generate(runPipeline(t), nil, reportTime)
	md := RenderMarkdown(report)

	assert.Contains(t, md, "# Validation Report")
	assert.Contains(t, md, "| Revenue Engine | no_errors | PASS |")
	assert.Contains(t, md, "**All checks passed.**")
}

func TestGenerate_HaltedRunFailsWithoutOutputs(t *testing.T) {
	halted := &scenario.Result{
		ScenarioID: "base",
		Errors:     []string{"missing required section: volume"},
	}

	report := Generate(halted, nil, reportTime)
	require.NotNil(t, report)
	assert.False(t, report.OverallPassed)
	assert.Equal(t, 6, report.TotalFailed)
	assert.Equal(t, 0, report.TotalPassed)
	assert.Equal(t, halted.Errors, report.Errors)

	for _, engine := range engineOrder {
		checks := report.EngineChecks[engine]
		require.Len(t, checks, 1, engine)
		assert.False(t, checks[0].Passed)
	}

	text := Render(report)
	assert.Contains(t, text, "Revenue Engine: 0/1 FAILED")
	assert.Contains(t, text, "OVERALL: FAILED")
}
