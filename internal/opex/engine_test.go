package opex

import (
	"math"
	"testing"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
	"epm-engine/internal/fixtures"
	"epm-engine/internal/revenue"
)

func runFixture(t *testing.T) (*assumptions.Assumptions, *Output) {
	t.Helper()
	a := fixtures.Base()
	rev := revenue.Run(a)
	if len(rev.Errors) != 0 {
		t.Fatalf("revenue errors: %v", rev.Errors)
	}
	output := Run(a, rev)
	if len(output.Errors) != 0 {
		t.Fatalf("opex errors: %v", output.Errors)
	}
	return a, output
}

func TestRun_FixedCategories(t *testing.T) {
	_, output := runFixture(t)
	got := output.FixedOpEx[domain.MonthCategory{Month: "2026-08", Category: "mgmt"}]
	if got != 10000.0 {
		t.Errorf("expected 10000 mgmt OpEx, got %f", got)
	}
}

func TestRun_CACOnlyInActivationMonth(t *testing.T) {
	_, output := runFixture(t)

	activation := output.SMCAC[domain.MonthMarket{Month: "2026-06", Market: "italy"}]
	if activation != 50000.0 {
		t.Errorf("expected 50000 CAC in activation month, got %f", activation)
	}
	if _, ok := output.SMCAC[domain.MonthMarket{Month: "2026-07", Market: "italy"}]; ok {
		t.Error("CAC charged outside the activation month")
	}

	// June: fixed S&M base plus the one-time CAC.
	if got := output.TotalSM["2026-06"]; math.Abs(got-55000.0) > 1e-6 {
		t.Errorf("expected 55000 total S&M in June, got %f", got)
	}
	if got := output.TotalSM["2026-07"]; math.Abs(got-5000.0) > 1e-6 {
		t.Errorf("expected 5000 total S&M in July, got %f", got)
	}
}

func TestRun_TotalComposition(t *testing.T) {
	_, output := runFixture(t)
	for month, total := range output.TotalOpEx {
		expected := output.TotalFixed[month] + output.TotalVariable[month] + output.TotalSM[month]
		if math.Abs(total-expected) > 0.01 {
			t.Errorf("total OpEx mismatch at %s: %f != %f", month, total, expected)
		}
	}
}

func TestActivityDrivers_FromRevenue(t *testing.T) {
	a := fixtures.Base()
	rev := revenue.Run(a)
	months, _ := domain.GenerateMonths(a.TimeHorizon.StartMonth, a.TimeHorizon.EndMonth)

	drivers := ActivityDrivers(rev, months, a.Markets)

	// June has zero volume, so no revenue and no active markets.
	if got := drivers[domain.MonthDriver{Month: "2026-06", Driver: DriverActiveMarkets}]; got != 0 {
		t.Errorf("expected 0 active markets in June, got %f", got)
	}
	if got := drivers[domain.MonthDriver{Month: "2026-06", Driver: DriverNewMarketsActivated}]; got != 1 {
		t.Errorf("expected 1 newly activated market in June, got %f", got)
	}
	if got := drivers[domain.MonthDriver{Month: "2026-12", Driver: DriverActiveMarkets}]; got != 1 {
		t.Errorf("expected 1 active market in December, got %f", got)
	}
	if got := drivers[domain.MonthDriver{Month: "2026-12", Driver: DriverUnitsKgTotal}]; math.Abs(got-1250.0) > 1e-6 {
		t.Errorf("expected 1250 kg driver in December, got %f", got)
	}
}

func TestVariableByDriver_PricesActivity(t *testing.T) {
	activity := map[domain.MonthDriver]float64{
		{Month: "2026-12", Driver: DriverUnitsKgTotal}:  1000,
		{Month: "2026-12", Driver: DriverActiveMarkets}: 2,
	}
	cfg := assumptions.VariableOpExConfig{
		ByDriver: map[string]assumptions.OpExDriver{
			DriverUnitsKgTotal: {CostPerUnit: 0.5},
		},
	}

	got := VariableByDriver(activity, cfg)
	if cost := got[domain.MonthDriver{Month: "2026-12", Driver: DriverUnitsKgTotal}]; cost != 500.0 {
		t.Errorf("expected 500, got %f", cost)
	}
	// Unconfigured drivers contribute nothing.
	if _, ok := got[domain.MonthDriver{Month: "2026-12", Driver: DriverActiveMarkets}]; ok {
		t.Error("unconfigured driver produced a cost")
	}
}

func TestFixedByCategory_AppliesRamp(t *testing.T) {
	cfg := assumptions.FixedOpExConfig{
		ByCategory: map[string]assumptions.OpExCategory{
			"mgmt": {
				BaseMonthly: 10000,
				Ramp:        assumptions.RampByMonth{ByMonth: map[string]float64{"2026-06": 0.5, "2027-01": 1.0}},
			},
		},
	}
	got := FixedByCategory([]string{"2026-08", "2027-03"}, cfg)
	if v := got[domain.MonthCategory{Month: "2026-08", Category: "mgmt"}]; v != 5000.0 {
		t.Errorf("expected ramped 5000, got %f", v)
	}
	if v := got[domain.MonthCategory{Month: "2027-03", Category: "mgmt"}]; v != 10000.0 {
		t.Errorf("expected 10000, got %f", v)
	}
}
