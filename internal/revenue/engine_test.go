package revenue

import (
	"math"
	"reflect"
	"testing"

	"epm-engine/internal/domain"
	"epm-engine/internal/fixtures"
)

func TestRun_NoErrorsOnBaseFixture(t *testing.T) {
	output := Run(fixtures.Base())
	if len(output.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", output.Errors)
	}
	if errs := ValidateOutput(output); len(errs) != 0 {
		t.Fatalf("output invariants violated: %v", errs)
	}
}

func TestRun_RampStartsAtZero(t *testing.T) {
	// Activation and ramp start coincide at the first horizon month, so
	// the linear ramp contributes nothing in that month.
	output := Run(fixtures.Base())
	key := domain.MonthProductMarket{Month: "2026-06", Product: "biocore", Market: "italy"}
	if kg := output.UnitsKg[key]; kg != 0 {
		t.Errorf("expected 0 kg at ramp start, got %f", kg)
	}
}

func TestRun_LinearRampMidpoint(t *testing.T) {
	// Six of twelve ramp months elapsed by December: half of the
	// steady-state 2500 kg, at 10 EUR/kg.
	output := Run(fixtures.Base())
	key := domain.MonthProductMarket{Month: "2026-12", Product: "biocore", Market: "italy"}
	if kg := output.UnitsKg[key]; math.Abs(kg-1250.0) > 1e-6 {
		t.Errorf("expected 1250 kg, got %f", kg)
	}
	if rev := output.RevenueTotal["2026-12"]; math.Abs(rev-12500.0) > 1e-6 {
		t.Errorf("expected 12500 revenue, got %f", rev)
	}
}

func TestRun_RevenueEqualsUnitsTimesPrice(t *testing.T) {
	output := Run(fixtures.Base())
	for key, rev := range output.Revenue {
		expected := output.UnitsKg[key] * output.NetPrices[key]
		if math.Abs(rev-expected) > outputTolerance {
			t.Errorf("revenue mismatch at %v: %f != %f", key, rev, expected)
		}
	}
}

func TestRun_CapacityNeverIncreasesVolume(t *testing.T) {
	a := fixtures.Base()
	unconstrained := Run(a)

	a.Volume.Capacity.Enabled = true
	a.Volume.Capacity.ByMonth = map[string]float64{
		"2026-10": 100,
		"2026-11": 100,
		"2026-12": 100,
	}
	constrained := Run(a)

	for key, kg := range constrained.UnitsKg {
		if kg > unconstrained.UnitsKg[key]+1e-9 {
			t.Errorf("capacity raised volume at %v: %f > %f", key, kg, unconstrained.UnitsKg[key])
		}
	}
	if got := constrained.SellableKg["2026-12"]; got != 100 {
		t.Errorf("expected 100 kg sellable under capacity, got %f", got)
	}
}

func TestRun_Deterministic(t *testing.T) {
	first := Run(fixtures.Base())
	second := Run(fixtures.Base())
	if !reflect.DeepEqual(first.RevenueTotal, second.RevenueTotal) {
		t.Error("identical inputs produced different revenue totals")
	}
	if !reflect.DeepEqual(first.UnitsKg, second.UnitsKg) {
		t.Error("identical inputs produced different units")
	}
}

func TestRun_InvalidHorizonReported(t *testing.T) {
	a := fixtures.Base()
	a.TimeHorizon.StartMonth = "not-a-month"
	output := Run(a)
	if len(output.Errors) == 0 {
		t.Fatal("expected a horizon error")
	}
}

func TestUnitsKgTotalByMonth(t *testing.T) {
	output := Run(fixtures.Base())
	totals := output.UnitsKgTotalByMonth()
	if math.Abs(totals["2026-12"]-1250.0) > 1e-6 {
		t.Errorf("expected 1250 kg total, got %f", totals["2026-12"])
	}
}
