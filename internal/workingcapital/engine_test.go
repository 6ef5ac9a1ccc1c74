package workingcapital

import (
	"math"
	"testing"

	"epm-engine/internal/assumptions"
)

func terms() Terms {
	return Terms{DSODays: 45, DIODays: 30, DPODays: 60}
}

func TestBalances_DayCountFormulas(t *testing.T) {
	revenue := map[string]float64{"2026-12": 12000}
	cogs := map[string]float64{"2026-12": 6000}

	ar, inv, ap := Balances(revenue, cogs, terms())
	if math.Abs(ar["2026-12"]-18000) > 1e-9 {
		t.Errorf("expected AR 18000, got %f", ar["2026-12"])
	}
	if math.Abs(inv["2026-12"]-6000) > 1e-9 {
		t.Errorf("expected inventory 6000, got %f", inv["2026-12"])
	}
	if math.Abs(ap["2026-12"]-12000) > 1e-9 {
		t.Errorf("expected AP 12000, got %f", ap["2026-12"])
	}
}

func TestDeltas_ImplicitZeroOpening(t *testing.T) {
	values := map[string]float64{
		"2026-06": 100,
		"2026-07": 150,
		"2026-08": 120,
	}
	months := []string{"2026-06", "2026-07", "2026-08"}

	deltas := Deltas(values, months)
	if deltas["2026-06"] != 100 {
		t.Errorf("first delta must equal first balance, got %f", deltas["2026-06"])
	}
	if deltas["2026-07"] != 50 {
		t.Errorf("expected 50, got %f", deltas["2026-07"])
	}
	if deltas["2026-08"] != -30 {
		t.Errorf("expected -30, got %f", deltas["2026-08"])
	}
}

func TestTermsFrom_Defaults(t *testing.T) {
	got := TermsFrom(assumptions.WorkingCapitalConfig{})
	if got.DSODays != 45 || got.DIODays != 30 || got.DPODays != 60 {
		t.Errorf("expected 45/30/60 defaults, got %+v", got)
	}
}

func TestTermsFrom_ExplicitZero(t *testing.T) {
	zero := 0.0
	got := TermsFrom(assumptions.WorkingCapitalConfig{DSODays: &zero})
	if got.DSODays != 0 {
		t.Errorf("explicit zero must not fall back to the default, got %f", got.DSODays)
	}
}

func TestRun_NetAndDelta(t *testing.T) {
	cfg := assumptions.WorkingCapitalConfig{}
	revenue := map[string]float64{"2026-11": 10000, "2026-12": 12000}
	cogs := map[string]float64{"2026-11": 5000, "2026-12": 6000}

	output := Run(cfg, revenue, cogs)
	if errs := ValidateOutput(output); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// November: AR 15000 + Inv 5000 - AP 10000 = 10000.
	if math.Abs(output.NetWorkingCapital["2026-11"]-10000) > 1e-9 {
		t.Errorf("expected NWC 10000, got %f", output.NetWorkingCapital["2026-11"])
	}
	// First-month delta equals the full first balance.
	if math.Abs(output.DeltaWC["2026-11"]-10000) > 1e-9 {
		t.Errorf("expected first DeltaWC 10000, got %f", output.DeltaWC["2026-11"])
	}
	// December: NWC = 18000 + 6000 - 12000 = 12000, delta 2000.
	if math.Abs(output.DeltaWC["2026-12"]-2000) > 1e-9 {
		t.Errorf("expected DeltaWC 2000, got %f", output.DeltaWC["2026-12"])
	}

	// Delta identity per month.
	for month := range output.DeltaWC {
		expected := output.DeltaAR[month] + output.DeltaInv[month] - output.DeltaAP[month]
		if math.Abs(output.DeltaWC[month]-expected) > 1e-9 {
			t.Errorf("delta identity broken at %s", month)
		}
	}
}

func TestRun_NegativeTermsReported(t *testing.T) {
	negative := -10.0
	cfg := assumptions.WorkingCapitalConfig{DSODays: &negative}
	revenue := map[string]float64{"2026-06": 0}
	cogs := map[string]float64{"2026-06": 0}

	output := Run(cfg, revenue, cogs)
	if len(output.Errors) != 1 {
		t.Fatalf("expected 1 error for negative DSO, got %v", output.Errors)
	}
	if output.Errors[0] != "negative DSO: -10" {
		t.Errorf("unexpected error message: %s", output.Errors[0])
	}
}

func TestValidateTerms_AllNegative(t *testing.T) {
	errs := ValidateTerms(Terms{DSODays: -1, DIODays: -2, DPODays: -3})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}

	if errs := ValidateTerms(Terms{DSODays: 45, DIODays: 30, DPODays: 60}); len(errs) != 0 {
		t.Errorf("expected no errors for non-negative terms, got %v", errs)
	}
}
