package cashflow

import (
	"math"
	"testing"

	"epm-engine/internal/assumptions"
)

func TestEBITDAByMonth_UnionOfSeries(t *testing.T) {
	revenue := map[string]float64{"2026-06": 1000}
	cogs := map[string]float64{"2026-06": 400, "2026-07": 100}
	opex := map[string]float64{"2026-06": 300}

	ebitda := EBITDAByMonth(revenue, cogs, opex)
	if ebitda["2026-06"] != 300 {
		t.Errorf("expected 300, got %f", ebitda["2026-06"])
	}
	// July appears only in COGS; missing series count as zero.
	if ebitda["2026-07"] != -100 {
		t.Errorf("expected -100, got %f", ebitda["2026-07"])
	}
}

func TestCapexByMonth_MilestoneExactMonthOnly(t *testing.T) {
	cfg := assumptions.CapexConfig{
		BaseMonthly: 1000,
		Milestones:  assumptions.ScheduleByMonth{ByMonth: map[string]float64{"2026-07": 50000}},
	}
	capex := CapexByMonth([]string{"2026-06", "2026-07", "2026-08"}, cfg)
	if capex["2026-06"] != 1000 || capex["2026-08"] != 1000 {
		t.Errorf("expected base 1000 outside milestone months, got %f/%f", capex["2026-06"], capex["2026-08"])
	}
	if capex["2026-07"] != 51000 {
		t.Errorf("expected 51000 in milestone month, got %f", capex["2026-07"])
	}
}

func TestFinancing_SequentialInterest(t *testing.T) {
	cfg := assumptions.FundingConfig{
		Debt: assumptions.DebtConfig{
			InterestRate: 0.12,
			ByMonth: map[string]assumptions.DebtMovement{
				"2026-06": {Draw: 120000},
				"2026-08": {Repayment: 20000},
			},
		},
	}
	months := []string{"2026-06", "2026-07", "2026-08"}

	result := Financing(months, cfg)

	// Debt opens at zero, so the draw month accrues no interest.
	if result.Interest["2026-06"] != 0 {
		t.Errorf("expected 0 interest in draw month, got %f", result.Interest["2026-06"])
	}
	if result.DebtBalance["2026-06"] != 120000 {
		t.Errorf("expected 120000 debt, got %f", result.DebtBalance["2026-06"])
	}

	// July: 1% monthly on the prior 120000 balance.
	if math.Abs(result.Interest["2026-07"]-1200) > 1e-9 {
		t.Errorf("expected 1200 interest, got %f", result.Interest["2026-07"])
	}

	// August: interest still on the pre-repayment balance, then repay.
	if math.Abs(result.Interest["2026-08"]-1200) > 1e-9 {
		t.Errorf("expected 1200 interest, got %f", result.Interest["2026-08"])
	}
	if result.DebtBalance["2026-08"] != 100000 {
		t.Errorf("expected 100000 debt after repayment, got %f", result.DebtBalance["2026-08"])
	}
	if math.Abs(result.FinancingCF["2026-08"]-(-21200)) > 1e-9 {
		t.Errorf("expected -21200 financing CF, got %f", result.FinancingCF["2026-08"])
	}
}

func TestFinancing_EquityInflow(t *testing.T) {
	cfg := assumptions.FundingConfig{
		Equity: assumptions.ScheduleByMonth{ByMonth: map[string]float64{"2026-07": 500000}},
	}
	result := Financing([]string{"2026-06", "2026-07"}, cfg)
	if result.FinancingCF["2026-07"] != 500000 {
		t.Errorf("expected 500000 equity inflow, got %f", result.FinancingCF["2026-07"])
	}
}

func TestCashBalance_FundingGapReported(t *testing.T) {
	months := []string{"2026-06", "2026-07", "2026-08"}
	netCF := map[string]float64{
		"2026-06": -60000,
		"2026-07": -60000,
		"2026-08": 30000,
	}

	balance, gaps := CashBalance(months, netCF, 100000)
	if balance["2026-06"] != 40000 {
		t.Errorf("expected 40000, got %f", balance["2026-06"])
	}
	if balance["2026-07"] != -20000 {
		t.Errorf("expected -20000, got %f", balance["2026-07"])
	}
	if len(gaps) != 1 {
		t.Fatalf("expected exactly 1 funding gap, got %v", gaps)
	}
	if gaps[0] != "2026-07: negative cash balance -20000.00" {
		t.Errorf("unexpected gap message: %s", gaps[0])
	}
}

func TestRun_EndToEndIdentities(t *testing.T) {
	months := []string{"2026-06", "2026-07"}
	revenue := map[string]float64{"2026-06": 10000, "2026-07": 12000}
	cogs := map[string]float64{"2026-06": 4000, "2026-07": 4500}
	opex := map[string]float64{"2026-06": 3000, "2026-07": 3000}
	deltaWC := map[string]float64{"2026-06": 2000, "2026-07": 500}

	output := Run(months, revenue, cogs, opex, deltaWC,
		assumptions.CapexConfig{BaseMonthly: 1000},
		assumptions.FundingConfig{InitialCash: 50000},
	)

	if errs := ValidateOutput(output, revenue, cogs, opex); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// June: EBITDA 3000, operating 1000, FCF 0, net 0, cash stays 50000.
	if output.EBITDA["2026-06"] != 3000 {
		t.Errorf("expected EBITDA 3000, got %f", output.EBITDA["2026-06"])
	}
	if output.FreeCF["2026-06"] != 0 {
		t.Errorf("expected FCF 0, got %f", output.FreeCF["2026-06"])
	}
	if output.CashBalance["2026-06"] != 50000 {
		t.Errorf("expected cash 50000, got %f", output.CashBalance["2026-06"])
	}
	// July: EBITDA 4500, operating 4000, FCF 3000.
	if output.FreeCF["2026-07"] != 3000 {
		t.Errorf("expected FCF 3000, got %f", output.FreeCF["2026-07"])
	}
	if output.CashBalance["2026-07"] != 53000 {
		t.Errorf("expected cash 53000, got %f", output.CashBalance["2026-07"])
	}
	if len(output.FundingGaps) != 0 {
		t.Errorf("unexpected funding gaps: %v", output.FundingGaps)
	}
}
