// Package fixtures provides shared assumption sets for tests.
package fixtures

import (
	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
)

func f64(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

// Base returns a minimal single-product, single-market assumption set
// over a seven-month horizon. All sections are present so validation
// passes unchanged.
func Base() *assumptions.Assumptions {
	a := &assumptions.Assumptions{
		Description: "test fixture",
		TimeHorizon: assumptions.TimeHorizon{
			StartMonth: "2026-06",
			EndMonth:   "2026-12",
		},
		Products: []domain.Product{
			{ProductID: "biocore", ProductName: "BioCore", Unit: "kg"},
		},
		Markets: []domain.Market{
			{MarketID: "italy", Geo: "IT", ActivationMonth: "2026-06"},
		},
		Volume: assumptions.VolumeConfig{
			TAM:      assumptions.TAMConfig{PerMarketKg: map[string]float64{"italy": 100000}},
			SAMShare: assumptions.SAMConfig{PerMarketPct: map[string]float64{"italy": 0.25}},
			SOMShare: assumptions.SOMConfig{
				PerMarketPct: map[string]float64{"italy": 0.10},
				Ramp: assumptions.RampByMarket{
					ByMarket: map[string]assumptions.MarketRamp{
						"italy": {StartMonth: "2026-06", DurationMonths: 12},
					},
				},
			},
			Capacity: assumptions.CapacityConfig{Enabled: false},
		},
		Mix: assumptions.MixConfig{
			ByMarket: map[string]assumptions.MarketMix{
				"italy": {
					ByProduct: map[string]assumptions.ProductMix{
						"biocore": {ByYear: map[string]float64{"2026": 1.0}},
					},
				},
			},
		},
		Pricing: assumptions.PricingConfig{
			ListPrice: assumptions.ListPriceConfig{
				ByProduct: map[string]assumptions.ProductPrice{
					"biocore": {BasePrice: 10.0},
				},
			},
		},
		BOM: assumptions.BOMConfig{
			ByProduct: map[string]assumptions.ProductBOMConfig{
				"biocore": {
					Inputs: []domain.BOMInput{
						{InputID: "rm1", InputName: "Raw Material 1", QtyPerKg: 0.6, InputType: "raw_material"},
						{InputID: "rm2", InputName: "Raw Material 2", QtyPerKg: 0.5, InputType: "raw_material"},
					},
				},
			},
		},
		InputPrices: assumptions.InputPricesConfig{
			ByInput: map[string]assumptions.InputPrice{
				"rm1": {BasePrice: 1.50},
				"rm2": {BasePrice: 1.00},
			},
		},
		FixedCOGS: assumptions.FixedCOGSConfig{BaseMonthly: 5000},
		OpEx: assumptions.OpExConfig{
			Fixed: assumptions.FixedOpExConfig{
				ByCategory: map[string]assumptions.OpExCategory{
					"mgmt": {BaseMonthly: 10000},
				},
			},
			SalesMarketing: assumptions.SMConfig{
				FixedBase: 5000,
				CAC:       assumptions.CACConfig{ByMarket: map[string]float64{"italy": 50000}},
			},
		},
		WorkingCapital: assumptions.WorkingCapitalConfig{
			DSODays: f64(45),
			DIODays: f64(30),
			DPODays: f64(60),
		},
		Capex: assumptions.CapexConfig{BaseMonthly: 1000},
		Funding: assumptions.FundingConfig{
			InitialCash: 100000,
			Debt:        assumptions.DebtConfig{InterestRate: 0.05},
		},
		Valuation: assumptions.ValuationConfig{
			DiscountRate:       f64(0.15),
			TerminalGrowthRate: f64(0.02),
			TerminalMethod:     "gordon",
			ExitYear:           intp(2026),
			Equity:             assumptions.EquityConfig{OwnershipPct: f64(1.0)},
		},
	}

	a.Sections = map[string]bool{
		"time_horizon": true, "products": true, "markets": true,
		"volume": true, "mix": true, "pricing": true,
		"bom": true, "input_prices": true, "fixed_cogs": true,
		"opex": true, "working_capital": true, "capex": true,
		"funding": true, "valuation": true,
	}

	return a
}
