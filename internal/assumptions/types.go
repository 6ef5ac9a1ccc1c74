// Package assumptions loads, merges, and validates the model's input
// configuration. A scenario's assumptions are built by deep-merging a
// sparse scenario override file over the shared base file, then decoding
// the merged tree into the typed structure below. Engines never read raw
// maps; every section is an explicit struct with a declared default policy.
package assumptions

import "epm-engine/internal/domain"

// Assumptions is the complete, immutable input to one scenario run.
// Sections records which top-level keys were present in the source
// documents, so validation can distinguish a missing section from an
// empty one.
type Assumptions struct {
	Description    string               `yaml:"description"`
	TimeHorizon    TimeHorizon          `yaml:"time_horizon"`
	Products       []domain.Product     `yaml:"products"`
	Markets        []domain.Market      `yaml:"markets"`
	Volume         VolumeConfig         `yaml:"volume"`
	Pricing        PricingConfig        `yaml:"pricing"`
	Mix            MixConfig            `yaml:"mix"`
	BOM            BOMConfig            `yaml:"bom"`
	InputPrices    InputPricesConfig    `yaml:"input_prices"`
	FixedCOGS      FixedCOGSConfig      `yaml:"fixed_cogs"`
	OpEx           OpExConfig           `yaml:"opex"`
	WorkingCapital WorkingCapitalConfig `yaml:"working_capital"`
	Capex          CapexConfig          `yaml:"capex"`
	Funding        FundingConfig        `yaml:"funding"`
	Valuation      ValuationConfig      `yaml:"valuation"`

	Sections map[string]bool `yaml:"-"`
}

// HasSection reports whether a top-level section appeared in the source
// configuration.
func (a *Assumptions) HasSection(name string) bool {
	return a.Sections[name]
}

// ProductIDs returns the catalog product IDs in declaration order.
func (a *Assumptions) ProductIDs() []string {
	ids := make([]string, 0, len(a.Products))
	for _, p := range a.Products {
		ids = append(ids, p.ProductID)
	}
	return ids
}

// MarketIDs returns the catalog market IDs in declaration order.
func (a *Assumptions) MarketIDs() []string {
	ids := make([]string, 0, len(a.Markets))
	for _, m := range a.Markets {
		ids = append(ids, m.MarketID)
	}
	return ids
}

// TimeHorizon is the closed, inclusive modeling window.
type TimeHorizon struct {
	StartMonth string `yaml:"start_month"`
	EndMonth   string `yaml:"end_month"`
}

// VolumeConfig holds the TAM/SAM/SOM demand-sizing tree and the optional
// capacity ceiling.
type VolumeConfig struct {
	TAM      TAMConfig      `yaml:"tam"`
	SAMShare SAMConfig      `yaml:"sam_share"`
	SOMShare SOMConfig      `yaml:"som_share"`
	Capacity CapacityConfig `yaml:"capacity"`
}

// TAMConfig is the total addressable market per market, in kilograms.
type TAMConfig struct {
	PerMarketKg map[string]float64 `yaml:"per_market_kg"`
}

// SAMConfig is the serviceable share of TAM per market, in [0,1].
type SAMConfig struct {
	PerMarketPct map[string]float64 `yaml:"per_market_pct"`
}

// SOMConfig is the steady-state obtainable share of SAM per market plus
// per-market ramp parameters.
type SOMConfig struct {
	PerMarketPct map[string]float64 `yaml:"per_market_pct"`
	Ramp         RampByMarket       `yaml:"ramp"`
}

// RampByMarket nests per-market ramp configurations.
type RampByMarket struct {
	ByMarket map[string]MarketRamp `yaml:"by_market"`
}

// MarketRamp describes how a market's SOM ramps from zero to steady state.
// StartMonth defaults to the market's activation month; Curve defaults
// to linear.
type MarketRamp struct {
	StartMonth     string `yaml:"start_month"`
	DurationMonths int    `yaml:"duration_months"`
	Curve          string `yaml:"curve"`
}

// CapacityConfig is a soft monthly production ceiling. When disabled, the
// by_month map is ignored entirely.
type CapacityConfig struct {
	Enabled bool               `yaml:"enabled"`
	ByMonth map[string]float64 `yaml:"by_month"`
}

// PricingConfig holds list prices and discounts.
type PricingConfig struct {
	ListPrice ListPriceConfig `yaml:"list_price"`
	Discounts DiscountConfig  `yaml:"discounts"`
}

// ListPriceConfig nests per-product price schedules.
type ListPriceConfig struct {
	ByProduct map[string]ProductPrice `yaml:"by_product"`
}

// ProductPrice is a base price with step-function monthly overrides.
type ProductPrice struct {
	BasePrice float64            `yaml:"base_price"`
	ByMonth   map[string]float64 `yaml:"by_month"`
}

// DiscountConfig nests per-product, per-market discount schedules.
// Discounts are fractions in [0,1]; absent means zero.
type DiscountConfig struct {
	ByProduct map[string]ProductDiscounts `yaml:"by_product"`
}

// ProductDiscounts nests per-market discount schedules for one product.
type ProductDiscounts struct {
	ByMarket map[string]MarketDiscounts `yaml:"by_market"`
}

// MarketDiscounts is a step-function discount schedule.
type MarketDiscounts struct {
	ByMonth map[string]float64 `yaml:"by_month"`
}

// MixConfig allocates market volume to products by year-level percentages.
// Year keys are "YYYY" strings; percentages per (market, year) must sum
// to 1.
type MixConfig struct {
	ByMarket map[string]MarketMix `yaml:"by_market"`
}

// MarketMix nests per-product mix schedules for one market.
type MarketMix struct {
	ByProduct map[string]ProductMix `yaml:"by_product"`
}

// ProductMix is a year-keyed step-function mix schedule.
type ProductMix struct {
	ByYear map[string]float64 `yaml:"by_year"`
}

// BOMConfig holds the bill of materials per product.
type BOMConfig struct {
	ByProduct map[string]ProductBOMConfig `yaml:"by_product"`
}

// ProductBOMConfig is the configured input list for one product.
type ProductBOMConfig struct {
	Inputs []domain.BOMInput `yaml:"inputs"`
}

// InputPricesConfig holds time-varying prices per BOM input.
type InputPricesConfig struct {
	ByInput map[string]InputPrice `yaml:"by_input"`
}

// InputPrice is a base price with step-function monthly overrides.
type InputPrice struct {
	BasePrice float64            `yaml:"base_price"`
	ByMonth   map[string]float64 `yaml:"by_month"`
}

// FixedCOGSConfig is the ramping fixed production cost base.
type FixedCOGSConfig struct {
	BaseMonthly float64     `yaml:"base_monthly"`
	Ramp        RampByMonth `yaml:"ramp"`
}

// RampByMonth is a step-function multiplier schedule defaulting to 1.0.
type RampByMonth struct {
	ByMonth map[string]float64 `yaml:"by_month"`
}

// OpExConfig holds the three operating-expense families.
type OpExConfig struct {
	Fixed          FixedOpExConfig    `yaml:"fixed"`
	Variable       VariableOpExConfig `yaml:"variable"`
	SalesMarketing SMConfig           `yaml:"sales_marketing"`
}

// FixedOpExConfig nests ramped fixed-cost categories.
type FixedOpExConfig struct {
	ByCategory map[string]OpExCategory `yaml:"by_category"`
}

// OpExCategory is one ramped fixed cost line.
type OpExCategory struct {
	BaseMonthly float64     `yaml:"base_monthly"`
	Ramp        RampByMonth `yaml:"ramp"`
}

// VariableOpExConfig nests activity-driver cost rates. Variable OpEx is
// strictly activity-based; no driver is denominated in revenue.
type VariableOpExConfig struct {
	ByDriver map[string]OpExDriver `yaml:"by_driver"`
}

// OpExDriver is the unit cost of one activity driver.
type OpExDriver struct {
	CostPerUnit float64 `yaml:"cost_per_unit"`
}

// SMConfig holds sales & marketing: a ramped fixed base plus a one-time
// customer-acquisition cost per market, charged in its activation month.
type SMConfig struct {
	FixedBase float64     `yaml:"fixed_base"`
	Ramp      RampByMonth `yaml:"ramp"`
	CAC       CACConfig   `yaml:"cac"`
}

// CACConfig is the per-market customer-acquisition cost.
type CACConfig struct {
	ByMarket map[string]float64 `yaml:"by_market"`
}

// WorkingCapitalConfig holds day-count assumptions. Fields are pointers so
// an explicit zero is distinguishable from an omitted value.
type WorkingCapitalConfig struct {
	DSODays *float64 `yaml:"dso_days"`
	DIODays *float64 `yaml:"dio_days"`
	DPODays *float64 `yaml:"dpo_days"`
}

// DSO returns days sales outstanding, defaulting to 45.
func (c WorkingCapitalConfig) DSO() float64 { return orDefault(c.DSODays, 45) }

// DIO returns days inventory outstanding, defaulting to 30.
func (c WorkingCapitalConfig) DIO() float64 { return orDefault(c.DIODays, 30) }

// DPO returns days payables outstanding, defaulting to 60.
func (c WorkingCapitalConfig) DPO() float64 { return orDefault(c.DPODays, 60) }

// CapexConfig is a recurring monthly capex base plus one-off milestone
// amounts keyed by exact month.
type CapexConfig struct {
	BaseMonthly float64         `yaml:"base_monthly"`
	Milestones  ScheduleByMonth `yaml:"milestones"`
}

// ScheduleByMonth is a sparse month-keyed amount schedule. Unlike ramp
// series, only exact-month hits apply.
type ScheduleByMonth struct {
	ByMonth map[string]float64 `yaml:"by_month"`
}

// FundingConfig holds starting cash and the equity/debt schedules.
type FundingConfig struct {
	InitialCash float64         `yaml:"initial_cash"`
	Equity      ScheduleByMonth `yaml:"equity"`
	Debt        DebtConfig      `yaml:"debt"`
}

// DebtConfig holds the annual interest rate and month-keyed draw/repayment
// movements.
type DebtConfig struct {
	InterestRate float64                 `yaml:"interest_rate"`
	ByMonth      map[string]DebtMovement `yaml:"by_month"`
}

// DebtMovement is one month's debt draw and repayment.
type DebtMovement struct {
	Draw      float64 `yaml:"draw"`
	Repayment float64 `yaml:"repayment"`
}

// ValuationConfig holds discounted-cash-flow and equity-return parameters.
type ValuationConfig struct {
	DiscountRate       *float64     `yaml:"discount_rate"`
	TerminalGrowthRate *float64     `yaml:"terminal_growth_rate"`
	TerminalMethod     string       `yaml:"terminal_method"`
	TerminalMultiple   *float64     `yaml:"terminal_multiple"`
	ExitYear           *int         `yaml:"exit_year"`
	Equity             EquityConfig `yaml:"equity"`
}

// Rate returns the annual discount rate, defaulting to 15%.
func (c ValuationConfig) Rate() float64 { return orDefault(c.DiscountRate, 0.15) }

// TerminalGrowth returns the annual terminal growth rate, defaulting to 2%.
func (c ValuationConfig) TerminalGrowth() float64 { return orDefault(c.TerminalGrowthRate, 0.02) }

// Method returns the terminal value method, defaulting to Gordon growth.
func (c ValuationConfig) Method() string {
	if c.TerminalMethod == "" {
		return "gordon"
	}
	return c.TerminalMethod
}

// Exit returns the exit year, defaulting to 2030.
func (c ValuationConfig) Exit() int {
	if c.ExitYear == nil {
		return 2030
	}
	return *c.ExitYear
}

// EquityConfig is the equity investment schedule and investor ownership.
type EquityConfig struct {
	OwnershipPct *float64        `yaml:"ownership_pct"`
	Invested     ScheduleByMonth `yaml:"invested"`
}

// Ownership returns the investor ownership fraction, defaulting to 1.0.
func (c EquityConfig) Ownership() float64 { return orDefault(c.OwnershipPct, 1.0) }

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
