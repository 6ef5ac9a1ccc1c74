package assumptions

import (
	"fmt"
	"math"
	"sort"

	"epm-engine/internal/domain"
)

// MixSumTolerance is the allowed deviation of per-(market, year) mix sums
// from 1.0 at load time.
const MixSumTolerance = 1e-6

// Validate checks structural and numeric invariants of a loaded
// assumptions tree. All findings accumulate into one list; callers
// decide whether to halt.
func Validate(a *Assumptions) []string {
	var errs []string

	for _, section := range []string{"time_horizon", "products", "markets", "volume", "pricing", "bom"} {
		if !a.HasSection(section) {
			errs = append(errs, fmt.Sprintf("missing required section: %s", section))
		}
	}

	errs = append(errs, validateHorizon(a)...)
	errs = append(errs, validateActivations(a)...)

	if a.Valuation.Rate() <= a.Valuation.TerminalGrowth() {
		errs = append(errs, fmt.Sprintf(
			"discount_rate (%v) must be > terminal_growth_rate (%v)",
			a.Valuation.Rate(), a.Valuation.TerminalGrowth()))
	}

	errs = append(errs, validateMixSums(a.Mix)...)
	errs = append(errs, validateBOMYield(a.BOM)...)

	return errs
}

func validateHorizon(a *Assumptions) []string {
	start := a.TimeHorizon.StartMonth
	end := a.TimeHorizon.EndMonth
	if start == "" || end == "" {
		return nil
	}

	var errs []string
	before, err := monthBefore(end, start)
	if err != nil {
		return []string{err.Error()}
	}
	if before {
		errs = append(errs, fmt.Sprintf(
			"time_horizon invalid: start_month %s must be <= end_month %s", start, end))
	}
	return errs
}

func validateActivations(a *Assumptions) []string {
	start := a.TimeHorizon.StartMonth
	if start == "" {
		return nil
	}

	var errs []string
	for _, market := range a.Markets {
		if market.ActivationMonth == "" {
			continue
		}
		before, err := monthBefore(market.ActivationMonth, start)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if before {
			errs = append(errs, fmt.Sprintf(
				"activation_month invalid for market %s: %s < %s",
				market.MarketID, market.ActivationMonth, start))
		}
	}
	return errs
}

// monthBefore reports whether a is strictly before b, comparing parsed
// (year, month) pairs.
func monthBefore(a, b string) (bool, error) {
	aYear, aMon, err := domain.ParseMonth(a)
	if err != nil {
		return false, err
	}
	bYear, bMon, err := domain.ParseMonth(b)
	if err != nil {
		return false, err
	}
	if aYear != bYear {
		return aYear < bYear, nil
	}
	return aMon < bMon, nil
}

func validateMixSums(mix MixConfig) []string {
	var errs []string

	marketIDs := sortedKeys(mix.ByMarket)
	for _, marketID := range marketIDs {
		sums := map[string]float64{}
		for _, productID := range sortedKeys(mix.ByMarket[marketID].ByProduct) {
			for year, pct := range mix.ByMarket[marketID].ByProduct[productID].ByYear {
				if pct < 0 || pct > 1 {
					errs = append(errs, fmt.Sprintf(
						"mix percentage out of range for market=%s, year=%s: %v",
						marketID, year, pct))
				}
				sums[year] += pct
			}
		}
		for _, year := range sortedKeys(sums) {
			if math.Abs(sums[year]-1.0) > MixSumTolerance {
				errs = append(errs, fmt.Sprintf(
					"mix sum invalid for market=%s, year=%s: %v (must equal 1)",
					marketID, year, sums[year]))
			}
		}
	}
	return errs
}

func validateBOMYield(bom BOMConfig) []string {
	var errs []string
	for _, productID := range sortedKeys(bom.ByProduct) {
		total := 0.0
		for _, in := range bom.ByProduct[productID].Inputs {
			total += in.QtyPerKg
		}
		if total < 1.0 {
			errs = append(errs, fmt.Sprintf(
				"bom total qty_per_kg invalid for product %s: %v (< 1.0)", productID, total))
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
