package scenario

import "fmt"

// Canonical scenario identifiers used in ordering validation.
const (
	IDConservative = "conservative"
	IDBase         = "base"
	IDAggressive   = "aggressive"
)

// MetricNames lists the headline metrics in comparison order.
var MetricNames = []string{
	"total_revenue", "total_cogs", "total_opex",
	"final_ebitda", "cumulative_fcf",
	"enterprise_value", "equity_value", "irr", "moic",
}

// ComparisonMatrix holds per-metric values and variances against the
// base scenario.
type ComparisonMatrix struct {
	Scenarios []string
	Metrics   map[string]map[string]float64
	Variances map[string]map[string]float64
}

// Compare builds the comparison matrix. Variances are relative to the
// base scenario's value and skipped when that value is zero or the
// metric is undefined.
func Compare(results map[string]*Result, baseScenario string) *ComparisonMatrix {
	matrix := &ComparisonMatrix{
		Scenarios: sortedIDs(results),
		Metrics:   map[string]map[string]float64{},
		Variances: map[string]map[string]float64{},
	}

	baseResult := results[baseScenario]

	for _, metric := range MetricNames {
		matrix.Metrics[metric] = map[string]float64{}
		matrix.Variances[metric] = map[string]float64{}

		for _, scenarioID := range matrix.Scenarios {
			value, ok := metricValue(results[scenarioID], metric)
			if !ok {
				continue
			}
			matrix.Metrics[metric][scenarioID] = value

			if baseResult == nil {
				continue
			}
			baseValue, ok := metricValue(baseResult, metric)
			if !ok || baseValue == 0 {
				continue
			}
			matrix.Variances[metric][scenarioID] = (value - baseValue) / abs(baseValue)
		}
	}

	return matrix
}

// ValidateOrdering checks Conservative <= Base <= Aggressive for the
// growth-aligned metrics. It returns nothing unless all three scenarios
// are present.
func ValidateOrdering(results map[string]*Result) []string {
	cons := results[IDConservative]
	base := results[IDBase]
	agg := results[IDAggressive]
	if cons == nil || base == nil || agg == nil {
		return nil
	}

	var errs []string

	orderedMetrics := []string{
		"total_revenue", "final_ebitda", "cumulative_fcf", "enterprise_value", "moic",
	}
	for _, metric := range orderedMetrics {
		consVal, _ := metricValue(cons, metric)
		baseVal, _ := metricValue(base, metric)
		aggVal, _ := metricValue(agg, metric)

		if !(consVal <= baseVal && baseVal <= aggVal) {
			errs = append(errs, fmt.Sprintf(
				"scenario ordering violation for %s: conservative (%.2f) <= base (%.2f) <= aggressive (%.2f) is not satisfied",
				metric, consVal, baseVal, aggVal))
		}
	}

	// IRR participates only when defined for all three scenarios.
	if cons.IRR != nil && base.IRR != nil && agg.IRR != nil {
		if !(*cons.IRR <= *base.IRR && *base.IRR <= *agg.IRR) {
			errs = append(errs, fmt.Sprintf(
				"scenario ordering violation for irr: conservative (%.2f%%) <= base (%.2f%%) <= aggressive (%.2f%%) is not satisfied",
				100*(*cons.IRR), 100*(*base.IRR), 100*(*agg.IRR)))
		}
	}

	return errs
}

func metricValue(result *Result, metric string) (float64, bool) {
	if result == nil {
		return 0, false
	}
	switch metric {
	case "total_revenue":
		return result.TotalRevenue, true
	case "total_cogs":
		return result.TotalCOGS, true
	case "total_opex":
		return result.TotalOpEx, true
	case "final_ebitda":
		return result.FinalEBITDA, true
	case "cumulative_fcf":
		return result.CumulativeFCF, true
	case "enterprise_value":
		return result.EnterpriseValue, true
	case "equity_value":
		return result.EquityValue, true
	case "irr":
		if result.IRR == nil {
			return 0, false
		}
		return *result.IRR, true
	case "moic":
		return result.MOIC, true
	}
	return 0, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
