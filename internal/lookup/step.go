// Package lookup implements the step-function time series resolution used
// throughout the model: the value at the most recent defined key at or
// before the target, falling back to a default when no key precedes it.
//
// Keys are "YYYY-MM" months or "YYYY" years; both sort lexicographically
// in chronological order, so one string-keyed implementation serves every
// caller (pricing, mix, cost ramps, input prices).
package lookup

import "sort"

// Step returns the value at the most recent key <= target. When points is
// empty, or no key precedes the target, def is returned.
func Step(target string, points map[string]float64, def float64) float64 {
	if len(points) == 0 {
		return def
	}
	if v, ok := points[target]; ok {
		return v
	}

	keys := make([]string, 0, len(points))
	for k := range points {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	applicable := def
	for _, k := range keys {
		if k > target {
			break
		}
		applicable = points[k]
	}
	return applicable
}

// Ramp resolves a ramp-factor series. Ramps are multiplicative, so the
// neutral default is 1.0.
func Ramp(target string, points map[string]float64) float64 {
	return Step(target, points, 1.0)
}

// Amount resolves an additive series. The neutral default is 0.0.
func Amount(target string, points map[string]float64) float64 {
	return Step(target, points, 0.0)
}
