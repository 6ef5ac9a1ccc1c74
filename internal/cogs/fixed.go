package cogs

import (
	"epm-engine/internal/domain"
	"epm-engine/internal/lookup"
)

// Fixed computes the ramped fixed COGS base per month.
func Fixed(months []string, baseMonthly float64, rampByMonth map[string]float64) map[string]float64 {
	result := make(map[string]float64, len(months))
	for _, month := range months {
		result[month] = baseMonthly * lookup.Ramp(month, rampByMonth)
	}
	return result
}

// AllocateFixed splits each month's fixed COGS across products
// proportionally to production volume. The allocation is informational;
// months with zero volume allocate zero.
func AllocateFixed(
	fixedCOGS map[string]float64,
	unitsKgByProduct map[domain.MonthProduct]float64,
) map[domain.MonthProduct]float64 {
	volumeByMonth := map[string]float64{}
	for key, kg := range unitsKgByProduct {
		volumeByMonth[key.Month] += kg
	}

	result := make(map[domain.MonthProduct]float64, len(unitsKgByProduct))
	for key, kg := range unitsKgByProduct {
		if total := volumeByMonth[key.Month]; total > 0 {
			result[key] = fixedCOGS[key.Month] * (kg / total)
		} else {
			result[key] = 0.0
		}
	}
	return result
}
