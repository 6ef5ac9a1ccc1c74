package reporting

import (
	"fmt"
	"strings"

	"epm-engine/internal/scenario"
)

// RenderComparisonCSV renders a scenario comparison matrix as CSV. One
// row per metric, one value column per scenario, then variance columns
// against the base scenario.
func RenderComparisonCSV(matrix *scenario.ComparisonMatrix) string {
	var sb strings.Builder

	sb.WriteString("metric")
	for _, scenarioID := range matrix.Scenarios {
		sb.WriteString("," + scenarioID)
	}
	for _, scenarioID := range matrix.Scenarios {
		sb.WriteString("," + scenarioID + "_variance")
	}
	sb.WriteString("\n")

	for _, metric := range scenario.MetricNames {
		sb.WriteString(metric)
		for _, scenarioID := range matrix.Scenarios {
			value, ok := matrix.Metrics[metric][scenarioID]
			if !ok {
				sb.WriteString(",")
				continue
			}
			sb.WriteString(fmt.Sprintf(",%.6f", value))
		}
		for _, scenarioID := range matrix.Scenarios {
			variance, ok := matrix.Variances[metric][scenarioID]
			if !ok {
				sb.WriteString(",")
				continue
			}
			sb.WriteString(fmt.Sprintf(",%.6f", variance))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
