package reporting

import (
	"fmt"
	"strings"
)

// Render formats the report as fixed-width text.
func Render(r *Report) string {
	var sb strings.Builder

	rule := strings.Repeat("=", 60)
	sub := strings.Repeat("-", 40)

	sb.WriteString(rule + "\n")
	sb.WriteString("VALIDATION REPORT\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Date: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Scenario: %s\n", r.ScenarioID))
	sb.WriteString("\n")

	sb.WriteString("ENGINE CHECKS\n")
	sb.WriteString(sub + "\n")
	for _, engine := range engineOrder {
		checks, ok := r.EngineChecks[engine]
		if !ok {
			continue
		}
		passed := 0
		for _, check := range checks {
			if check.Passed {
				passed++
			}
		}
		status := "PASSED"
		if passed != len(checks) {
			status = "FAILED"
		}
		sb.WriteString(fmt.Sprintf("%s: %d/%d %s\n", engine, passed, len(checks), status))
	}

	if len(r.ReconciliationChecks) > 0 {
		sb.WriteString("\n")
		sb.WriteString("BASELINE RECONCILIATION\n")
		sb.WriteString(sub + "\n")
		for _, check := range r.ReconciliationChecks {
			status := "PASSED"
			if !check.Passed {
				status = "FAILED"
			}
			if check.Variance != nil {
				sb.WriteString(fmt.Sprintf("%s: %s (max variance: %.2f%%)\n",
					check.Name, status, 100*(*check.Variance)))
			} else {
				sb.WriteString(fmt.Sprintf("%s: %s\n", check.Name, status))
			}
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString("WARNINGS\n")
		sb.WriteString(sub + "\n")
		for _, warning := range r.Warnings {
			sb.WriteString("  " + warning + "\n")
		}
	}

	overall := "PASSED"
	if !r.OverallPassed {
		overall = "FAILED"
	}
	sb.WriteString("\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("OVERALL: %s\n", overall))
	sb.WriteString(fmt.Sprintf("Total: %d passed, %d failed\n", r.TotalPassed, r.TotalFailed))
	sb.WriteString(rule + "\n")

	return sb.String()
}
