package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the validation report as Markdown.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Validation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Scenario: %s\n\n", r.ScenarioID))

	sb.WriteString("## Engine Checks\n\n")
	sb.WriteString("| Engine | Check | Status | Message |\n")
	sb.WriteString("|--------|-------|--------|--------|\n")
	for _, engine := range engineOrder {
		for _, check := range r.EngineChecks[engine] {
			status := "PASS"
			if !check.Passed {
				status = "FAIL"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				engine, check.Name, status, check.Message))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Baseline Reconciliation\n\n")
	if len(r.ReconciliationChecks) > 0 {
		sb.WriteString("| Check | Status | Max Variance | Message |\n")
		sb.WriteString("|-------|--------|--------------|--------|\n")
		for _, check := range r.ReconciliationChecks {
			status := "PASS"
			if !check.Passed {
				status = "FAIL"
			}
			variance := ""
			if check.Variance != nil {
				variance = fmt.Sprintf("%.4f%%", 100*(*check.Variance))
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				check.Name, status, variance, check.Message))
		}
	} else {
		sb.WriteString("No baseline reconciliation performed.\n")
	}
	sb.WriteString("\n")

	if len(r.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, warning := range r.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", warning))
		}
		sb.WriteString("\n")
	}

	if r.OverallPassed {
		sb.WriteString(fmt.Sprintf("**All checks passed.** %d passed, %d failed.\n", r.TotalPassed, r.TotalFailed))
	} else {
		sb.WriteString(fmt.Sprintf("**Some checks failed.** %d passed, %d failed.\n", r.TotalPassed, r.TotalFailed))
	}

	return sb.String()
}
