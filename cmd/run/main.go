package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"epm-engine/internal/reporting"
	"epm-engine/internal/scenario"
)

func writeComparisonCSV(matrix *scenario.ComparisonMatrix, path string) error {
	return os.WriteFile(path, []byte(reporting.RenderComparisonCSV(matrix)), 0o644)
}

func main() {
	scenarioID := flag.String("scenario", "base", "Scenario ID to run")
	runAll := flag.Bool("all", false, "Run conservative, base, and aggressive scenarios and compare")
	dir := flag.String("dir", "assumptions", "Assumptions directory")
	csvOut := flag.String("csv", "", "Write comparison matrix CSV to this path (with -all)")
	verbose := flag.Bool("verbose", false, "Log pipeline progress")
	flag.Parse()

	logger := log.New(os.Stderr, "[run] ", log.LstdFlags)

	runner := scenario.NewRunner(scenario.Options{
		AssumptionsDir: *dir,
		Verbose:        *verbose,
	})

	if *runAll {
		if err := runAllScenarios(runner, *csvOut); err != nil {
			logger.Fatal(err)
		}
		return
	}

	result, err := runner.Run(*scenarioID)
	if err != nil {
		logger.Fatal(err)
	}
	printSummary(result)
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func printSummary(result *scenario.Result) {
	fmt.Printf("\nScenario: %s\n", result.ScenarioID)
	fmt.Println(strings.Repeat("-", 40))

	if len(result.Errors) > 0 {
		fmt.Println("\nERRORS:")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Println("\nWARNINGS:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Println("\nKEY METRICS:")
	fmt.Printf("  Total Revenue:     EUR %.0f\n", result.TotalRevenue)
	fmt.Printf("  Total COGS:        EUR %.0f\n", result.TotalCOGS)
	fmt.Printf("  Total OpEx:        EUR %.0f\n", result.TotalOpEx)
	fmt.Printf("  Final EBITDA:      EUR %.0f\n", result.FinalEBITDA)
	fmt.Printf("  Cumulative FCF:    EUR %.0f\n", result.CumulativeFCF)
	fmt.Printf("  Enterprise Value:  EUR %.0f\n", result.EnterpriseValue)
	fmt.Printf("  Equity Value:      EUR %.0f\n", result.EquityValue)
	if result.IRR != nil {
		fmt.Printf("  IRR:               %.1f%%\n", 100*(*result.IRR))
	}
	fmt.Printf("  MOIC:              %.2fx\n", result.MOIC)
}

func runAllScenarios(runner *scenario.Runner, csvPath string) error {
	scenarios := []string{scenario.IDConservative, scenario.IDBase, scenario.IDAggressive}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("RUNNING ALL SCENARIOS")
	fmt.Println(strings.Repeat("=", 60))

	results, err := runner.RunAll(context.Background(), scenarios)
	if err != nil {
		return err
	}

	for _, scenarioID := range scenarios {
		result := results[scenarioID]
		fmt.Printf("\n%s\n", strings.ToUpper(scenarioID))
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("  Revenue:  EUR %.0f\n", result.TotalRevenue)
		fmt.Printf("  EBITDA:   EUR %.0f\n", result.FinalEBITDA)
		fmt.Printf("  EV:       EUR %.0f\n", result.EnterpriseValue)
		if result.IRR != nil {
			fmt.Printf("  IRR:      %.1f%%\n", 100*(*result.IRR))
		}
		fmt.Printf("  MOIC:     %.2fx\n", result.MOIC)
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("COMPARISON vs BASE")
	fmt.Println(strings.Repeat("=", 60))

	matrix := scenario.Compare(results, scenario.IDBase)
	for _, metric := range []string{"total_revenue", "enterprise_value", "moic"} {
		fmt.Printf("\n%s:\n", metric)
		for _, scenarioID := range scenarios {
			value := matrix.Metrics[metric][scenarioID]
			variance := matrix.Variances[metric][scenarioID]
			fmt.Printf("  %-12s: %15.0f  (%+.1f%%)\n", scenarioID, value, 100*variance)
		}
	}

	if csvPath != "" {
		if err := writeComparisonCSV(matrix, csvPath); err != nil {
			return err
		}
		fmt.Printf("\nComparison CSV written to %s\n", csvPath)
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("ORDERING VALIDATION")
	fmt.Println(strings.Repeat("=", 60))

	if orderingErrors := scenario.ValidateOrdering(results); len(orderingErrors) > 0 {
		fmt.Println("\nFAILED - Ordering violations:")
		for _, e := range orderingErrors {
			fmt.Printf("  - %s\n", e)
		}
		os.Exit(1)
	}
	fmt.Println("\nPASSED - Scenario ordering is correct")
	return nil
}
