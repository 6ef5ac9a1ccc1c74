package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"epm-engine/internal/reporting"
	"epm-engine/internal/scenario"
)

func main() {
	scenarioID := flag.String("scenario", "base", "Scenario ID to validate")
	dir := flag.String("dir", "assumptions", "Assumptions directory")
	baselinePath := flag.String("baseline", "", "Baseline CSV (metric,month,value) for reconciliation")
	markdown := flag.Bool("markdown", false, "Render the report as Markdown")
	verbose := flag.Bool("verbose", false, "Log pipeline progress")
	flag.Parse()

	logger := log.New(os.Stderr, "[validate] ", log.LstdFlags)

	runner := scenario.NewRunner(scenario.Options{
		AssumptionsDir: *dir,
		Verbose:        *verbose,
	})

	result, err := runner.Run(*scenarioID)
	if err != nil {
		logger.Fatal(err)
	}

	// Assumption-level failures stop before any engine runs, so there is
	// no output to report on.
	if result.Revenue == nil {
		logger.Printf("scenario %s failed validation:", *scenarioID)
		for _, e := range result.Errors {
			logger.Printf("  - %s", e)
		}
		os.Exit(1)
	}

	var baseline *reporting.Baseline
	if *baselinePath != "" {
		baseline, err = reporting.LoadBaselineCSV(*baselinePath)
		if err != nil {
			logger.Fatal(err)
		}
	}

	report := reporting.Generate(result, baseline, time.Now())

	if *markdown {
		fmt.Print(reporting.RenderMarkdown(report))
	} else {
		fmt.Print(reporting.Render(report))
	}

	if !report.OverallPassed {
		os.Exit(1)
	}
}
