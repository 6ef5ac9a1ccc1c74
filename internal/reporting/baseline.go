package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
)

// DefaultReconcileTolerance is the maximum allowed relative variance
// against a baseline value, 0.1%.
const DefaultReconcileTolerance = 0.001

// absoluteFallbackThreshold switches the variance to an absolute
// difference when the baseline value is too small to divide by.
const absoluteFallbackThreshold = 0.01

// Baseline holds externally sourced monthly series keyed by metric name,
// typically exported from a spreadsheet model.
type Baseline struct {
	Series map[string]map[string]float64
}

// LoadBaselineCSV reads a baseline file with columns metric,month,value.
// A header row is detected and skipped.
func LoadBaselineCSV(path string) (*Baseline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open baseline: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	baseline := &Baseline{Series: map[string]map[string]float64{}}

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read baseline: %w", err)
		}
		line++

		if len(record) != 3 {
			return nil, fmt.Errorf("baseline line %d: expected 3 columns, got %d", line, len(record))
		}
		if line == 1 && record[0] == "metric" {
			continue
		}

		value, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("baseline line %d: bad value %q", line, record[2])
		}

		metric, month := record[0], record[1]
		if baseline.Series[metric] == nil {
			baseline.Series[metric] = map[string]float64{}
		}
		baseline.Series[metric][month] = value
	}

	return baseline, nil
}

// Reconcile compares an engine series against a baseline series month by
// month. Months missing from the baseline are skipped. When the baseline
// value is near zero the variance is the absolute difference.
func Reconcile(engine, baseline map[string]float64, metric string, tolerance float64) CheckResult {
	months := make([]string, 0, len(engine))
	for month := range engine {
		months = append(months, month)
	}
	sort.Strings(months)

	maxVariance := 0.0
	var failed []string

	for _, month := range months {
		baseValue, ok := baseline[month]
		if !ok {
			continue
		}
		engineValue := engine[month]

		var variance float64
		if math.Abs(baseValue) < absoluteFallbackThreshold {
			variance = math.Abs(engineValue - baseValue)
		} else {
			variance = math.Abs(engineValue-baseValue) / math.Abs(baseValue)
		}

		maxVariance = math.Max(maxVariance, variance)
		if variance > tolerance {
			failed = append(failed, fmt.Sprintf("%s (%.4f)", month, variance))
		}
	}

	result := CheckResult{
		Name:     "reconcile_" + metric,
		Passed:   len(failed) == 0,
		Variance: &maxVariance,
	}
	if !result.Passed {
		limit := len(failed)
		if limit > 3 {
			limit = 3
		}
		result.Message = fmt.Sprintf("failed months: %v", failed[:limit])
	}
	return result
}
