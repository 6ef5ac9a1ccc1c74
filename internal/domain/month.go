// Package domain defines the shared model vocabulary: calendar months,
// catalog entries, bill-of-materials structures, and the composite keys
// used by every engine's output maps.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Months are "YYYY-MM" strings. The format sorts lexicographically in
// chronological order, so month keys can be compared and sorted as plain
// strings throughout the engines.

// ParseMonth splits a "YYYY-MM" month identifier into year and month.
func ParseMonth(month string) (int, int, error) {
	parts := strings.Split(month, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month format: %s", month)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month format: %s", month)
	}
	mon, err := strconv.Atoi(parts[1])
	if err != nil || mon < 1 || mon > 12 {
		return 0, 0, fmt.Errorf("invalid month value: %s", month)
	}
	return year, mon, nil
}

// GenerateMonths returns the closed sequence of months from start to end
// inclusive. An empty slice is returned when start is after end.
func GenerateMonths(startMonth, endMonth string) ([]string, error) {
	year, mon, err := ParseMonth(startMonth)
	if err != nil {
		return nil, err
	}
	endYear, endMon, err := ParseMonth(endMonth)
	if err != nil {
		return nil, err
	}

	var months []string
	for year < endYear || (year == endYear && mon <= endMon) {
		months = append(months, fmt.Sprintf("%04d-%02d", year, mon))
		mon++
		if mon > 12 {
			mon = 1
			year++
		}
	}
	return months, nil
}

// MonthsElapsed returns the whole-month difference between two months.
// Negative when to precedes from. Malformed inputs count as zero elapsed.
func MonthsElapsed(from, to string) int {
	fromYear, fromMon, err := ParseMonth(from)
	if err != nil {
		return 0
	}
	toYear, toMon, err := ParseMonth(to)
	if err != nil {
		return 0
	}
	return (toYear-fromYear)*12 + (toMon - fromMon)
}

// YearOf extracts the "YYYY" year from a month identifier.
func YearOf(month string) string {
	if len(month) < 4 {
		return month
	}
	return month[:4]
}
