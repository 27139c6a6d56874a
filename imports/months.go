package imports

import (
	"strconv"
	"strings"
)

var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var monthNamesByPrefix = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeMonthLabel maps a header cell to a canonical MMM label.
// Accepts month names ("January", "apr"), MMM labels, and bare month
// numbers ("4", "04").
func NormalizeMonthLabel(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return monthLabels[n-1], true
		}
		return "", false
	}

	if len(s) >= 3 {
		if n, ok := monthNamesByPrefix[s[:3]]; ok {
			// reject things like "mayhem"; full month names and MMM only
			if isMonthName(s, n) {
				return monthLabels[n-1], true
			}
		}
	}
	return "", false
}

var fullMonthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

func isMonthName(s string, n int) bool {
	return s == strings.ToLower(monthLabels[n-1]) || s == fullMonthNames[n-1]
}

// MonthNumber returns 1-12 for a canonical MMM label, 0 otherwise.
func MonthNumber(label string) int {
	for i, l := range monthLabels {
		if l == label {
			return i + 1
		}
	}
	return 0
}
