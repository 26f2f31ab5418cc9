package fra

import (
	"strconv"
	"strings"
	"time"
)

// unknownMonthIndex places unrecognised month names after December.
const unknownMonthIndex = 13

// monthTable maps lowercase month spellings to their calendar index.  Month
// ordering is always looked up here and never derived from date parsing.
var monthTable = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// MonthIndex returns the 1-based calendar index of month, or 13 when the name
// is not recognised.  Matching is case-insensitive.
func MonthIndex(month string) int {
	if idx, ok := monthTable[strings.ToLower(strings.TrimSpace(month))]; ok {
		return idx
	}
	return unknownMonthIndex
}

// MonthKey identifies a month for grouping and matching.  Every spelling of a
// recognised month ("Jun", "june", "JUNE") shares one key; an unrecognised
// name is keyed by its trimmed lowercase form.
func MonthKey(month string) string {
	if idx := MonthIndex(month); idx != unknownMonthIndex {
		return "m" + strconv.Itoa(idx)
	}
	return strings.ToLower(strings.TrimSpace(month))
}

// IsKnownMonth reports whether month is a recognised month spelling.
func IsKnownMonth(month string) bool {
	return MonthIndex(month) != unknownMonthIndex
}

// CanonicalMonth returns the English month name for a recognised spelling or a
// numeric month ("6", "06"); anything else is returned trimmed and unchanged.
func CanonicalMonth(month string) string {
	m := strings.TrimSpace(month)
	if n, err := strconv.Atoi(m); err == nil && n >= 1 && n <= 12 {
		return time.Month(n).String()
	}
	if idx := MonthIndex(m); idx != unknownMonthIndex {
		return time.Month(idx).String()
	}
	return m
}

//Personal.AI order the ending
