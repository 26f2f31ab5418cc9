package fra

import (
	"sort"
	"strings"
)

// AvailableYears lists the distinct years present, newest first.
func AvailableYears(records []Record) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// AvailableMonths lists the distinct month names present in calendar order.
// Spellings of the same month collapse to the one seen first; unknown names
// come last.
func AvailableMonths(records []Record) []string {
	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, r := range records {
		if strings.TrimSpace(r.Month) == "" {
			continue
		}
		key := MonthKey(r.Month)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		months = append(months, strings.TrimSpace(r.Month))
	}
	sort.SliceStable(months, func(i, j int) bool {
		ai, bi := MonthIndex(months[i]), MonthIndex(months[j])
		if ai != bi {
			return ai < bi
		}
		return strings.ToLower(months[i]) < strings.ToLower(months[j])
	})
	return months
}

//Personal.AI order the ending
