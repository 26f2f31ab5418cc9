package fra

import (
	"regexp"
	"strconv"
	"strings"
)

// All is the wildcard filter value.
const All = "all"

var reWhitespaceRun = regexp.MustCompile(`\s+`)

// StateSlug lowercases s and replaces every run of whitespace with a single
// hyphen, so "Madhya   Pradesh" and "madhya-pradesh" compare equal.
func StateSlug(s string) string {
	return reWhitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}

// ─────────────────────────────────────────────────────────────────────────────
// FilterState
// ─────────────────────────────────────────────────────────────────────────────

// FilterState selects the visible subset of records.  It is a value type:
// the With* methods return modified copies and never touch the receiver.
// An empty field behaves exactly like "all".
type FilterState struct {
	State string `json:"state"`
	Year  string `json:"year"`
	Month string `json:"month"`
}

// AllRecords is the identity filter.
var AllRecords = FilterState{State: All, Year: All, Month: All}

// NewFilterState builds a FilterState, mapping empty values to "all".
func NewFilterState(state, year, month string) FilterState {
	return FilterState{State: orAll(state), Year: orAll(year), Month: orAll(month)}
}

// WithState returns a copy with State replaced.  Year and Month are untouched.
func (f FilterState) WithState(state string) FilterState {
	f.State = orAll(state)
	return f
}

// WithYear returns a copy with Year replaced.  Month is untouched; see
// ChangeYear for the dashboard's coupled behaviour.
func (f FilterState) WithYear(year string) FilterState {
	f.Year = orAll(year)
	return f
}

// WithMonth returns a copy with Month replaced.
func (f FilterState) WithMonth(month string) FilterState {
	f.Month = orAll(month)
	return f
}

// ChangeYear is the dashboard policy for the year selector: picking a concrete
// year also clears the month selection, while picking "all" keeps it.
func ChangeYear(current FilterState, year string) FilterState {
	next := current.WithYear(year)
	if !isAll(next.Year) {
		next.Month = All
	}
	return next
}

// IsIdentity reports whether f matches every record.
func (f FilterState) IsIdentity() bool {
	return isAll(f.State) && isAll(f.Year) && isAll(f.Month)
}

// Key is a stable, normalised representation used for cache keys.  Filters
// that select the same records produce the same key.
func (f FilterState) Key() string {
	state, year, month := All, All, All
	if !isAll(f.State) {
		state = StateSlug(f.State)
	}
	if !isAll(f.Year) {
		year = f.Year
	}
	if !isAll(f.Month) {
		month = MonthKey(f.Month)
	}
	return "state=" + state + "|year=" + year + "|month=" + month
}

// Matches applies the three predicates, ANDed.  Unknown filter values simply
// fail to match.
func (f FilterState) Matches(r Record) bool {
	if !isAll(f.State) && StateSlug(r.State) != StateSlug(f.State) {
		return false
	}
	if !isAll(f.Year) && strconv.Itoa(r.Year) != f.Year {
		return false
	}
	if !isAll(f.Month) && MonthKey(r.Month) != MonthKey(f.Month) {
		return false
	}
	return true
}

// Apply returns the records matched by f in their original order.  The input
// slice is never modified; an identity filter returns a copy of all records.
func Apply(records []Record, f FilterState) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// RecordsForState returns the records whose state slug equals slug.
func RecordsForState(records []Record, slug string) []Record {
	return Apply(records, AllRecords.WithState(slug))
}

func isAll(v string) bool {
	return v == "" || v == All
}

func orAll(v string) string {
	if v == "" {
		return All
	}
	return v
}

//Personal.AI order the ending
