package fra

import (
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Totals
// ─────────────────────────────────────────────────────────────────────────────

// Totals are the headline KPIs over a record list.
type Totals struct {
	TotalClaimsReceived    int64   `json:"totalClaimsReceived"`
	TotalTitlesDistributed int64   `json:"totalTitlesDistributed"`
	TotalForestLand        float64 `json:"totalForestLand"`
	TotalDisposed          int64   `json:"totalDisposed"`
	TotalRejected          int64   `json:"totalRejected"`

	// DisposalRate is TotalDisposed / TotalClaimsReceived * 100, and 0 when no
	// claims were received.  A zero rate therefore does not by itself mean
	// nothing was disposed; check TotalClaimsReceived.
	DisposalRate float64 `json:"disposalRate"`

	// StateCount counts distinct State strings by exact match.
	StateCount int `json:"stateCount"`
}

// AggregateTotals sums the headline counters over records.  Negative values
// count as zero and an empty input yields the zero Totals.
func AggregateTotals(records []Record) Totals {
	var t Totals
	states := make(map[string]struct{}, len(records))
	for i := range records {
		r := &records[i]
		t.TotalClaimsReceived += nonNeg(r.TotalClaimsReceived)
		t.TotalTitlesDistributed += nonNeg(r.TotalTitlesDistributed)
		t.TotalForestLand += r.ForestLand()
		t.TotalDisposed += nonNeg(r.TotalClaimsDisposedOff)
		t.TotalRejected += nonNeg(r.ClaimsRejected)
		states[r.State] = struct{}{}
	}
	t.DisposalRate = percentage(t.TotalDisposed, t.TotalClaimsReceived)
	t.StateCount = len(states)
	return t
}

func percentage(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// ─────────────────────────────────────────────────────────────────────────────
// Per-state grouping
// ─────────────────────────────────────────────────────────────────────────────

// FieldPair selects the claims and titles counters a grouping sums.
type FieldPair struct {
	Name   string
	Claims func(Record) int64
	Titles func(Record) int64
}

// Predefined selector pairs.
var (
	IndividualPair = FieldPair{
		Name:   "ifr",
		Claims: func(r Record) int64 { return r.IndividualClaimsReceived },
		Titles: func(r Record) int64 { return r.IndividualTitlesDistributed },
	}
	CommunityPair = FieldPair{
		Name:   "cfr",
		Claims: func(r Record) int64 { return r.CommunityClaimsReceived },
		Titles: func(r Record) int64 { return r.CommunityTitlesDistributed },
	}
	TotalPair = FieldPair{
		Name:   "total",
		Claims: func(r Record) int64 { return r.TotalClaimsReceived },
		Titles: func(r Record) int64 { return r.TotalTitlesDistributed },
	}
)

// StateGroup is one state's summed claims and titles.
type StateGroup struct {
	State  string `json:"state"`
	Claims int64  `json:"claims"`
	Titles int64  `json:"titles"`
}

// Pending is claims not yet matched by a title, never negative.
func (g StateGroup) Pending() int64 {
	return nonNeg(g.Claims - g.Titles)
}

// GroupByState sums pair's fields per distinct State string.  Groups are
// returned in the order each state first appears in records.
func GroupByState(records []Record, pair FieldPair) []StateGroup {
	index := make(map[string]int)
	groups := make([]StateGroup, 0)
	for _, r := range records {
		i, ok := index[r.State]
		if !ok {
			i = len(groups)
			index[r.State] = i
			groups = append(groups, StateGroup{State: r.State})
		}
		groups[i].Claims += nonNeg(pair.Claims(r))
		groups[i].Titles += nonNeg(pair.Titles(r))
	}
	return groups
}

// TopByClaims returns up to n groups ordered by claims descending.  The sort
// is stable so equal claims keep their grouping order.  n <= 0 keeps all.
func TopByClaims(groups []StateGroup, n int) []StateGroup {
	sorted := make([]StateGroup, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Claims > sorted[j].Claims
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RankingSize is the length of the dashboard's top-state rankings.
const RankingSize = 10

// TopStates groups records by pair and returns the top RankingSize states.
func TopStates(records []Record, pair FieldPair) []StateGroup {
	return TopByClaims(GroupByState(records, pair), RankingSize)
}

// ForestLandGroup is one state's IFR and CFR area in hectares.
type ForestLandGroup struct {
	State string  `json:"state"`
	IFR   float64 `json:"ifr"`
	CFR   float64 `json:"cfr"`
}

// ForestLandByState sums IFR and CFR areas per state in first-seen order.
func ForestLandByState(records []Record) []ForestLandGroup {
	index := make(map[string]int)
	groups := make([]ForestLandGroup, 0)
	for _, r := range records {
		i, ok := index[r.State]
		if !ok {
			i = len(groups)
			index[r.State] = i
			groups = append(groups, ForestLandGroup{State: r.State})
		}
		groups[i].IFR += nonNegFloat(r.AreaHaIFRTitlesDistributed)
		groups[i].CFR += nonNegFloat(r.AreaHaCFRTitlesDistributed)
	}
	return groups
}

// ─────────────────────────────────────────────────────────────────────────────
// Monthly trend
// ─────────────────────────────────────────────────────────────────────────────

// TrendPoint is the sum over all records of one (year, month).
type TrendPoint struct {
	Year   int    `json:"year"`
	Month  string `json:"month"`
	Claims int64  `json:"claims"`
	Titles int64  `json:"titles"`
	Count  int    `json:"count"`
}

type trendKey struct {
	year  int
	month string
}

// MonthlyTrend groups records by (year, month) and orders the result by year,
// then calendar month.  Abbreviations and case variants of a recognised month
// form one point, reported under the canonical name.  Unrecognised names sort after
// December, ordered among themselves by lowercase name.
func MonthlyTrend(records []Record) []TrendPoint {
	index := make(map[trendKey]int)
	points := make([]TrendPoint, 0)
	for _, r := range records {
		key := trendKey{year: r.Year, month: MonthKey(r.Month)}
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			month := strings.TrimSpace(r.Month)
			if IsKnownMonth(month) {
				month = CanonicalMonth(month)
			}
			points = append(points, TrendPoint{Year: r.Year, Month: month})
		}
		points[i].Claims += nonNeg(r.TotalClaimsReceived)
		points[i].Titles += nonNeg(r.TotalTitlesDistributed)
		points[i].Count++
	}

	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		ai, bi := MonthIndex(a.Month), MonthIndex(b.Month)
		if ai != bi {
			return ai < bi
		}
		return strings.ToLower(a.Month) < strings.ToLower(b.Month)
	})
	return points
}

// ─────────────────────────────────────────────────────────────────────────────
// Claim status breakdown
// ─────────────────────────────────────────────────────────────────────────────

// StatusSlice is one segment of the claims status breakdown.
type StatusSlice struct {
	Name       string  `json:"name"`
	Value      int64   `json:"value"`
	Percentage float64 `json:"percentage"`
}

// StatusBreakdown splits received claims into titles distributed, rejected
// and pending.  Pending is what remains and is clamped at zero; percentages
// are relative to claims received.
func StatusBreakdown(records []Record) []StatusSlice {
	t := AggregateTotals(records)
	pending := nonNeg(t.TotalClaimsReceived - t.TotalTitlesDistributed - t.TotalRejected)
	return []StatusSlice{
		{Name: "Titles Distributed", Value: t.TotalTitlesDistributed, Percentage: percentage(t.TotalTitlesDistributed, t.TotalClaimsReceived)},
		{Name: "Rejected Claims", Value: t.TotalRejected, Percentage: percentage(t.TotalRejected, t.TotalClaimsReceived)},
		{Name: "Pending Claims", Value: pending, Percentage: percentage(pending, t.TotalClaimsReceived)},
	}
}

//Personal.AI order the ending
