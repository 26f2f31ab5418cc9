package fra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func odishaChhattisgarh() []Record {
	return []Record{
		{State: "Odisha", Year: 2025, Month: "June", TotalClaimsReceived: 701000, TotalTitlesDistributed: 462000, TotalClaimsDisposedOff: 551000},
		{State: "Chhattisgarh", Year: 2025, Month: "June", TotalClaimsReceived: 890000, TotalTitlesDistributed: 481000, TotalClaimsDisposedOff: 606000},
	}
}

func TestAggregateTotals_OdishaChhattisgarh(t *testing.T) {
	totals := AggregateTotals(odishaChhattisgarh())

	assert.Equal(t, int64(1591000), totals.TotalClaimsReceived)
	assert.Equal(t, int64(943000), totals.TotalTitlesDistributed)
	assert.Equal(t, int64(1157000), totals.TotalDisposed)
	assert.InDelta(t, float64(1157000)/float64(1591000)*100, totals.DisposalRate, 1e-9)
	assert.InDelta(t, 72.72, totals.DisposalRate, 0.01)
	assert.Equal(t, 2, totals.StateCount)
}

func TestAggregateTotals_Empty(t *testing.T) {
	assert.Equal(t, Totals{}, AggregateTotals(nil))
	assert.Equal(t, Totals{}, AggregateTotals([]Record{}))
}

func TestAggregateTotals_ZeroClaimsGivesZeroRate(t *testing.T) {
	totals := AggregateTotals([]Record{{State: "Goa", TotalClaimsDisposedOff: 10}})
	assert.Equal(t, float64(0), totals.DisposalRate)
	assert.Equal(t, int64(10), totals.TotalDisposed)
}

func TestAggregateTotals_NegativeFieldsCountAsZero(t *testing.T) {
	recs := []Record{
		{State: "A", TotalClaimsReceived: -5, TotalTitlesDistributed: -1, AreaHaIFRTitlesDistributed: -3},
		{State: "B", TotalClaimsReceived: 10, TotalTitlesDistributed: 4, AreaHaIFRTitlesDistributed: 2, AreaHaCFRTitlesDistributed: 1.5},
	}
	totals := AggregateTotals(recs)
	assert.Equal(t, int64(10), totals.TotalClaimsReceived)
	assert.Equal(t, int64(4), totals.TotalTitlesDistributed)
	assert.InDelta(t, 3.5, totals.TotalForestLand, 1e-9)
}

func TestAggregateTotals_IgnoresReportedPercentage(t *testing.T) {
	recs := []Record{{State: "A", TotalClaimsReceived: 100, TotalClaimsDisposedOff: 50, PercentageClaimsDisposedOff: 99}}
	assert.InDelta(t, 50.0, AggregateTotals(recs).DisposalRate, 1e-9)
}

func TestAggregateTotals_StateCountIsExactMatch(t *testing.T) {
	recs := []Record{{State: "Odisha"}, {State: "odisha"}, {State: "Odisha"}}
	assert.Equal(t, 2, AggregateTotals(recs).StateCount)
}

func TestAggregateTotals_DoesNotModifyInput(t *testing.T) {
	recs := odishaChhattisgarh()
	before := append([]Record(nil), recs...)
	_ = AggregateTotals(recs)
	assert.Equal(t, before, recs)
}

func TestGroupByState(t *testing.T) {
	recs := []Record{
		{State: "Odisha", IndividualClaimsReceived: 10, IndividualTitlesDistributed: 5, CommunityClaimsReceived: 1},
		{State: "Goa", IndividualClaimsReceived: 3, IndividualTitlesDistributed: 1},
		{State: "Odisha", IndividualClaimsReceived: 7, IndividualTitlesDistributed: 2, CommunityClaimsReceived: 2},
	}

	tests := []struct {
		name string
		pair FieldPair
		want []StateGroup
	}{
		{"individual", IndividualPair, []StateGroup{{"Odisha", 17, 7}, {"Goa", 3, 1}}},
		{"community", CommunityPair, []StateGroup{{"Odisha", 3, 0}, {"Goa", 0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupByState(recs, tt.pair))
		})
	}
}

func TestGroupByState_SumsMatchInput(t *testing.T) {
	recs := SampleRecords(time.Now())
	groups := GroupByState(recs, TotalPair)
	require.Len(t, groups, AggregateTotals(recs).StateCount)

	var sum int64
	for _, g := range groups {
		sum += g.Claims
	}
	assert.Equal(t, AggregateTotals(recs).TotalClaimsReceived, sum)
}

func TestTopByClaims(t *testing.T) {
	groups := []StateGroup{
		{State: "A", Claims: 5},
		{State: "B", Claims: 9},
		{State: "C", Claims: 5},
		{State: "D", Claims: 1},
	}

	top := TopByClaims(groups, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{top[0].State, top[1].State, top[2].State})
	assert.Equal(t, "A", groups[0].State, "input must not be reordered")

	assert.Len(t, TopByClaims(groups, 0), 4)
	assert.Len(t, TopByClaims(groups, 10), 4)
}

func TestTopStates_LimitsToRankingSize(t *testing.T) {
	var recs []Record
	for _, s := range IndianStates()[:15] {
		recs = append(recs, Record{State: s.Name, TotalClaimsReceived: int64(len(s.Name))})
	}
	assert.Len(t, TopStates(recs, TotalPair), RankingSize)
}

func TestMonthlyTrend_Ordering(t *testing.T) {
	recs := []Record{
		{Year: 2025, Month: "March", TotalClaimsReceived: 1},
		{Year: 2024, Month: "December", TotalClaimsReceived: 2},
		{Year: 2025, Month: "Smarch", TotalClaimsReceived: 3},
		{Year: 2025, Month: "jan", TotalClaimsReceived: 4},
		{Year: 2025, Month: "march", TotalClaimsReceived: 5, TotalTitlesDistributed: 1},
	}

	points := MonthlyTrend(recs)
	require.Len(t, points, 4)

	assert.Equal(t, TrendPoint{Year: 2024, Month: "December", Claims: 2, Count: 1}, points[0])
	assert.Equal(t, TrendPoint{Year: 2025, Month: "January", Claims: 4, Count: 1}, points[1])
	assert.Equal(t, TrendPoint{Year: 2025, Month: "March", Claims: 6, Titles: 1, Count: 2}, points[2])
	assert.Equal(t, "Smarch", points[3].Month)
}

func TestMonthlyTrend_UnknownMonthsSortedByName(t *testing.T) {
	recs := []Record{{Year: 2025, Month: "Zeta"}, {Year: 2025, Month: "alpha"}, {Year: 2025, Month: "December"}}
	points := MonthlyTrend(recs)
	require.Len(t, points, 3)
	assert.Equal(t, []string{"December", "alpha", "Zeta"}, []string{points[0].Month, points[1].Month, points[2].Month})
}

func TestMonthlyTrend_AbbreviationsShareAPoint(t *testing.T) {
	recs := []Record{
		{Year: 2025, Month: "June", TotalClaimsReceived: 10},
		{Year: 2025, Month: "Jun", TotalClaimsReceived: 5, TotalTitlesDistributed: 2},
		{Year: 2025, Month: "SEPT", TotalClaimsReceived: 1},
		{Year: 2025, Month: "September", TotalClaimsReceived: 1},
	}

	points := MonthlyTrend(recs)
	require.Len(t, points, 2)
	assert.Equal(t, TrendPoint{Year: 2025, Month: "June", Claims: 15, Titles: 2, Count: 2}, points[0])
	assert.Equal(t, TrendPoint{Year: 2025, Month: "September", Claims: 2, Count: 2}, points[1])
}

func TestMonthlyTrend_Empty(t *testing.T) {
	assert.Empty(t, MonthlyTrend(nil))
}

func TestStatusBreakdown(t *testing.T) {
	recs := []Record{{State: "A", TotalClaimsReceived: 100, TotalTitlesDistributed: 60, ClaimsRejected: 10}}
	slices := StatusBreakdown(recs)
	require.Len(t, slices, 3)
	assert.Equal(t, "Titles Distributed", slices[0].Name)
	assert.InDelta(t, 60.0, slices[0].Percentage, 1e-9)
	assert.Equal(t, int64(10), slices[1].Value)
	assert.Equal(t, int64(30), slices[2].Value)
	assert.InDelta(t, 30.0, slices[2].Percentage, 1e-9)
}

func TestStatusBreakdown_PendingClampedAtZero(t *testing.T) {
	recs := []Record{{State: "A", TotalClaimsReceived: 10, TotalTitlesDistributed: 9, ClaimsRejected: 5}}
	assert.Equal(t, int64(0), StatusBreakdown(recs)[2].Value)
}

func TestStateGroup_Pending(t *testing.T) {
	assert.Equal(t, int64(409000), StateGroup{Claims: 890000, Titles: 481000}.Pending())
	assert.Equal(t, int64(0), StateGroup{Claims: 1, Titles: 2}.Pending())
}

func TestForestLandByState(t *testing.T) {
	recs := []Record{
		{State: "A", AreaHaIFRTitlesDistributed: 1, AreaHaCFRTitlesDistributed: 2},
		{State: "B", AreaHaIFRTitlesDistributed: 4},
		{State: "A", AreaHaIFRTitlesDistributed: 1, AreaHaCFRTitlesDistributed: -2},
	}
	assert.Equal(t, []ForestLandGroup{{State: "A", IFR: 2, CFR: 2}, {State: "B", IFR: 4}}, ForestLandByState(recs))
}

//Personal.AI order the ending
