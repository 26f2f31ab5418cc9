package fra

import "time"

// SampleFileName marks records that came from the built-in sample set.
const SampleFileName = "sample-data"

// SampleRecords returns the demonstration data set: five states reported in
// May and June 2025.  Upload dates are staggered by a minute so the newest
// first ordering is deterministic.
func SampleRecords(now time.Time) []Record {
	base := now.UTC()
	recs := []Record{
		{
			Date: "01.06.2025", Year: 2025, Month: "June", State: "Chhattisgarh",
			IndividualClaimsReceived: 45000, CommunityClaimsReceived: 845000, TotalClaimsReceived: 890000,
			IndividualTitlesDistributed: 28000, CommunityTitlesDistributed: 453000, TotalTitlesDistributed: 481000,
			ClaimsRejected: 125000, TotalClaimsDisposedOff: 606000, PercentageClaimsDisposedOff: 68.1,
			AreaHaIFRTitlesDistributed: 3200000, AreaHaCFRTitlesDistributed: 9103000,
		},
		{
			Date: "01.06.2025", Year: 2025, Month: "June", State: "Odisha",
			IndividualClaimsReceived: 38000, CommunityClaimsReceived: 663000, TotalClaimsReceived: 701000,
			IndividualTitlesDistributed: 25000, CommunityTitlesDistributed: 437000, TotalTitlesDistributed: 462000,
			ClaimsRejected: 89000, TotalClaimsDisposedOff: 551000, PercentageClaimsDisposedOff: 78.6,
			AreaHaIFRTitlesDistributed: 2800000, AreaHaCFRTitlesDistributed: 743000,
		},
		{
			Date: "01.06.2025", Year: 2025, Month: "June", State: "Telangana",
			IndividualClaimsReceived: 32000, CommunityClaimsReceived: 620000, TotalClaimsReceived: 652000,
			IndividualTitlesDistributed: 15000, CommunityTitlesDistributed: 216000, TotalTitlesDistributed: 231000,
			ClaimsRejected: 156000, TotalClaimsDisposedOff: 387000, PercentageClaimsDisposedOff: 59.4,
			AreaHaIFRTitlesDistributed: 1800000, AreaHaCFRTitlesDistributed: 580000,
		},
		{
			Date: "01.05.2025", Year: 2025, Month: "May", State: "Madhya Pradesh",
			IndividualClaimsReceived: 28000, CommunityClaimsReceived: 392000, TotalClaimsReceived: 420000,
			IndividualTitlesDistributed: 18000, CommunityTitlesDistributed: 262000, TotalTitlesDistributed: 280000,
			ClaimsRejected: 78000, TotalClaimsDisposedOff: 358000, PercentageClaimsDisposedOff: 85.2,
			AreaHaIFRTitlesDistributed: 2100000, AreaHaCFRTitlesDistributed: 1464000,
		},
		{
			Date: "01.05.2025", Year: 2025, Month: "May", State: "Jharkhand",
			IndividualClaimsReceived: 22000, CommunityClaimsReceived: 358000, TotalClaimsReceived: 380000,
			IndividualTitlesDistributed: 12000, CommunityTitlesDistributed: 178000, TotalTitlesDistributed: 190000,
			ClaimsRejected: 95000, TotalClaimsDisposedOff: 285000, PercentageClaimsDisposedOff: 75.0,
			AreaHaIFRTitlesDistributed: 1500000, AreaHaCFRTitlesDistributed: 425000,
		},
	}
	for i := range recs {
		recs[i].UploadDate = base.Add(-time.Duration(i) * time.Minute)
		recs[i].FileName = SampleFileName
	}
	return recs
}

// DefaultFilter is the dashboard's initial selection: every state and month
// of the sample year.
var DefaultFilter = FilterState{State: All, Year: "2025", Month: All}

//Personal.AI order the ending
