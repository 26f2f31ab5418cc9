package fraextract

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
)

// ReportInfo is the document header the model found, all fields optional.
type ReportInfo struct {
	Date  *string      `json:"date"`
	Year  *float64     `json:"year"`
	Month *monthString `json:"month"`
}

// StateRow is one table row as returned by the model.  Nil means the cell was
// NA, NR or otherwise not reported.
type StateRow struct {
	State                       string   `json:"state"`
	IndividualClaimsReceived    *float64 `json:"individualClaimsReceived"`
	CommunityClaimsReceived     *float64 `json:"communityClaimsReceived"`
	TotalClaimsReceived         *float64 `json:"totalClaimsReceived"`
	IndividualTitlesDistributed *float64 `json:"individualTitlesDistributed"`
	CommunityTitlesDistributed  *float64 `json:"communityTitlesDistributed"`
	TotalTitlesDistributed      *float64 `json:"totalTitlesDistributed"`
	AreaHaIndividual            *float64 `json:"areaHaIndividual"`
	AreaHaCommunity             *float64 `json:"areaHaCommunity"`
	AreaHaTotal                 *float64 `json:"areaHaTotal"`
}

// Response is the decoded model output.
type Response struct {
	ReportInfo *ReportInfo `json:"reportInfo"`
	StatesData []StateRow  `json:"statesData"`
}

// monthString accepts either a JSON string or a number for the month.
type monthString string

func (m *monthString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = monthString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*m = monthString(strconv.Itoa(int(n)))
	return nil
}

// DecodeResponse validates raw against the extraction schema and decodes it.
func DecodeResponse(raw []byte) (*Response, error) {
	if err := ValidateResponse(raw); err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Source describes the uploaded document the records were extracted from.
type Source struct {
	FileName string
	FileSize int64
	Now      time.Time
}

// ReportDefaults resolves the date, year and month applied to every record of
// a report.  Missing values come from the report date when it parses, then
// from now.  Month numbers are turned into month names.
func ReportDefaults(info *ReportInfo, now time.Time) (date string, year int, month string) {
	var parsed time.Time
	var hasDate bool
	if info != nil && info.Date != nil {
		parsed, hasDate = fra.ParseReportDate(*info.Date)
	}

	switch {
	case hasDate:
		date = fra.FormatReportDate(parsed)
	default:
		date = fra.FormatReportDate(now)
	}

	switch {
	case info != nil && info.Year != nil && *info.Year >= 1900:
		year = int(*info.Year)
	case hasDate:
		year = parsed.Year()
	default:
		year = now.Year()
	}

	switch {
	case info != nil && info.Month != nil && strings.TrimSpace(string(*info.Month)) != "":
		month = fra.CanonicalMonth(string(*info.Month))
	case hasDate:
		month = parsed.Month().String()
	default:
		month = now.Month().String()
	}
	return date, year, month
}

// Normalize converts the model output into records.  Rows with an empty state
// or a TOTAL state are dropped, nulls become zero, and the fields a state-wise
// table does not carry (rejected, disposed, percentage) are zero.  Counts are
// rounded to whole numbers; negative values are clamped to zero.
func Normalize(resp *Response, src Source) []fra.Record {
	if resp == nil {
		return nil
	}
	now := src.Now
	if now.IsZero() {
		now = time.Now()
	}
	date, year, month := ReportDefaults(resp.ReportInfo, now)

	records := make([]fra.Record, 0, len(resp.StatesData))
	for _, row := range resp.StatesData {
		state := strings.TrimSpace(row.State)
		if state == "" || fra.IsAggregateRow(state) {
			continue
		}
		records = append(records, fra.Record{
			Date:                        date,
			Year:                        year,
			Month:                       month,
			State:                       fra.CanonicalStateName(state),
			IndividualClaimsReceived:    count(row.IndividualClaimsReceived),
			CommunityClaimsReceived:     count(row.CommunityClaimsReceived),
			TotalClaimsReceived:         count(row.TotalClaimsReceived),
			IndividualTitlesDistributed: count(row.IndividualTitlesDistributed),
			CommunityTitlesDistributed:  count(row.CommunityTitlesDistributed),
			TotalTitlesDistributed:      count(row.TotalTitlesDistributed),
			AreaHaIFRTitlesDistributed:  area(row.AreaHaIndividual),
			AreaHaCFRTitlesDistributed:  area(row.AreaHaCommunity),
			UploadDate:                  now.UTC(),
			FileName:                    src.FileName,
			FileSize:                    src.FileSize,
		})
	}
	return records
}

func count(v *float64) int64 {
	if v == nil || math.IsNaN(*v) || *v < 0 {
		return 0
	}
	return int64(math.Round(*v))
}

func area(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || *v < 0 {
		return 0
	}
	return *v
}

//Personal.AI order the ending
