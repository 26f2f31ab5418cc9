// Package fra implements the Forest Rights Act record model together with the
// pure filtering and aggregation functions that every dashboard view, report
// and export is derived from.  Nothing in this package performs I/O; the
// Record slice handed in is never modified.
package fra

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

// DateLayout is the Go layout of the DD.MM.YYYY report date.
const DateLayout = "02.01.2006"

var reReportDate = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// ─────────────────────────────────────────────────────────────────────────────
// Record
// ─────────────────────────────────────────────────────────────────────────────

// Record is one state's FRA statistics for one reporting month and year.
// JSON names match the wire format used by the dashboard and the API.
type Record struct {
	// ID is assigned by the store on creation and empty before persistence.
	ID string `json:"id,omitempty"`

	// Date is the report date in DD.MM.YYYY form.
	Date  string `json:"date"`
	Year  int    `json:"year"`
	Month string `json:"month"`

	// State is the proper-case state name.  Never the aggregate TOTAL row.
	State string `json:"state"`

	IndividualClaimsReceived    int64 `json:"individualClaimsReceived"`
	CommunityClaimsReceived     int64 `json:"communityClaimsReceived"`
	TotalClaimsReceived         int64 `json:"totalClaimsReceived"`
	IndividualTitlesDistributed int64 `json:"individualTitlesDistributed"`
	CommunityTitlesDistributed  int64 `json:"communityTitlesDistributed"`
	TotalTitlesDistributed      int64 `json:"totalTitlesDistributed"`

	ClaimsRejected         int64 `json:"claimsRejected"`
	TotalClaimsDisposedOff int64 `json:"totalClaimsDisposedOff"`

	// PercentageClaimsDisposedOff is carried as reported and never used for
	// computation; the disposal rate is always derived from the counters.
	PercentageClaimsDisposedOff float64 `json:"percentageClaimsDisposedOff"`

	AreaHaIFRTitlesDistributed float64 `json:"areaHaIFRTitlesDistributed"`
	AreaHaCFRTitlesDistributed float64 `json:"areaHaCFRTitlesDistributed"`

	UploadDate time.Time `json:"uploadDate"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
}

// IsAggregateRow reports whether state names the TOTAL row of a source table.
func IsAggregateRow(state string) bool {
	return strings.Contains(strings.ToUpper(state), "TOTAL")
}

// Validate checks the hard invariants a record must satisfy before it is
// persisted.  The first violation is returned as an ErrCodeRecordInvalid error.
func (r *Record) Validate() error {
	switch {
	case strings.TrimSpace(r.State) == "":
		return errors.New(errors.ErrCodeRecordInvalid, "state must not be empty")
	case IsAggregateRow(r.State):
		return errors.New(errors.ErrCodeRecordInvalid, "aggregate TOTAL row cannot be stored").WithDetail(r.State)
	case r.Year < 1900 || r.Year > 9999:
		return errors.Newf(errors.ErrCodeRecordInvalid, "year %d is out of range", r.Year)
	case strings.TrimSpace(r.Month) == "":
		return errors.New(errors.ErrCodeRecordInvalid, "month must not be empty")
	case !reReportDate.MatchString(r.Date):
		return errors.New(errors.ErrCodeRecordInvalid, "date must be in DD.MM.YYYY format").WithDetail(r.Date)
	}

	counters := []struct {
		name string
		val  int64
	}{
		{"individualClaimsReceived", r.IndividualClaimsReceived},
		{"communityClaimsReceived", r.CommunityClaimsReceived},
		{"totalClaimsReceived", r.TotalClaimsReceived},
		{"individualTitlesDistributed", r.IndividualTitlesDistributed},
		{"communityTitlesDistributed", r.CommunityTitlesDistributed},
		{"totalTitlesDistributed", r.TotalTitlesDistributed},
		{"claimsRejected", r.ClaimsRejected},
		{"totalClaimsDisposedOff", r.TotalClaimsDisposedOff},
	}
	for _, c := range counters {
		if c.val < 0 {
			return errors.Newf(errors.ErrCodeRecordInvalid, "%s must not be negative", c.name)
		}
	}
	if r.AreaHaIFRTitlesDistributed < 0 || r.AreaHaCFRTitlesDistributed < 0 {
		return errors.New(errors.ErrCodeRecordInvalid, "forest land area must not be negative")
	}
	return nil
}

// Inconsistencies lists the soft invariants the record breaks.  Upstream
// extraction does not guarantee them, so they are reported and never enforced.
func (r *Record) Inconsistencies() []string {
	var out []string
	if r.IndividualClaimsReceived+r.CommunityClaimsReceived != r.TotalClaimsReceived {
		out = append(out, fmt.Sprintf("claims: %d + %d != %d",
			r.IndividualClaimsReceived, r.CommunityClaimsReceived, r.TotalClaimsReceived))
	}
	if r.IndividualTitlesDistributed+r.CommunityTitlesDistributed != r.TotalTitlesDistributed {
		out = append(out, fmt.Sprintf("titles: %d + %d != %d",
			r.IndividualTitlesDistributed, r.CommunityTitlesDistributed, r.TotalTitlesDistributed))
	}
	if r.TotalClaimsDisposedOff > r.TotalClaimsReceived {
		out = append(out, fmt.Sprintf("disposed %d exceeds received %d",
			r.TotalClaimsDisposedOff, r.TotalClaimsReceived))
	}
	return out
}

// ForestLand is the combined IFR and CFR area in hectares, negatives as 0.
func (r *Record) ForestLand() float64 {
	return nonNegFloat(r.AreaHaIFRTitlesDistributed) + nonNegFloat(r.AreaHaCFRTitlesDistributed)
}

// StateSlug is the record's state in filter-key form.
func (r *Record) StateSlug() string {
	return StateSlug(r.State)
}

// FormatReportDate renders t as DD.MM.YYYY.
func FormatReportDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseReportDate accepts DD.MM.YYYY and the common D/M/YYYY, D-M-YYYY and
// D.M.YYYY spellings found in report headers.
func ParseReportDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.NewReplacer("/", ".", "-", ".").Replace(s)
	for _, layout := range []string{DateLayout, "2.1.2006", "02.1.2006", "2.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func nonNeg(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func nonNegFloat(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}

//Personal.AI order the ending
