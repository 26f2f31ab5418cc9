package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Filter selects records by state, year and month.  Empty fields and "all"
// match everything.
type Filter struct {
	State string
	Year  string
	Month string
}

func (f Filter) values() url.Values {
	q := url.Values{}
	if f.State != "" {
		q.Set("state", f.State)
	}
	if f.Year != "" {
		q.Set("year", f.Year)
	}
	if f.Month != "" {
		q.Set("month", f.Month)
	}
	return q
}

// Record is one monthly progress row for one state.
type Record struct {
	ID    string `json:"id,omitempty"`
	Date  string `json:"date"`
	Year  int    `json:"year"`
	Month string `json:"month"`
	State string `json:"state"`

	IndividualClaimsReceived    int64 `json:"individualClaimsReceived"`
	CommunityClaimsReceived     int64 `json:"communityClaimsReceived"`
	TotalClaimsReceived         int64 `json:"totalClaimsReceived"`
	IndividualTitlesDistributed int64 `json:"individualTitlesDistributed"`
	CommunityTitlesDistributed  int64 `json:"communityTitlesDistributed"`
	TotalTitlesDistributed      int64 `json:"totalTitlesDistributed"`
	ClaimsRejected              int64 `json:"claimsRejected"`
	TotalClaimsDisposedOff      int64 `json:"totalClaimsDisposedOff"`

	PercentageClaimsDisposedOff float64 `json:"percentageClaimsDisposedOff"`
	AreaHaIFRTitlesDistributed  float64 `json:"areaHaIFRTitlesDistributed"`
	AreaHaCFRTitlesDistributed  float64 `json:"areaHaCFRTitlesDistributed"`

	UploadDate time.Time `json:"uploadDate"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
}

// Statistics are the headline totals of a filtered record set.
type Statistics struct {
	TotalClaimsReceived    int64   `json:"totalClaimsReceived"`
	TotalTitlesDistributed int64   `json:"totalTitlesDistributed"`
	TotalForestLand        float64 `json:"totalForestLand"`
	TotalDisposed          int64   `json:"totalDisposed"`
	TotalRejected          int64   `json:"totalRejected"`
	DisposalRate           float64 `json:"disposalRate"`
	ClaimsDisposalRate     float64 `json:"claimsDisposalRate"`
	StateCount             int     `json:"stateCount"`
}

// StateGroup is a per-state claims and titles sum.
type StateGroup struct {
	State  string `json:"state"`
	Claims int64  `json:"claims"`
	Titles int64  `json:"titles"`
}

// TrendPoint is one month of the claims and titles trend.
type TrendPoint struct {
	Year   int    `json:"year"`
	Month  string `json:"month"`
	Claims int64  `json:"claims"`
	Titles int64  `json:"titles"`
	Count  int    `json:"count"`
}

// StatusSlice is one segment of the claim status breakdown.
type StatusSlice struct {
	Name       string  `json:"name"`
	Value      int64   `json:"value"`
	Percentage float64 `json:"percentage"`
}

// StateProgress is one row of the per-state progress table.
type StateProgress struct {
	State       string `json:"state"`
	Received    int64  `json:"received"`
	Distributed int64  `json:"distributed"`
	Pending     int64  `json:"pending"`
}

// ForestLand is the IFR and CFR area titled in one state.
type ForestLand struct {
	State string  `json:"state"`
	IFR   float64 `json:"ifr"`
	CFR   float64 `json:"cfr"`
}

// MapMarker is a state's dashboard map bubble.
type MapMarker struct {
	State  string  `json:"state"`
	Slug   string  `json:"slug"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Color  string  `json:"color"`
	Claims int64   `json:"claims"`
	Titles int64   `json:"titles"`
	Radius float64 `json:"radius"`
}

// Overview is the full dashboard payload for one filter.
type Overview struct {
	Filter struct {
		State string `json:"state"`
		Year  string `json:"year"`
		Month string `json:"month"`
	} `json:"filter"`
	Totals          Statistics           `json:"totals"`
	TopIFRStates    []StateGroup         `json:"topIFRStates"`
	TopCFRStates    []StateGroup         `json:"topCFRStates"`
	MonthlyTrend    []TrendPoint         `json:"monthlyTrend"`
	StatusBreakdown []StatusSlice        `json:"statusBreakdown"`
	StateProgress   []StateProgress      `json:"stateProgress"`
	ForestLand      []ForestLand         `json:"forestLand"`
	MapData         map[string]MapMarker `json:"mapData"`
	AvailableYears  []int                `json:"availableYears"`
	AvailableMonths []string             `json:"availableMonths"`
	RecordCount     int                  `json:"recordCount"`
	Stale           bool                 `json:"stale"`
}

// State is a state or union territory known to the server.
type State struct {
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Lat   float64 `json:"lat,omitempty"`
	Lng   float64 `json:"lng,omitempty"`
	Color string  `json:"color,omitempty"`
}

// SavedRecord pairs a persisted state with its record ID.
type SavedRecord struct {
	State    string `json:"state"`
	RecordID string `json:"recordId"`
}

// ExtractResult is the reply to a synchronous PDF upload.
type ExtractResult struct {
	Success      bool          `json:"success"`
	RecordsCount int           `json:"recordsCount"`
	States       []string      `json:"states"`
	SavedRecords []SavedRecord `json:"savedRecords"`
	FailedStates []string      `json:"failedStates"`
	Message      string        `json:"message"`
	PageCount    int           `json:"pageCount,omitempty"`
	ArchiveKey   string        `json:"archiveKey,omitempty"`
}

// ExtractAccepted is the reply to a queued PDF upload.
type ExtractAccepted struct {
	Success   bool   `json:"success"`
	FileName  string `json:"fileName"`
	ObjectKey string `json:"objectKey"`
	JobID     string `json:"jobId"`
	Message   string `json:"message"`
}

// ---------------------------------------------------------------------------
// RecordsClient
// ---------------------------------------------------------------------------

// RecordsClient reads FRA records and uploads progress reports.
type RecordsClient struct {
	client *Client
}

// List returns the records matching f.
func (rc *RecordsClient) List(ctx context.Context, f Filter) ([]Record, error) {
	var out []Record
	if err := rc.client.getData(ctx, "/fra-data", f.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics returns the totals of the records matching f.
func (rc *RecordsClient) Statistics(ctx context.Context, f Filter) (*Statistics, error) {
	q := f.values()
	q.Set("action", "statistics")
	var out Statistics
	if err := rc.client.getData(ctx, "/fra-data", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Overview returns the dashboard for f.  With resetMonth a concrete year
// clears the month first, as the dashboard's year selector does.
func (rc *RecordsClient) Overview(ctx context.Context, f Filter, resetMonth bool) (*Overview, error) {
	q := f.values()
	if resetMonth {
		q.Set("resetMonth", "true")
	}
	var out Overview
	if err := rc.client.getData(ctx, "/fra-data/overview", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// States lists every state the server recognizes.
func (rc *RecordsClient) States(ctx context.Context) ([]State, error) {
	var out []State
	if err := rc.client.getData(ctx, "/states", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Extract uploads a progress report PDF and waits for the extracted rows to
// be saved.  The upload is never retried.
func (rc *RecordsClient) Extract(ctx context.Context, fileName string, pdf io.Reader) (*ExtractResult, error) {
	resp, err := rc.upload(ctx, fileName, pdf, false)
	if err != nil {
		return nil, err
	}
	var out ExtractResult
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &out, nil
}

// ExtractAsync queues a progress report for the background worker.  Servers
// without a queue process the file inline; the returned ExtractAccepted is
// then empty apart from Success and Message.
func (rc *RecordsClient) ExtractAsync(ctx context.Context, fileName string, pdf io.Reader) (*ExtractAccepted, error) {
	resp, err := rc.upload(ctx, fileName, pdf, true)
	if err != nil {
		return nil, err
	}
	var out ExtractAccepted
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &out, nil
}

func (rc *RecordsClient) upload(ctx context.Context, fileName string, pdf io.Reader, async bool) (*response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var q url.Values
	if async {
		q = url.Values{"async": {"true"}}
	}
	payload := buf.Bytes()
	return rc.client.send(ctx, request{
		method:      http.MethodPost,
		path:        "/extract-pdf-data",
		query:       q,
		contentType: mw.FormDataContentType(),
		newBody:     func() (io.Reader, error) { return bytes.NewReader(payload), nil },
	})
}

//Personal.AI order the ending
