package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

type staticSource struct {
	records []fra.Record
	err     error
}

func (s staticSource) List(_ context.Context, f fra.FilterState) ([]fra.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return fra.Apply(s.records, f), nil
}

func samples() []fra.Record {
	return fra.SampleRecords(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
}

func newTestService(src RecordSource) *serviceImpl {
	s := NewService(src, nil).(*serviceImpl)
	s.now = func() time.Time { return time.Date(2025, 7, 2, 10, 30, 0, 0, time.UTC) }
	return s
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"xlsx": FormatXLSX, "CSV": FormatCSV, " html ": FormatHTML,
		"png": FormatTrendPNG, "trend.png": FormatTrendPNG, "states": FormatStatesPNG,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("docx")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestGenerate_XLSX(t *testing.T) {
	rep, err := newTestService(staticSource{records: samples()}).Generate(context.Background(),
		&Request{Filter: fra.NewFilterState("all", "2025", "June"), Format: FormatXLSX})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Records)
	assert.Equal(t, "fra-report_2025_june_20250702-103000.xlsx", rep.FileName)
	assert.Equal(t, int64(len(rep.Content)), rep.Size)

	f, err := excelize.OpenReader(bytes.NewReader(rep.Content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetStates, SheetRecords}, f.GetSheetList())

	claims, err := f.GetCellValue(SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "2243000", claims)

	rows, err := f.GetRows(SheetStates)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Chhattisgarh", rows[1][0], "ordered by claims")

	recs, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	assert.Len(t, recs, 4)
	assert.Equal(t, RecordHeaders[0], recs[0][0])
}

func TestGenerate_CSV(t *testing.T) {
	rep, err := newTestService(staticSource{records: samples()}).Generate(context.Background(),
		&Request{Filter: fra.NewFilterState("odisha", "", ""), Format: FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", rep.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(rep.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, RecordHeaders, rows[0])
	assert.Equal(t, []string{"01.06.2025", "2025", "June", "Odisha"}, rows[1][:4])
	assert.Equal(t, "701000", rows[1][6])
	assert.Equal(t, "78.6", rows[1][12])
}

func TestGenerate_TrendPNG(t *testing.T) {
	rep, err := newTestService(staticSource{records: samples()}).Generate(context.Background(),
		&Request{Filter: fra.AllRecords, Format: FormatTrendPNG})
	require.NoError(t, err)
	assert.Equal(t, "image/png", rep.ContentType)

	img, err := png.Decode(bytes.NewReader(rep.Content))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

func TestGenerate_EmptyChart(t *testing.T) {
	_, err := newTestService(staticSource{}).Generate(context.Background(),
		&Request{Filter: fra.AllRecords, Format: FormatStatesPNG})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestGenerate_HTML(t *testing.T) {
	rep, err := newTestService(staticSource{records: samples()}).Generate(context.Background(),
		&Request{Filter: fra.AllRecords, Format: FormatHTML, Title: "Tribal <Affairs> Review"})
	require.NoError(t, err)
	assert.Empty(t, rep.Warnings)

	html := string(rep.Content)
	assert.Contains(t, html, "Tribal &lt;Affairs&gt; Review")
	assert.Contains(t, html, "3,043,000")
	assert.Contains(t, html, `src="data:image/png;base64,`)
	assert.Contains(t, html, "<td>Chhattisgarh</td>")
}

func TestGenerate_HTMLWithoutData(t *testing.T) {
	rep, err := newTestService(staticSource{}).Generate(context.Background(),
		&Request{Filter: fra.AllRecords, Format: FormatHTML})
	require.NoError(t, err)
	assert.Len(t, rep.Warnings, 2)
	assert.NotContains(t, string(rep.Content), "data:image/png")
	assert.Contains(t, string(rep.Content), "FRA Progress Report")
}

func TestGenerate_Errors(t *testing.T) {
	svc := newTestService(staticSource{err: errors.New(errors.ErrCodeServiceUnavailable, "down")})
	_, err := svc.Generate(context.Background(), &Request{Format: FormatCSV})
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))

	_, err = svc.Generate(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = newTestService(staticSource{}).Generate(context.Background(), &Request{Format: "docx"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "1.6M", FormatCompact(1591000))
	assert.Equal(t, "450K", FormatCompact(450000))
	assert.Equal(t, "12", FormatCompact(12))
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "1,591,000", groupDigits("1591000"))
	assert.Equal(t, "-12,345.50", groupDigits("-12345.50"))
	assert.Equal(t, "999", groupDigits("999"))
}

func TestShortMonth(t *testing.T) {
	assert.Equal(t, "Jun", shortMonth("june"))
	assert.Equal(t, "Sep", shortMonth("9"))
	assert.Equal(t, "Monsoon", shortMonth("Monsoon"))
	assert.True(t, strings.HasPrefix(shortMonth("May"), "May"))
}

//Personal.AI order the ending
