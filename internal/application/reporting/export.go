package reporting

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// RecordHeaders are the column titles of a record export.
var RecordHeaders = []string{
	"Date", "Year", "Month", "State",
	"Individual Claims Received", "Community Claims Received", "Total Claims Received",
	"Individual Titles Distributed", "Community Titles Distributed", "Total Titles Distributed",
	"Claims Rejected", "Total Claims Disposed Off", "Percentage Claims Disposed Off",
	"Area Ha IFR Titles Distributed", "Area Ha CFR Titles Distributed",
}

func recordValues(r fra.Record) []interface{} {
	return []interface{}{
		r.Date, r.Year, r.Month, r.State,
		r.IndividualClaimsReceived, r.CommunityClaimsReceived, r.TotalClaimsReceived,
		r.IndividualTitlesDistributed, r.CommunityTitlesDistributed, r.TotalTitlesDistributed,
		r.ClaimsRejected, r.TotalClaimsDisposedOff, r.PercentageClaimsDisposedOff,
		r.AreaHaIFRTitlesDistributed, r.AreaHaCFRTitlesDistributed,
	}
}

// WriteRecordsCSV writes one row per record under RecordHeaders.
func WriteRecordsCSV(w io.Writer, records []fra.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordHeaders); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "write csv")
	}
	row := make([]string, len(RecordHeaders))
	for _, r := range records {
		for i, v := range recordValues(r) {
			row[i] = cellString(v)
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "write csv")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "write csv")
	}
	return nil
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// Sheet names of the records workbook.
const (
	SheetSummary = "Summary"
	SheetStates  = "States"
	SheetRecords = "Records"
)

// RecordsXLSX renders a workbook with a KPI summary, per-state totals and
// the raw records.  All sums come from the fra aggregation functions.
func RecordsXLSX(records []fra.Record, filter fra.FilterState) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "xlsx sheet")
	}
	for _, name := range []string{SheetStates, SheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "xlsx sheet")
		}
	}

	t := fra.AggregateTotals(records)
	summary := [][]interface{}{
		{"Filter", filter.Key()},
		{"Records", len(records)},
		{"States", t.StateCount},
		{"Total Claims Received", t.TotalClaimsReceived},
		{"Total Titles Distributed", t.TotalTitlesDistributed},
		{"Total Claims Disposed", t.TotalDisposed},
		{"Total Claims Rejected", t.TotalRejected},
		{"Disposal Rate (%)", round2(t.DisposalRate)},
		{"Total Forest Land (ha)", t.TotalForestLand},
	}
	for i, row := range summary {
		writeRow(f, SheetSummary, i+1, row)
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 28)
	_ = f.SetColWidth(SheetSummary, "B", "B", 40)

	writeRow(f, SheetStates, 1, []interface{}{"State", "Claims Received", "Titles Distributed", "Pending", "IFR Area (ha)", "CFR Area (ha)"})
	land := fra.ForestLandByState(records)
	landIdx := make(map[string]fra.ForestLandGroup, len(land))
	for _, l := range land {
		landIdx[l.State] = l
	}
	for i, g := range fra.TopByClaims(fra.GroupByState(records, fra.TotalPair), 0) {
		l := landIdx[g.State]
		writeRow(f, SheetStates, i+2, []interface{}{g.State, g.Claims, g.Titles, g.Pending(), l.IFR, l.CFR})
	}
	_ = f.SetColWidth(SheetStates, "A", "A", 24)
	_ = f.SetColWidth(SheetStates, "B", "F", 18)

	headers := make([]interface{}, len(RecordHeaders))
	for i, h := range RecordHeaders {
		headers[i] = h
	}
	writeRow(f, SheetRecords, 1, headers)
	for i, r := range records {
		writeRow(f, SheetRecords, i+2, recordValues(r))
	}
	_ = f.SetColWidth(SheetRecords, "D", "D", 24)
	_ = f.SetColWidth(SheetRecords, "E", "O", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "xlsx write")
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

//Personal.AI order the ending
