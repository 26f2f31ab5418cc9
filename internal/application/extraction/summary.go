package extraction

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

var summaryHeaders = []string{"File", "Status", "Records", "States", "Failed States", "Error"}

func summaryRow(r JobResult) []string {
	return []string{
		r.FileName,
		string(r.Status),
		strconv.Itoa(r.RecordsCount),
		strings.Join(r.States, "; "),
		strings.Join(r.FailedStates, "; "),
		r.Error,
	}
}

// WriteSummaryCSV writes a commented header block followed by one CSV row
// per queued file.
func WriteSummaryCSV(w io.Writer, results []JobResult, now time.Time) error {
	total := 0
	for _, r := range results {
		total += r.RecordsCount
	}
	if _, err := fmt.Fprintf(w, "# FRA Data Extraction Summary\n# Files: %d\n# Total States: %d\n# Extraction Date: %s\n\n",
		len(results), total, now.UTC().Format(time.RFC3339)); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "write summary header")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeaders); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "write summary")
	}
	for _, r := range results {
		if err := cw.Write(summaryRow(r)); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "write summary")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "write summary")
	}
	return nil
}

const summarySheet = "Extraction"

// SummaryXLSX renders the queue results as a one-sheet workbook.
func SummaryXLSX(results []JobResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "xlsx sheet")
	}
	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(summarySheet, cell, h)
	}
	for row, r := range results {
		for col, v := range summaryRow(r) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if col == 2 {
				_ = f.SetCellValue(summarySheet, cell, r.RecordsCount)
				continue
			}
			_ = f.SetCellValue(summarySheet, cell, v)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 32)
	_ = f.SetColWidth(summarySheet, "D", "E", 48)
	_ = f.SetColWidth(summarySheet, "F", "F", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "xlsx write")
	}
	return buf.Bytes(), nil
}

//Personal.AI order the ending
