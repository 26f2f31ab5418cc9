// Package reporting renders FRA record sets as downloadable reports:
// spreadsheets, CSV, charts and an HTML summary.
package reporting

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// Format is a report output format.
type Format string

const (
	FormatXLSX      Format = "xlsx"
	FormatCSV       Format = "csv"
	FormatHTML      Format = "html"
	FormatTrendPNG  Format = "trend.png"
	FormatStatesPNG Format = "states.png"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatHTML, FormatTrendPNG, FormatStatesPNG:
		return f, nil
	case "png", "trend":
		return FormatTrendPNG, nil
	case "states":
		return FormatStatesPNG, nil
	default:
		return "", errors.Newf(errors.ErrCodeValidation, "unsupported report format: %s", s)
	}
}

// ChartRenderTimeout bounds each chart in the HTML report.
const ChartRenderTimeout = 10 * time.Second

// RecordSource supplies the filtered record set.
type RecordSource interface {
	List(ctx context.Context, filter fra.FilterState) ([]fra.Record, error)
}

// Request selects what to render.
type Request struct {
	Filter fra.FilterState
	Format Format
	Title  string
}

// Report is a rendered document.
type Report struct {
	Content        []byte        `json:"-"`
	ContentType    string        `json:"contentType"`
	FileName       string        `json:"fileName"`
	Size           int64         `json:"size"`
	Records        int           `json:"records"`
	GeneratedAt    time.Time     `json:"generatedAt"`
	RenderDuration time.Duration `json:"renderDuration"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// Service renders reports.
type Service interface {
	Generate(ctx context.Context, req *Request) (*Report, error)
}

type serviceImpl struct {
	source RecordSource
	logger logging.Logger
	now    func() time.Time
}

// NewService creates a new reporting Service.
func NewService(source RecordSource, log logging.Logger) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &serviceImpl{source: source, logger: log, now: time.Now}
}

func (s *serviceImpl) Generate(ctx context.Context, req *Request) (*Report, error) {
	if req == nil || req.Format == "" {
		return nil, errors.New(errors.ErrCodeValidation, "report format is required")
	}
	start := time.Now()

	records, err := s.source.List(ctx, req.Filter)
	if err != nil {
		return nil, err
	}

	rep := &Report{Records: len(records), GeneratedAt: s.now().UTC()}
	switch req.Format {
	case FormatXLSX:
		rep.Content, err = RecordsXLSX(records, req.Filter)
		rep.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		var buf bytes.Buffer
		err = WriteRecordsCSV(&buf, records)
		rep.Content = buf.Bytes()
		rep.ContentType = "text/csv"
	case FormatTrendPNG:
		rep.Content, err = TrendChartPNG(fra.MonthlyTrend(records), DefaultChartSize)
		rep.ContentType = "image/png"
	case FormatStatesPNG:
		rep.Content, err = StateBarChartPNG("Top states by claims", fra.TopStates(records, fra.TotalPair), DefaultChartSize)
		rep.ContentType = "image/png"
	case FormatHTML:
		rep.Content, rep.Warnings, err = s.renderHTML(ctx, req, records)
		rep.ContentType = "text/html; charset=utf-8"
	default:
		return nil, errors.Newf(errors.ErrCodeValidation, "unsupported report format: %s", req.Format)
	}
	if err != nil {
		return nil, err
	}

	rep.Size = int64(len(rep.Content))
	rep.FileName = fileName(req.Filter, req.Format, rep.GeneratedAt)
	rep.RenderDuration = time.Since(start)
	s.logger.Info("report generated",
		logging.String("format", string(req.Format)),
		logging.String("filter", req.Filter.Key()),
		logging.Int("records", rep.Records),
		logging.Int64("bytes", rep.Size),
		logging.Duration("elapsed", rep.RenderDuration))
	return rep, nil
}

// renderHTML draws both charts concurrently.  A chart that fails is left out
// and reported as a warning.
func (s *serviceImpl) renderHTML(ctx context.Context, req *Request, records []fra.Record) ([]byte, []string, error) {
	title := req.Title
	if title == "" {
		title = "FRA Progress Report"
	}
	d := &summaryData{
		Title:       title,
		Filter:      req.Filter,
		GeneratedAt: s.now(),
		Totals:      fra.AggregateTotals(records),
		TopStates:   fra.TopStates(records, fra.TotalPair),
		Trend:       fra.MonthlyTrend(records),
		Status:      fra.StatusBreakdown(records),
	}

	var mu sync.Mutex
	warn := func(format string, args ...interface{}) {
		mu.Lock()
		d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	charts := []struct {
		name   string
		render func() ([]byte, error)
		dst    *[]byte
	}{
		{"trend", func() ([]byte, error) { return TrendChartPNG(d.Trend, DefaultChartSize) }, new([]byte)},
		{"states", func() ([]byte, error) { return StateBarChartPNG("Top states by claims", d.TopStates, DefaultChartSize) }, new([]byte)},
	}
	for i := range charts {
		c := charts[i]
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, ChartRenderTimeout)
			defer cancel()
			png, err := renderWithContext(cctx, c.render)
			if err != nil {
				s.logger.Warn("chart render failed", logging.String("chart", c.name), logging.Err(err))
				warn("%s chart unavailable", c.name)
				return nil
			}
			*c.dst = png
			return nil
		})
	}
	_ = g.Wait()

	d.TrendChart = pngDataURL(*charts[0].dst)
	d.StateChart = pngDataURL(*charts[1].dst)

	out, err := renderSummaryHTML(d)
	return out, d.Warnings, err
}

func renderWithContext(ctx context.Context, render func() ([]byte, error)) ([]byte, error) {
	type result struct {
		png []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		png, err := render()
		ch <- result{png, err}
	}()
	select {
	case r := <-ch:
		return r.png, r.err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "chart render timed out")
	}
}

func fileName(f fra.FilterState, format Format, at time.Time) string {
	parts := []string{"fra-report"}
	for _, v := range []string{f.State, f.Year, f.Month} {
		if v != "" && v != fra.All {
			parts = append(parts, fra.StateSlug(v))
		}
	}
	parts = append(parts, at.Format("20060102-150405"))

	ext := string(format)
	return strings.Join(parts, "_") + "." + ext
}

//Personal.AI order the ending
