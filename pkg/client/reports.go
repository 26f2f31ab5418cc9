package client

import (
	"context"
	"mime"
	"net/http"
	"strconv"
)

// Report formats accepted by the server.
const (
	ReportXLSX      = "xlsx"
	ReportCSV       = "csv"
	ReportHTML      = "html"
	ReportTrendPNG  = "trend.png"
	ReportStatesPNG = "states.png"
)

// Report is a downloaded report file.
type Report struct {
	Content     []byte
	ContentType string
	FileName    string
	// Records is the number of records the report covers.
	Records int
	// Warnings counts the server's rendering warnings.
	Warnings int
}

// ReportsClient downloads rendered reports.
type ReportsClient struct {
	client *Client
}

// Download renders the records matching f in format.  title is used by the
// html format only and may be empty.
func (rc *ReportsClient) Download(ctx context.Context, format string, f Filter, title string) (*Report, error) {
	q := f.values()
	q.Set("format", format)
	if title != "" {
		q.Set("title", title)
	}
	resp, err := rc.client.send(ctx, request{method: http.MethodGet, path: "/reports", query: q, retry: true})
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Content:     resp.body,
		ContentType: resp.header.Get("Content-Type"),
	}
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		rep.FileName = params["filename"]
	}
	rep.Records, _ = strconv.Atoi(resp.header.Get("X-Report-Records"))
	rep.Warnings, _ = strconv.Atoi(resp.header.Get("X-Report-Warnings"))
	return rep, nil
}

//Personal.AI order the ending
