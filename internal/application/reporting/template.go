package reporting

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// summaryData binds the HTML summary template.
type summaryData struct {
	Title       string
	Filter      fra.FilterState
	GeneratedAt time.Time
	Totals      fra.Totals
	TopStates   []fra.StateGroup
	Trend       []fra.TrendPoint
	Status      []fra.StatusSlice
	TrendChart  template.URL
	StateChart  template.URL
	Warnings    []string
}

const summaryHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2em;color:#1f2937}
table{border-collapse:collapse;margin:1em 0}
th,td{border:1px solid #d1d5db;padding:4px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
.kpi{display:inline-block;margin-right:2em}
.warn{color:#b45309}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>State: {{filterValue .Filter.State}} &middot; Year: {{filterValue .Filter.Year}} &middot; Month: {{filterValue .Filter.Month}} &middot; Generated {{formatDate .GeneratedAt}}</p>
<div>
<span class="kpi">Claims received <b>{{formatInt .Totals.TotalClaimsReceived}}</b></span>
<span class="kpi">Titles distributed <b>{{formatInt .Totals.TotalTitlesDistributed}}</b></span>
<span class="kpi">Disposal rate <b>{{formatPercent .Totals.DisposalRate}}</b></span>
<span class="kpi">Forest land <b>{{formatNumber .Totals.TotalForestLand 0}} ha</b></span>
<span class="kpi">States <b>{{.Totals.StateCount}}</b></span>
</div>
{{if .TrendChart}}<h2>Monthly trend</h2><img alt="monthly trend" src="{{.TrendChart}}">{{end}}
<h2>Top states by claims</h2>
{{if .StateChart}}<img alt="top states" src="{{.StateChart}}">{{end}}
<table>
<tr><th>State</th><th>Claims</th><th>Titles</th><th>Pending</th></tr>
{{range .TopStates}}<tr><td>{{.State}}</td><td>{{formatInt .Claims}}</td><td>{{formatInt .Titles}}</td><td>{{formatInt .Pending}}</td></tr>
{{end}}</table>
<h2>Claim status</h2>
<table>
<tr><th>Status</th><th>Claims</th><th>Share</th></tr>
{{range .Status}}<tr><td>{{.Name}}</td><td>{{formatInt .Value}}</td><td>{{formatPercent .Percentage}}</td></tr>
{{end}}</table>
{{range .Warnings}}<p class="warn">{{.}}</p>
{{end}}</body>
</html>
`

var summaryTemplate = template.Must(template.New("summary").Funcs(templateFuncs()).Parse(summaryHTML))

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatNumber": func(v float64, decimals int) string {
			return groupDigits(fmt.Sprintf("%.*f", decimals, v))
		},
		"formatInt": func(v int64) string {
			return groupDigits(fmt.Sprintf("%d", v))
		},
		"formatPercent": func(v float64) string {
			return fmt.Sprintf("%.2f%%", v)
		},
		"formatDate": func(t time.Time) string {
			return t.UTC().Format("02 Jan 2006 15:04 MST")
		},
		"filterValue": func(v string) string {
			if v == "" || v == fra.All {
				return "All"
			}
			return v
		},
	}
}

func renderSummaryHTML(d *summaryData) ([]byte, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, d); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "template execution failed")
	}
	return buf.Bytes(), nil
}

func pngDataURL(png []byte) template.URL {
	if len(png) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// groupDigits inserts thousands separators into a plain decimal string.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

//Personal.AI order the ending
