package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/turtacn/fra-monitor/internal/application/reporting"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

// ReportHandler streams rendered reports.
type ReportHandler struct {
	svc    reporting.Service
	logger logging.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc reporting.Service, log logging.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: orNop(log)}
}

// Generate handles GET /reports?format=xlsx|csv|html|trend.png|states.png
// with the usual state, year and month selectors.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("format")
	if raw == "" {
		raw = string(reporting.FormatXLSX)
	}
	format, err := reporting.ParseFormat(raw)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	rep, err := h.svc.Generate(r.Context(), &reporting.Request{
		Filter: filterFromQuery(r),
		Format: format,
		Title:  q.Get("title"),
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", rep.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Content)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.FileName))
	w.Header().Set("X-Report-Records", strconv.Itoa(rep.Records))
	if len(rep.Warnings) > 0 {
		w.Header().Set("X-Report-Warnings", strconv.Itoa(len(rep.Warnings)))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rep.Content); err != nil {
		h.logger.Warn("write report", logging.String("file", rep.FileName), logging.Err(err))
	}
}

//Personal.AI order the ending
