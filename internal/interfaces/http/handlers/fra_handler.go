package handlers

import (
	"net/http"
	"strings"

	"github.com/turtacn/fra-monitor/internal/application/dashboard"
	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

// actionStatistics switches GET /fra-data from records to aggregates.
const actionStatistics = "statistics"

// FRAHandler serves the record list, statistics and dashboard overview.
type FRAHandler struct {
	svc    dashboard.Service
	logger logging.Logger
}

// NewFRAHandler creates a new FRAHandler.
func NewFRAHandler(svc dashboard.Service, log logging.Logger) *FRAHandler {
	return &FRAHandler{svc: svc, logger: orNop(log)}
}

// List handles GET /fra-data.  With action=statistics it returns the
// aggregated totals of the filtered set instead of the records.
func (h *FRAHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	if strings.EqualFold(r.URL.Query().Get("action"), actionStatistics) {
		st, err := h.svc.Statistics(r.Context(), filter)
		if err != nil {
			writeAppError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: st})
		return
	}

	recs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	n := len(recs)
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: recs, Count: &n})
}

// Overview handles GET /fra-data/overview.  resetMonth=true applies the year
// selector policy: choosing a concrete year clears the month.
func (h *FRAHandler) Overview(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	if strings.EqualFold(r.URL.Query().Get("resetMonth"), "true") {
		filter = fra.ChangeYear(filter, filter.Year)
	}

	ov, err := h.svc.Overview(r.Context(), filter)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if ov.Stale {
		w.Header().Set("Warning", `110 - "serving last known good data"`)
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: ov})
}

// States handles GET /states.
func (h *FRAHandler) States(w http.ResponseWriter, r *http.Request) {
	states := fra.IndianStates()
	n := len(states)
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: states, Count: &n})
}

//Personal.AI order the ending
