// Package handlers implements the JSON endpoints of the FRA monitor API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// DataResponse wraps successful payloads.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a failure body with a message meant for the client.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Success: false, Error: message})
}

// writeAppError maps err onto its HTTP status.  AppError messages are shown
// as-is; anything else is masked.
func writeAppError(w http.ResponseWriter, log logging.Logger, err error) {
	status := errors.HTTPStatus(err)

	var ae *errors.AppError
	if !errors.As(err, &ae) {
		log.Error("unhandled error", logging.Err(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			logging.String("code", string(ae.Code)),
			logging.Int("status", status),
			logging.Err(err))
	}
	writeJSON(w, status, ErrorResponse{Success: false, Error: ae.Message, Code: string(ae.Code)})
}

// filterFromQuery reads the state, year and month selectors.  Missing values
// mean "all".
func filterFromQuery(r *http.Request) fra.FilterState {
	q := r.URL.Query()
	return fra.NewFilterState(
		strings.TrimSpace(q.Get("state")),
		strings.TrimSpace(q.Get("year")),
		strings.TrimSpace(q.Get("month")),
	)
}

func orNop(log logging.Logger) logging.Logger {
	if log == nil {
		return logging.NewNopLogger()
	}
	return log
}

//Personal.AI order the ending
