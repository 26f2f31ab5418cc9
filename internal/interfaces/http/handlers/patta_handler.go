package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/turtacn/fra-monitor/internal/application/registry"
	"github.com/turtacn/fra-monitor/internal/domain/patta"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

// maxHolderBody bounds a registration request.
const maxHolderBody = 1 << 20

// PattaHandler serves the patta holder registry.
type PattaHandler struct {
	svc    registry.Service
	logger logging.Logger
}

// NewPattaHandler creates a new PattaHandler.
func NewPattaHandler(svc registry.Service, log logging.Logger) *PattaHandler {
	return &PattaHandler{svc: svc, logger: orNop(log)}
}

// List handles GET /patta-holders.
func (h *PattaHandler) List(w http.ResponseWriter, r *http.Request) {
	holders, err := h.svc.List(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if holders == nil {
		holders = []patta.Holder{}
	}
	n := len(holders)
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: holders, Count: &n})
}

// Create handles POST /patta-holders.
func (h *PattaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in patta.Holder
	dec := json.NewDecoder(io.LimitReader(r.Body, maxHolderBody))
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	out, err := h.svc.Add(r.Context(), &in)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Success: true, Data: out, Message: registry.AddedMessage})
}

//Personal.AI order the ending
