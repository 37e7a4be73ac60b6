// Package handlers implements the admin API's HTTP handlers: process
// health, a snapshot of live CC records, and operator-issued cancel.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tormodfh/pricc/internal/cc"
)

// HealthHandler answers liveness/readiness probes.
type HealthHandler struct {
	controller *cc.Controller
}

func NewHealthHandler(controller *cc.Controller) *HealthHandler {
	return &HealthHandler{controller: controller}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusHandler exposes the controller's record pool for operator
// inspection.
type StatusHandler struct {
	controller *cc.Controller
}

func NewStatusHandler(controller *cc.Controller) *StatusHandler {
	return &StatusHandler{controller: controller}
}

// List handles GET /api/v1/records. It accepts optional query filters:
//
//	dialect=ptmp|ptp|qsig
//	agent=true|false
func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.controller.Status()

	dialectFilter := r.URL.Query().Get("dialect")
	agentFilter := r.URL.Query().Get("agent")

	var agentWant bool
	hasAgentFilter := false
	if agentFilter != "" {
		v, err := strconv.ParseBool(agentFilter)
		if err != nil {
			BadRequest(w, "agent must be true or false")
			return
		}
		agentWant = v
		hasAgentFilter = true
	}

	filtered := make([]any, 0, len(records))
	for _, rec := range records {
		if dialectFilter != "" && rec.Dialect.String() != dialectFilter {
			continue
		}
		if hasAgentFilter && rec.IsAgent != agentWant {
			continue
		}
		filtered = append(filtered, rec)
	}

	WriteJSON(w, http.StatusOK, filtered)
}

// CancelHandler lets an authenticated operator tear down a stuck CC
// record by id.
type CancelHandler struct {
	controller *cc.Controller
}

func NewCancelHandler(controller *cc.Controller) *CancelHandler {
	return &CancelHandler{controller: controller}
}

// Cancel handles POST /api/v1/records/{id}/cancel.
func (h *CancelHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idParam, 10, 16)
	if err != nil {
		BadRequest(w, "id must be a numeric record id")
		return
	}

	if err := h.controller.CCCancel(r.Context(), uint16(id)); err != nil {
		NotFound(w, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
