/*
handlers.go - HTTP API handlers for the tenure reconciliation service

PURPOSE:
  Exposes the reconciliation engine via a thin REST surface. Handles HTTP
  request/response and JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET  /api/employees                List all employees (with derived tenure)
    GET  /api/employees/{id}           Get one employee
    GET  /api/employees/{id}/concepts  Current assigned concepts

  Catalog:
    GET  /api/catalog                  Concept catalog

  Admin:
    POST /api/admin/reconcile          Trigger an immediate sweep
    GET  /api/admin/scheduler          Scheduler status
    POST /api/reset                    Reset database (dev only)

  Scenarios:
    GET  /api/scenarios                List demo scenarios
    POST /api/scenarios/load           Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization; out of scope for this subsystem.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/tenure-engine/scheduler"
	"github.com/warp/tenure-engine/store/sqlite"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Engine    *tenure.Engine
	Scheduler *scheduler.Scheduler
}

// NewHandler creates a handler with all dependencies.
func NewHandler(store *sqlite.Store, engine *tenure.Engine, sched *scheduler.Scheduler) *Handler {
	return &Handler{Store: store, Engine: engine, Scheduler: sched}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	now := h.Engine.Now()
	out := make([]EmployeeDTO, 0, len(employees))
	for _, emp := range employees {
		out = append(out, toEmployeeDTO(emp, tenure.CompletedYears(emp.HireDate, now)))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := tenure.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, tenure.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeDTO(emp, tenure.CompletedYears(emp.HireDate, h.Engine.Now())))
}

func (h *Handler) GetAssignedConcepts(w http.ResponseWriter, r *http.Request) {
	id := tenure.EmployeeID(chi.URLParam(r, "id"))

	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		if errors.Is(err, tenure.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	recs, err := h.Store.ListAssignedConcepts(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignedConceptDTOs(recs))
}

// =============================================================================
// CATALOG
// =============================================================================

func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.ListConceptCatalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]CatalogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, CatalogEntryDTO{ID: string(e.ID), Name: e.Name, Category: string(e.Category)})
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// ADMIN
// =============================================================================

// TriggerReconcile runs one sweep immediately, bypassing the monthly
// dedupe but not the single-flight guard.
func (h *Handler) TriggerReconcile(w http.ResponseWriter, r *http.Request) {
	summary, ran, err := h.Scheduler.RunNow(r.Context())
	if !ran {
		writeJSON(w, http.StatusConflict, RunSummaryDTO{Ran: false, Reason: "sweep already in progress"})
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, RunSummaryDTO{
		Ran:     true,
		Updated: summary.Updated,
		Errors:  summary.Errors,
		Skipped: summary.Skipped,
	})
}

func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	last, err := h.Scheduler.LastCheckpoint(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, SchedulerStatusDTO{
		Running:        h.Scheduler.Running(),
		LastCheckpoint: last,
		NextCheck:      h.Scheduler.NextRunTime().Format("2006-01-02 15:04:05"),
	})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
