package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/service"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/errors"
	"github.com/timecard/timecard-backend/pkg/httputil"
	"github.com/timecard/timecard-backend/pkg/logger"
)

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	service *service.EmployeeService
	logger  *logger.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(svc *service.EmployeeService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: svc,
		logger:  log,
	}
}

// EmployeeRequest is the body of employee create and update
type EmployeeRequest struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Role       string  `json:"role" validate:"max=50"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
}

func (req EmployeeRequest) input() service.EmployeeInput {
	return service.EmployeeInput{Name: req.Name, Role: req.Role, HourlyRate: req.HourlyRate}
}

// WageHistoryRequest is the body of a new wage entry. EffectiveDate is a
// month (YYYY-MM) or any day of it.
type WageHistoryRequest struct {
	HourlyRate    float64 `json:"hourly_rate" validate:"required,gte=0"`
	EffectiveDate string  `json:"effective_date" validate:"required"`
}

// List returns all employees
// GET /employees
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSONWithMeta(w, http.StatusOK, employees, &httputil.Meta{Total: len(employees)})
}

// Get returns one employee with wage history
// GET /employees/{id}
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, emp)
}

// Create adds an employee
// POST /employees
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.Create(r.Context(), actor.FromContext(r.Context()), req.input())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, emp)
}

// Update replaces an employee's fields
// PUT /employees/{id}
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.Update(r.Context(), actor.FromContext(r.Context()), chi.URLParam(r, "id"), req.input())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, emp)
}

// Delete removes an employee and everything recorded for them
// DELETE /employees/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), actor.FromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.NoContent(w)
}

// AddWageHistory adds a monthly wage entry
// POST /employees/{id}/wage-history
func (h *EmployeeHandler) AddWageHistory(w http.ResponseWriter, r *http.Request) {
	var req WageHistoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}
	month, err := domain.ParseMonth(req.EffectiveDate)
	if err != nil {
		httputil.Error(w, errors.Validation(map[string]string{
			"effective_date": "must be formatted as YYYY-MM",
		}))
		return
	}

	entry, err := h.service.AddWageHistory(r.Context(), actor.FromContext(r.Context()), chi.URLParam(r, "id"), req.HourlyRate, month)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.Created(w, entry)
}
