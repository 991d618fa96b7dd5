package handler

import (
	"net/http"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/service"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/errors"
	"github.com/timecard/timecard-backend/pkg/httputil"
	"github.com/timecard/timecard-backend/pkg/logger"
)

// ClockHandler handles punches and manual record changes
type ClockHandler struct {
	service *service.ClockService
	logger  *logger.Logger
}

// NewClockHandler creates a new clock handler
func NewClockHandler(svc *service.ClockService, log *logger.Logger) *ClockHandler {
	return &ClockHandler{
		service: svc,
		logger:  log,
	}
}

// ClockRequest is the body of POST /clock. Action selects which of the
// other fields apply.
type ClockRequest struct {
	Action     domain.ActionKind `json:"action" validate:"required,oneof=clockIn clockOut breakStart breakEnd create update"`
	ClientTime *time.Time        `json:"client_time"`
	Note       *string           `json:"note" validate:"omitempty,max=500"`

	// create
	EmployeeID string `json:"employee_id" validate:"omitempty,uuid"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`

	// update
	RecordID string `json:"record_id" validate:"omitempty,uuid"`

	// create and update
	ClockIn    *string `json:"clock_in" validate:"omitempty,timeofday"`
	ClockOut   *string `json:"clock_out" validate:"omitempty,timeofday"`
	BreakStart *string `json:"break_start" validate:"omitempty,timeofday"`
	BreakEnd   *string `json:"break_end" validate:"omitempty,timeofday"`
}

// ToAction converts the request into the variant its action names.
func (req ClockRequest) ToAction() (domain.ClockAction, error) {
	switch {
	case req.Action.IsPunch():
		return domain.Punch{Action: req.Action, At: req.ClientTime, Note: req.Note}, nil

	case req.Action == domain.ActionCreate:
		if req.Date == "" {
			return nil, errors.Validation(map[string]string{"date": "this field is required"})
		}
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			return nil, errors.Validation(map[string]string{"date": "must be a date formatted as 2006-01-02"})
		}
		return domain.CreateRecord{
			EmployeeID: req.EmployeeID,
			Date:       date,
			ClockIn:    req.ClockIn,
			ClockOut:   req.ClockOut,
			BreakStart: req.BreakStart,
			BreakEnd:   req.BreakEnd,
			Note:       req.Note,
		}, nil

	case req.Action == domain.ActionUpdate:
		if req.RecordID == "" {
			return nil, errors.Validation(map[string]string{"record_id": "this field is required"})
		}
		return domain.UpdateRecord{
			RecordID:   req.RecordID,
			ClockIn:    req.ClockIn,
			ClockOut:   req.ClockOut,
			BreakStart: req.BreakStart,
			BreakEnd:   req.BreakEnd,
			Note:       req.Note,
		}, nil
	}
	return nil, errors.BadRequest("unsupported action")
}

// Clock applies a clock action for the caller
// POST /clock
func (h *ClockHandler) Clock(w http.ResponseWriter, r *http.Request) {
	var req ClockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}
	action, err := req.ToAction()
	if err != nil {
		httputil.Error(w, err)
		return
	}

	rec, err := h.service.Apply(r.Context(), actor.FromContext(r.Context()), action)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if action.Kind() == domain.ActionCreate {
		httputil.Created(w, rec)
		return
	}
	httputil.JSON(w, http.StatusOK, rec)
}
