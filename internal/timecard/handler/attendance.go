package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/timecard/timecard-backend/internal/timecard/service"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/httputil"
	"github.com/timecard/timecard-backend/pkg/logger"
)

// AttendanceHandler serves summaries and record listings
type AttendanceHandler struct {
	summaries *service.SummaryService
	records   *service.RecordService
	logger    *logger.Logger
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(summaries *service.SummaryService, records *service.RecordService, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		summaries: summaries,
		records:   records,
		logger:    log,
	}
}

// Summaries returns per-employee range and monthly summaries
// GET /attendance?start=&end=&month=
func (h *AttendanceHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	month, err := monthParam(r, "month")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	summaries, err := h.summaries.Summaries(r.Context(), service.SummaryQuery{
		Start: rng.start,
		End:   rng.end,
		Month: month,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, summaries, rangeMeta(len(summaries), rng))
}

// EmployeeRecords returns one employee's records with issues and pay
// GET /employees/{id}/records?start=&end=&days=
func (h *AttendanceHandler) EmployeeRecords(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	out, err := h.summaries.DailyBreakdown(r.Context(), chi.URLParam(r, "id"), rng.start, rng.end, rng.days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, out, rangeMeta(len(out.Records), rng))
}

// MyRecords returns the caller's own records
// GET /me/records?start=&end=&days=
func (h *AttendanceHandler) MyRecords(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	records, err := h.records.MyRecords(r.Context(), actor.FromContext(r.Context()), rng.start, rng.end, rng.days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, records, rangeMeta(len(records), rng))
}

func rangeMeta(total int, rng rangeParams) *httputil.Meta {
	meta := &httputil.Meta{Total: total}
	if rng.start != nil {
		meta.Start = rng.start.String()
	}
	if rng.end != nil {
		meta.End = rng.end.String()
	}
	return meta
}
