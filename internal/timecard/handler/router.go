package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/timecard/timecard-backend/pkg/httputil"
	"github.com/timecard/timecard-backend/pkg/logger"
)

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Attendance *AttendanceHandler
	Employees  *EmployeeHandler
	Clock      *ClockHandler
}

// Routes returns the authenticated API. Every route needs a valid bearer
// token; summaries, breakdowns and employee changes need an administrator.
func (h Handlers) Routes(tokens httputil.TokenValidator, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.Authenticate(tokens, log))

	r.Get("/employees", h.Employees.List)
	r.Get("/me/records", h.Attendance.MyRecords)
	r.Post("/clock", h.Clock.Clock)

	r.Group(func(r chi.Router) {
		r.Use(httputil.RequireAdmin)

		r.Get("/attendance", h.Attendance.Summaries)

		r.Post("/employees", h.Employees.Create)
		r.Route("/employees/{id}", func(r chi.Router) {
			r.Get("/", h.Employees.Get)
			r.Put("/", h.Employees.Update)
			r.Delete("/", h.Employees.Delete)
			r.Get("/records", h.Attendance.EmployeeRecords)
			r.Post("/wage-history", h.Employees.AddWageHistory)
		})
	})

	return r
}
