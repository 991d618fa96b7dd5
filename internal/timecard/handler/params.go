package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/timecard/timecard-backend/internal/timecard/compute"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/pkg/errors"
	"github.com/timecard/timecard-backend/pkg/httputil"
)

func init() {
	// An empty time clears the field on update.
	err := httputil.RegisterCustomValidation("timeofday", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || compute.IsValidTimeOfDay(s)
	})
	if err != nil {
		panic(err)
	}
}

// dateParam reads an optional YYYY-MM-DD query parameter.
func dateParam(r *http.Request, name string) (*domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, errors.BadRequest(name + " must be a date formatted as YYYY-MM-DD")
	}
	return &d, nil
}

// monthParam reads an optional month given as YYYY-MM or as any day of it.
func monthParam(r *http.Request, name string) (*domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseMonth(raw)
	if err != nil {
		return nil, errors.BadRequest(name + " must be formatted as YYYY-MM")
	}
	return &d, nil
}

// daysParam reads an optional day count; anything unparsable is 0.
func daysParam(r *http.Request) int {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		return 0
	}
	return days
}

type rangeParams struct {
	start *domain.Date
	end   *domain.Date
	days  int
}

func parseRange(r *http.Request) (rangeParams, error) {
	start, err := dateParam(r, "start")
	if err != nil {
		return rangeParams{}, err
	}
	end, err := dateParam(r, "end")
	if err != nil {
		return rangeParams{}, err
	}
	return rangeParams{start: start, end: end, days: daysParam(r)}, nil
}
