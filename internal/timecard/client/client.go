// Package client is an HTTP client for the timecard API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/service"
	"github.com/timecard/timecard-backend/pkg/logger"
)

// DefaultTimeout bounds each API call made through NewHTTPClient.
const DefaultTimeout = 10 * time.Second

// TimecardClient calls the timecard service. Authentication is the job of
// the http.Client it is given, usually one built by NewHTTPClient.
type TimecardClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewTimecardClient creates a new timecard API client
func NewTimecardClient(baseURL string, httpClient *http.Client, log *logger.Logger) *TimecardClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &TimecardClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     log,
	}
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("timecard api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("timecard api: %s: %s (status %d)", e.Code, e.Message, e.StatusCode)
}

// SummaryParams selects the range and month for Summaries. Zero values are omitted.
type SummaryParams struct {
	Start string
	End   string
	Month string
}

// Summaries fetches per-employee summaries
func (c *TimecardClient) Summaries(ctx context.Context, p SummaryParams) ([]domain.EmployeeSummary, error) {
	q := url.Values{}
	setParam(q, "start", p.Start)
	setParam(q, "end", p.End)
	setParam(q, "month", p.Month)

	var out []domain.EmployeeSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/attendance", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EmployeeRecords fetches one employee's records annotated with issues and pay
func (c *TimecardClient) EmployeeRecords(ctx context.Context, employeeID string, days int) (*service.EmployeeRecords, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", fmt.Sprint(days))
	}

	var out service.EmployeeRecords
	if err := c.do(ctx, http.MethodGet, "/api/v1/employees/"+url.PathEscape(employeeID)+"/records", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Employees lists all employees
func (c *TimecardClient) Employees(ctx context.Context) ([]domain.Employee, error) {
	var out []domain.Employee
	if err := c.do(ctx, http.MethodGet, "/api/v1/employees", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Punch records a clockIn, clockOut, breakStart or breakEnd for the caller
func (c *TimecardClient) Punch(ctx context.Context, action domain.ActionKind, note string) (*domain.Record, error) {
	body := map[string]interface{}{"action": action}
	if note != "" {
		body["note"] = note
	}

	var out domain.Record
	if err := c.do(ctx, http.MethodPost, "/api/v1/clock", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TimecardClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("url", target).Msg("calling timecard service")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call timecard service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	// responses are wrapped in {"success": ..., "data": ..., "error": ...}
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !envelope.Success {
		apiErr := envelope.Error
		if apiErr == nil {
			apiErr = &APIError{}
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func setParam(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
