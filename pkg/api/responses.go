package api

import "time"

// Envelope is the uniform response shape every endpoint returns (§6):
// {success, data, error, timestamp}.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      any         `json:"data,omitempty"`
	Error     *ErrorBody  `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorBody is the envelope's error shape: {code, message, details?}.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func ok(data any) Envelope {
	return Envelope{Success: true, Data: data, Timestamp: time.Now()}
}

func errEnvelope(code, message, details string) Envelope {
	return Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: code, Message: message, Details: details},
		Timestamp: time.Now(),
	}
}

// IngestResponse is returned by POST /works.
type IngestResponse struct {
	WorkID          string   `json:"work_id"`
	ChapterIDs      []string `json:"chapter_ids"`
	SchedulerStatus string   `json:"scheduler_status"`
}

// ChapterStatusView is one row of the status projection returned by
// GET /works/{id}/status.
type ChapterStatusView struct {
	Ordinal     int        `json:"ordinal"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// WorkStatusResponse is returned by GET /works/{id}/status.
type WorkStatusResponse struct {
	WorkID   string              `json:"work_id"`
	Status   string              `json:"status"`
	Chapters []ChapterStatusView `json:"chapters"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks"`
}

// HealthCheck reports one component's health.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
