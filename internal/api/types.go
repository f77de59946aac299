package api

import (
	"time"

	"asteroid-alerting/internal/orchestrator"
)

// TriggerResponse is returned when a run has been accepted.
type TriggerResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// RunResponse represents a run status response.
type RunResponse struct {
	ID          string                  `json:"id"`
	Status      string                  `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	StartedAt   *time.Time              `json:"started_at,omitempty"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
	Result      *orchestrator.RunResult `json:"result,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
