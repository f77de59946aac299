package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// runToResponse converts a Run to a RunResponse.
func runToResponse(run *Run) RunResponse {
	run.mu.RLock()
	defer run.mu.RUnlock()

	return RunResponse{
		ID:          run.ID,
		Status:      string(run.Status),
		CreatedAt:   run.CreatedAt,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Result:      run.Result,
		Error:       run.Error,
	}
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}
