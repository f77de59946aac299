package api

import (
	"net/http"
)

// HandleTrigger handles POST /api/v1/asteroid-alerting/alert.
// The run starts in the background; the response never reflects its outcome.
func HandleTrigger(rm *RunManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		run := rm.Start()
		respondJSON(w, http.StatusAccepted, TriggerResponse{
			RunID:  run.ID,
			Status: string(RunStatusPending),
		})
	}
}

// HandleGetRun handles GET /api/v1/asteroid-alerting/runs/status?run_id=
func HandleGetRun(rm *RunManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		runID := r.URL.Query().Get("run_id")
		if runID == "" {
			respondError(w, http.StatusBadRequest, "run_id parameter is required")
			return
		}

		run, ok := rm.GetRun(runID)
		if !ok {
			respondError(w, http.StatusNotFound, "Run not found")
			return
		}

		respondJSON(w, http.StatusOK, runToResponse(run))
	}
}

// HandleListRuns handles GET /api/v1/asteroid-alerting/runs
func HandleListRuns(rm *RunManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		runs := rm.ListRuns(RunStatus(r.URL.Query().Get("status")))
		resp := make([]RunResponse, 0, len(runs))
		for _, run := range runs {
			resp = append(resp, runToResponse(run))
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleHealth handles GET /health
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
