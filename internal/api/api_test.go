package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"asteroid-alerting/internal/orchestrator"
)

func waitForStatus(t *testing.T, run *Run, want RunStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if run.GetStatus() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run status = %s, want %s", run.GetStatus(), want)
}

func TestHandleTrigger_AcceptsImmediately(t *testing.T) {
	runner := &fakeRunner{
		release: make(chan struct{}),
		result:  &orchestrator.RunResult{State: orchestrator.StateDone, Published: 1},
	}
	rm := NewRunManager(runner, time.Minute)
	defer rm.Shutdown(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/asteroid-alerting/alert", nil)
	w := httptest.NewRecorder()
	HandleTrigger(rm)(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	var resp TriggerResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RunID == "" || resp.Status != "pending" {
		t.Errorf("response = %+v", resp)
	}

	run, ok := rm.GetRun(resp.RunID)
	if !ok {
		t.Fatal("run not registered")
	}
	if run.GetStatus() == RunStatusDone {
		t.Error("run finished before the runner was released")
	}

	close(runner.release)
	waitForStatus(t, run, RunStatusDone)
}

func TestHandleTrigger_MethodNotAllowed(t *testing.T) {
	rm := NewRunManager(&fakeRunner{}, time.Minute)
	w := httptest.NewRecorder()
	HandleTrigger(rm)(w, httptest.NewRequest(http.MethodGet, "/api/v1/asteroid-alerting/alert", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestRunManager_FinalStatus(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
		want   RunStatus
	}{
		{
			name:   "done",
			runner: &fakeRunner{result: &orchestrator.RunResult{State: orchestrator.StateDone}},
			want:   RunStatusDone,
		},
		{
			name: "partially failed",
			runner: &fakeRunner{
				result: &orchestrator.RunResult{State: orchestrator.StatePartiallyFailed, Failed: 1},
				err:    orchestrator.ErrPartialPublish,
			},
			want: RunStatusPartiallyFailed,
		},
		{
			name: "failed",
			runner: &fakeRunner{
				result: &orchestrator.RunResult{State: orchestrator.StateFailed},
				err:    errors.New("feed unreachable"),
			},
			want: RunStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := NewRunManager(tt.runner, time.Minute)
			run := rm.Start()
			if err := rm.Shutdown(context.Background()); err != nil {
				t.Fatalf("Shutdown() error = %v", err)
			}
			if run.GetStatus() != tt.want {
				t.Errorf("status = %s, want %s", run.GetStatus(), tt.want)
			}
			resp := runToResponse(run)
			if tt.runner.err != nil && resp.Error == "" {
				t.Error("error message not recorded")
			}
			if resp.CompletedAt == nil {
				t.Error("CompletedAt not set")
			}
		})
	}
}

func TestRunManager_ShutdownCancelsRun(t *testing.T) {
	runner := &fakeRunner{release: make(chan struct{}), started: make(chan struct{})}
	rm := NewRunManager(runner, time.Minute)
	run := rm.Start()
	<-runner.started

	if err := rm.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if run.GetStatus() != RunStatusCancelled {
		t.Errorf("status = %s, want cancelled", run.GetStatus())
	}
}

func TestHandleGetRun(t *testing.T) {
	rm := NewRunManager(&fakeRunner{result: &orchestrator.RunResult{State: orchestrator.StateDone}}, time.Minute)
	run := rm.Start()
	rm.Shutdown(context.Background())

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"found", "?run_id=" + run.ID, http.StatusOK},
		{"missing param", "", http.StatusBadRequest},
		{"unknown", "?run_id=does-not-exist", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleGetRun(rm)(w, httptest.NewRequest(http.MethodGet, "/api/v1/asteroid-alerting/runs/status"+tt.query, nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleListRuns(t *testing.T) {
	rm := NewRunManager(&fakeRunner{result: &orchestrator.RunResult{State: orchestrator.StateDone}}, time.Minute)
	rm.Start()
	rm.Start()
	rm.Shutdown(context.Background())

	w := httptest.NewRecorder()
	HandleListRuns(rm)(w, httptest.NewRequest(http.MethodGet, "/api/v1/asteroid-alerting/runs", nil))
	var all []RunResponse
	if err := json.NewDecoder(w.Body).Decode(&all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d runs, want 2", len(all))
	}

	w = httptest.NewRecorder()
	HandleListRuns(rm)(w, httptest.NewRequest(http.MethodGet, "/api/v1/asteroid-alerting/runs?status=failed", nil))
	var failed []RunResponse
	if err := json.NewDecoder(w.Body).Decode(&failed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(failed) != 0 {
		t.Errorf("got %d failed runs, want 0", len(failed))
	}
}

func TestRouter(t *testing.T) {
	rm := NewRunManager(&fakeRunner{result: &orchestrator.RunResult{State: orchestrator.StateDone}}, time.Minute)
	defer rm.Shutdown(context.Background())
	handler := NewRouter(rm)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("health = %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/asteroid-alerting/alert", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header Access-Control-Allow-Origin not set")
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "asteroid_alerting_http_requests_total") {
		t.Error("request counter not exported")
	}
}
