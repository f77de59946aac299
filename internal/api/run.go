// Package api exposes the HTTP trigger for alert runs and reports their outcome.
package api

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"asteroid-alerting/internal/orchestrator"

	"github.com/google/uuid"
)

// RunStatus is the externally visible status of a run.
type RunStatus string

const (
	RunStatusPending         RunStatus = "pending"
	RunStatusFetching        RunStatus = RunStatus(orchestrator.StateFetching)
	RunStatusClassifying     RunStatus = RunStatus(orchestrator.StateClassifying)
	RunStatusPublishing      RunStatus = RunStatus(orchestrator.StatePublishing)
	RunStatusDone            RunStatus = RunStatus(orchestrator.StateDone)
	RunStatusPartiallyFailed RunStatus = RunStatus(orchestrator.StatePartiallyFailed)
	RunStatusFailed          RunStatus = RunStatus(orchestrator.StateFailed)
	RunStatusCancelled       RunStatus = "cancelled"
)

// Runner executes one alert run.
type Runner interface {
	RunWithProgress(ctx context.Context, progress func(orchestrator.State)) (*orchestrator.RunResult, error)
}

// Run is one triggered execution of the orchestrator.
type Run struct {
	ID          string
	Status      RunStatus
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Result      *orchestrator.RunResult
	Error       string
	mu          sync.RWMutex
}

// RunManager starts runs in the background and keeps their records in memory.
type RunManager struct {
	runner  Runner
	timeout time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	runs map[string]*Run
	mu   sync.RWMutex
}

// NewRunManager creates a RunManager. Each run is bounded by timeout.
func NewRunManager(runner Runner, timeout time.Duration) *RunManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &RunManager{
		runner:  runner,
		timeout: timeout,
		baseCtx: ctx,
		cancel:  cancel,
		runs:    make(map[string]*Run),
	}
}

// Start registers a new pending run and executes it asynchronously.
func (rm *RunManager) Start() *Run {
	run := &Run{
		ID:        uuid.New().String(),
		Status:    RunStatusPending,
		CreatedAt: time.Now(),
	}

	rm.mu.Lock()
	rm.runs[run.ID] = run
	rm.mu.Unlock()

	rm.wg.Add(1)
	go func() {
		defer rm.wg.Done()
		rm.execute(run)
	}()
	return run
}

func (rm *RunManager) execute(run *Run) {
	ctx := rm.baseCtx
	if rm.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rm.timeout)
		defer cancel()
	}

	slog.Info("Starting alert run", "run_id", run.ID)
	res, err := rm.runner.RunWithProgress(ctx, func(s orchestrator.State) {
		run.updateStatus(RunStatus(s))
	})
	run.finish(res, err, rm.baseCtx.Err() != nil)
	observeRun(run.GetStatus())

	if err != nil {
		slog.Error("Alert run failed", "run_id", run.ID, "status", run.GetStatus(), "error", err)
		return
	}
	slog.Info("Alert run completed", "run_id", run.ID, "status", run.GetStatus())
}

// GetRun retrieves a run by ID.
func (rm *RunManager) GetRun(id string) (*Run, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	run, ok := rm.runs[id]
	return run, ok
}

// ListRuns returns all runs, newest first, optionally filtered by status.
func (rm *RunManager) ListRuns(statusFilter RunStatus) []*Run {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	runs := make([]*Run, 0, len(rm.runs))
	for _, run := range rm.runs {
		if statusFilter == "" || run.GetStatus() == statusFilter {
			runs = append(runs, run)
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs
}

// Shutdown cancels in-flight runs and waits for them to finish or for ctx to expire.
func (rm *RunManager) Shutdown(ctx context.Context) error {
	rm.cancel()
	done := make(chan struct{})
	go func() {
		rm.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Run) updateStatus(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	if r.StartedAt == nil {
		now := time.Now()
		r.StartedAt = &now
	}
}

func (r *Run) finish(res *orchestrator.RunResult, err error, shuttingDown bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Result = res
	if err != nil {
		r.Error = err.Error()
	}
	switch {
	case err != nil && shuttingDown && errors.Is(err, context.Canceled):
		r.Status = RunStatusCancelled
	case res != nil:
		r.Status = RunStatus(res.State)
	case err != nil:
		r.Status = RunStatusFailed
	default:
		r.Status = RunStatusDone
	}
	now := time.Now()
	r.CompletedAt = &now
}

// GetStatus returns the current run status.
func (r *Run) GetStatus() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}
