package api

import (
	"context"

	"asteroid-alerting/internal/orchestrator"
)

// fakeRunner blocks until release is closed (if set) and then returns result and err.
type fakeRunner struct {
	release chan struct{}
	started chan struct{}
	result  *orchestrator.RunResult
	err     error
}

func (f *fakeRunner) RunWithProgress(ctx context.Context, progress func(orchestrator.State)) (*orchestrator.RunResult, error) {
	progress(orchestrator.StateFetching)
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return &orchestrator.RunResult{State: orchestrator.StateFailed}, ctx.Err()
		}
	}
	if f.result != nil {
		progress(f.result.State)
	}
	return f.result, f.err
}
