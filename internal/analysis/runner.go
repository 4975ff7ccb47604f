// Package analysis drives simulated analysis runs: a run advances its
// progress on a fixed timer, settles, then executes the synchronous
// computation and stores the whole result.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/entity"
	"export-pilot/internal/repository"
)

// ComputeFunc produces the stored result of a run. It executes after the
// simulated progress reaches 100.
type ComputeFunc func(ctx context.Context) (json.RawMessage, error)

type Runner struct {
	runs   repository.RunRepository
	logger *slog.Logger

	step   int
	tick   time.Duration
	settle time.Duration

	wg sync.WaitGroup

	mu     sync.Mutex
	active map[string]struct{}
}

type Option func(*Runner)

// WithTiming overrides the simulated progress timing. Tests shrink it.
func WithTiming(step int, tick, settle time.Duration) Option {
	return func(r *Runner) {
		if step > 0 {
			r.step = step
		}
		if tick > 0 {
			r.tick = tick
		}
		if settle >= 0 {
			r.settle = settle
		}
	}
}

func NewRunner(runs repository.RunRepository, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		runs:   runs,
		logger: logger,
		step:   2,
		tick:   30 * time.Millisecond,
		settle: 300 * time.Millisecond,
		active: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start creates a RUNNING run row and advances it in the background. Only one
// run of a kind may be in flight per project.
func (r *Runner) Start(ctx context.Context, projectID uuid.UUID, kind constants.RunKind, market constants.Market, compute ComputeFunc) (*entity.AnalysisRun, error) {
	key := projectID.String() + "/" + string(kind)

	r.mu.Lock()
	if _, busy := r.active[key]; busy {
		r.mu.Unlock()
		return nil, common.ErrRunActive
	}
	r.active[key] = struct{}{}
	r.mu.Unlock()

	run, err := r.runs.Create(ctx, &entity.AnalysisRun{
		ProjectID: projectID,
		Kind:      kind,
		Market:    market,
		Status:    constants.RunStatusRunning,
	})
	if err != nil {
		r.release(key)
		return nil, err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.release(key)
		r.drive(run.ID, kind, compute)
	}()

	r.logger.Info("run started", "run_id", run.ID, "kind", kind, "project_id", projectID)
	return run, nil
}

func (r *Runner) release(key string) {
	r.mu.Lock()
	delete(r.active, key)
	r.mu.Unlock()
}

func (r *Runner) drive(runID uuid.UUID, kind constants.RunKind, compute ComputeFunc) {
	ctx := context.Background()

	for p := r.step; p < 100; p += r.step {
		time.Sleep(r.tick)
		if err := r.runs.SetProgress(ctx, runID, p); err != nil {
			r.logger.Error("progress update failed", "run_id", runID, "error", err)
		}
	}
	time.Sleep(r.settle)

	result, err := compute(ctx)
	if err != nil {
		r.logger.Error("run failed", "run_id", runID, "kind", kind, "error", err)
		_ = r.runs.Fail(ctx, runID, err.Error())
		return
	}
	if err := r.runs.Complete(ctx, runID, result); err != nil {
		r.logger.Error("storing run result failed", "run_id", runID, "error", err)
		return
	}
	r.logger.Info("run complete", "run_id", runID, "kind", kind)
}

// Wait blocks until every in-flight run has finished or the context expires.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for runs: %w", ctx.Err())
	}
}
