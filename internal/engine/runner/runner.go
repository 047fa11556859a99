// Package runner implements the sequential, fail-fast target runner.
package runner

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// TargetStatus represents the status of a target within a run.
type TargetStatus string

const (
	// StatusPending indicates the target is waiting to be executed.
	StatusPending TargetStatus = "Pending"
	// StatusRunning indicates the target is currently executing.
	StatusRunning TargetStatus = "Running"
	// StatusCompleted indicates the target has finished successfully.
	StatusCompleted TargetStatus = "Completed"
	// StatusFailed indicates the target's body returned failure.
	StatusFailed TargetStatus = "Failed"
	// StatusSkipped indicates the target was not run because an earlier one failed.
	StatusSkipped TargetStatus = "Skipped"
)

// Runner executes a target and its dependency closure in order.
type Runner struct {
	registry  *domain.Registry
	telemetry ports.Telemetry
	store     ports.RunRecordStore
	logger    ports.Logger
	now       func() time.Time

	mu     sync.RWMutex
	status map[string]TargetStatus
}

// NewRunner creates a new Runner over the given registry.
func NewRunner(
	registry *domain.Registry,
	telemetry ports.Telemetry,
	store ports.RunRecordStore,
	logger ports.Logger,
) *Runner {
	return &Runner{
		registry:  registry,
		telemetry: telemetry,
		store:     store,
		logger:    logger,
		now:       time.Now,
		status:    make(map[string]TargetStatus),
	}
}

// Run resolves name and executes the resulting chain, stopping at the first failure.
// The error return is reserved for resolution failures; a failing body is
// reported through the returned Result.
func (r *Runner) Run(ctx context.Context, name string, bc *domain.BuildContext) (domain.Result, error) {
	return r.RunAll(ctx, []string{name}, bc)
}

// RunAll executes the merged dependency closure of names. A target reachable
// from several of the names still runs once, at its first position.
func (r *Runner) RunAll(ctx context.Context, names []string, bc *domain.BuildContext) (domain.Result, error) {
	if len(names) == 0 {
		return domain.Result{}, domain.ErrNoTargetsSpecified
	}

	order, err := r.resolve(names)
	if err != nil {
		return domain.Result{}, err
	}

	r.initStatuses(order)

	result := domain.Succeeded(names[len(names)-1])
	for i, t := range order {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result = domain.Failed(t.Name, zerr.Wrap(ctxErr, domain.ErrBuildCancelled.Error()).Error())
			r.skip(order[i:], bc.Configuration())
			return result, nil
		}

		result = r.execute(ctx, t, bc)
		if !result.Success {
			r.skip(order[i+1:], bc.Configuration())
			return result, nil
		}
	}

	return result, nil
}

func (r *Runner) resolve(names []string) ([]domain.Target, error) {
	seen := make(map[string]struct{})
	var order []domain.Target
	for _, name := range names {
		chain, err := r.registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		for _, t := range chain {
			if _, ok := seen[t.Name]; ok {
				continue
			}
			seen[t.Name] = struct{}{}
			order = append(order, t)
		}
	}
	return order, nil
}

// Statuses returns a copy of the current target statuses.
func (r *Runner) Statuses() map[string]TargetStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.status)
}

func (r *Runner) execute(ctx context.Context, t domain.Target, bc *domain.BuildContext) domain.Result {
	r.updateStatus(t.Name, StatusRunning)
	bc.SetTarget(t.Name)
	bc.Info("Executing target " + t.Name)

	vertexCtx, vertex := r.telemetry.Record(ctx, t.Name)
	vertex.Log(domain.LogLevelInfo, "Executing target "+t.Name)

	start := r.now()
	result := invoke(vertexCtx, t, bc)
	duration := r.now().Sub(start)

	vertex.Complete(result.Err())

	status := domain.RunStatusSucceeded
	if result.Success {
		r.updateStatus(t.Name, StatusCompleted)
	} else {
		status = domain.RunStatusFailed
		r.updateStatus(t.Name, StatusFailed)
	}

	r.record(domain.RunRecord{
		Target:        t.Name,
		Status:        status,
		Message:       result.Message,
		Configuration: bc.Configuration(),
		Duration:      duration,
		Timestamp:     start,
	})

	return result
}

// invoke runs the target body, turning a panic into a failed result.
func invoke(ctx context.Context, t domain.Target, bc *domain.BuildContext) (result domain.Result) {
	if t.Body == nil {
		return domain.Succeeded(t.Name)
	}

	defer func() {
		if p := recover(); p != nil {
			err := zerr.With(zerr.With(zerr.Wrap(domain.ErrTargetPanicked, ""), "target", t.Name), "panic", fmt.Sprint(p))
			bc.Error(err.Error())
			result = domain.Failed(t.Name, err.Error())
		}
	}()

	result = t.Body(ctx, bc)
	if result.Target == "" {
		result.Target = t.Name
	}
	return result
}

func (r *Runner) skip(targets []domain.Target, configuration string) {
	now := r.now()
	for _, t := range targets {
		r.updateStatus(t.Name, StatusSkipped)
		r.record(domain.RunRecord{
			Target:        t.Name,
			Status:        domain.RunStatusSkipped,
			Configuration: configuration,
			Timestamp:     now,
		})
	}
}

func (r *Runner) record(rec domain.RunRecord) {
	if r.store == nil {
		return
	}
	if err := r.store.Put(rec); err != nil {
		r.logger.Warn("failed to store run record for " + rec.Target + ": " + err.Error())
	}
}

func (r *Runner) initStatuses(order []domain.Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.status)
	for _, t := range order {
		r.status[t.Name] = StatusPending
	}
}

func (r *Runner) updateStatus(name string, status TargetStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[name] = status
}
