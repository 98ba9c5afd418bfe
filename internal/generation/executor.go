package generation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/forge/internal/clock"
	"github.com/mrz1836/forge/internal/domain"
)

// Status is a role's progress state reported through a ProgressFunc.
type Status string

// Role progress states.
const (
	StatusStarted   Status = "started"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ProgressFunc receives role progress. In parallel mode it is called from
// several goroutines at once and must be safe for concurrent use.
type ProgressFunc func(roleID string, status Status)

// Caller issues one role request. *Client implements it.
type Caller interface {
	Call(ctx context.Context, role domain.Role, req Request) (string, error)
}

// Executor runs an execution plan. It never retries and never imposes a
// timeout; both belong to the transport.
type Executor struct {
	caller   Caller
	clock    clock.Clock
	logger   zerolog.Logger
	progress ProgressFunc
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithClock sets the clock used for elapsed-time measurement.
func WithClock(c clock.Clock) ExecutorOption {
	return func(e *Executor) {
		e.clock = c
	}
}

// WithExecutorLogger sets the executor's logger.
func WithExecutorLogger(logger zerolog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) ExecutorOption {
	return func(e *Executor) {
		e.progress = fn
	}
}

// NewExecutor creates an Executor over caller.
func NewExecutor(caller Caller, opts ...ExecutorOption) *Executor {
	e := &Executor{
		caller: caller,
		clock:  clock.RealClock{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every role in plan and returns one RoleResult per role in plan
// order. base carries the request summary, context fields and documents; each
// role's instructions are filled in per call. A role's failure is captured in
// its RoleResult and never affects the others.
func (e *Executor) Execute(ctx context.Context, plan domain.ExecutionPlan, base Request) []domain.RoleResult {
	results := make([]domain.RoleResult, len(plan.Roles))

	e.logger.Info().
		Str("mode", string(plan.Mode)).
		Strs("roles", plan.RoleIDs()).
		Int("estimated_seconds", plan.EstimatedDurationSeconds).
		Msg("executing plan")

	if plan.Mode == domain.ModeSequential {
		for i, role := range plan.Roles {
			results[i] = e.runRole(ctx, role, base)
		}
		return results
	}

	// All-settled join: every goroutine returns nil so no failure cancels a
	// sibling, and each writes only its own slot.
	var g errgroup.Group
	for i, role := range plan.Roles {
		g.Go(func() error {
			results[i] = e.runRole(ctx, role, base)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// runRole performs one role call and records its outcome.
func (e *Executor) runRole(ctx context.Context, role domain.Role, base Request) (result domain.RoleResult) {
	result.RoleID = role.ID
	e.report(role.ID, StatusStarted)
	start := e.clock.Now()

	defer func() {
		if r := recover(); r != nil {
			result.Succeeded = false
			result.Output = ""
			result.Error = fmt.Sprintf("role %s panicked: %v", role.ID, r)
		}
		result.ElapsedMs = clock.ElapsedMs(e.clock, start)
		e.finish(result)
	}()

	req := base
	req.RoleInstructions = role.Instructions

	out, err := e.caller.Call(ctx, role, req)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Output = out
	result.Succeeded = true
	return result
}

func (e *Executor) finish(result domain.RoleResult) {
	if result.Succeeded {
		e.logger.Debug().
			Str("role_id", result.RoleID).
			Int64("elapsed_ms", result.ElapsedMs).
			Int("output_bytes", len(result.Output)).
			Msg("role succeeded")
		e.report(result.RoleID, StatusSucceeded)
		return
	}
	e.logger.Warn().
		Str("role_id", result.RoleID).
		Int64("elapsed_ms", result.ElapsedMs).
		Str("error", result.Error).
		Msg("role failed")
	e.report(result.RoleID, StatusFailed)
}

func (e *Executor) report(roleID string, status Status) {
	if e.progress != nil {
		e.progress(roleID, status)
	}
}

// AllFailed reports whether no role succeeded. An empty result set counts as failed.
func AllFailed(results []domain.RoleResult) bool {
	for _, r := range results {
		if r.Succeeded {
			return false
		}
	}
	return true
}

// Succeeded returns the succeeded results, preserving order.
func Succeeded(results []domain.RoleResult) []domain.RoleResult {
	out := make([]domain.RoleResult, 0, len(results))
	for _, r := range results {
		if r.Succeeded {
			out = append(out, r)
		}
	}
	return out
}
