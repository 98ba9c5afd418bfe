package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/constants"
	"github.com/mrz1836/forge/internal/ctxutil"
	"github.com/mrz1836/forge/internal/domain"
)

// ExecuteFunc is the function signature for provider-specific execution.
type ExecuteFunc func(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error)

// BaseRunner provides common functionality for AI runner implementations.
// Embed this in provider-specific runners to share timeout, retry, and context handling logic.
type BaseRunner struct {
	Config   *config.AIConfig
	Executor CommandExecutor
	ErrType  error          // Provider-specific error type for wrapping
	Logger   zerolog.Logger // Logger for retry/diagnostic logging (optional, uses nop if not set)
}

// ResolveTimeout determines the timeout to use for a request.
// Priority: request timeout > config timeout > default timeout.
func (b *BaseRunner) ResolveTimeout(req *domain.AIRequest) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if b.Config != nil && b.Config.Timeout > 0 {
		return b.Config.Timeout
	}
	return constants.DefaultAITimeout
}

// ResolveModel determines the full model name for a request on the given agent.
// Priority: request model > config model > agent default, with aliases resolved.
func (b *BaseRunner) ResolveModel(agent domain.Agent, req *domain.AIRequest) string {
	model := req.Model
	if model == "" && b.Config != nil {
		model = b.Config.Model
	}
	if model == "" {
		model = agent.DefaultModel()
	}
	return agent.ResolveModelAlias(model)
}

// maxAttempts returns the configured number of transport attempts.
func (b *BaseRunner) maxAttempts() int {
	if b.Config != nil && b.Config.MaxRetryAttempts > 0 {
		return b.Config.MaxRetryAttempts
	}
	return constants.DefaultMaxRetryAttempts
}

// RunWithTimeout executes an AI request with proper timeout and retry handling.
// The execute function is provider-specific and handles request building and response parsing.
func (b *BaseRunner) RunWithTimeout(ctx context.Context, req *domain.AIRequest, execute ExecuteFunc) (*domain.AIResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	timeout := b.ResolveTimeout(req)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return b.runWithRetry(runCtx, req, execute)
}

// HandleExecutionError processes errors from provider execution.
// It checks for context cancellation and attempts to parse error responses.
func (b *BaseRunner) HandleExecutionError(ctx context.Context, err error, tryParse func() (*domain.AIResult, bool), wrapErr func(error) error) (*domain.AIResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// A failed run may still have printed a JSON error payload
	if tryParse != nil {
		if result, handled := tryParse(); handled {
			return result, nil
		}
	}

	return nil, wrapErr(err)
}

// HandleProviderExecutionError wraps CLI errors with provider info.
func (b *BaseRunner) HandleProviderExecutionError(
	ctx context.Context,
	info CLIInfo,
	err error,
	stderr []byte,
	tryParse func() (*domain.AIResult, bool),
) (*domain.AIResult, error) {
	return b.HandleExecutionError(ctx, err, tryParse, func(e error) error {
		return WrapCLIExecutionError(info, e, stderr)
	})
}

// runWithRetry executes the AI request with exponential backoff retry logic.
// Only transient errors are retried; non-retryable errors return immediately.
// With the default of one attempt the first failure is returned as is.
func (b *BaseRunner) runWithRetry(ctx context.Context, req *domain.AIRequest, execute ExecuteFunc) (*domain.AIResult, error) {
	var lastErr error
	backoff := constants.InitialBackoff
	attempts := b.maxAttempts()

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			b.Logger.Debug().
				Str("role_id", req.RoleID).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Msg("retrying AI request")
		}

		result, err := execute(ctx, req)
		if err == nil {
			if attempt > 1 {
				b.Logger.Info().
					Str("role_id", req.RoleID).
					Int("attempt", attempt).
					Msg("AI request succeeded after retry")
			}
			return result, nil
		}

		if attempts == 1 || !isRetryable(err) {
			b.Logger.Debug().
				Err(err).
				Str("role_id", req.RoleID).
				Int("attempt", attempt).
				Msg("AI request failed")
			return nil, err
		}

		lastErr = err
		if attempt < attempts {
			b.Logger.Warn().
				Err(err).
				Str("role_id", req.RoleID).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Dur("backoff", backoff).
				Msg("AI request failed, will retry after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-timeSleep(backoff):
				backoff *= constants.BackoffMultiplier
			}
		}
	}

	b.Logger.Error().
		Err(lastErr).
		Str("role_id", req.RoleID).
		Int("max_attempts", attempts).
		Msg("AI request failed after max retries")

	return nil, fmt.Errorf("%w: max retries exceeded: %w", b.ErrType, lastErr)
}
