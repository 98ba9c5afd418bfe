// Package ai provides the content-generation transport for forge.
//
// This package defines the Runner interface for issuing one generation call
// and provides implementations for the Claude Code CLI, the Gemini API and
// OpenAI chat models.
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// internal/config, internal/ctxutil and internal/domain. It MUST NOT import
// internal/generation, internal/pipeline, or internal/cli.
package ai

import (
	"context"

	"github.com/mrz1836/forge/internal/domain"
)

// Runner defines the interface for one provider call (exported as ai.Runner).
// Output is raw text with no format guarantee.
//
// Context should be used to control timeouts and cancellation.
type Runner interface {
	// Run executes an AI request and returns the result.
	// Returns an error wrapped with the provider's invocation sentinel on failure.
	Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error)
}

// RunnerFunc adapts an ordinary function to the Runner interface.
type RunnerFunc func(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error)

// Run calls f(ctx, req).
func (f RunnerFunc) Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	return f(ctx, req)
}
