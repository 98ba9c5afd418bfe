package ai

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// claudeCLIInfo contains Claude-specific CLI metadata for error messages.
//
//nolint:gochecknoglobals // Constant-like structure
var claudeCLIInfo = CLIInfo{
	Name:        "claude",
	InstallHint: "please install claude code",
	ErrType:     forgeerrors.ErrClaudeInvocation,
	EnvVar:      "ANTHROPIC_API_KEY",
}

// CommandExecutor abstracts command execution for testing.
// The production implementation uses exec.Cmd to run subprocesses,
// while tests can provide a mock implementation.
type CommandExecutor interface {
	// Execute runs the command and returns stdout, stderr, and any error.
	Execute(ctx context.Context, cmd *exec.Cmd) (stdout, stderr []byte, err error)
}

// DefaultExecutor is the production implementation of CommandExecutor.
type DefaultExecutor struct{}

// Execute runs the command and captures its output.
func (e *DefaultExecutor) Execute(_ context.Context, cmd *exec.Cmd) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ClaudeCodeRunner implements Runner for Claude Code CLI invocation.
// It runs `claude -p --output-format json` with the prompt on stdin and
// parses the JSON response into an AIResult.
type ClaudeCodeRunner struct {
	base   BaseRunner
	logger zerolog.Logger
}

// ClaudeRunnerOption is a functional option for configuring ClaudeCodeRunner.
type ClaudeRunnerOption func(*ClaudeCodeRunner)

// WithClaudeLogger sets the logger for the ClaudeCodeRunner.
func WithClaudeLogger(logger zerolog.Logger) ClaudeRunnerOption {
	return func(r *ClaudeCodeRunner) {
		r.logger = logger
	}
}

// NewClaudeCodeRunner creates a new ClaudeCodeRunner with the given configuration.
// If executor is nil, a DefaultExecutor is used for production subprocess execution.
func NewClaudeCodeRunner(cfg *config.AIConfig, executor CommandExecutor, opts ...ClaudeRunnerOption) *ClaudeCodeRunner {
	if executor == nil {
		executor = &DefaultExecutor{}
	}
	r := &ClaudeCodeRunner{
		base: BaseRunner{
			Config:   cfg,
			Executor: executor,
			ErrType:  forgeerrors.ErrClaudeInvocation,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.base.Logger = r.logger

	return r
}

// Run executes an AI request using the Claude Code CLI.
func (r *ClaudeCodeRunner) Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	return r.base.RunWithTimeout(ctx, req, r.execute)
}

// execute performs a single CLI invocation.
func (r *ClaudeCodeRunner) execute(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	cmd := r.buildCommand(ctx, req)

	// Prompts can be large; pass them on stdin rather than argv
	cmd.Stdin = strings.NewReader(req.Prompt)

	stdout, stderr, err := r.base.Executor.Execute(ctx, cmd)
	if err != nil {
		return r.handleExecutionError(ctx, err, stdout, stderr)
	}

	resp, parseErr := parseClaudeResponse(stdout)
	if parseErr != nil {
		return nil, parseErr
	}

	r.logger.Debug().
		Str("role_id", req.RoleID).
		Str("session_id", resp.SessionID).
		Int("duration_ms", resp.Duration).
		Float64("cost_usd", resp.TotalCost).
		Msg("claude call completed")

	return resp.toAIResult(string(stderr)), nil
}

// handleExecutionError processes errors from command execution.
func (r *ClaudeCodeRunner) handleExecutionError(ctx context.Context, err error, stdout, stderr []byte) (*domain.AIResult, error) {
	return r.base.HandleProviderExecutionError(ctx, claudeCLIInfo, err, stderr,
		func() (*domain.AIResult, bool) {
			return r.tryParseErrorResponse(err, stdout, stderr)
		},
	)
}

// tryParseErrorResponse attempts to extract error information from a JSON response.
func (r *ClaudeCodeRunner) tryParseErrorResponse(execErr error, stdout, stderr []byte) (*domain.AIResult, bool) {
	if len(stdout) == 0 {
		return nil, false
	}

	resp, parseErr := parseClaudeResponse(stdout)
	if parseErr != nil || !resp.IsError {
		return nil, false
	}

	result := resp.toAIResult(string(stderr))
	result.Error = fmt.Sprintf("%s: %s", execErr.Error(), string(stderr))
	return result, true
}

// buildCommand constructs the claude CLI command with appropriate flags.
func (r *ClaudeCodeRunner) buildCommand(ctx context.Context, req *domain.AIRequest) *exec.Cmd {
	args := []string{
		"-p", // Print mode (non-interactive)
		"--output-format", "json",
	}

	if model := r.base.ResolveModel(domain.AgentClaude, req); model != "" {
		args = append(args, "--model", model)
	}

	// Budget limiting: request > config (0 = unlimited)
	budgetUSD := req.MaxBudgetUSD
	if budgetUSD == 0 && r.base.Config != nil {
		budgetUSD = r.base.Config.MaxBudgetUSD
	}
	if budgetUSD > 0 {
		args = append(args, "--max-budget-usd", fmt.Sprintf("%.2f", budgetUSD))
	}

	if req.SystemPrompt != "" {
		args = append(args, "--append-system-prompt", req.SystemPrompt)
	}

	return exec.CommandContext(ctx, "claude", args...)
}

// Compile-time check that ClaudeCodeRunner implements Runner.
var _ Runner = (*ClaudeCodeRunner)(nil)
