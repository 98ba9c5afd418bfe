package ai

import (
	"fmt"
	"strings"
)

// CLIInfo contains provider-specific information for error messages.
type CLIInfo struct {
	Name        string // Provider name (e.g., "claude", "gemini", "openai")
	InstallHint string // Installation or setup instructions
	ErrType     error  // Sentinel error type for this provider
	EnvVar      string // API key environment variable name
}

// WrapCLIExecutionError wraps an execution error with provider-specific context.
func WrapCLIExecutionError(info CLIInfo, err error, stderr []byte) error {
	stderrStr := strings.TrimSpace(string(stderr))

	if strings.Contains(stderrStr, "command not found") ||
		strings.Contains(err.Error(), "executable file not found") {
		return fmt.Errorf("%w: %s CLI not found - %s", info.ErrType, info.Name, info.InstallHint)
	}

	if strings.Contains(stderrStr, "api key") ||
		strings.Contains(stderrStr, "API key") ||
		strings.Contains(stderrStr, "authentication") ||
		(info.EnvVar != "" && strings.Contains(stderrStr, info.EnvVar)) {
		return fmt.Errorf("%w: API key error: %s", info.ErrType, stderrStr)
	}

	if stderrStr != "" {
		return fmt.Errorf("%w: %s", info.ErrType, stderrStr)
	}

	return fmt.Errorf("%w: %s", info.ErrType, err.Error())
}

// WrapAPIError wraps an SDK error with provider context. SDK errors carry no
// stderr, so the error text itself is inspected for credential problems.
func WrapAPIError(info CLIInfo, err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "api key") ||
		strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "permission denied") {
		return fmt.Errorf("%w: API key error (check %s): %s", info.ErrType, info.EnvVar, msg)
	}
	return fmt.Errorf("%w: %w", info.ErrType, err)
}
