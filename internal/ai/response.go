package ai

import (
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// ClaudeResponse represents the JSON response from Claude Code CLI.
// This struct matches the JSON output format when using --output-format json.
type ClaudeResponse struct {
	// Type indicates the response type (e.g., "result").
	Type string `json:"type"`

	// Subtype provides additional type information.
	Subtype string `json:"subtype"`

	// IsError indicates whether the response represents an error.
	IsError bool `json:"is_error"`

	// Result contains the AI's text response.
	Result string `json:"result"`

	// SessionID identifies the AI session for debugging.
	SessionID string `json:"session_id"`

	// Duration is how long the AI session took in milliseconds.
	Duration int `json:"duration_ms"`

	// TotalCost is the estimated cost of the AI session in USD.
	TotalCost float64 `json:"total_cost_usd"`
}

// parseClaudeResponse parses the JSON output from Claude Code CLI.
func parseClaudeResponse(data []byte) (*ClaudeResponse, error) {
	return parseResponse[ClaudeResponse](data, forgeerrors.ErrClaudeInvocation)
}

// toAIResult converts a ClaudeResponse to a domain.AIResult.
func (r *ClaudeResponse) toAIResult(stderr string) *domain.AIResult {
	result := &domain.AIResult{
		Success:      !r.IsError,
		Output:       r.Result,
		SessionID:    r.SessionID,
		DurationMs:   r.Duration,
		TotalCostUSD: r.TotalCost,
	}

	if r.IsError && stderr != "" {
		result.Error = stderr
	}

	return result
}
