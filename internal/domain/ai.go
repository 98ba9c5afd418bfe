package domain

import "time"

// AIRequest is one call to the content-generation provider. The generation
// client renders a role's instructions, the request summary and context fields
// into Prompt and SystemPrompt.
type AIRequest struct {
	// Agent selects the provider. Empty means the runner's default.
	Agent Agent `json:"agent,omitempty"`

	// Prompt is the user-turn text.
	Prompt string `json:"prompt"`

	// SystemPrompt carries the role instructions.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Model is a model alias or full model name.
	Model string `json:"model"`

	// MaxBudgetUSD limits provider spending for this request. Zero means no limit.
	MaxBudgetUSD float64 `json:"max_budget_usd,omitempty"`

	// Timeout bounds the call. Zero means the runner's configured default.
	Timeout time.Duration `json:"timeout"`

	// RoleID names the role this call serves, for logging.
	RoleID string `json:"role_id,omitempty"`
}

// AIResult is the provider's answer to an AIRequest. Output is raw text with no
// format guarantee.
type AIResult struct {
	Success      bool    `json:"success"`
	Output       string  `json:"output"`
	SessionID    string  `json:"session_id,omitempty"`
	DurationMs   int     `json:"duration_ms"`
	TotalCostUSD float64 `json:"total_cost_usd,omitempty"`
	Error        string  `json:"error,omitempty"`
}
