package ai

import (
	"time"

	"github.com/mrz1836/forge/internal/domain"
)

// RequestOption is a functional option for configuring an AIRequest.
type RequestOption func(*domain.AIRequest)

// NewAIRequest creates a new AIRequest with the given prompt and optional configuration.
// A zero timeout defers to the runner's configured timeout.
//
// Example:
//
//	req := NewAIRequest(prompt,
//	    WithSystemPrompt(role.Instructions),
//	    WithRoleID(role.ID),
//	)
func NewAIRequest(prompt string, opts ...RequestOption) *domain.AIRequest {
	req := &domain.AIRequest{
		Prompt: prompt,
	}

	for _, opt := range opts {
		opt(req)
	}

	return req
}

// WithAgent routes the request to a specific provider.
func WithAgent(agent domain.Agent) RequestOption {
	return func(req *domain.AIRequest) {
		req.Agent = agent
	}
}

// WithModel sets the AI model or alias to use.
// Examples: "sonnet", "flash", "mini"
func WithModel(model string) RequestOption {
	return func(req *domain.AIRequest) {
		req.Model = model
	}
}

// WithTimeout sets the maximum duration for the call.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(req *domain.AIRequest) {
		req.Timeout = timeout
	}
}

// WithSystemPrompt sets the system prompt (role instructions).
func WithSystemPrompt(prompt string) RequestOption {
	return func(req *domain.AIRequest) {
		req.SystemPrompt = prompt
	}
}

// WithRoleID tags the request with the role it serves.
func WithRoleID(id string) RequestOption {
	return func(req *domain.AIRequest) {
		req.RoleID = id
	}
}

// WithMaxBudget limits provider spending for the call.
func WithMaxBudget(usd float64) RequestOption {
	return func(req *domain.AIRequest) {
		req.MaxBudgetUSD = usd
	}
}
