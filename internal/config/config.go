// Package config provides configuration management for forge with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (FORGE_* prefix)
//  3. Project config (.forge/config.yaml)
//  4. Global config (~/.forge/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Delivery modes for the final artifact.
const (
	// DeliveryClassified sends one assembly request and classifies the response
	// into a single document or a multi-file project.
	DeliveryClassified = "classified"

	// DeliveryMerge concatenates the role outputs into one document.
	DeliveryMerge = "merge"
)

// Config is the root configuration structure for forge.
type Config struct {
	// AI contains settings for the content-generation transport.
	AI AIConfig `yaml:"ai" mapstructure:"ai"`

	// Generation contains settings for role execution and delivery.
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`

	// Clarification contains settings for the clarification turn.
	Clarification ClarificationConfig `yaml:"clarification" mapstructure:"clarification"`

	// Collaboration contains settings for issue detection and review sessions.
	Collaboration CollaborationConfig `yaml:"collaboration" mapstructure:"collaboration"`
}

// AIConfig contains settings for AI/LLM operations.
// These settings control how forge talks to Claude Code, Gemini and OpenAI.
type AIConfig struct {
	// Agent specifies which provider to use ("claude", "gemini", "openai").
	// Default: "claude"
	Agent string `yaml:"agent" mapstructure:"agent"`

	// Model specifies the model or alias (e.g., "sonnet", "flash", "mini").
	// Empty means the agent's default model.
	Model string `yaml:"model" mapstructure:"model"`

	// APIKeyEnvVars maps agent names to their API key environment variable names.
	// Example: {"gemini": "MY_GEMINI_KEY"}
	// If an agent is not in the map, its default env var is used.
	APIKeyEnvVars map[string]string `yaml:"api_key_env_vars" mapstructure:"api_key_env_vars"`

	// Timeout is the maximum duration for a single provider call.
	// Default: 10 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxBudgetUSD limits the dollar amount spent per call (claude only).
	// Zero means unlimited.
	MaxBudgetUSD float64 `yaml:"max_budget_usd" mapstructure:"max_budget_usd"`

	// MaxRetryAttempts is the number of transport attempts per call.
	// Default: 1 (no retry). Valid range: 1-5
	MaxRetryAttempts int `yaml:"max_retry_attempts" mapstructure:"max_retry_attempts"`
}

// GenerationConfig contains settings for role execution.
type GenerationConfig struct {
	// Delivery selects how role outputs become an artifact ("classified" or "merge").
	// Default: "classified"
	Delivery string `yaml:"delivery" mapstructure:"delivery"`

	// ForceMode overrides the planner's execution mode ("", "parallel", "sequential").
	ForceMode string `yaml:"force_mode" mapstructure:"force_mode"`

	// MaxRequestLength is the maximum number of runes accepted in a request.
	// Default: 10000
	MaxRequestLength int `yaml:"max_request_length" mapstructure:"max_request_length"`

	// DocumentCharCap is the maximum number of runes kept per attached document.
	// Default: 20000
	DocumentCharCap int `yaml:"document_char_cap" mapstructure:"document_char_cap"`

	// CacheSize is the number of provider responses kept in memory.
	// Zero disables the cache.
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`
}

// ClarificationConfig contains settings for the clarification turn.
type ClarificationConfig struct {
	// Enabled turns the clarification turn on. When false, missing fields
	// fall back to the suggested defaults immediately.
	// Default: true
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// MaxRounds is the number of question turns asked before defaults apply.
	// Default: 1
	MaxRounds int `yaml:"max_rounds" mapstructure:"max_rounds"`
}

// CollaborationConfig contains settings for issue detection and review sessions.
type CollaborationConfig struct {
	// Enabled turns issue detection on for succeeded role outputs.
	// Default: true
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// SessionMaxAge is how long a resolved session is kept before GC.
	// Default: 1 hour
	SessionMaxAge time.Duration `yaml:"session_max_age" mapstructure:"session_max_age"`

	// EscalationIssueThreshold is the issue count above which a scan escalates.
	// Default: 3
	EscalationIssueThreshold int `yaml:"escalation_issue_threshold" mapstructure:"escalation_issue_threshold"`
}
