package config

import (
	"github.com/mrz1836/forge/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			// Agent: claude is the primary provider.
			Agent: "claude",

			// Model: empty resolves to the agent's default model.
			Model: "",

			APIKeyEnvVars: map[string]string{
				"claude": "ANTHROPIC_API_KEY",
				"gemini": "GEMINI_API_KEY",
				"openai": "OPENAI_API_KEY",
			},

			Timeout: constants.DefaultAITimeout,

			// MaxRetryAttempts: 1 means a failed call is reported, not retried.
			MaxRetryAttempts: constants.DefaultMaxRetryAttempts,
		},
		Generation: GenerationConfig{
			Delivery:         DeliveryClassified,
			ForceMode:        "",
			MaxRequestLength: constants.DefaultMaxRequestLength,
			DocumentCharCap:  constants.DefaultDocumentCharCap,
			CacheSize:        0,
		},
		Clarification: ClarificationConfig{
			Enabled:   true,
			MaxRounds: constants.DefaultMaxClarificationRounds,
		},
		Collaboration: CollaborationConfig{
			Enabled:                  true,
			SessionMaxAge:            constants.DefaultSessionMaxAge,
			EscalationIssueThreshold: constants.DefaultEscalationIssueThreshold,
		},
	}
}
