package config

import (
	"github.com/mrz1836/forge/internal/errors"
)

// maxRetryAttempts caps transport retries so a failing provider cannot stall a turn.
const maxRetryAttempts = 5

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - AI agent must be claude, gemini or openai
//   - AI timeout must be positive
//   - AI max retry attempts must be between 1 and 5
//   - Delivery must be classified or merge; force mode empty, parallel or sequential
//   - Request length and document cap must be positive; cache size not negative
//   - Clarification max rounds must not be negative
//   - Session max age must be positive; escalation threshold at least 1
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateAIConfig(&cfg.AI); err != nil {
		return err
	}

	if err := validateGenerationConfig(&cfg.Generation); err != nil {
		return err
	}

	if cfg.Clarification.MaxRounds < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidClarification,
			"clarification.max_rounds must not be negative, got %d", cfg.Clarification.MaxRounds)
	}

	return validateCollaborationConfig(&cfg.Collaboration)
}

// validateAIConfig checks AI-specific configuration values.
func validateAIConfig(cfg *AIConfig) error {
	switch cfg.Agent {
	case "claude", "gemini", "openai":
	default:
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.agent must be claude, gemini or openai, got %q", cfg.Agent)
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.MaxRetryAttempts < 1 || cfg.MaxRetryAttempts > maxRetryAttempts {
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.max_retry_attempts must be between 1 and %d, got %d", maxRetryAttempts, cfg.MaxRetryAttempts)
	}

	if cfg.MaxBudgetUSD < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidAI,
			"ai.max_budget_usd must not be negative, got %.2f", cfg.MaxBudgetUSD)
	}

	return nil
}

// validateGenerationConfig checks generation-specific configuration values.
func validateGenerationConfig(cfg *GenerationConfig) error {
	if cfg.Delivery != DeliveryClassified && cfg.Delivery != DeliveryMerge {
		return errors.Wrapf(errors.ErrConfigInvalidGeneration,
			"generation.delivery must be %s or %s, got %q", DeliveryClassified, DeliveryMerge, cfg.Delivery)
	}

	switch cfg.ForceMode {
	case "", "parallel", "sequential":
	default:
		return errors.Wrapf(errors.ErrConfigInvalidGeneration,
			"generation.force_mode must be empty, parallel or sequential, got %q", cfg.ForceMode)
	}

	if cfg.MaxRequestLength <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGeneration,
			"generation.max_request_length must be positive, got %d", cfg.MaxRequestLength)
	}

	if cfg.DocumentCharCap <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGeneration,
			"generation.document_char_cap must be positive, got %d", cfg.DocumentCharCap)
	}

	if cfg.CacheSize < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidGeneration,
			"generation.cache_size must not be negative, got %d", cfg.CacheSize)
	}

	return nil
}

// validateCollaborationConfig checks collaboration-specific configuration values.
func validateCollaborationConfig(cfg *CollaborationConfig) error {
	if cfg.SessionMaxAge <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidCollaboration,
			"collaboration.session_max_age must be positive, got %s", cfg.SessionMaxAge)
	}

	if cfg.EscalationIssueThreshold < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidCollaboration,
			"collaboration.escalation_issue_threshold must be at least 1, got %d", cfg.EscalationIssueThreshold)
	}

	return nil
}
