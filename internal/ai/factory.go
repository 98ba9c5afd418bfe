package ai

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/logging"
)

// APIKeyEnvVar returns the environment variable holding an agent's API key,
// honoring the api_key_env_vars override.
func APIKeyEnvVar(cfg *config.AIConfig, agent domain.Agent) string {
	if cfg != nil {
		if custom, ok := cfg.APIKeyEnvVars[agent.String()]; ok && custom != "" {
			return custom
		}
	}
	return agent.APIKeyEnvVar()
}

// APIKeyFor returns the API key for an agent, honoring the api_key_env_vars override.
func APIKeyFor(cfg *config.AIConfig, agent domain.Agent) string {
	envVar := APIKeyEnvVar(cfg, agent)
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// NewRunner builds the MultiRunner for a configuration. The Claude CLI runner is
// always registered; the API-backed runners are registered only when their key
// is present, so selecting one without a key fails with ErrAgentNotFound.
func NewRunner(ctx context.Context, cfg *config.AIConfig, logger zerolog.Logger) (*MultiRunner, error) {
	registry := NewRunnerRegistry()
	registry.Register(domain.AgentClaude, NewClaudeCodeRunner(cfg, nil, WithClaudeLogger(logger)))

	if key := APIKeyFor(cfg, domain.AgentGemini); key != "" {
		logKey(logger, cfg, domain.AgentGemini, key)
		runner, err := NewGeminiRunner(ctx, cfg, key, WithGeminiLogger(logger))
		if err != nil {
			return nil, err
		}
		registry.Register(domain.AgentGemini, runner)
	}

	if key := APIKeyFor(cfg, domain.AgentOpenAI); key != "" {
		logKey(logger, cfg, domain.AgentOpenAI, key)
		runner, err := NewOpenAIRunner(ctx, cfg, key, WithOpenAILogger(logger))
		if err != nil {
			return nil, err
		}
		registry.Register(domain.AgentOpenAI, runner)
	}

	logger.Debug().
		Str("default_agent", cfg.Agent).
		Interface("agents", registry.Agents()).
		Msg("runners registered")

	return NewMultiRunner(registry, domain.Agent(cfg.Agent)), nil
}

func logKey(logger zerolog.Logger, cfg *config.AIConfig, agent domain.Agent, key string) {
	envVar := APIKeyEnvVar(cfg, agent)
	logger.Debug().
		Str("agent", agent.String()).
		Str("env_var", envVar).
		Str("api_key", logging.SafeValue(envVar, key)).
		Msg("provider key loaded")
}
