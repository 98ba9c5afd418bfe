package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/forge/internal/constants"
	"github.com/mrz1836/forge/internal/errors"
)

// mergeStringMaps merges src map into dst map, creating dst if nil.
func mergeStringMaps(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// newViperInstance creates a new Viper instance with the forge env prefix (FORGE_),
// key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("FORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (FORGE_* prefix)
//  2. Project config (.forge/config.yaml)
//  3. Global config (~/.forge/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("ai.agent", cfg.AI.Agent).
		Dur("ai.timeout", cfg.AI.Timeout).
		Str("generation.delivery", cfg.Generation.Delivery).
		Int("clarification.max_rounds", cfg.Clarification.MaxRounds).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.forge/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if it exists.
func getGlobalConfigPathIfExists() (string, bool) {
	globalDir, err := GlobalConfigDir()
	if err != nil {
		return "", false
	}

	globalConfigPath := filepath.Join(globalDir, constants.GlobalConfigName)
	if _, err := os.Stat(globalConfigPath); err != nil {
		return "", false
	}

	return globalConfigPath, true
}

// loadProjectConfig attempts to load the project config file (.forge/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// projectConfigPath has higher priority than globalConfigPath.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("ai.agent", d.AI.Agent)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.api_key_env_vars", d.AI.APIKeyEnvVars)
	v.SetDefault("ai.timeout", d.AI.Timeout.String())
	v.SetDefault("ai.max_budget_usd", d.AI.MaxBudgetUSD)
	v.SetDefault("ai.max_retry_attempts", d.AI.MaxRetryAttempts)

	v.SetDefault("generation.delivery", d.Generation.Delivery)
	v.SetDefault("generation.force_mode", d.Generation.ForceMode)
	v.SetDefault("generation.max_request_length", d.Generation.MaxRequestLength)
	v.SetDefault("generation.document_char_cap", d.Generation.DocumentCharCap)
	v.SetDefault("generation.cache_size", d.Generation.CacheSize)

	v.SetDefault("clarification.enabled", d.Clarification.Enabled)
	v.SetDefault("clarification.max_rounds", d.Clarification.MaxRounds)

	v.SetDefault("collaboration.enabled", d.Collaboration.Enabled)
	v.SetDefault("collaboration.session_max_age", d.Collaboration.SessionMaxAge.String())
	v.SetDefault("collaboration.escalation_issue_threshold", d.Collaboration.EscalationIssueThreshold)
}

// applyOverrides merges non-zero override values into the config.
//
// IMPORTANT: Boolean fields (Clarification.Enabled, Collaboration.Enabled) cannot
// be overridden to false here because false is the zero value. CLI implementations
// handle those flags separately with cmd.Flags().Changed.
func applyOverrides(cfg, overrides *Config) {
	applyAIOverrides(cfg, overrides)
	applyGenerationOverrides(cfg, overrides)

	if overrides.Clarification.MaxRounds != 0 {
		cfg.Clarification.MaxRounds = overrides.Clarification.MaxRounds
	}
	if overrides.Collaboration.SessionMaxAge != 0 {
		cfg.Collaboration.SessionMaxAge = overrides.Collaboration.SessionMaxAge
	}
	if overrides.Collaboration.EscalationIssueThreshold != 0 {
		cfg.Collaboration.EscalationIssueThreshold = overrides.Collaboration.EscalationIssueThreshold
	}
}

// applyAIOverrides applies AI-related overrides to the config.
func applyAIOverrides(cfg, overrides *Config) {
	if overrides.AI.Agent != "" {
		cfg.AI.Agent = overrides.AI.Agent
	}
	if overrides.AI.Model != "" {
		cfg.AI.Model = overrides.AI.Model
	}
	cfg.AI.APIKeyEnvVars = mergeStringMaps(cfg.AI.APIKeyEnvVars, overrides.AI.APIKeyEnvVars)
	if overrides.AI.Timeout != 0 {
		cfg.AI.Timeout = overrides.AI.Timeout
	}
	if overrides.AI.MaxBudgetUSD != 0 {
		cfg.AI.MaxBudgetUSD = overrides.AI.MaxBudgetUSD
	}
	if overrides.AI.MaxRetryAttempts != 0 {
		cfg.AI.MaxRetryAttempts = overrides.AI.MaxRetryAttempts
	}
}

// applyGenerationOverrides applies generation-related overrides to the config.
func applyGenerationOverrides(cfg, overrides *Config) {
	if overrides.Generation.Delivery != "" {
		cfg.Generation.Delivery = overrides.Generation.Delivery
	}
	if overrides.Generation.ForceMode != "" {
		cfg.Generation.ForceMode = overrides.Generation.ForceMode
	}
	if overrides.Generation.MaxRequestLength != 0 {
		cfg.Generation.MaxRequestLength = overrides.Generation.MaxRequestLength
	}
	if overrides.Generation.DocumentCharCap != 0 {
		cfg.Generation.DocumentCharCap = overrides.Generation.DocumentCharCap
	}
	if overrides.Generation.CacheSize != 0 {
		cfg.Generation.CacheSize = overrides.Generation.CacheSize
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
