package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/forge/internal/ai"
	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/logging"
)

// loadConfig loads the layered configuration and applies flag overrides.
func loadConfig(ctx context.Context, overrides *config.Config) (*config.Config, error) {
	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// configOverrides builds the override layer from command flags. Empty values
// leave the loaded configuration untouched.
func configOverrides(agent, model, delivery, mode string) *config.Config {
	return &config.Config{
		AI:         config.AIConfig{Agent: agent, Model: model},
		Generation: config.GenerationConfig{Delivery: delivery, ForceMode: mode},
	}
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// AnnotatedConfig maps "section.key" to the effective value and its source.
type AnnotatedConfig map[string]ConfigValueWithSource

// AddConfigCommand adds the config command and its show subcommand.
func AddConfigCommand(root *cobra.Command, a *app) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect forge configuration",
	}

	var asYAML bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective forge configuration with source annotations.

Each value is tagged with where it comes from:
  - default: Built-in default value
  - global: From ~/.forge/config.yaml
  - project: From .forge/config.yaml
  - env: From a FORGE_* environment variable

API keys are never printed; only whether their environment variable is set.

Examples:
  forge config show
  forge config show --yaml > .forge/config.yaml
  forge config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd, a, asYAML)
		},
	}
	show.Flags().BoolVar(&asYAML, "yaml", false, "print the effective values as a YAML config file")

	configCmd.AddCommand(show)
	root.AddCommand(configCmd)
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, cmd *cobra.Command, a *app, asYAML bool) error {
	cfg, err := loadConfig(ctx, nil)
	if err != nil {
		return err
	}

	values := effectiveValues(cfg)

	if asYAML {
		data, err := yaml.Marshal(nestValues(values))
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	global, project := loadConfigLayers()
	annotated := make(AnnotatedConfig, len(values))
	for key, value := range values {
		annotated[key] = ConfigValueWithSource{Value: value, Source: determineSource(key, global, project)}
	}

	out := a.output(cmd)
	if a.jsonOutput() {
		return out.JSON(annotated)
	}

	keys := make([]string, 0, len(annotated))
	for k := range annotated {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		v := annotated[k]
		rows = append(rows, []string{k, fmt.Sprint(v.Value), string(v.Source)})
	}
	out.Table([]string{"KEY", "VALUE", "SOURCE"}, rows)

	keyRows := make([][]string, 0, len(domain.AllAgents()))
	for _, agent := range domain.AllAgents() {
		envVar := ai.APIKeyEnvVar(&cfg.AI, agent)
		state := "not set"
		if os.Getenv(envVar) != "" {
			state = "set"
		}
		keyRows = append(keyRows, []string{string(agent), envVar, state})
	}
	out.Table([]string{"AGENT", "API KEY ENV VAR", "STATE"}, keyRows)

	if path, err := logging.FilePath(); err == nil {
		out.Info("Log file: " + path)
	}
	return nil
}

// effectiveValues flattens cfg into "section.key" entries. Durations are
// rendered as strings so the output round-trips through the config loader.
func effectiveValues(cfg *config.Config) map[string]any {
	return map[string]any{
		"ai.agent":              cfg.AI.Agent,
		"ai.model":              cfg.AI.Model,
		"ai.timeout":            cfg.AI.Timeout.String(),
		"ai.max_budget_usd":     cfg.AI.MaxBudgetUSD,
		"ai.max_retry_attempts": cfg.AI.MaxRetryAttempts,

		"generation.delivery":           cfg.Generation.Delivery,
		"generation.force_mode":         cfg.Generation.ForceMode,
		"generation.max_request_length": cfg.Generation.MaxRequestLength,
		"generation.document_char_cap":  cfg.Generation.DocumentCharCap,
		"generation.cache_size":         cfg.Generation.CacheSize,

		"clarification.enabled":    cfg.Clarification.Enabled,
		"clarification.max_rounds": cfg.Clarification.MaxRounds,

		"collaboration.enabled":                    cfg.Collaboration.Enabled,
		"collaboration.session_max_age":            cfg.Collaboration.SessionMaxAge.String(),
		"collaboration.escalation_issue_threshold": cfg.Collaboration.EscalationIssueThreshold,
	}
}

// nestValues turns "section.key" entries back into nested maps.
func nestValues(values map[string]any) map[string]map[string]any {
	nested := make(map[string]map[string]any)
	for key, value := range values {
		section, name, _ := strings.Cut(key, ".")
		if nested[section] == nil {
			nested[section] = make(map[string]any)
		}
		nested[section][name] = value
	}
	return nested
}

// loadConfigLayers reads the global and project config files as flat key sets.
// Missing or unreadable files yield empty sets.
func loadConfigLayers() (global, project map[string]bool) {
	if path, err := config.GlobalConfigPath(); err == nil {
		global = loadConfigKeys(path)
	}
	return global, loadConfigKeys(config.ProjectConfigPath())
}

// loadConfigKeys returns the "section.key" names set in a YAML config file.
func loadConfigKeys(path string) map[string]bool {
	data, err := os.ReadFile(path) //nolint:gosec // config file path
	if err != nil {
		return nil
	}

	var doc map[string]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil
	}

	keys := make(map[string]bool)
	for section, entries := range doc {
		for name := range entries {
			keys[section+"."+name] = true
		}
	}
	return keys
}

// determineSource reports which layer supplied key. Environment variables win
// over the project file, which wins over the global file.
func determineSource(key string, global, project map[string]bool) ConfigSource {
	envKey := "FORGE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if _, ok := os.LookupEnv(envKey); ok {
		return SourceEnv
	}
	if project[key] {
		return SourceProject
	}
	if global[key] {
		return SourceGlobal
	}
	return SourceDefault
}
