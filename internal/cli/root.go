package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/forge/internal/ai"
	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/logging"
	"github.com/mrz1836/forge/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// RunnerFactory builds the provider runner for an AI configuration.
type RunnerFactory func(ctx context.Context, cfg *config.AIConfig, logger zerolog.Logger) (ai.Runner, error)

// defaultRunnerFactory registers the configured providers. Selecting an
// API-backed agent without its key fails here, before any work starts.
func defaultRunnerFactory(ctx context.Context, cfg *config.AIConfig, logger zerolog.Logger) (ai.Runner, error) {
	if err := requireAgentKey(cfg); err != nil {
		return nil, err
	}
	runner, err := ai.NewRunner(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return runner, nil
}

// Prompter asks the user for input on the terminal.
type Prompter interface {
	Select(title string, options []tui.Option) (string, error)
	Input(prompt, defaultValue string) (string, error)
	Confirm(message string, defaultYes bool) (bool, error)
}

// tuiPrompter is the Prompter backed by the huh menus.
type tuiPrompter struct{}

func (tuiPrompter) Select(title string, options []tui.Option) (string, error) {
	return tui.Select(title, options)
}

func (tuiPrompter) Input(prompt, defaultValue string) (string, error) {
	return tui.Input(prompt, defaultValue)
}

func (tuiPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	return tui.Confirm(message, defaultYes)
}

// requireAgentKey reports a missing API key for the selected agent. The Claude
// agent runs through its CLI and needs none.
func requireAgentKey(cfg *config.AIConfig) error {
	agent := domain.Agent(cfg.Agent)
	if agent == domain.AgentClaude {
		return nil
	}
	envVar := ai.APIKeyEnvVar(cfg, agent)
	if envVar == "" || os.Getenv(envVar) != "" {
		return nil
	}
	ae := tui.FromError(fmt.Errorf("%w: %s", errors.ErrAPIKeyMissing, agent)).WithContext(envVar + " is not set")
	ae.Suggestion = fmt.Sprintf("Export %s or pass --agent %s.", envVar, domain.AgentClaude)
	return ae
}

// app carries what every command needs: the global flags, the runner factory,
// the prompts and the log file to close on exit.
type app struct {
	flags       *GlobalFlags
	newRunner   RunnerFactory
	interactive func() bool
	prompter    Prompter
	logCloser   io.Closer
}

// Option configures the root command.
type Option func(*app)

// WithRunnerFactory replaces the provider runner factory.
func WithRunnerFactory(fn RunnerFactory) Option {
	return func(a *app) {
		a.newRunner = fn
	}
}

// WithInteractive overrides terminal detection for clarification prompts.
func WithInteractive(fn func() bool) Option {
	return func(a *app) {
		a.interactive = fn
	}
}

// WithPrompter replaces the interactive prompts.
func WithPrompter(p Prompter) Option {
	return func(a *app) {
		a.prompter = p
	}
}

// newRootCmd creates and returns the root command for the forge CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo, opts ...Option) (*cobra.Command, *app) {
	a := &app{
		flags:       flags,
		newRunner:   defaultRunnerFactory,
		interactive: tui.IsInteractive,
		prompter:    tuiPrompter{},
	}
	for _, opt := range opts {
		opt(a)
	}

	v := viper.New()

	cmd := &cobra.Command{
		Use:   "forge",
		Short: "forge - turn a plain-language request into a working application",
		Long: `forge reads a free-text request, asks at most a few clarifying questions,
fans the work out to specialist roles (architect, designer, developer, security,
qa, ...) and assembles their output into a single document or a multi-file project.

Features:
  • Keyword-based requirement extraction in English and French
  • One composed clarification turn with documented defaults
  • Parallel or sequential role execution on Claude, Gemini or OpenAI
  • Multi-file project extraction with path traversal protection
  • Heuristic issue detection and cross-role review sessions`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			applyBoundFlags(v, cmd, flags)

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			tui.CheckNoColor()

			opts := logging.Options{Verbose: flags.Verbose, Quiet: flags.Quiet}
			if w := cmd.ErrOrStderr(); w != io.Writer(os.Stderr) {
				opts.Console = w
			}
			logger, closer, err := logging.New(opts)
			a.logCloser = closer
			if err != nil {
				logger.Debug().Err(err).Msg("log file disabled")
			}

			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.closeLog()
		},
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	AddGenerateCommand(cmd, a)
	AddPlanCommand(cmd, a)
	AddExtractCommand(cmd, a)
	AddReviewCommand(cmd, a)
	AddRolesCommand(cmd, a)
	AddConfigCommand(cmd, a)

	return cmd, a
}

// closeLog flushes the log file once.
func (a *app) closeLog() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

// output returns the writer-bound output for the selected format.
func (a *app) output(cmd *cobra.Command) tui.Output {
	return tui.NewOutput(cmd.OutOrStdout(), a.flags.Output)
}

// jsonOutput reports whether machine-readable output was requested.
func (a *app) jsonOutput() bool {
	return a.flags.Output == OutputJSON
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo, opts ...Option) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd, a := newRootCmd(flags, info, opts...)
	err := cmd.ExecuteContext(ctx)
	_ = a.closeLog()
	return err
}
