package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/forge/internal/config"
	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/generation"
	"github.com/mrz1836/forge/internal/pipeline"
	"github.com/mrz1836/forge/internal/tui"
)

// GenerateFlags holds flags specific to the generate command.
type GenerateFlags struct {
	// Docs are files attached to the request as plain text.
	Docs []string
	// Answer replies to the clarification bundle without prompting.
	Answer string
	// Defaults settles every clarification question with its default.
	Defaults bool
	// Delivery overrides generation.delivery (classified or merge).
	Delivery string
	// Mode forces parallel or sequential execution.
	Mode string
	// Agent overrides ai.agent.
	Agent string
	// Model overrides ai.model.
	Model string
	// Out is the directory a project (or document) is written to.
	Out string
	// NoReview disables issue detection and review sessions.
	NoReview bool
	// Force overwrites files in a non-empty --out without asking.
	Force bool
}

// generateResult is the JSON shape of a finished generate run.
type generateResult struct {
	*pipeline.Outcome

	Artifact domain.ArtifactEnvelope `json:"artifact"`
	Written  []string                `json:"written,omitempty"`
}

// AddGenerateCommand adds the generate command to the root command.
func AddGenerateCommand(root *cobra.Command, a *app) {
	flags := &GenerateFlags{}

	cmd := &cobra.Command{
		Use:   "generate <request...>",
		Short: "Generate an application from a plain-language request",
		Long: `Generate an application from a plain-language request.

The request is read for application type, features and design. When something
important is missing, forge asks one composed question; answer it interactively,
with --answer, or accept the suggested defaults with --defaults. Without a
terminal and without an answer, the question is printed and forge exits with
code 2. A non-empty --out is only overwritten after confirmation or with
--force.

Examples:
  forge generate "an online shop with stripe payments"
  forge generate "crée une todo list" --defaults --out ./todo
  forge generate "a blog" --doc brief.md --answer "minimal design"
  forge generate "a dashboard" --delivery merge --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd, a, flags, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringArrayVar(&flags.Docs, "doc", nil, "attach a text document (repeatable)")
	cmd.Flags().StringVar(&flags.Answer, "answer", "", "answer to the clarification question")
	cmd.Flags().BoolVar(&flags.Defaults, "defaults", false, "accept the suggested defaults for every question")
	cmd.Flags().StringVar(&flags.Delivery, "delivery", "", "delivery mode (classified|merge)")
	cmd.Flags().StringVar(&flags.Mode, "mode", "", "force execution mode (parallel|sequential)")
	cmd.Flags().StringVar(&flags.Agent, "agent", "", "AI provider (claude|gemini|openai)")
	cmd.Flags().StringVar(&flags.Model, "model", "", "model name or alias")
	cmd.Flags().StringVar(&flags.Out, "out", "", "directory to write the generated files to")
	cmd.Flags().BoolVar(&flags.NoReview, "no-review", false, "skip issue detection and review sessions")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "overwrite files in a non-empty --out without asking")
	cmd.MarkFlagsMutuallyExclusive("answer", "defaults")

	root.AddCommand(cmd)
}

// runGenerate executes the generate command.
func runGenerate(ctx context.Context, cmd *cobra.Command, a *app, flags *GenerateFlags, request string) error {
	logger := zerolog.Ctx(ctx)
	out := a.output(cmd)

	cfg, err := loadConfig(ctx, configOverrides(flags.Agent, flags.Model, flags.Delivery, flags.Mode))
	if err != nil {
		return err
	}
	if flags.NoReview {
		cfg.Collaboration.Enabled = false
	}
	if err := a.confirmOverwrite(flags.Out, flags.Force); err != nil {
		return err
	}

	docs, err := readDocuments(flags.Docs)
	if err != nil {
		return err
	}

	runner, err := a.newRunner(ctx, &cfg.AI, *logger)
	if err != nil {
		return fmt.Errorf("failed to initialize %s runner: %w", cfg.AI.Agent, err)
	}

	var progress *tui.RoleProgress
	p, err := pipeline.New(cfg, runner,
		pipeline.WithLogger(*logger),
		pipeline.WithProgress(func(roleID string, status generation.Status) {
			if progress != nil {
				progress.Report(roleID, string(status))
			}
		}),
	)
	if err != nil {
		return err
	}

	turn := pipeline.Turn{Request: request, Documents: docs, UseDefaults: flags.Defaults}
	preview, err := settleClarification(ctx, cmd, a, cfg, p, turn, flags.Answer)
	if err != nil {
		return err
	}
	turn = preview.turn

	if !a.jsonOutput() && !a.flags.Quiet && preview.outcome.Plan != nil {
		plan := preview.outcome.Plan
		out.Info(fmt.Sprintf("Running %d role(s) in %s mode (about %ds)", len(plan.Roles), plan.Mode, plan.EstimatedDurationSeconds))
		progress = tui.NewRoleProgress(cmd.ErrOrStderr(), len(plan.Roles))
	}

	outcome, err := p.Run(ctx, turn)
	if err != nil {
		return err
	}

	written, err := deliverArtifact(flags.Out, outcome.Artifact)
	if err != nil {
		return err
	}

	if a.jsonOutput() {
		return out.JSON(generateResult{
			Outcome:  outcome,
			Artifact: domain.Envelope(outcome.Artifact),
			Written:  written,
		})
	}

	printOutcome(out, outcome)
	printArtifact(cmd.OutOrStdout(), out, outcome.Artifact, written, flags.Out)
	return nil
}

// previewResult is a settled turn and the preview it produced.
type previewResult struct {
	turn    pipeline.Turn
	outcome *pipeline.Outcome
}

// settleClarification previews the turn until no question is pending. A
// pending question is answered from --answer, then interactively; without
// either the bundle is printed and an exit-code-2 error returned.
func settleClarification(ctx context.Context, cmd *cobra.Command, a *app, cfg *config.Config, p *pipeline.Pipeline, turn pipeline.Turn, answer string) (previewResult, error) {
	out := a.output(cmd)
	maxTurns := cfg.Clarification.MaxRounds + 2

	for range maxTurns {
		outcome, err := p.Preview(ctx, turn)
		if err != nil {
			return previewResult{}, err
		}
		if !outcome.NeedsAnswer() {
			return previewResult{turn: turn, outcome: outcome}, nil
		}

		prior := outcome.Record
		turn.Prior = &prior

		switch {
		case answer != "":
			turn.Answer, answer = answer, ""
			continue
		case !a.jsonOutput() && a.interactive():
			out.Markdown(bundleMarkdown(outcome.Bundle))
			reply, askErr := askBundle(a.prompter, outcome.Bundle)
			if isMenuCanceled(askErr) {
				return previewResult{}, errors.NewExitCode2Error(errors.ErrUserInputRequired)
			}
			if askErr != nil {
				return previewResult{}, askErr
			}
			if reply == useDefaultsReply {
				turn.UseDefaults = true
			}
			turn.Answer = reply
			continue
		}

		if a.jsonOutput() {
			if err := out.JSON(outcome); err != nil {
				return previewResult{}, err
			}
			return previewResult{}, errors.NewExitCode2Error(errors.ErrJSONErrorOutput)
		}
		out.Markdown(bundleMarkdown(outcome.Bundle))
		return previewResult{}, errors.NewExitCode2Error(errors.ErrUserInputRequired)
	}

	return previewResult{}, errors.NewExitCode2Error(errors.ErrUserInputRequired)
}

// printOutcome prints role failures, review findings and sessions.
func printOutcome(out tui.Output, outcome *pipeline.Outcome) {
	succeeded := 0
	for _, r := range outcome.Results {
		if r.Succeeded {
			succeeded++
			continue
		}
		out.Warning(fmt.Sprintf("%s failed: %s", tui.Title(r.RoleID), r.Error))
	}
	out.Success(fmt.Sprintf("%d/%d role(s) succeeded", succeeded, len(outcome.Results)))

	if outcome.Extraction != nil {
		for _, w := range outcome.Extraction.Warnings {
			out.Warning(w)
		}
	}

	printReviews(out, outcome)
}

// printReviews prints every finding as one table row.
func printReviews(out tui.Output, outcome *pipeline.Outcome) {
	var rows [][]string
	for _, rep := range outcome.Reviews {
		for _, issue := range rep.Issues {
			rows = append(rows, []string{
				rep.RoleID,
				tui.FormatSeverity(issue.Severity),
				issue.Category,
				issue.Description,
			})
		}
	}
	if len(rows) > 0 {
		out.Table([]string{"ROLE", "SEVERITY", "CATEGORY", "DESCRIPTION"}, rows)
	}
	for _, s := range outcome.Sessions {
		out.Info(fmt.Sprintf("Review session %s (%s): %s, %d proposed change(s)",
			shortID(s.ID), strings.Join(s.Participants, ", "), s.Decision, len(s.Proposals())))
	}
}

// printArtifact prints a document or summarizes a project.
func printArtifact(w io.Writer, out tui.Output, artifact domain.Artifact, written []string, dir string) {
	switch v := artifact.(type) {
	case *domain.MultiFileProject:
		if len(written) > 0 {
			out.Success(fmt.Sprintf("Wrote project %q (%d files) to %s", v.Name, len(v.Files), dir))
		} else {
			out.Info(fmt.Sprintf("Project %q has %d files; pass --out to write them", v.Name, len(v.Files)))
		}
		rows := make([][]string, 0, len(v.Files))
		for _, f := range v.Files {
			rows = append(rows, []string{f.Path, strconv.Itoa(len(f.Content))})
		}
		out.Table([]string{"PATH", "BYTES"}, rows)
		if v.SetupNotes != "" {
			out.Markdown(v.SetupNotes)
		}
	case *domain.SingleDocument:
		if len(written) > 0 {
			out.Success("Wrote " + written[0])
			return
		}
		if looksLikeHTML(v.Content) {
			_, _ = fmt.Fprintln(w, v.Content)
			return
		}
		out.Markdown(v.Content)
	}
}

// shortID trims a session id for display.
func shortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}
	return id[:n]
}

// isMenuCanceled reports whether err came from an aborted prompt.
func isMenuCanceled(err error) bool {
	return stderrors.Is(err, tui.ErrMenuCanceled)
}
