package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/forge/internal/domain"
	"github.com/mrz1836/forge/internal/pipeline"
	"github.com/mrz1836/forge/internal/tui"
)

// PlanFlags holds flags specific to the plan command.
type PlanFlags struct {
	// Docs are files attached to the request as plain text.
	Docs []string
	// Defaults previews the plan with every question settled by its default.
	Defaults bool
	// Mode forces parallel or sequential execution.
	Mode string
}

// AddPlanCommand adds the plan command to the root command.
func AddPlanCommand(root *cobra.Command, a *app) {
	flags := &PlanFlags{}

	cmd := &cobra.Command{
		Use:   "plan <request...>",
		Short: "Show how a request would be handled without calling a provider",
		Long: `Show the requirement record, intent, clarification decision and execution
plan for a request. No provider is called.

Examples:
  forge plan "an online shop with stripe payments"
  forge plan "crée une todo list" --defaults
  forge plan "a dashboard" --mode sequential --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), cmd, a, flags, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringArrayVar(&flags.Docs, "doc", nil, "attach a text document (repeatable)")
	cmd.Flags().BoolVar(&flags.Defaults, "defaults", false, "settle every question with its default")
	cmd.Flags().StringVar(&flags.Mode, "mode", "", "force execution mode (parallel|sequential)")

	root.AddCommand(cmd)
}

// runPlan executes the plan command.
func runPlan(ctx context.Context, cmd *cobra.Command, a *app, flags *PlanFlags, request string) error {
	logger := zerolog.Ctx(ctx)

	overrides := configOverrides("", "", "", flags.Mode)
	cfg, err := loadConfig(ctx, overrides)
	if err != nil {
		return err
	}

	docs, err := readDocuments(flags.Docs)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, nil, pipeline.WithLogger(*logger))
	if err != nil {
		return err
	}

	outcome, err := p.Preview(ctx, pipeline.Turn{Request: request, Documents: docs, UseDefaults: flags.Defaults})
	if err != nil {
		return err
	}

	out := a.output(cmd)
	if a.jsonOutput() {
		return out.JSON(outcome)
	}

	printRecord(out, outcome.Intent, outcome.Record)
	if outcome.NeedsAnswer() {
		out.Markdown(bundleMarkdown(outcome.Bundle))
		return nil
	}
	out.Info("No clarification needed")
	if outcome.Plan != nil {
		printPlan(out, *outcome.Plan)
	}
	return nil
}

// printRecord prints the intent and requirement record as a key/value table.
func printRecord(out tui.Output, intent domain.Intent, r domain.RequirementRecord) {
	features := make([]string, 0, len(r.FeatureList()))
	for _, f := range r.FeatureList() {
		features = append(features, string(f))
	}

	rows := [][]string{
		{"intent", string(intent.Kind)},
		{"app type", orDash(r.AppType.String())},
		{"design", orDash(r.Design.String())},
		{"features", orDash(strings.Join(features, ", "))},
		{"complexity", r.Complexity.String()},
	}
	if len(r.Stack) > 0 {
		rows = append(rows, []string{"stack", strings.Join(r.Stack, ", ")})
	}
	if r.PaymentProvider != "" {
		rows = append(rows, []string{"payment provider", r.PaymentProvider})
	}
	if r.Database {
		rows = append(rows, []string{"database", orDash(r.DatabaseProduct)})
	}
	out.Table([]string{"FIELD", "VALUE"}, rows)
}

// printPlan prints the scheduled roles in order.
func printPlan(out tui.Output, plan domain.ExecutionPlan) {
	out.Info(fmt.Sprintf("%d role(s), %s mode, about %ds", len(plan.Roles), plan.Mode, plan.EstimatedDurationSeconds))
	rows := make([][]string, 0, len(plan.Roles))
	for i, role := range plan.Roles {
		rows = append(rows, []string{strconv.Itoa(i + 1), role.ID, role.DisplayName})
	}
	out.Table([]string{"#", "ROLE", "NAME"}, rows)
}

// orDash renders an empty value as "-".
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
