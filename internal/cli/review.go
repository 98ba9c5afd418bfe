package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/forge/internal/collab"
	"github.com/mrz1836/forge/internal/review"
	"github.com/mrz1836/forge/internal/roles"
	"github.com/mrz1836/forge/internal/tui"
)

// ReviewFlags holds flags specific to the review command.
type ReviewFlags struct {
	// Role is the role the content is attributed to.
	Role string
	// Fix applies the automatic fixes and rewrites the file.
	Fix bool
}

// reviewResult is the JSON shape of a review.
type reviewResult struct {
	Report  review.Report   `json:"report"`
	Session *collab.Session `json:"session,omitempty"`
	Fixes   []review.Fix    `json:"fixes,omitempty"`
}

// AddReviewCommand adds the review command to the root command.
func AddReviewCommand(root *cobra.Command, a *app) {
	flags := &ReviewFlags{}

	cmd := &cobra.Command{
		Use:   "review <file>",
		Short: "Scan a file with a role's issue detectors",
		Long: `Scan a file with the issue detectors of a role's domain and, when the
findings warrant it, run a review session among the relevant roles.

Examples:
  forge review index.html --role accessibility
  forge review app.js --role security --output json
  forge review index.html --role designer --fix`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd.Context(), cmd, a, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.Role, "role", "developer", "role the content is attributed to")
	cmd.Flags().BoolVar(&flags.Fix, "fix", false, "apply automatic fixes to the file")

	root.AddCommand(cmd)
}

// runReview executes the review command.
func runReview(ctx context.Context, cmd *cobra.Command, a *app, flags *ReviewFlags, path string) error {
	logger := zerolog.Ctx(ctx)

	if _, err := roles.Lookup(flags.Role); err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, nil)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-selected file
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)

	detector := review.NewDetector(
		review.WithEscalationThreshold(cfg.Collaboration.EscalationIssueThreshold),
		review.WithDetectorLogger(*logger),
	)
	report := detector.Scan(flags.Role, content)

	store := collab.NewStore(collab.WithStoreLogger(*logger))
	sess, err := review.Escalate(ctx, store, report, content)
	if err != nil {
		return err
	}

	var fixes []review.Fix
	if flags.Fix {
		var fixed string
		fixed, fixes = review.AutoFix(content, report.Issues)
		if len(fixes) > 0 {
			if err := os.WriteFile(path, []byte(fixed), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}

	out := a.output(cmd)
	if a.jsonOutput() {
		result := reviewResult{Report: report, Fixes: fixes}
		if sess != nil {
			snap := sess.Snapshot()
			result.Session = &snap
		}
		return out.JSON(result)
	}

	if len(report.Issues) == 0 {
		out.Success(fmt.Sprintf("No issues found for %s (confidence %d)", flags.Role, report.Confidence))
	} else {
		rows := make([][]string, 0, len(report.Issues))
		for _, issue := range report.Issues {
			rows = append(rows, []string{tui.FormatSeverity(issue.Severity), issue.Category, issue.Description, orDash(issue.SuggestedFix)})
		}
		out.Table([]string{"SEVERITY", "CATEGORY", "DESCRIPTION", "SUGGESTED FIX"}, rows)
		out.Info(fmt.Sprintf("%d issue(s), confidence %d", len(report.Issues), report.Confidence))
	}

	if store.Len() == 0 && len(report.Issues) > 0 {
		out.Info("Findings stay below the escalation threshold; no review session opened")
	}
	for _, s := range store.List() {
		printSession(out, s)
	}
	if flags.Fix {
		out.Success(fmt.Sprintf("Applied %d fix(es) to %s", len(fixes), path))
	}
	return nil
}

// printSession prints a review session transcript followed by its proposed
// changes.
func printSession(out tui.Output, sess *collab.Session) {
	out.Info(fmt.Sprintf("Review session %s: %s", shortID(sess.ID), sess.Topic))
	var sb strings.Builder
	for _, m := range sess.Messages {
		fmt.Fprintf(&sb, "- **%s** (%s): %s\n", m.From, m.Kind, m.Content)
	}
	if sess.Decision != "" {
		fmt.Fprintf(&sb, "\n**Decision:** %s\n", sess.Decision)
	}
	if proposals := sess.Proposals(); len(proposals) > 0 {
		sb.WriteString("\n### Proposed changes\n")
		for _, m := range proposals {
			if m.Change == nil {
				continue
			}
			fmt.Fprintf(&sb, "\n%d. from **%s**\n\n```diff\n%s%s```\n", m.Seq, m.From, diffLines("-", m.Change.Before), diffLines("+", m.Change.After))
		}
	}
	out.Markdown(sb.String())
}

// diffLines prefixes every line of s with mark.
func diffLines(mark, s string) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	for line := range strings.SplitSeq(strings.TrimRight(s, "\n"), "\n") {
		sb.WriteString(mark + line + "\n")
	}
	return sb.String()
}
