package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/collab"
	"github.com/mrz1836/forge/internal/ctxutil"
	"github.com/mrz1836/forge/internal/domain"
)

// Escalate opens a collaboration session for report among the origin role, the
// domain owner and qa, records the discussion and automatic fix proposals,
// and closes it with a decision. It returns nil without error when the report
// does not call for escalation.
func Escalate(ctx context.Context, store *collab.Store, report Report, content string) (*collab.Session, error) {
	if !report.Escalate {
		return nil, nil //nolint:nilnil // no session is a valid outcome
	}
	if err := ctxutil.CanceledAt(ctx, "escalate"); err != nil {
		return nil, err
	}

	participants := Reviewers(report.RoleID)
	owner := participants[len(participants)-1]
	if o, ok := domainOwners[report.Domain]; ok {
		owner = o
	}

	sess := store.Open(
		fmt.Sprintf("%s output: %d issue(s), highest %s", report.RoleID, len(report.Issues), report.Highest()),
		report.Issues[0].ID,
		participants...,
	)

	if err := discuss(sess, owner, report, content); err != nil {
		return sess, fmt.Errorf("escalate %s: %w", report.RoleID, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("session_id", sess.ID).
		Str("role_id", report.RoleID).
		Str("decision", sess.Decision).
		Int("messages", len(sess.Messages)).
		Msg("escalation resolved")

	return sess, nil
}

func discuss(sess *collab.Session, owner string, report Report, content string) error {
	if _, err := sess.Post(owner, collab.KindEscalation, summarize(report)); err != nil {
		return err
	}

	for _, issue := range report.Issues {
		if issue.Severity.Rank() > domain.SeverityHigh.Rank() {
			continue
		}
		msg := fmt.Sprintf("[%s] %s", issue.Severity, issue.Description)
		if issue.SuggestedFix != "" {
			msg += ". Suggested fix: " + issue.SuggestedFix
		}
		if _, err := sess.Post(report.RoleID, collab.KindDiscussion, msg); err != nil {
			return err
		}
	}

	_, fixes := AutoFix(content, report.Issues)
	for _, fix := range fixes {
		if _, err := sess.Propose(owner, "automatic fix for "+fix.Category, fix.Change); err != nil {
			return err
		}
	}

	manual := manualCategories(report.Issues)
	validation := fmt.Sprintf("validated %d automatic fix(es); %d issue(s) need manual follow-up", len(fixes), len(manual))
	if _, err := sess.Post("qa", collab.KindValidation, validation); err != nil {
		return err
	}

	return sess.Close(decision(len(fixes), manual))
}

func summarize(report Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d issue(s) found in %s output (confidence %d):", len(report.Issues), report.RoleID, report.Confidence)
	for _, issue := range report.Issues {
		fmt.Fprintf(&b, "\n- [%s] %s", issue.Severity, issue.Category)
	}
	return b.String()
}

func manualCategories(issues []domain.IssueReport) []string {
	var out []string
	for _, issue := range issues {
		if issue.AutoFixable {
			continue
		}
		out = append(out, issue.Category)
	}
	return out
}

func decision(fixes int, manual []string) string {
	switch {
	case len(manual) == 0 && fixes > 0:
		return "apply automatic fixes"
	case len(manual) == 0:
		return "no action required"
	case fixes > 0:
		return "apply automatic fixes; manual follow-up for " + strings.Join(manual, ", ")
	default:
		return "manual follow-up for " + strings.Join(manual, ", ")
	}
}
