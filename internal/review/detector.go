package review

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/constants"
	"github.com/mrz1836/forge/internal/domain"
)

// Confidence scoring.
const (
	baselineConfidence  = 90
	manyFindings        = 10
	manyFindingsPenalty = 20
	shortContentRunes   = 200
	shortContentPenalty = 30
	criticalBoost       = 5
)

// Report is the outcome of scanning one role's output.
type Report struct {
	RoleID string               `json:"role_id"`
	Domain Domain               `json:"domain"`
	Issues []domain.IssueReport `json:"issues"`

	// Confidence is advisory telemetry in [0,100]. It never gates delivery.
	Confidence int  `json:"confidence"`
	Escalate   bool `json:"escalate"`
}

// Highest returns the most severe issue severity, or "" when there are none.
func (r Report) Highest() domain.Severity {
	if len(r.Issues) == 0 {
		return ""
	}
	return r.Issues[0].Severity
}

// Detector scans role outputs with the rules of each role's domain.
type Detector struct {
	threshold int
	newID     func() string
	logger    zerolog.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithEscalationThreshold escalates reports holding more than n issues.
func WithEscalationThreshold(n int) DetectorOption {
	return func(d *Detector) {
		d.threshold = n
	}
}

// WithIDGenerator replaces the issue id generator.
func WithIDGenerator(fn func() string) DetectorOption {
	return func(d *Detector) {
		d.newID = fn
	}
}

// WithDetectorLogger sets the detector's logger.
func WithDetectorLogger(logger zerolog.Logger) DetectorOption {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector creates a Detector.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		threshold: constants.DefaultEscalationIssueThreshold,
		newID:     uuid.NewString,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Scan checks content produced by roleID. Issues are ordered by severity, most
// severe first, then by rule order. Roles without a domain yield no issues.
func (d *Detector) Scan(roleID, content string) Report {
	report := Report{RoleID: roleID, Domain: DomainFor(roleID), Issues: []domain.IssueReport{}}

	for _, rule := range RulesFor(report.Domain) {
		n := rule.Match(content)
		if n <= 0 {
			continue
		}
		desc := rule.Description
		if n > 1 {
			desc = fmt.Sprintf("%s (%d occurrences)", desc, n)
		}
		report.Issues = append(report.Issues, domain.IssueReport{
			ID:           d.newID(),
			Severity:     rule.Severity,
			Category:     rule.Category,
			OriginRoleID: roleID,
			Description:  desc,
			SuggestedFix: rule.SuggestedFix,
			AutoFixable:  rule.AutoFixable,
		})
	}

	slices.SortStableFunc(report.Issues, func(a, b domain.IssueReport) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})

	report.Confidence = confidence(report.Issues, content)
	report.Escalate = shouldEscalate(report.Issues, d.threshold)

	d.logger.Debug().
		Str("role_id", roleID).
		Str("domain", report.Domain.String()).
		Int("issues", len(report.Issues)).
		Int("confidence", report.Confidence).
		Bool("escalate", report.Escalate).
		Msg("role output scanned")

	return report
}

func confidence(issues []domain.IssueReport, content string) int {
	score := baselineConfidence
	if len(issues) > manyFindings {
		score -= manyFindingsPenalty
	}
	if utf8.RuneCountInString(content) < shortContentRunes {
		score -= shortContentPenalty
	}
	if slices.ContainsFunc(issues, func(i domain.IssueReport) bool { return i.Severity == domain.SeverityCritical }) {
		score += criticalBoost
	}
	return min(max(score, 0), 100)
}

func shouldEscalate(issues []domain.IssueReport, threshold int) bool {
	if len(issues) > threshold {
		return true
	}
	return slices.ContainsFunc(issues, func(i domain.IssueReport) bool {
		return i.Severity == domain.SeverityCritical || i.Severity == domain.SeverityHigh
	})
}
