package domain

// Severity ranks an issue report.
type Severity string

// Severity levels, most severe first.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	return string(s)
}

// Rank orders severities; lower is more severe. Unknown severities sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// IssueReport is one heuristic finding against a role's output.
type IssueReport struct {
	ID           string   `json:"id"`
	Severity     Severity `json:"severity"`
	Category     string   `json:"category"`
	OriginRoleID string   `json:"origin_role_id"`
	Description  string   `json:"description"`
	SuggestedFix string   `json:"suggested_fix,omitempty"`
	AutoFixable  bool     `json:"auto_fixable"`
}
