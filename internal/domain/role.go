package domain

// Role is a content-generation specialization from the static catalog.
type Role struct {
	ID           string `json:"id" yaml:"id"`
	DisplayName  string `json:"display_name" yaml:"display_name"`
	Domain       string `json:"domain" yaml:"domain"`
	Instructions string `json:"instructions" yaml:"instructions"`
	Priority     int    `json:"priority" yaml:"priority"`
}

// ExecutionMode controls how the roles of a plan are run.
type ExecutionMode string

// Execution modes.
const (
	ModeParallel   ExecutionMode = "parallel"
	ModeSequential ExecutionMode = "sequential"
)

// String returns the string representation of the ExecutionMode.
func (m ExecutionMode) String() string {
	return string(m)
}

// IsValid reports whether m is a known execution mode.
func (m ExecutionMode) IsValid() bool {
	return m == ModeParallel || m == ModeSequential
}

// ExecutionPlan is built once per request and consumed once by the executor.
// Roles are sorted by ascending priority.
type ExecutionPlan struct {
	Roles                    []Role        `json:"roles"`
	Mode                     ExecutionMode `json:"mode"`
	EstimatedDurationSeconds int           `json:"estimated_duration_seconds"`
}

// RoleIDs returns the ids of the planned roles in order.
func (p ExecutionPlan) RoleIDs() []string {
	ids := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		ids[i] = r.ID
	}
	return ids
}

// RoleResult is the outcome of one role call.
type RoleResult struct {
	RoleID    string `json:"role_id"`
	Output    string `json:"output"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}
