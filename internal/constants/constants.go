// Package constants provides centralized constant values used throughout forge.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by forge for organizing data.
const (
	// ForgeHome is the hidden directory name where forge stores its data.
	// This directory is created in the user's home directory.
	ForgeHome = ".forge"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Timeout configurations for provider calls.
const (
	// DefaultAITimeout is the default maximum duration for a single provider call.
	// Timeouts are enforced by the transport; the role executor never imposes its own.
	DefaultAITimeout = 10 * time.Minute
)

// Retry configuration for the transport layer.
const (
	// DefaultMaxRetryAttempts is the default number of transport attempts per call.
	// One attempt means no retry; the role executor itself never retries.
	DefaultMaxRetryAttempts = 1

	// InitialBackoff is the initial backoff duration before the first retry.
	InitialBackoff = 1 * time.Second

	// BackoffMultiplier is the factor applied to the backoff after each retry.
	BackoffMultiplier = 2
)

// Request limits.
const (
	// DefaultMaxRequestLength is the maximum number of runes accepted in a request.
	DefaultMaxRequestLength = 10000

	// DefaultDocumentCharCap is the maximum number of runes kept per attached document.
	DefaultDocumentCharCap = 20000

	// TruncationMarker is appended to attached documents cut at the cap.
	TruncationMarker = "\n[... truncated ...]"
)

// Execution plan estimates. These are UX hints, not measurements.
const (
	// ParallelEstimateSeconds is the flat estimate for a parallel plan.
	ParallelEstimateSeconds = 30

	// SequentialSecondsPerRole is the per-role estimate for a sequential plan.
	SequentialSecondsPerRole = 10
)

// Collaboration defaults.
const (
	// DefaultSessionMaxAge is how long a resolved collaboration session is kept.
	DefaultSessionMaxAge = time.Hour

	// DefaultEscalationIssueThreshold is the issue count above which a scan escalates.
	DefaultEscalationIssueThreshold = 3
)

// Clarification defaults.
const (
	// DefaultMaxClarificationRounds is how many question turns are asked before
	// every unresolved field falls back to its default.
	DefaultMaxClarificationRounds = 1
)

// Log file rotation.
const (
	// LogMaxSizeMB is the size at which the CLI log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is how many rotated log files are kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated log files are kept.
	LogMaxAgeDays = 28

	// LogCompress gzips rotated log files.
	LogCompress = true
)
