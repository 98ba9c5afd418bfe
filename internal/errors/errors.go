// Package errors provides centralized error handling for forge.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidation indicates that the incoming request was rejected before
	// any generation was attempted (empty or over-length text).
	ErrValidation = errors.New("request validation failed")

	// ErrTransport indicates that a call to the content-generation provider failed.
	// Role-level transport errors are isolated into their RoleResult and only
	// surface through ErrAllRolesFailed.
	ErrTransport = errors.New("generation transport failed")

	// ErrAllRolesFailed indicates that every role in an execution plan failed.
	ErrAllRolesFailed = errors.New("all roles failed")

	// ErrUnknownRole indicates a role id that is not present in the catalog.
	// This is a catalog defect, not a user-recoverable condition.
	ErrUnknownRole = errors.New("unknown role")

	// ErrCatalogInvalid indicates that the embedded role catalog or keyword tables
	// could not be decoded.
	ErrCatalogInvalid = errors.New("invalid embedded catalog")

	// ErrSessionClosed indicates a message was posted to a resolved collaboration session.
	ErrSessionClosed = errors.New("collaboration session closed")

	// ErrClaudeInvocation indicates that the Claude Code CLI failed to execute
	// or returned a non-zero exit code.
	ErrClaudeInvocation = errors.New("claude invocation failed")

	// ErrGeminiInvocation indicates that the Gemini API call failed.
	ErrGeminiInvocation = errors.New("gemini invocation failed")

	// ErrOpenAIInvocation indicates that the OpenAI chat model call failed.
	ErrOpenAIInvocation = errors.New("openai invocation failed")

	// ErrAgentNotFound indicates that no runner is registered for the requested agent.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrAPIKeyMissing indicates the selected API-backed agent has no key in its environment variable.
	ErrAPIKeyMissing = errors.New("api key missing")

	// ErrAIEmptyResponse indicates that the AI returned an empty response.
	ErrAIEmptyResponse = errors.New("AI returned empty response")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidAI indicates an invalid AI configuration value.
	ErrConfigInvalidAI = errors.New("invalid AI configuration")

	// ErrConfigInvalidGeneration indicates an invalid generation configuration value.
	ErrConfigInvalidGeneration = errors.New("invalid generation configuration")

	// ErrConfigInvalidClarification indicates an invalid clarification configuration value.
	ErrConfigInvalidClarification = errors.New("invalid clarification configuration")

	// ErrConfigInvalidCollaboration indicates an invalid collaboration configuration value.
	ErrConfigInvalidCollaboration = errors.New("invalid collaboration configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrPathTraversal indicates an attempt to write a project file outside the output directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrOutputNotEmpty indicates the output directory already has files and
	// overwriting them was neither forced nor confirmed.
	ErrOutputNotEmpty = errors.New("output directory is not empty")

	// ErrReservedPath indicates a project file named like a file forge writes itself.
	ErrReservedPath = errors.New("path reserved by forge")

	// ErrUserInputRequired indicates user input is required but not provided.
	// Commands should exit with code 2 when this error is returned.
	ErrUserInputRequired = errors.New("user input required")

	// ErrMenuCanceled indicates that the user canceled an interactive prompt.
	ErrMenuCanceled = errors.New("menu canceled by user")

	// ErrNoMenuOptions indicates that a selection menu was built without options.
	ErrNoMenuOptions = errors.New("no menu options provided")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
