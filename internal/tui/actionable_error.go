package tui

import forgeerrors "github.com/mrz1836/forge/internal/errors"

// ActionableError wraps an error with an actionable suggestion.
//
// Example usage:
//
//	err := FromError(missingKeyErr).WithContext("OPENAI_API_KEY is not set")
//	output.Error(err)
//	// Outputs: ✗ The selected AI agent has no API key. (OPENAI_API_KEY is not set)
//	//          ▸ Try: Export the key or pick another --agent.
type ActionableError struct {
	// Message is the primary error message.
	Message string

	// Suggestion provides actionable guidance for resolving the error.
	Suggestion string

	// Context provides optional additional information about the error.
	// When present, it is appended to the message in parentheses.
	Context string

	err error
}

// FromError builds an ActionableError from a sentinel-backed error using the
// user-facing message table. The original error stays reachable via Unwrap.
func FromError(err error) *ActionableError {
	if err == nil {
		return nil
	}
	msg, action := forgeerrors.Actionable(err)
	return &ActionableError{Message: msg, Suggestion: action, err: err}
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	if e.Context != "" {
		return e.Message + " (" + e.Context + ")"
	}
	return e.Message
}

// Unwrap returns the error the ActionableError was built from, if any.
func (e *ActionableError) Unwrap() error {
	return e.err
}

// WithContext adds optional context to the error.
func (e *ActionableError) WithContext(ctx string) *ActionableError {
	e.Context = ctx
	return e
}
