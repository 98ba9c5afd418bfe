package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice rather than a map because errors.Is() must walk wrapped chains in order;
// the most specific sentinels come first.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Request lifecycle
	// ===================
	{
		err: ErrValidation,
		info: ErrorInfo{
			Message: "The request was rejected before generation started.",
			Action:  "Describe the application you want in a non-empty request within the configured length limit.",
		},
	},
	{
		err: ErrAllRolesFailed,
		info: ErrorInfo{
			Message: "Every generation role failed, so no artifact could be produced.",
			Action:  "Check your provider credentials and network access, then retry with --verbose for details.",
		},
	},
	{
		err: ErrUserInputRequired,
		info: ErrorInfo{
			Message: "A clarification answer is required before generation can start.",
			Action:  "Re-run with --answer \"...\" or --defaults to accept the suggested defaults.",
		},
	},

	// ===================
	// Providers
	// ===================
	{
		err: ErrClaudeInvocation,
		info: ErrorInfo{
			Message: "Failed to communicate with Claude. Check your API key and network.",
			Action:  "Verify ANTHROPIC_API_KEY is set correctly and the claude CLI is installed.",
		},
	},
	{
		err: ErrGeminiInvocation,
		info: ErrorInfo{
			Message: "Failed to communicate with Gemini. Check your API key and network.",
			Action:  "Verify GEMINI_API_KEY is set correctly and you have network access.",
		},
	},
	{
		err: ErrOpenAIInvocation,
		info: ErrorInfo{
			Message: "Failed to communicate with OpenAI. Check your API key and network.",
			Action:  "Verify OPENAI_API_KEY is set correctly and you have network access.",
		},
	},
	{
		err: ErrAgentNotFound,
		info: ErrorInfo{
			Message: "The configured AI agent is not available.",
			Action:  "Set ai.agent to one of: claude, gemini, openai.",
		},
	},
	{
		err: ErrAPIKeyMissing,
		info: ErrorInfo{
			Message: "The selected AI agent has no API key.",
			Action:  "Export the key or pick another --agent.",
		},
	},
	{
		err: ErrAIEmptyResponse,
		info: ErrorInfo{
			Message: "The AI provider returned an empty response.",
			Action:  "Retry the request; if it persists, try a different model.",
		},
	},
	{
		err: ErrTransport,
		info: ErrorInfo{
			Message: "A call to the generation provider failed.",
			Action:  "Retry with --verbose to see the provider error.",
		},
	},

	// ===================
	// Catalog & configuration
	// ===================
	{
		err: ErrUnknownRole,
		info: ErrorInfo{
			Message: "A role id is missing from the built-in catalog. This is a bug.",
			Action:  "Please report this issue with the command you ran.",
		},
	},
	{
		err: ErrCatalogInvalid,
		info: ErrorInfo{
			Message: "The built-in catalog could not be loaded. This is a bug.",
			Action:  "Please report this issue with the command you ran.",
		},
	},
	{
		err: ErrConfigInvalidAI,
		info: ErrorInfo{
			Message: "The AI configuration is invalid.",
			Action:  "Run 'forge config show' and fix the ai section of your config.",
		},
	},
	{
		err: ErrConfigInvalidGeneration,
		info: ErrorInfo{
			Message: "The generation configuration is invalid.",
			Action:  "Run 'forge config show' and fix the generation section of your config.",
		},
	},
	{
		err: ErrConfigInvalidClarification,
		info: ErrorInfo{
			Message: "The clarification configuration is invalid.",
			Action:  "Run 'forge config show' and fix the clarification section of your config.",
		},
	},
	{
		err: ErrConfigInvalidCollaboration,
		info: ErrorInfo{
			Message: "The collaboration configuration is invalid.",
			Action:  "Run 'forge config show' and fix the collaboration section of your config.",
		},
	},

	// ===================
	// CLI
	// ===================
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format specified.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrPathTraversal,
		info: ErrorInfo{
			Message: "A generated file path points outside the output directory.",
			Action:  "The file was not written. Inspect the artifact with --output json.",
		},
	},
	{
		err: ErrOutputNotEmpty,
		info: ErrorInfo{
			Message: "The output directory already has files.",
			Action:  "Pass --force to overwrite them or choose another --out.",
		},
	},
	{
		err: ErrReservedPath,
		info: ErrorInfo{
			Message: "A generated file uses a name forge writes itself.",
			Action:  "Nothing was written. Inspect the artifact with --output json.",
		},
	},
	{
		err: ErrMenuCanceled,
		info: ErrorInfo{
			Message: "Operation canceled.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
