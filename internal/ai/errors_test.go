package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

func TestWrapCLIExecutionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		stderr   string
		contains string
	}{
		{"cli missing", errTestExecMissing, "", "claude CLI not found - please install claude code"},
		{"command not found in stderr", errTestExitStatus1, "zsh: command not found: claude", "CLI not found"},
		{"api key", errTestExitStatus1, "Invalid API key", "API key error"},
		{"env var", errTestExitStatus1, "ANTHROPIC_API_KEY is not set", "API key error"},
		{"stderr passthrough", errTestExitStatus1, "  overloaded  ", "claude invocation failed: overloaded"},
		{"no stderr", errTestExitStatus1, "", "claude invocation failed: exit status 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := WrapCLIExecutionError(claudeCLIInfo, tc.err, []byte(tc.stderr))

			require.ErrorIs(t, err, forgeerrors.ErrClaudeInvocation)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestWrapAPIError(t *testing.T) {
	t.Parallel()

	err := WrapAPIError(geminiInfo, errTestAuthFailed)
	require.ErrorIs(t, err, forgeerrors.ErrGeminiInvocation)
	assert.Contains(t, err.Error(), "check GEMINI_API_KEY")

	err = WrapAPIError(geminiInfo, errTestNetwork)
	require.ErrorIs(t, err, forgeerrors.ErrGeminiInvocation)
	require.ErrorIs(t, err, errTestNetwork)
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	resp, err := parseClaudeResponse([]byte(claudeSuccessJSON))
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.SessionID)

	_, err = parseResponse[ClaudeResponse]([]byte(`{`), forgeerrors.ErrClaudeInvocation)
	require.ErrorIs(t, err, forgeerrors.ErrClaudeInvocation)
	assert.Contains(t, err.Error(), "(1 bytes)")
}
