package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

func TestNewOutput_SelectsImplementation(t *testing.T) {
	var buf bytes.Buffer

	_, isJSON := NewOutput(&buf, FormatJSON).(*JSONOutput)
	assert.True(t, isJSON)

	_, isTTY := NewOutput(&buf, FormatText).(*TTYOutput)
	assert.True(t, isTTY)

	_, isTTY = NewOutput(&buf, "").(*TTYOutput)
	assert.True(t, isTTY)
}

func TestTTYOutput_Messages(t *testing.T) {
	tests := []struct {
		name  string
		write func(o *TTYOutput)
		icon  string
		text  string
	}{
		{"success", func(o *TTYOutput) { o.Success("project written") }, "✓", "project written"},
		{"warning", func(o *TTYOutput) { o.Warning("role failed") }, "⚠", "role failed"},
		{"info", func(o *TTYOutput) { o.Info("planning") }, "ℹ", "planning"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.write(NewTTYOutput(&buf))
			assert.Contains(t, buf.String(), tc.icon)
			assert.Contains(t, buf.String(), tc.text)
		})
	}
}

func TestTTYOutput_Error(t *testing.T) {
	t.Run("sentinel adds suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		NewTTYOutput(&buf).Error(fmt.Errorf("%w: 3 role(s) attempted", forgeerrors.ErrAllRolesFailed))

		out := buf.String()
		assert.Contains(t, out, "✗")
		assert.Contains(t, out, "all roles failed")
		assert.Contains(t, out, "▸ Try:")
	})

	t.Run("actionable error", func(t *testing.T) {
		var buf bytes.Buffer
		NewTTYOutput(&buf).Error((&ActionableError{Message: "no key", Suggestion: "Export ANTHROPIC_API_KEY"}).WithContext("claude"))

		out := buf.String()
		assert.Contains(t, out, "no key (claude)")
		assert.Contains(t, out, "Export ANTHROPIC_API_KEY")
	})

	t.Run("plain error has no suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		NewTTYOutput(&buf).Error(errors.New("boom")) //nolint:err113 // test error

		assert.Contains(t, buf.String(), "boom")
		assert.NotContains(t, buf.String(), "Try:")
	})
}

func TestTTYOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Table([]string{"ID", "PRIORITY"}, [][]string{
		{"architect", "1"},
		{"qa"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "PRIORITY")
	assert.Contains(t, lines[1], "architect")
	assert.Equal(t, "qa", strings.TrimSpace(lines[2]))
}

func TestTTYOutput_TableWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTTYOutput(&buf).Table(nil, [][]string{{"x"}})
	assert.Empty(t, buf.String())
}

func TestTTYOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTTYOutput(&buf).JSON(map[string]int{"roles": 2}))
	assert.Contains(t, buf.String(), "\"roles\": 2")
}

func TestTTYOutput_JSONEncodeError(t *testing.T) {
	var buf bytes.Buffer
	err := NewTTYOutput(&buf).JSON(make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestJSONOutput_Messages(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("done")
	out.Warning("careful")
	out.Info("fyi")

	dec := json.NewDecoder(&buf)
	for _, want := range []jsonMessage{
		{Type: "success", Message: "done"},
		{Type: "warning", Message: "careful"},
		{Type: "info", Message: "fyi"},
	} {
		var got jsonMessage
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}
}

func TestJSONOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	err := fmt.Errorf("%w: empty request", forgeerrors.ErrValidation)
	NewJSONOutput(&buf).Error(err)

	var got jsonError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "error", got.Type)
	assert.Equal(t, err.Error(), got.Message)
	assert.Equal(t, forgeerrors.ErrValidation.Error(), got.Details)
	assert.NotEmpty(t, got.Suggestion)
}

func TestJSONOutput_ActionableError(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Error((&ActionableError{Message: "bad", Suggestion: "fix it"}).WithContext("ctx"))

	var got jsonError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "fix it", got.Suggestion)
	assert.Equal(t, "ctx", got.Context)
}

func TestJSONOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Table([]string{"id", "mode"}, [][]string{{"developer", "parallel"}, {"qa"}})

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]string{
		{"id": "developer", "mode": "parallel"},
		{"id": "qa", "mode": ""},
	}, got)
}

func TestJSONOutput_TableWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Table(nil, nil)
	assert.JSONEq(t, "[]", buf.String())
}

func TestJSONOutput_Markdown(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Markdown("# Questions")

	var got jsonMarkdown
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, jsonMarkdown{Type: "markdown", Content: "# Questions"}, got)
}

func TestActionableError_FromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	ae := FromError(forgeerrors.ErrUserInputRequired)
	require.NotNil(t, ae)
	assert.Contains(t, ae.Suggestion, "--defaults")
	require.ErrorIs(t, ae, forgeerrors.ErrUserInputRequired)
}
