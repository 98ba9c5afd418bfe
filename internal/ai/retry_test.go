package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
		{"auth", errTestAuthFailed, false},
		{"env var name", fmt.Errorf("GEMINI_API_KEY missing"), false},
		{"json", fmt.Errorf("%w: failed to parse json response", forgeerrors.ErrClaudeInvocation), false},
		{"cli missing", errTestExecMissing, false},
		{"network", errTestNetwork, true},
		{"rate limit", fmt.Errorf("429 too many requests"), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, isRetryable(tc.err))
		})
	}
}
