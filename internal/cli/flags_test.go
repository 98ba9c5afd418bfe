package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/forge/internal/errors"
)

func TestExitCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitError)
	assert.Equal(t, 2, ExitInvalidInput)
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat("text"))
	assert.True(t, IsValidOutputFormat("json"))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.ErrAllRolesFailed, ExitError},
		{"exit code 2 wrapper", errors.NewExitCode2Error(errors.ErrUserInputRequired), ExitInvalidInput},
		{"json already printed", errors.NewExitCode2Error(errors.ErrJSONErrorOutput), ExitInvalidInput},
		{"invalid output format", fmt.Errorf("%w: yaml", errors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"validation", fmt.Errorf("request: %w", errors.ErrValidation), ExitInvalidInput},
		{"unknown role", fmt.Errorf("%w: %q", errors.ErrUnknownRole, "wizard"), ExitInvalidInput},
		{"cobra unknown flag", fmt.Errorf("unknown flag: --nope"), ExitInvalidInput}, //nolint:err113 // mimics cobra
		{"cobra args", fmt.Errorf("requires at least 1 arg(s), only received 0"), ExitInvalidInput}, //nolint:err113 // mimics cobra
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}
