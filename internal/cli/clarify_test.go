package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/forge/internal/clarify"
	"github.com/mrz1836/forge/internal/tui"
)

func sampleBundle() *clarify.Bundle {
	return &clarify.Bundle{
		Message: "A couple of details before I start.",
		Questions: []clarify.Question{
			{
				Field:   clarify.FieldAppType,
				Prompt:  "What kind of application?",
				Options: []string{"web-app", "landing-page", "e-commerce"},
				Default: "web-app",
			},
		},
	}
}

func TestAskBundle_NoTerminal(t *testing.T) {
	t.Parallel()

	// Without a TTY the menu cannot run and reports a cancel.
	_, err := askBundle(tuiPrompter{}, sampleBundle())
	require.ErrorIs(t, err, tui.ErrMenuCanceled)
	assert.True(t, isMenuCanceled(err))
}

func TestAskBundle_Answers(t *testing.T) {
	t.Parallel()

	bundle := sampleBundle()
	bundle.Questions = append(bundle.Questions,
		clarify.Question{Field: clarify.FieldDesign, Prompt: "Which style?", Options: []string{"modern", "minimal"}, Default: "modern"},
		clarify.Question{Field: clarify.FieldDatabaseProduct, Prompt: "Which database?", Default: "postgresql"},
	)

	tests := []struct {
		name    string
		prompts *fakePrompter
		want    string
	}{
		{
			name:    "defaults up front",
			prompts: &fakePrompter{selects: []string{useDefaultsReply}},
			want:    useDefaultsReply,
		},
		{
			name:    "menu picks and free text",
			prompts: &fakePrompter{selects: []string{"answer", "e-commerce", "minimal"}, inputs: []string{"mysql"}},
			want:    "e-commerce, minimal, mysql",
		},
		{
			name:    "other pick switches to free text",
			prompts: &fakePrompter{selects: []string{"answer", "web-app", otherAnswer}, inputs: []string{"dark", "  "}},
			want:    "web-app, dark, postgresql",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := askBundle(tc.prompts, bundle)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
